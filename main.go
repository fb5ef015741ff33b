package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Anzel0/New-Bot/internal/application/service"
	"github.com/Anzel0/New-Bot/internal/application/usecase"
	"github.com/Anzel0/New-Bot/internal/domain"
	"github.com/Anzel0/New-Bot/internal/infrastructure/cloudinary"
	"github.com/Anzel0/New-Bot/internal/infrastructure/config"
	"github.com/Anzel0/New-Bot/internal/infrastructure/ffmpeg"
	"github.com/Anzel0/New-Bot/internal/infrastructure/metrics"
	"github.com/Anzel0/New-Bot/internal/infrastructure/storage"
	"github.com/Anzel0/New-Bot/internal/infrastructure/telegram"
	"github.com/Anzel0/New-Bot/internal/infrastructure/tracing"
	presentation "github.com/Anzel0/New-Bot/internal/presentation/telegram"
)

var version = "dev"

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:           "new-bot",
	Short:         "Telegram bot that compresses videos",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		return run(cmd.Context(), cfg, logger)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and the transform backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		if cfg.Transform.Backend == domain.BackendFFmpeg {
			if err := ffmpeg.CheckFFmpeg(cmd.Context(), cfg.Transform.FFmpeg.Binary); err != nil {
				return fmt.Errorf("ffmpeg not found: %w", err)
			}
		}
		logger.Info("configuration ok", "backend", cfg.Transform.Backend, "language_store", cfg.Language.Store)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(checkCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup() (*domain.Config, *slog.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
		cfg.Bot.Debug = true
	}
	return cfg, newLogger(cfg.Log.Level), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newTransformer(cfg *domain.Config) (usecase.Transformer, error) {
	if cfg.Transform.Backend == domain.BackendCloudinary {
		c := cfg.Transform.Cloudinary
		return cloudinary.NewCompressor(c.CloudName, c.APIKey, c.APISecret, c.Folder)
	}
	return ffmpeg.NewConverter(cfg.Transform.FFmpeg.Binary, cfg.Transform.FFmpeg.Preset), nil
}

func newLanguageStore(ctx context.Context, cfg *domain.Config) (domain.LanguageStore, func() error, error) {
	if cfg.Language.Store != "redis" {
		return domain.NewUserLanguage(), func() error { return nil }, nil
	}
	r := cfg.Language.Redis
	store, err := storage.NewRedisLanguageStore(ctx, storage.RedisConfig{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
		Prefix:   r.Prefix,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func run(ctx context.Context, cfg *domain.Config, logger *slog.Logger) error {
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Setup(os.Stderr, version)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(sctx)
		}()
	}

	files, err := storage.NewFileStorage(cfg.Processing.DownloadDir, nil)
	if err != nil {
		return err
	}

	transformer, err := newTransformer(cfg)
	if err != nil {
		return err
	}

	langStore, closeLang, err := newLanguageStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeLang() }()

	bot, err := telegram.NewBot(cfg.Bot.Token, cfg.Bot.APIEndpoint, cfg.Bot.FileEndpoint, files, logger)
	if err != nil {
		return err
	}
	bot.SetDebug(cfg.Bot.Debug)
	logger.Info("bot started", "username", bot.GetSelf().UserName, "backend", cfg.Transform.Backend,
		"max_concurrent", cfg.Processing.MaxConcurrent, "max_video_size_mb", cfg.Processing.MaxVideoSizeMB)

	m := metrics.New()
	sessions := storage.NewSessionStore(files, logger)
	sessions.OnSizeChange(m.SetSessions)

	localeSvc := service.NewLocaleService(langStore, cfg.Language.Default, logger)
	status := service.NewStatusEditor(bot, service.Sleep, logger)
	progress := service.NewProgressReporter(status, cfg.Processing.ProgressInterval, nil)

	// Pipeline runs outlive the update loop so in-flight work can finish.
	runCtx, cancelRuns := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelRuns()

	queueMgr := usecase.NewQueueManager(runCtx, domain.NewPipelineQueue(cfg.Processing.MaxConcurrent), status, localeSvc, m, logger)
	pipeline := usecase.NewPipeline(bot, transformer, files, status, progress, m, logger)
	conversation := usecase.NewConversation(sessions, files, pipeline, queueMgr, bot, status, localeSvc, m, logger, cfg.Processing.MaxVideoSizeMB)
	handler := presentation.NewHandler(bot, conversation, localeSvc, cfg, logger)

	janitor, err := storage.NewJanitor(files.Dir(), cfg.Janitor.Schedule, cfg.Janitor.MaxAge, logger)
	if err != nil {
		return err
	}
	janitor.Protect(files.InUse)
	janitor.Start()
	defer janitor.Stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Addr, m)
		g.Go(srv.Start)
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
		logger.Info("metrics server listening", "addr", cfg.Metrics.Addr)
	}

	g.Go(func() error {
		queueMgr.StartQueueUpdater(gctx)
		return nil
	})

	// Each chat is served in order on its own goroutine so one chat's flood
	// wait never stalls another.
	dispatcher := usecase.NewChatDispatcher()
	g.Go(func() error {
		updates := bot.GetUpdatesChan(60)
		for {
			select {
			case <-gctx.Done():
				bot.StopReceivingUpdates()
				return nil
			case update, ok := <-updates:
				if !ok {
					return nil
				}
				chatID, ok := presentation.UpdateChatID(update)
				if !ok {
					continue
				}
				dispatcher.Dispatch(chatID, func() { handler.HandleUpdate(runCtx, update) })
			}
		}
	})

	err = g.Wait()
	logger.Info("shutting down, waiting for running tasks")

	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		queueMgr.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Warn("tasks still running at shutdown")
		cancelRuns()
	}
	return err
}
