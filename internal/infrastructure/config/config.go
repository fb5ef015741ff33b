package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Anzel0/New-Bot/internal/domain"
)

// Load reads the YAML config at path (a missing file is allowed), applies
// environment overrides and defaults, and validates the result.
func Load(path string) (*domain.Config, error) {
	cfg := &domain.Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *domain.Config) {
	setString(&cfg.Bot.Token, "BOT_TOKEN")
	setString(&cfg.Bot.APIEndpoint, "TELEGRAM_API_ENDPOINT")
	setString(&cfg.Bot.FileEndpoint, "TELEGRAM_FILE_ENDPOINT")
	setString(&cfg.Transform.Backend, "TRANSFORM_BACKEND")
	setString(&cfg.Transform.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&cfg.Transform.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&cfg.Transform.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setString(&cfg.Transform.FFmpeg.Binary, "FFMPEG_BINARY")
	setString(&cfg.Processing.DownloadDir, "DOWNLOAD_DIR")
	setString(&cfg.Language.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Language.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Metrics.Addr, "METRICS_ADDR")
	setString(&cfg.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("MAX_VIDEO_SIZE_MB"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Processing.MaxVideoSizeMB = n
		}
	}
	if os.Getenv("METRICS_ADDR") != "" {
		cfg.Metrics.Enabled = true
	}
	if cfg.Language.Redis.Addr != "" && cfg.Language.Store == "" {
		cfg.Language.Store = "redis"
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func applyDefaults(cfg *domain.Config) {
	if cfg.Processing.MaxConcurrent <= 0 {
		cfg.Processing.MaxConcurrent = 2
	}
	if cfg.Processing.MaxVideoSizeMB <= 0 {
		cfg.Processing.MaxVideoSizeMB = 4000
	}
	if cfg.Processing.DownloadDir == "" {
		cfg.Processing.DownloadDir = "downloads"
	}
	if cfg.Processing.ProgressInterval <= 0 {
		cfg.Processing.ProgressInterval = 3 * time.Second
	}
	if cfg.Language.Default == "" {
		cfg.Language.Default = domain.LangSpanish
	}
	if cfg.Language.Store == "" {
		cfg.Language.Store = "memory"
	}
	if cfg.Janitor.Schedule == "" {
		cfg.Janitor.Schedule = "@every 30m"
	}
	if cfg.Janitor.MaxAge <= 0 {
		cfg.Janitor.MaxAge = 6 * time.Hour
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Transform.Backend == "" || cfg.Transform.Backend == domain.BackendAuto {
		cfg.Transform.Backend = domain.BackendFFmpeg
		c := cfg.Transform.Cloudinary
		if c.CloudName != "" && c.APIKey != "" && c.APISecret != "" {
			cfg.Transform.Backend = domain.BackendCloudinary
		}
	}
}

// Validate checks required settings
func Validate(cfg *domain.Config) error {
	if cfg.Bot.Token == "" || cfg.Bot.Token == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("bot token is required (BOT_TOKEN or bot.token)")
	}
	switch cfg.Transform.Backend {
	case domain.BackendCloudinary:
		c := cfg.Transform.Cloudinary
		if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
			return errors.New("cloudinary backend requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	case domain.BackendFFmpeg:
	default:
		return fmt.Errorf("unknown transform backend %q", cfg.Transform.Backend)
	}
	switch cfg.Language.Store {
	case "memory":
	case "redis":
		if cfg.Language.Redis.Addr == "" {
			return errors.New("redis language store requires an address")
		}
	default:
		return fmt.Errorf("unknown language store %q", cfg.Language.Store)
	}
	return nil
}
