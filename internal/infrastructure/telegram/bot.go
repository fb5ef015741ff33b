package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/Anzel0/New-Bot/internal/domain"
	"github.com/Anzel0/New-Bot/internal/infrastructure/storage"
)

// Telegram allows roughly 30 requests per second per bot.
const requestsPerSecond = 30

// Bot wraps Telegram Bot API and implements the messaging gateway
type Bot struct {
	api          *tgbotapi.BotAPI
	fileEndpoint string
	files        *storage.FileStorage
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// NewBot creates a new Telegram bot instance. An empty endpoint uses the
// public Bot API; an empty fileEndpoint is derived from endpoint.
func NewBot(token, endpoint, fileEndpoint string, files *storage.FileStorage, logger *slog.Logger) (*Bot, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if fileEndpoint == "" {
		fileEndpoint = FileEndpointFor(endpoint)
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:          api,
		fileEndpoint: fileEndpoint,
		files:        files,
		limiter:      rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:       logger,
	}, nil
}

// FileEndpointFor derives the file download route from a Bot API endpoint of
// the form "<base>/bot%s/%s". Other shapes fall back to the public route.
func FileEndpointFor(apiEndpoint string) string {
	const methodRoute = "/bot%s/%s"
	if base, ok := strings.CutSuffix(apiEndpoint, methodRoute); ok && base != "" {
		return base + "/file" + methodRoute
	}
	return tgbotapi.FileEndpoint
}

func (b *Bot) request(ctx context.Context, c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := b.api.Request(c)
	return resp, classifyError(err)
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return tgbotapi.Message{}, err
	}
	msg, err := b.api.Send(c)
	return msg, classifyError(err)
}

// SendMessage sends a text message with an optional inline keyboard
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string, keyboard domain.Keyboard) (int, error) {
	var markup interface{}
	if keyboard != nil {
		markup = InlineMarkup(keyboard)
	}
	return b.SendWithMarkup(ctx, chatID, text, markup)
}

// SendWithMarkup sends a text message with any reply markup
func (b *Bot) SendWithMarkup(ctx context.Context, chatID int64, text string, replyMarkup interface{}) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	sent, err := b.send(ctx, msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// ReplyMessage sends text quoting replyTo, with an optional inline keyboard
func (b *Bot) ReplyMessage(ctx context.Context, chatID int64, replyTo int, text string, keyboard domain.Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	if keyboard != nil {
		msg.ReplyMarkup = InlineMarkup(keyboard)
	}
	sent, err := b.send(ctx, msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// EditMessage edits a message text and inline keyboard. It returns
// domain.ErrNotModified or *domain.FlowControlWait where applicable.
func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Keyboard) error {
	var edit tgbotapi.Chattable
	if keyboard != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, InlineMarkup(keyboard))
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	_, err := b.request(ctx, edit)
	return err
}

// DeleteMessage deletes a message
func (b *Bot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := b.request(ctx, tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// AnswerCallback answers a callback query, optionally as an alert
func (b *Bot) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	_, err := b.request(ctx, cb)
	return err
}

// DownloadMedia materializes a media item at dest and returns its path.
func (b *Bot) DownloadMedia(ctx context.Context, ref domain.MediaRef, dest string, onProgress domain.ProgressFunc) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", err
	}
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: ref.FileID})
	if err != nil {
		return "", fmt.Errorf("failed to get file: %w", classifyError(err))
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("%w: no file path for %s", domain.ErrNoFile, ref.FileID)
	}

	b.logger.Debug("downloading media", "file_id", ref.FileID, "file_path", file.FilePath, "path", dest, "size", ref.Size)

	progress := onProgress
	if progress != nil && ref.Size > 0 {
		progress = func(current, total int64) {
			if total <= 0 {
				total = ref.Size
			}
			onProgress(current, total)
		}
	}
	// A Bot API server in local mode hands out paths on its own disk.
	if filepath.IsAbs(file.FilePath) {
		if err := b.files.CopyFile(ctx, file.FilePath, dest, progress); err != nil {
			return "", err
		}
		return dest, nil
	}
	url := fmt.Sprintf(b.fileEndpoint, b.api.Token, file.FilePath)
	if err := b.files.DownloadFile(ctx, url, dest, progress); err != nil {
		return "", err
	}
	return dest, nil
}

// UploadVideo sends a streamable video
func (b *Bot) UploadVideo(ctx context.Context, up domain.Upload, onProgress domain.ProgressFunc) error {
	file, closeFn, err := openUpload(up, onProgress)
	if err != nil {
		return err
	}
	defer closeFn()

	video := tgbotapi.NewVideo(up.ChatID, file)
	video.Caption = up.Caption
	video.SupportsStreaming = true
	if up.ThumbnailPath != "" {
		video.Thumb = tgbotapi.FilePath(up.ThumbnailPath)
	}
	_, err = b.send(ctx, video)
	return err
}

// UploadDocument sends the file as a generic document
func (b *Bot) UploadDocument(ctx context.Context, up domain.Upload, onProgress domain.ProgressFunc) error {
	file, closeFn, err := openUpload(up, onProgress)
	if err != nil {
		return err
	}
	defer closeFn()

	doc := tgbotapi.NewDocument(up.ChatID, file)
	doc.Caption = up.Caption
	if up.ThumbnailPath != "" {
		doc.Thumb = tgbotapi.FilePath(up.ThumbnailPath)
	}
	_, err = b.send(ctx, doc)
	return err
}

func openUpload(up domain.Upload, onProgress domain.ProgressFunc) (tgbotapi.FileReader, func(), error) {
	f, err := os.Open(up.Path)
	if err != nil {
		return tgbotapi.FileReader{}, nil, fmt.Errorf("failed to open upload: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return tgbotapi.FileReader{}, nil, fmt.Errorf("failed to stat upload: %w", err)
	}
	reader := tgbotapi.FileReader{
		Name:   up.FileName,
		Reader: storage.NewProgressReader(f, info.Size(), onProgress),
	}
	return reader, func() { _ = f.Close() }, nil
}

// SetDebug toggles request logging in the Bot API client
func (b *Bot) SetDebug(debug bool) {
	b.api.Debug = debug
}

// StopReceivingUpdates stops receiving updates
func (b *Bot) StopReceivingUpdates() {
	b.api.StopReceivingUpdates()
}

// GetUpdatesChan returns a channel for receiving updates
func (b *Bot) GetUpdatesChan(timeout int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	return b.api.GetUpdatesChan(u)
}

// GetSelf returns bot information
func (b *Bot) GetSelf() tgbotapi.User {
	return b.api.Self
}

// classifyError maps Bot API failures onto domain errors.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if strings.Contains(apiErr.Message, "message is not modified") {
		return domain.ErrNotModified
	}
	if apiErr.RetryAfter > 0 || apiErr.Code == http.StatusTooManyRequests {
		wait := time.Duration(apiErr.RetryAfter) * time.Second
		if wait <= 0 {
			wait = time.Second
		}
		return &domain.FlowControlWait{Wait: wait}
	}
	return err
}
