package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Anzel0/New-Bot/internal/application/service"
	"github.com/Anzel0/New-Bot/internal/application/usecase"
	"github.com/Anzel0/New-Bot/internal/domain"
	"github.com/Anzel0/New-Bot/internal/infrastructure/telegram"
)

var videoMimeTypes = map[string]bool{
	"video/mp4":        true,
	"video/quicktime":  true,
	"video/x-msvideo":  true,
	"video/webm":       true,
	"video/x-matroska": true,
	"video/x-ms-wmv":   true,
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".webm": true,
	".mkv":  true,
	".wmv":  true,
	".flv":  true,
}

// Handler turns Telegram updates into conversation events
type Handler struct {
	bot          *telegram.Bot
	conversation *usecase.Conversation
	localeSvc    *service.LocaleService
	config       *domain.Config
	logger       *slog.Logger
}

// NewHandler creates a new Telegram handler
func NewHandler(
	bot *telegram.Bot,
	conversation *usecase.Conversation,
	localeSvc *service.LocaleService,
	config *domain.Config,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		bot:          bot,
		conversation: conversation,
		localeSvc:    localeSvc,
		config:       config,
		logger:       logger,
	}
}

// UpdateChatID returns the chat an update belongs to. Updates without one
// are not handled.
func UpdateChatID(update tgbotapi.Update) (int64, bool) {
	if cb := update.CallbackQuery; cb != nil {
		if cb.Message == nil || cb.Message.Chat == nil {
			return 0, false
		}
		return cb.Message.Chat.ID, true
	}
	if update.Message == nil || update.Message.Chat == nil {
		return 0, false
	}
	return update.Message.Chat.ID, true
}

// HandleUpdate handles a Telegram update
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	message := update.Message
	if message == nil || message.Chat == nil {
		return
	}

	if message.Text != "" {
		if h.handleCommand(ctx, message) {
			return
		}
		h.conversation.HandleText(ctx, domain.TextEvent{
			ChatID:    message.Chat.ID,
			MessageID: message.MessageID,
			Text:      message.Text,
		})
		return
	}

	if ev, ok := MediaEventFrom(message); ok {
		h.conversation.HandleMedia(ctx, ev)
	}
}

func (h *Handler) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	if lang, ok := strings.CutPrefix(callback.Data, langPrefix); ok {
		h.changeLanguage(ctx, callback, lang)
		return
	}

	h.conversation.HandleButton(ctx, domain.ButtonEvent{
		ChatID:     chatID,
		MessageID:  callback.Message.MessageID,
		CallbackID: callback.ID,
		Data:       callback.Data,
	})
}

func (h *Handler) changeLanguage(ctx context.Context, callback *tgbotapi.CallbackQuery, lang string) {
	chatID := callback.Message.Chat.ID

	changed, err := h.localeSvc.SetLanguage(ctx, chatID, lang)
	if err != nil {
		h.logger.Error("could not store language", "chat_id", chatID, "lang", lang, "error", err)
	}
	_ = h.bot.AnswerCallback(ctx, callback.ID, "", false)
	if !changed {
		return
	}

	locale := h.localeSvc.GetLocale(ctx, chatID)
	if _, err := h.bot.SendWithMarkup(ctx, chatID, locale.LanguageChanged, CreateMainKeyboard()); err != nil {
		h.logger.Warn("could not confirm language", "chat_id", chatID, "error", err)
	}
	_ = h.bot.DeleteMessage(ctx, chatID, callback.Message.MessageID)
}

// handleCommand answers commands and reply keyboard buttons. It reports
// whether the text was one of them.
func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) bool {
	chatID := message.Chat.ID
	locale := h.localeSvc.GetLocale(ctx, chatID)

	command := message.Command()
	switch {
	case command == "start":
		h.conversation.Reset(ctx, chatID)
		h.send(ctx, chatID, locale.StartMessage, CreateMainKeyboard())

	case command == "language" || command == "lang" || message.Text == LanguageButton:
		h.send(ctx, chatID, locale.SelectLanguage, CreateLanguageKeyboard())

	case command == "help" || message.Text == HelpButton:
		helpText := fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s\n\n%s",
			locale.HelpTitle,
			locale.HelpDescription,
			locale.HelpUsage,
			fmt.Sprintf(locale.HelpLimits, h.config.Processing.MaxVideoSizeMB),
			locale.HelpLanguage)
		h.send(ctx, chatID, helpText, CreateMainKeyboard())

	case command == "cancel":
		if !h.conversation.Reset(ctx, chatID) {
			h.send(ctx, chatID, locale.Expired, nil)
		}

	default:
		return message.IsCommand()
	}
	return true
}

func (h *Handler) send(ctx context.Context, chatID int64, text string, markup interface{}) {
	if _, err := h.bot.SendWithMarkup(ctx, chatID, text, markup); err != nil {
		h.logger.Warn("could not send message", "chat_id", chatID, "error", err)
	}
}

// MediaEventFrom extracts a media event from a message. Photos use the
// largest available size.
func MediaEventFrom(message *tgbotapi.Message) (domain.MediaEvent, bool) {
	ev := domain.MediaEvent{ChatID: message.Chat.ID, MessageID: message.MessageID}

	switch {
	case message.Video != nil:
		v := message.Video
		ev.Kind = domain.MediaVideo
		ev.Media = domain.MediaRef{FileID: v.FileID, FileName: v.FileName, MimeType: v.MimeType, Size: int64(v.FileSize)}

	case message.Document != nil:
		d := message.Document
		ev.Kind = domain.MediaOther
		if IsVideoDocument(d.MimeType, d.FileName) {
			ev.Kind = domain.MediaVideo
		}
		ev.Media = domain.MediaRef{FileID: d.FileID, FileName: d.FileName, MimeType: d.MimeType, Size: int64(d.FileSize)}

	case len(message.Photo) > 0:
		p := message.Photo[len(message.Photo)-1]
		ev.Kind = domain.MediaPhoto
		ev.Media = domain.MediaRef{FileID: p.FileID, MimeType: "image/jpeg", Size: int64(p.FileSize)}

	default:
		return domain.MediaEvent{}, false
	}
	return ev, true
}

// IsVideoDocument checks the MIME type, falling back to the file extension.
func IsVideoDocument(mimeType, fileName string) bool {
	if videoMimeTypes[mimeType] {
		return true
	}
	if fileName == "" {
		return false
	}
	return videoExtensions[strings.ToLower(filepath.Ext(fileName))]
}
