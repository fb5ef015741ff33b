package service

import (
	"context"
	"log/slog"

	"github.com/Anzel0/New-Bot/internal/domain"
)

// LocaleService handles locale operations
type LocaleService struct {
	store       domain.LanguageStore
	locales     map[string]*domain.Locale
	defaultLang string
	logger      *slog.Logger
}

// NewLocaleService creates a new locale service
func NewLocaleService(store domain.LanguageStore, defaultLang string, logger *slog.Logger) *LocaleService {
	locales := domain.GetLocales()
	if _, ok := locales[defaultLang]; !ok {
		defaultLang = domain.LangSpanish
	}
	return &LocaleService{
		store:       store,
		locales:     locales,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

// GetLocale returns the locale for a chat ID
func (s *LocaleService) GetLocale(ctx context.Context, chatID int64) *domain.Locale {
	lang, err := s.store.Get(ctx, chatID)
	if err != nil {
		s.logger.Warn("language lookup failed", "chat_id", chatID, "error", err)
	}
	locale, ok := s.locales[lang]
	if !ok {
		locale = s.locales[s.defaultLang]
	}
	return locale
}

// SetLanguage sets the language for a chat ID. Unknown codes are ignored.
func (s *LocaleService) SetLanguage(ctx context.Context, chatID int64, lang string) (bool, error) {
	if _, ok := s.locales[lang]; !ok {
		return false, nil
	}
	if err := s.store.Set(ctx, chatID, lang); err != nil {
		return false, err
	}
	return true, nil
}
