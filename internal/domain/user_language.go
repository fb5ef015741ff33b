package domain

import (
	"context"
	"sync"
)

// LanguageStore persists per-chat language preferences.
type LanguageStore interface {
	// Get returns the stored language or "" when none is set.
	Get(ctx context.Context, chatID int64) (string, error)
	Set(ctx context.Context, chatID int64, lang string) error
}

// UserLanguage stores user language preferences in memory
type UserLanguage struct {
	mu    sync.RWMutex
	langs map[int64]string // chatID -> language code
}

// NewUserLanguage creates a new UserLanguage instance
func NewUserLanguage() *UserLanguage {
	return &UserLanguage{
		langs: make(map[int64]string),
	}
}

// Get returns the language for a chat ID
func (ul *UserLanguage) Get(_ context.Context, chatID int64) (string, error) {
	ul.mu.RLock()
	defer ul.mu.RUnlock()
	return ul.langs[chatID], nil
}

// Set sets the language for a chat ID
func (ul *UserLanguage) Set(_ context.Context, chatID int64, lang string) error {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	ul.langs[chatID] = lang
	return nil
}
