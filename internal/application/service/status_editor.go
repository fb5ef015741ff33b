package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Anzel0/New-Bot/internal/domain"
)

// MessageEditor edits a previously sent message in place.
type MessageEditor interface {
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Keyboard) error
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// StatusEditor edits status messages, absorbing "not modified" replies and
// waiting out flow-control pauses.
type StatusEditor struct {
	editor MessageEditor
	sleep  SleepFunc
	logger *slog.Logger
}

// NewStatusEditor creates a status editor. A nil sleep uses Sleep.
func NewStatusEditor(editor MessageEditor, sleep SleepFunc, logger *slog.Logger) *StatusEditor {
	if sleep == nil {
		sleep = Sleep
	}
	return &StatusEditor{editor: editor, sleep: sleep, logger: logger}
}

// Edit replaces the message text and keyboard. Failures are logged and
// swallowed; the returned error is only ever a context error.
func (e *StatusEditor) Edit(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Keyboard) error {
	for {
		err := e.editor.EditMessage(ctx, chatID, messageID, text, keyboard)
		if err == nil || errors.Is(err, domain.ErrNotModified) {
			return nil
		}

		var wait *domain.FlowControlWait
		if errors.As(err, &wait) {
			e.logger.Warn("flow control on edit", "chat_id", chatID, "wait", wait.Wait)
			if err := e.sleep(ctx, wait.Wait); err != nil {
				return err
			}
			continue
		}

		e.logger.Error("edit message failed", "chat_id", chatID, "message_id", messageID, "error", err)
		return nil
	}
}
