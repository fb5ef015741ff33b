package usecase

import (
	"context"

	"github.com/Anzel0/New-Bot/internal/domain"
)

// Gateway is the messaging transport the conversation and pipeline talk to.
type Gateway interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard domain.Keyboard) (int, error)
	ReplyMessage(ctx context.Context, chatID int64, replyTo int, text string, keyboard domain.Keyboard) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard domain.Keyboard) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	DownloadMedia(ctx context.Context, ref domain.MediaRef, dest string, onProgress domain.ProgressFunc) (string, error)
	UploadVideo(ctx context.Context, up domain.Upload, onProgress domain.ProgressFunc) error
	UploadDocument(ctx context.Context, up domain.Upload, onProgress domain.ProgressFunc) error
}

// Transformer compresses a local video. The artifact is either a remote URL
// or a local path; callers must handle both.
type Transformer interface {
	Transform(ctx context.Context, videoPath string, spec domain.TransformSpec) (domain.Artifact, error)
}
