package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Anzel0/New-Bot/internal/application/service"
	"github.com/Anzel0/New-Bot/internal/domain"
	"github.com/Anzel0/New-Bot/internal/infrastructure/metrics"
	"github.com/Anzel0/New-Bot/internal/infrastructure/storage"
)

// Stage names used for metrics and spans.
const (
	StageFetch     = "fetch"
	StageTransform = "transform"
	StageDeliver   = "deliver"
)

const tracerName = "github.com/Anzel0/New-Bot/internal/application/usecase"

// Pipeline runs the fetch, transform and deliver stages for a session. Every
// stage converts its failures into a typed error and reports them on the
// session's status message; none of them touch the session store.
type Pipeline struct {
	gateway     Gateway
	transformer Transformer
	files       *storage.FileStorage
	status      *service.StatusEditor
	progress    *service.ProgressReporter
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewPipeline creates a pipeline. m may be nil.
func NewPipeline(
	gateway Gateway,
	transformer Transformer,
	files *storage.FileStorage,
	status *service.StatusEditor,
	progress *service.ProgressReporter,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		gateway:     gateway,
		transformer: transformer,
		files:       files,
		status:      status,
		progress:    progress,
		metrics:     m,
		logger:      logger,
		tracer:      otel.Tracer(tracerName),
		now:         time.Now,
	}
}

func (p *Pipeline) startStage(ctx context.Context, stage string, sess *domain.Session) (context.Context, func(error)) {
	ctx, span := p.tracer.Start(ctx, "pipeline."+stage, trace.WithAttributes(
		attribute.Int64("chat_id", sess.ChatID),
		attribute.String("session_id", sess.ID),
	))
	start := p.now()
	return ctx, func(err error) {
		p.metrics.RecordStage(stage, err, p.now().Sub(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// FetchSource downloads the session's source media into the storage dir and
// returns the local path.
func (p *Pipeline) FetchSource(ctx context.Context, sess *domain.Session, locale *domain.Locale) (path string, err error) {
	ctx, end := p.startStage(ctx, StageFetch, sess)
	defer func() { end(err) }()

	_ = p.status.Edit(ctx, sess.ChatID, sess.StatusMsgID, locale.Downloading, nil)

	dest := p.files.TempPath(sess.ChatID, sess.Source.DisplayName())
	start := p.now()
	path, err = p.gateway.DownloadMedia(ctx, sess.Source, dest, p.reporter(ctx, sess, locale, service.Downloading, start))
	if err == nil && (path == "" || !p.files.FileExists(path)) {
		err = domain.ErrNoFile
	}
	if err != nil {
		p.remove(sess, dest)
		p.logger.Error("fetch failed", "chat_id", sess.ChatID, "session_id", sess.ID, "error", err)
		_ = p.status.Edit(ctx, sess.ChatID, sess.StatusMsgID, locale.ErrorDownload, nil)
		return "", &domain.FetchError{Err: err}
	}

	p.files.Claim(path)
	p.logger.Info("source fetched", "chat_id", sess.ChatID, "session_id", sess.ID, "path", path)
	return path, nil
}

// Transform compresses the file at path with the session's spec. The source
// file is removed whatever the outcome. It returns the artifact and the
// source size in bytes.
func (p *Pipeline) Transform(ctx context.Context, sess *domain.Session, locale *domain.Locale, path string) (art domain.Artifact, size int64, err error) {
	ctx, end := p.startStage(ctx, StageTransform, sess)
	defer func() { end(err) }()
	defer p.remove(sess, path)

	_ = p.status.Edit(ctx, sess.ChatID, sess.StatusMsgID, locale.Compressing, nil)

	size, err = p.files.GetFileSize(path)
	if err != nil {
		p.logger.Warn("could not measure source", "chat_id", sess.ChatID, "path", path, "error", err)
		size = 0
	}

	art, err = p.transformer.Transform(ctx, path, sess.Spec)
	if err == nil && art.IsZero() {
		err = fmt.Errorf("transform returned no artifact")
	}
	if err != nil {
		p.logger.Error("transform failed", "chat_id", sess.ChatID, "session_id", sess.ID, "spec", sess.Spec.String(), "error", err)
		_ = p.status.Edit(ctx, sess.ChatID, sess.StatusMsgID, locale.ErrorCompression, nil)
		return domain.Artifact{}, 0, &domain.TransformError{Err: err}
	}

	if !art.IsRemote() {
		p.files.Claim(art.Path)
	}
	p.logger.Info("transform done", "chat_id", sess.ChatID, "session_id", sess.ID, "spec", sess.Spec.String(), "remote", art.IsRemote())
	return art, size, nil
}

// Deliver sends the artifact back to the chat using the session's output
// disposition. A remote artifact is fetched to local storage first. The local
// copy is removed whatever the outcome.
func (p *Pipeline) Deliver(ctx context.Context, sess *domain.Session, locale *domain.Locale, art domain.Artifact) (err error) {
	ctx, end := p.startStage(ctx, StageDeliver, sess)
	defer func() { end(err) }()

	name := sess.Disposition.FileName(sess.Source)
	local := art.Path
	if art.IsRemote() {
		local = p.files.TempPath(sess.ChatID, name)
	}
	defer p.remove(sess, local)

	if art.IsRemote() {
		_ = p.status.Edit(ctx, sess.ChatID, sess.StatusMsgID, locale.Downloading, nil)
		start := p.now()
		if err = p.files.DownloadFile(ctx, art.URL, local, p.reporter(ctx, sess, locale, service.Downloading, start)); err != nil {
			return p.deliveryFailed(ctx, sess, locale, err)
		}
	}

	compressed, err := p.files.GetFileSize(local)
	if err != nil {
		return p.deliveryFailed(ctx, sess, locale, err)
	}

	_ = p.status.Edit(ctx, sess.ChatID, sess.StatusMsgID, locale.Uploading, nil)

	up := domain.Upload{
		ChatID:        sess.ChatID,
		Path:          local,
		FileName:      name,
		Caption:       name,
		ThumbnailPath: sess.Disposition.ThumbnailPath,
	}
	onProgress := p.reporter(ctx, sess, locale, service.Uploading, p.now())
	if sess.Disposition.AsFile {
		err = p.gateway.UploadDocument(ctx, up, onProgress)
	} else {
		err = p.gateway.UploadVideo(ctx, up, onProgress)
	}
	if err != nil {
		return p.deliveryFailed(ctx, sess, locale, err)
	}

	if err := p.gateway.DeleteMessage(ctx, sess.ChatID, sess.StatusMsgID); err != nil {
		p.logger.Warn("could not delete status message", "chat_id", sess.ChatID, "error", err)
	}

	summary := locale.Completed
	if sess.OriginalSize > 0 && compressed > 0 {
		summary = fmt.Sprintf(locale.CompletedSizes,
			service.FormatSize(float64(sess.OriginalSize)),
			service.FormatSize(float64(compressed)))
	}
	if _, err := p.gateway.SendMessage(ctx, sess.ChatID, summary, nil); err != nil {
		p.logger.Warn("could not send completion summary", "chat_id", sess.ChatID, "error", err)
	}

	p.logger.Info("delivered", "chat_id", sess.ChatID, "session_id", sess.ID, "file_name", name,
		"as_file", sess.Disposition.AsFile, "original", sess.OriginalSize, "compressed", compressed)
	return nil
}

func (p *Pipeline) deliveryFailed(ctx context.Context, sess *domain.Session, locale *domain.Locale, err error) error {
	p.logger.Error("delivery failed", "chat_id", sess.ChatID, "session_id", sess.ID, "error", err)
	_ = p.status.Edit(ctx, sess.ChatID, sess.StatusMsgID, locale.ErrorUpload, nil)
	return &domain.DeliveryError{Err: err}
}

func (p *Pipeline) reporter(ctx context.Context, sess *domain.Session, locale *domain.Locale, dir service.Direction, start time.Time) domain.ProgressFunc {
	return func(current, total int64) {
		p.progress.Report(ctx, sess, locale, dir, current, total, start)
	}
}

func (p *Pipeline) remove(sess *domain.Session, path string) {
	if err := p.files.RemoveFile(path); err != nil {
		p.logger.Warn("could not remove temporary file", "chat_id", sess.ChatID, "path", path, "error", err)
	}
}
