package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Anzel0/New-Bot/internal/application/service"
	"github.com/Anzel0/New-Bot/internal/domain"
	"github.com/Anzel0/New-Bot/internal/infrastructure/metrics"
	"github.com/Anzel0/New-Bot/internal/infrastructure/storage"
)

// Event results for metrics.
const (
	resultHandled  = "handled"
	resultIgnored  = "ignored"
	resultExpired  = "expired"
	resultRejected = "rejected"
)

// Conversation interprets inbound events against each chat's session. All
// session mutation for a chat happens under that chat's lock; pipeline runs
// work on a snapshot and re-check the live session after every stage.
type Conversation struct {
	store     *storage.SessionStore
	files     *storage.FileStorage
	pipeline  *Pipeline
	queueMgr  *QueueManager
	gateway   Gateway
	status    *service.StatusEditor
	localeSvc *service.LocaleService
	metrics   *metrics.Metrics
	logger    *slog.Logger
	maxSizeMB int64

	mu    sync.Mutex
	locks map[int64]*chatLock
}

// chatLock is dropped from the map once nobody holds or waits for it.
type chatLock struct {
	mu   sync.Mutex
	refs int
}

// NewConversation creates the state machine. maxSizeMB bounds inbound videos.
func NewConversation(
	store *storage.SessionStore,
	files *storage.FileStorage,
	pipeline *Pipeline,
	queueMgr *QueueManager,
	gateway Gateway,
	status *service.StatusEditor,
	localeSvc *service.LocaleService,
	m *metrics.Metrics,
	logger *slog.Logger,
	maxSizeMB int64,
) *Conversation {
	return &Conversation{
		store:     store,
		files:     files,
		pipeline:  pipeline,
		queueMgr:  queueMgr,
		gateway:   gateway,
		status:    status,
		localeSvc: localeSvc,
		metrics:   m,
		logger:    logger,
		maxSizeMB: maxSizeMB,
		locks:     make(map[int64]*chatLock),
	}
}

func (c *Conversation) lock(chatID int64) func() {
	c.mu.Lock()
	l, ok := c.locks[chatID]
	if !ok {
		l = &chatLock{}
		c.locks[chatID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		c.mu.Lock()
		defer c.mu.Unlock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, chatID)
		}
	}
}

// withLive runs fn under the chat lock if sessionID is still the chat's live
// session. It reports whether fn ran.
func (c *Conversation) withLive(chatID int64, sessionID string, fn func(*domain.Session)) bool {
	unlock := c.lock(chatID)
	defer unlock()

	live := c.store.Get(chatID)
	if live == nil || live.ID != sessionID {
		return false
	}
	fn(live)
	return true
}

// terminate moves the session to a terminal state and destroys it.
func (c *Conversation) terminate(sess *domain.Session, state domain.State) {
	sess.State = state
	if c.store.DeleteIf(sess.ChatID, sess.ID) {
		c.logger.Info("session ended", "chat_id", sess.ChatID, "session_id", sess.ID, "state", state.String())
	}
}

func (c *Conversation) edit(ctx context.Context, sess *domain.Session, text string, kb domain.Keyboard) {
	_ = c.status.Edit(ctx, sess.ChatID, sess.StatusMsgID, text, kb)
}

// HandleMedia handles an inbound video, video document or photo.
func (c *Conversation) HandleMedia(ctx context.Context, ev domain.MediaEvent) {
	unlock := c.lock(ev.ChatID)
	defer unlock()

	locale := c.localeSvc.GetLocale(ctx, ev.ChatID)

	switch ev.Kind {
	case domain.MediaPhoto:
		c.handleThumbnail(ctx, ev, locale)
		return
	case domain.MediaOther:
		if _, err := c.gateway.SendMessage(ctx, ev.ChatID, locale.SendVideoMessage, nil); err != nil {
			c.logger.Warn("could not send reply", "chat_id", ev.ChatID, "error", err)
		}
		c.metrics.RecordEvent("media", resultRejected)
		return
	}

	if old := c.store.Get(ev.ChatID); old != nil {
		c.queueMgr.Cancel(old.ID)
		c.terminate(old, domain.StateCancelled)
		if _, err := c.gateway.SendMessage(ctx, ev.ChatID, locale.PreviousCancelled, nil); err != nil {
			c.logger.Warn("could not send replacement notice", "chat_id", ev.ChatID, "error", err)
		}
	}

	if ev.Media.Size > c.maxSizeMB*1024*1024 {
		c.logger.Info("video over limit", "chat_id", ev.ChatID, "size", ev.Media.Size, "limit_mb", c.maxSizeMB)
		if _, err := c.gateway.ReplyMessage(ctx, ev.ChatID, ev.MessageID, fmt.Sprintf(locale.VideoTooBig, c.maxSizeMB), nil); err != nil {
			c.logger.Warn("could not send reply", "chat_id", ev.ChatID, "error", err)
		}
		c.metrics.RecordEvent("media", resultRejected)
		return
	}

	sess := c.store.Create(ev.ChatID)
	sess.Source = ev.Media

	msgID, err := c.gateway.ReplyMessage(ctx, ev.ChatID, ev.MessageID, locale.VideoReceived, actionMenu(locale))
	if err != nil {
		c.logger.Error("could not send action menu", "chat_id", ev.ChatID, "error", err)
		c.terminate(sess, domain.StateErrored)
		return
	}
	sess.StatusMsgID = msgID

	c.logger.Info("session started", "chat_id", ev.ChatID, "session_id", sess.ID,
		"file_name", ev.Media.DisplayName(), "size", ev.Media.Size)
	c.metrics.RecordEvent("media", resultHandled)
}

func (c *Conversation) handleThumbnail(ctx context.Context, ev domain.MediaEvent, locale *domain.Locale) {
	sess := c.store.Get(ev.ChatID)
	if sess == nil || sess.State != domain.StateAwaitingThumbnail || sess.Disposition.ThumbnailPath != "" {
		c.metrics.RecordEvent("photo", resultIgnored)
		return
	}

	dest := c.files.TempPath(ev.ChatID, "thumb.jpg")
	// Recorded before the download so cleanup covers a partial file.
	sess.Disposition.ThumbnailPath = dest
	c.edit(ctx, sess, locale.DownloadingThumbnail, nil)
	c.metrics.RecordEvent("photo", resultHandled)

	chatID, sessionID := sess.ChatID, sess.ID
	c.queueMgr.Go(func(ctx context.Context) {
		_, err := c.gateway.DownloadMedia(ctx, ev.Media, dest, nil)
		if err == nil && !c.files.FileExists(dest) {
			err = domain.ErrNoFile
		}

		alive := c.withLive(chatID, sessionID, func(live *domain.Session) {
			if err != nil {
				c.logger.Error("thumbnail download failed", "chat_id", chatID, "session_id", sessionID, "error", err)
				c.edit(ctx, live, locale.ErrorThumbnail, nil)
				c.terminate(live, domain.StateErrored)
				return
			}
			live.State = domain.StateChoosingRename
			c.edit(ctx, live, locale.ThumbnailSaved, renameMenu(locale))
		})
		if !alive {
			_ = c.files.RemoveFile(dest)
		}
	})
}

// HandleButton handles an inline keyboard press.
func (c *Conversation) HandleButton(ctx context.Context, ev domain.ButtonEvent) {
	unlock := c.lock(ev.ChatID)
	defer unlock()

	locale := c.localeSvc.GetLocale(ctx, ev.ChatID)

	action, err := domain.ParseAction(ev.Data)
	if err != nil {
		c.logger.Warn("unknown button", "chat_id", ev.ChatID, "data", ev.Data, "error", err)
		c.answer(ctx, ev, "", false)
		c.metrics.RecordEvent("button", resultIgnored)
		return
	}

	sess := c.store.Get(ev.ChatID)
	if sess == nil || sess.StatusMsgID != ev.MessageID {
		c.answer(ctx, ev, locale.Expired, true)
		if err := c.gateway.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
			c.logger.Warn("could not delete expired menu", "chat_id", ev.ChatID, "error", err)
		}
		c.metrics.RecordEvent("button", resultExpired)
		return
	}
	c.answer(ctx, ev, "", false)

	if err := c.apply(ctx, sess, locale, action); err != nil {
		if errors.Is(err, domain.ErrStateMismatch) {
			c.logger.Debug("button ignored", "chat_id", ev.ChatID, "action", action.String(), "state", sess.State.String())
			c.metrics.RecordEvent("button", resultIgnored)
			return
		}
		c.logger.Error("button failed", "chat_id", ev.ChatID, "action", action.String(), "error", err)
		c.metrics.RecordEvent("button", resultRejected)
		return
	}
	c.metrics.RecordEvent("button", resultHandled)
}

func (c *Conversation) answer(ctx context.Context, ev domain.ButtonEvent, text string, alert bool) {
	if ev.CallbackID == "" {
		return
	}
	if err := c.gateway.AnswerCallback(ctx, ev.CallbackID, text, alert); err != nil {
		c.logger.Warn("could not answer callback", "chat_id", ev.ChatID, "error", err)
	}
}

// apply runs one action against the live session. It returns
// domain.ErrStateMismatch when the session is not expecting the action.
func (c *Conversation) apply(ctx context.Context, sess *domain.Session, locale *domain.Locale, action domain.Action) error {
	mismatch := fmt.Errorf("%w: %s in %s", domain.ErrStateMismatch, action, sess.State)

	switch action.Kind {
	case domain.ActionCancel:
		c.queueMgr.Cancel(sess.ID)
		c.edit(ctx, sess, locale.Cancelled, nil)
		c.terminate(sess, domain.StateCancelled)

	case domain.ActionCompress:
		if sess.State != domain.StateAwaitingAction {
			return mismatch
		}
		sess.State = domain.StateSelectingPreset
		c.edit(ctx, sess, locale.ChooseCompression, presetMenu(locale))

	case domain.ActionPresetDefault:
		if sess.State != domain.StateSelectingPreset {
			return mismatch
		}
		sess.Spec = service.BuildDefault()
		c.startCompression(ctx, sess, locale, locale.StartingDefault)

	case domain.ActionPresetAdvanced:
		if sess.State != domain.StateSelectingPreset {
			return mismatch
		}
		sess.State = domain.StateConfiguringAdvanced
		sess.Selections = nil
		sess.Dimension = domain.DimensionOrder[0]
		text, kb := dimensionMenu(locale, sess.Dimension)
		c.edit(ctx, sess, text, kb)

	case domain.ActionAdvancedOption:
		if sess.State != domain.StateConfiguringAdvanced || action.Dimension != sess.Dimension {
			return mismatch
		}
		sess.Selections = append(sess.Selections, domain.Selection{Dimension: action.Dimension, Value: action.Value})
		if next, ok := service.NextDimension(sess.Selections); ok {
			sess.Dimension = next
			text, kb := dimensionMenu(locale, next)
			c.edit(ctx, sess, text, kb)
			return nil
		}
		sess.State = domain.StateConfirmingAdvanced
		opts := sess.Options()
		text := fmt.Sprintf(locale.ConfirmOptions,
			choiceLabel(domain.DimensionQuality, opts[domain.DimensionQuality]),
			opts[domain.DimensionResolution])
		c.edit(ctx, sess, text, confirmMenu(locale))

	case domain.ActionStartAdvanced:
		if sess.State != domain.StateConfirmingAdvanced {
			return mismatch
		}
		spec, err := service.BuildAdvanced(sess.Selections)
		if err != nil {
			return err
		}
		sess.Spec = spec
		c.startCompression(ctx, sess, locale, locale.StartingAdvanced)

	case domain.ActionAsFile:
		if sess.State != domain.StateChoosingDelivery || sess.Disposition.AsFile {
			return mismatch
		}
		sess.Disposition.AsFile = true
		c.edit(ctx, sess, locale.AsFileChosen, deliveryMenu(locale, true))

	case domain.ActionWithThumbnail:
		if sess.State != domain.StateChoosingDelivery {
			return mismatch
		}
		sess.State = domain.StateAwaitingThumbnail
		c.edit(ctx, sess, locale.SendThumbnail, cancelMenu(locale))

	case domain.ActionNoThumbnail:
		if sess.State != domain.StateChoosingDelivery {
			return mismatch
		}
		sess.State = domain.StateChoosingRename
		c.edit(ctx, sess, locale.ChooseRename, renameMenu(locale))

	case domain.ActionRenameYes:
		if sess.State != domain.StateChoosingRename {
			return mismatch
		}
		sess.State = domain.StateAwaitingNewName
		c.edit(ctx, sess, locale.SendNewName, cancelMenu(locale))

	case domain.ActionRenameNo:
		if sess.State != domain.StateChoosingRename {
			return mismatch
		}
		c.startDelivery(ctx, sess, locale, locale.PreparingUpload)

	default:
		return mismatch
	}
	return nil
}

// Reset cancels the chat's live session, if any. It reports whether one existed.
func (c *Conversation) Reset(ctx context.Context, chatID int64) bool {
	unlock := c.lock(chatID)
	defer unlock()

	sess := c.store.Get(chatID)
	if sess == nil {
		return false
	}
	c.queueMgr.Cancel(sess.ID)
	c.edit(ctx, sess, c.localeSvc.GetLocale(ctx, chatID).Cancelled, nil)
	c.terminate(sess, domain.StateCancelled)
	return true
}

// HandleText handles free text, which is only meaningful as a new file name.
func (c *Conversation) HandleText(ctx context.Context, ev domain.TextEvent) {
	unlock := c.lock(ev.ChatID)
	defer unlock()

	sess := c.store.Get(ev.ChatID)
	if sess == nil || sess.State != domain.StateAwaitingNewName {
		c.metrics.RecordEvent("text", resultIgnored)
		return
	}

	name := SanitizeName(ev.Text)
	if name == "" {
		c.metrics.RecordEvent("text", resultIgnored)
		return
	}

	locale := c.localeSvc.GetLocale(ctx, ev.ChatID)
	sess.Disposition.NewName = name
	if ev.MessageID != 0 {
		if err := c.gateway.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
			c.logger.Warn("could not delete name message", "chat_id", ev.ChatID, "error", err)
		}
	}
	c.metrics.RecordEvent("text", resultHandled)
	c.startDelivery(ctx, sess, locale, locale.NameSaved)
}

// SanitizeName keeps a user supplied file name free of path separators and
// control characters.
func SanitizeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "." || s == ".." {
		return ""
	}
	return s
}

func (c *Conversation) startCompression(ctx context.Context, sess *domain.Session, locale *domain.Locale, text string) {
	sess.State = domain.StateCompressing
	c.edit(ctx, sess, text, nil)

	snap := sess.Clone()
	task := &domain.PipelineTask{
		ChatID:      sess.ChatID,
		SessionID:   sess.ID,
		StatusMsgID: sess.StatusMsgID,
		Run: func(ctx context.Context) {
			c.runCompression(ctx, snap, locale)
		},
	}
	if position := c.queueMgr.Submit(task); position > 0 {
		c.edit(ctx, sess, QueueText(locale, position), nil)
	}
}

func (c *Conversation) runCompression(ctx context.Context, snap *domain.Session, locale *domain.Locale) {
	if !c.withLive(snap.ChatID, snap.ID, func(*domain.Session) {}) {
		return
	}

	path, err := c.pipeline.FetchSource(ctx, snap, locale)
	if err != nil {
		c.fail(snap, err)
		return
	}
	if !c.withLive(snap.ChatID, snap.ID, func(*domain.Session) {}) {
		_ = c.files.RemoveFile(path)
		return
	}

	art, size, err := c.pipeline.Transform(ctx, snap, locale, path)
	if err != nil {
		c.fail(snap, err)
		return
	}

	alive := c.withLive(snap.ChatID, snap.ID, func(live *domain.Session) {
		live.Result = art
		live.OriginalSize = size
		live.State = domain.StateChoosingDelivery
		text := fmt.Sprintf(locale.CompressionDone, service.FormatSize(float64(size)))
		c.edit(ctx, live, text, deliveryMenu(locale, live.Disposition.AsFile))
	})
	if !alive {
		_ = c.files.RemoveFile(art.Path)
	}
}

func (c *Conversation) startDelivery(ctx context.Context, sess *domain.Session, locale *domain.Locale, text string) {
	sess.State = domain.StateUploading
	c.edit(ctx, sess, text, nil)

	snap := sess.Clone()
	c.queueMgr.Go(func(ctx context.Context) {
		err := c.pipeline.Deliver(ctx, snap, locale, snap.Result)
		c.withLive(snap.ChatID, snap.ID, func(live *domain.Session) {
			if err != nil {
				c.terminate(live, domain.StateErrored)
				return
			}
			c.terminate(live, domain.StateCompleted)
		})
	})
}

// fail ends the session after a stage error. The stage has already reported
// the error on the status message.
func (c *Conversation) fail(snap *domain.Session, err error) {
	c.logger.Warn("pipeline run failed", "chat_id", snap.ChatID, "session_id", snap.ID, "error", err)
	c.withLive(snap.ChatID, snap.ID, func(live *domain.Session) {
		c.terminate(live, domain.StateErrored)
	})
}
