package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Anzel0/New-Bot/internal/application/service"
	"github.com/Anzel0/New-Bot/internal/domain"
	"github.com/Anzel0/New-Bot/internal/infrastructure/storage"
)

const testChat int64 = 42

type sentMessage struct {
	ID       int
	ReplyTo  int
	Text     string
	Keyboard domain.Keyboard
}

type editCall struct {
	MessageID int
	Text      string
	Keyboard  domain.Keyboard
}

type answerCall struct {
	Text  string
	Alert bool
}

type uploadCall struct {
	Upload      domain.Upload
	AsFile      bool
	FileExisted bool
	ThumbExists bool
}

type fakeGateway struct {
	mu          sync.Mutex
	nextID      int
	sent        []sentMessage
	edits       []editCall
	deleted     []int
	answers     []answerCall
	uploads     []uploadCall
	downloadErr error
	uploadErr   error
	// editErrs are returned by the next edits, one each.
	editErrs []error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{nextID: 100}
}

func (g *fakeGateway) SendMessage(_ context.Context, _ int64, text string, kb domain.Keyboard) (int, error) {
	return g.ReplyMessage(context.Background(), 0, 0, text, kb)
}

func (g *fakeGateway) ReplyMessage(_ context.Context, _ int64, replyTo int, text string, kb domain.Keyboard) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.sent = append(g.sent, sentMessage{ID: id, ReplyTo: replyTo, Text: text, Keyboard: kb})
	return id, nil
}

func (g *fakeGateway) EditMessage(_ context.Context, _ int64, messageID int, text string, kb domain.Keyboard) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edits = append(g.edits, editCall{MessageID: messageID, Text: text, Keyboard: kb})
	if len(g.editErrs) > 0 {
		err := g.editErrs[0]
		g.editErrs = g.editErrs[1:]
		return err
	}
	return nil
}

func (g *fakeGateway) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, messageID)
	return nil
}

func (g *fakeGateway) AnswerCallback(_ context.Context, _ string, text string, alert bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.answers = append(g.answers, answerCall{Text: text, Alert: alert})
	return nil
}

func (g *fakeGateway) DownloadMedia(_ context.Context, ref domain.MediaRef, dest string, onProgress domain.ProgressFunc) (string, error) {
	g.mu.Lock()
	err := g.downloadErr
	g.mu.Unlock()
	if err != nil {
		return "", err
	}
	data := []byte("media:" + ref.FileID)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", err
	}
	if onProgress != nil {
		onProgress(int64(len(data)), int64(len(data)))
	}
	return dest, nil
}

func (g *fakeGateway) UploadVideo(_ context.Context, up domain.Upload, _ domain.ProgressFunc) error {
	return g.upload(up, false)
}

func (g *fakeGateway) UploadDocument(_ context.Context, up domain.Upload, _ domain.ProgressFunc) error {
	return g.upload(up, true)
}

func (g *fakeGateway) upload(up domain.Upload, asFile bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	call := uploadCall{Upload: up, AsFile: asFile, FileExisted: fileExists(up.Path)}
	if up.ThumbnailPath != "" {
		call.ThumbExists = fileExists(up.ThumbnailPath)
	}
	g.uploads = append(g.uploads, call)
	return g.uploadErr
}

func (g *fakeGateway) lastEdit() editCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.edits) == 0 {
		return editCall{}
	}
	return g.edits[len(g.edits)-1]
}

func (g *fakeGateway) sentTexts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	texts := make([]string, 0, len(g.sent))
	for _, m := range g.sent {
		texts = append(texts, m.Text)
	}
	return texts
}

func (g *fakeGateway) editTexts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	texts := make([]string, 0, len(g.edits))
	for _, e := range g.edits {
		texts = append(texts, e.Text)
	}
	return texts
}

type fakeTransformer struct {
	mu    sync.Mutex
	dir   string
	err   error
	url   string
	specs []domain.TransformSpec
	// gate, when set, blocks Transform until it is closed.
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeTransformer) Transform(_ context.Context, videoPath string, spec domain.TransformSpec) (domain.Artifact, error) {
	f.mu.Lock()
	f.specs = append(f.specs, spec)
	n := len(f.specs)
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return domain.Artifact{}, f.err
	}
	if f.url != "" {
		return domain.Artifact{URL: f.url}, nil
	}
	if !fileExists(videoPath) {
		return domain.Artifact{}, fmt.Errorf("source %s missing", videoPath)
	}
	out := filepath.Join(f.dir, fmt.Sprintf("out_%d.mp4", n))
	if err := os.WriteFile(out, []byte("small"), 0o644); err != nil {
		return domain.Artifact{}, err
	}
	return domain.Artifact{Path: out}, nil
}

func (f *fakeTransformer) calls() []domain.TransformSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.TransformSpec(nil), f.specs...)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noSleep(context.Context, time.Duration) error { return nil }

func testClock() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

type harness struct {
	conv     *Conversation
	pipeline *Pipeline
	gw       *fakeGateway
	tr       *fakeTransformer
	store    *storage.SessionStore
	files    *storage.FileStorage
	queueMgr *QueueManager
	locale   *domain.Locale
	dir      string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithSleep(t, noSleep)
}

func newHarnessWithSleep(t *testing.T, sleep service.SleepFunc) *harness {
	t.Helper()
	dir := t.TempDir()
	logger := discardLogger()

	files, err := storage.NewFileStorage(dir, nil)
	require.NoError(t, err)

	gw := newFakeGateway()
	tr := &fakeTransformer{dir: dir}
	store := storage.NewSessionStore(files, logger)
	localeSvc := service.NewLocaleService(domain.NewUserLanguage(), domain.LangEnglish, logger)
	status := service.NewStatusEditor(gw, sleep, logger)
	progress := service.NewProgressReporter(status, time.Second, testClock)

	queueMgr := NewQueueManager(context.Background(), domain.NewPipelineQueue(1), status, localeSvc, nil, logger)
	pipeline := NewPipeline(gw, tr, files, status, progress, nil, logger)
	conv := NewConversation(store, files, pipeline, queueMgr, gw, status, localeSvc, nil, logger, 4000)

	return &harness{
		conv:     conv,
		pipeline: pipeline,
		gw:       gw,
		tr:       tr,
		store:    store,
		files:    files,
		queueMgr: queueMgr,
		locale:   domain.GetLocales()[domain.LangEnglish],
		dir:      dir,
	}
}

// sendVideo starts a session and returns its status message id.
func (h *harness) sendVideo(t *testing.T, size int64) int {
	t.Helper()
	h.conv.HandleMedia(context.Background(), domain.MediaEvent{
		ChatID:    testChat,
		MessageID: 1,
		Kind:      domain.MediaVideo,
		Media:     domain.MediaRef{FileID: "vid", FileName: "movie.mp4", Size: size},
	})
	sess := h.store.Get(testChat)
	if sess == nil {
		return 0
	}
	return sess.StatusMsgID
}

func (h *harness) press(msgID int, action domain.Action) {
	h.pressToken(msgID, action.Token())
}

func (h *harness) pressToken(msgID int, token string) {
	h.conv.HandleButton(context.Background(), domain.ButtonEvent{
		ChatID:     testChat,
		MessageID:  msgID,
		CallbackID: "cb",
		Data:       token,
	})
}

func (h *harness) state(t *testing.T) domain.State {
	t.Helper()
	sess := h.store.Get(testChat)
	require.NotNil(t, sess, "expected a live session")
	return sess.State
}

func (h *harness) dirEntries(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (c *Conversation) lockCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.locks)
}
