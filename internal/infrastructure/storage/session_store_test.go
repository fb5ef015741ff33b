package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anzel0/New-Bot/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*SessionStore, *FileStorage) {
	t.Helper()
	fs, err := NewFileStorage(t.TempDir(), nil)
	require.NoError(t, err)
	return NewSessionStore(fs, discardLogger()), fs
}

func writeArtifact(t *testing.T, fs *FileStorage, name string) string {
	t.Helper()
	path := filepath.Join(fs.Dir(), name)
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	return path
}

func TestSessionStore_CreateReplacesAndCleansUp(t *testing.T) {
	store, fs := newTestStore(t)

	var sizes []int
	store.OnSizeChange(func(n int) { sizes = append(sizes, n) })

	first := store.Create(1)
	first.Result = domain.Artifact{Path: writeArtifact(t, fs, "result.mp4")}
	first.Disposition.ThumbnailPath = writeArtifact(t, fs, "thumb.jpg")

	second := store.Create(1)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Same(t, second, store.Get(1))
	assert.NoFileExists(t, first.Result.Path)
	assert.NoFileExists(t, first.Disposition.ThumbnailPath)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, []int{1, 1}, sizes)
}

func TestSessionStore_DeleteIf(t *testing.T) {
	store, fs := newTestStore(t)

	sess := store.Create(1)
	sess.Result = domain.Artifact{Path: writeArtifact(t, fs, "out.mp4")}

	assert.False(t, store.DeleteIf(1, "other"))
	assert.NotNil(t, store.Get(1))
	assert.FileExists(t, sess.Result.Path)

	assert.True(t, store.DeleteIf(1, sess.ID))
	assert.Nil(t, store.Get(1))
	assert.NoFileExists(t, sess.Result.Path)

	assert.False(t, store.DeleteIf(1, sess.ID))
	assert.False(t, store.Delete(1))
}

func TestSessionStore_ConcurrentDeleteRunsOnce(t *testing.T) {
	store, _ := newTestStore(t)
	sess := store.Create(5)

	var wg sync.WaitGroup
	results := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.DeleteIf(5, sess.ID)
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for ok := range results {
		if ok {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Zero(t, store.Len())
}
