package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_TempPath(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir(), nil)
	require.NoError(t, err)

	a := fs.TempPath(7, "movie.mp4")
	b := fs.TempPath(7, "movie.mp4")
	assert.NotEqual(t, a, b)
	assert.Equal(t, fs.Dir(), filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), "7_"))
	assert.True(t, strings.HasSuffix(a, "_movie.mp4"))

	escaped := fs.TempPath(7, "../../etc/passwd")
	assert.Equal(t, fs.Dir(), filepath.Dir(escaped))
	assert.True(t, strings.HasSuffix(escaped, "_passwd"))
}

func TestFileStorage_DownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("compressed video"))
	}))
	defer srv.Close()

	fs, err := NewFileStorage(t.TempDir(), srv.Client())
	require.NoError(t, err)

	path := fs.TempPath(1, "out.mp4")
	var last, total int64
	err = fs.DownloadFile(context.Background(), srv.URL+"/video", path, func(c, tt int64) { last, total = c, tt })
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "compressed video", string(data))
	assert.Equal(t, int64(len(data)), last)
	assert.Equal(t, int64(len(data)), total)

	size, err := fs.GetFileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), size)

	missing := fs.TempPath(1, "gone.mp4")
	err = fs.DownloadFile(context.Background(), srv.URL+"/missing", missing, nil)
	assert.ErrorContains(t, err, "404")
	assert.False(t, fs.FileExists(missing))
}

func TestFileStorage_RemoveFileIsIdempotent(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir(), nil)
	require.NoError(t, err)

	path := fs.TempPath(1, "x.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.NoError(t, fs.RemoveFile(path))
	assert.False(t, fs.FileExists(path))
	assert.NoError(t, fs.RemoveFile(path))
	assert.NoError(t, fs.RemoveFile(""))
}

func TestFileStorage_ClaimTracksOwnership(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir(), nil)
	require.NoError(t, err)

	path := fs.TempPath(3, "src.mp4")
	assert.True(t, fs.InUse(path))

	out := filepath.Join(fs.Dir(), "src_compressed.mp4")
	assert.False(t, fs.InUse(out))
	fs.Claim(out)
	assert.True(t, fs.InUse(out))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, fs.RemoveFile(path))
	assert.False(t, fs.InUse(path))

	// never written to disk, still released
	require.NoError(t, fs.RemoveFile(out))
	assert.False(t, fs.InUse(out))

	fs.Claim("")
	assert.False(t, fs.InUse(""))
}

func TestFileStorage_CopyFile(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir(), nil)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "served.mp4")
	require.NoError(t, os.WriteFile(src, []byte("local bot api file"), 0o644))

	dest := fs.TempPath(1, "served.mp4")
	var last, total int64
	require.NoError(t, fs.CopyFile(context.Background(), src, dest, func(c, tt int64) { last, total = c, tt }))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "local bot api file", string(data))
	assert.Equal(t, int64(len(data)), last)
	assert.Equal(t, int64(len(data)), total)
	assert.FileExists(t, src)

	missing := fs.TempPath(1, "absent.mp4")
	assert.Error(t, fs.CopyFile(context.Background(), filepath.Join(t.TempDir(), "nope"), missing, nil))
	assert.False(t, fs.FileExists(missing))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fs.CopyFile(ctx, src, fs.TempPath(1, "late.mp4"), nil), context.Canceled)
}
