package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Anzel0/New-Bot/internal/domain"
)

// FileStorage handles temporary file operations under a single directory. It
// remembers which of its paths are still owned by this process so the janitor
// only sweeps orphans.
type FileStorage struct {
	dir    string
	client *http.Client

	mu    sync.Mutex
	inUse map[string]struct{}
}

// NewFileStorage creates a file storage rooted at dir
func NewFileStorage(dir string, client *http.Client) (*FileStorage, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}
	return &FileStorage{dir: dir, client: client, inUse: make(map[string]struct{})}, nil
}

// Dir returns the storage root
func (fs *FileStorage) Dir() string {
	return fs.dir
}

// TempPath returns a collision-free path for a chat's file. Only the base of
// name is used.
func (fs *FileStorage) TempPath(chatID int64, name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = "file"
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	path := filepath.Join(fs.dir, fmt.Sprintf("%d_%s_%s", chatID, id, base))
	fs.Claim(path)
	return path
}

// Claim marks path as owned until RemoveFile is called for it. Paths from
// TempPath are claimed already.
func (fs *FileStorage) Claim(path string) {
	if path == "" {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.inUse[path] = struct{}{}
}

// InUse reports whether path is claimed and not yet removed.
func (fs *FileStorage) InUse(path string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, ok := fs.inUse[path]
	return ok
}

// DownloadFile downloads a file from URL to local path
func (fs *FileStorage) DownloadFile(ctx context.Context, url, path string, onProgress domain.ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := fs.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	return fs.writeFrom(path, NewProgressReader(resp.Body, total, onProgress))
}

// CopyFile copies a local file to path, reporting progress like DownloadFile.
func (fs *FileStorage) CopyFile(ctx context.Context, src, path string, onProgress domain.ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	return fs.writeFrom(path, NewProgressReader(in, info.Size(), onProgress))
}

func (fs *FileStorage) writeFrom(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = fs.RemoveFile(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FileExists checks if a file exists
func (fs *FileStorage) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetFileSize returns the size of a file
func (fs *FileStorage) GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// RemoveFile removes a file. A missing file is not an error.
func (fs *FileStorage) RemoveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fs.mu.Lock()
	delete(fs.inUse, path)
	fs.mu.Unlock()
	return nil
}

// ProgressReader counts bytes read through it.
type ProgressReader struct {
	r          io.Reader
	total      int64
	current    int64
	onProgress domain.ProgressFunc
}

// NewProgressReader wraps r; onProgress may be nil.
func NewProgressReader(r io.Reader, total int64, onProgress domain.ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, onProgress: onProgress}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.current += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.current, p.total)
		}
	}
	return n, err
}
