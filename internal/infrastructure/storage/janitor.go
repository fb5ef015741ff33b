package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically removes stale files from the download directory. Files
// left behind by a crash are never referenced by a live session again. Paths
// reported by the protect func are kept whatever their age.
type Janitor struct {
	dir     string
	maxAge  time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time
	protect func(path string) bool
}

// NewJanitor creates a janitor sweeping dir on the given cron schedule
func NewJanitor(dir, schedule string, maxAge time.Duration, logger *slog.Logger) (*Janitor, error) {
	j := &Janitor{
		dir:    dir,
		maxAge: maxAge,
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
	}
	if _, err := j.cron.AddFunc(schedule, func() { j.Sweep() }); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Protect skips every path for which fn reports true, typically
// FileStorage.InUse. Call it before Start.
func (j *Janitor) Protect(fn func(path string) bool) {
	j.protect = fn
}

// Start runs the schedule in the background
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop stops the schedule and waits for a running sweep
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// Sweep removes regular files older than maxAge and returns how many it removed.
func (j *Janitor) Sweep() int {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		j.logger.Warn("janitor could not read dir", "path", j.dir, "error", err)
		return 0
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, e.Name())
		if j.protect != nil && j.protect(path) {
			j.logger.Debug("janitor kept file in use", "path", path)
			continue
		}
		if err := os.Remove(path); err != nil {
			j.logger.Warn("janitor could not remove file", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		j.logger.Info("janitor removed stale files", "count", removed)
	}
	return removed
}
