package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Anzel0/New-Bot/internal/domain"
)

// DefaultProgressInterval is the minimum time between two progress edits.
const DefaultProgressInterval = 3 * time.Second

const barCells = 10

// Direction tells whether bytes are coming in or going out.
type Direction int

const (
	Downloading Direction = iota
	Uploading
)

func (d Direction) label(l *domain.Locale) string {
	if d == Uploading {
		return l.ProgressUploading
	}
	return l.ProgressDownloading
}

// ProgressReporter renders byte-count progress onto a session's status message.
type ProgressReporter struct {
	editor   *StatusEditor
	interval time.Duration
	now      func() time.Time
}

// NewProgressReporter creates a reporter. A zero interval uses
// DefaultProgressInterval and a nil clock uses time.Now.
func NewProgressReporter(editor *StatusEditor, interval time.Duration, now func() time.Time) *ProgressReporter {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	if now == nil {
		now = time.Now
	}
	return &ProgressReporter{editor: editor, interval: interval, now: now}
}

// Report emits an update when at least one interval has passed since the last
// one for this session. It returns whether an edit was sent.
func (r *ProgressReporter) Report(ctx context.Context, sess *domain.Session, locale *domain.Locale, dir Direction, current, total int64, start time.Time) bool {
	now := r.now()
	st := sess.Progress
	if now.Sub(st.LastUpdate) < r.interval {
		return false
	}
	st.LastUpdate = now

	p := Measure(current, total, now.Sub(start))
	st.LastPercent = p.Percent
	_ = r.editor.Edit(ctx, sess.ChatID, sess.StatusMsgID, RenderProgress(locale, dir, p), nil)
	return true
}

// Progress is a point-in-time measurement of a transfer.
type Progress struct {
	Current int64
	Total   int64
	Percent float64
	// Speed is in bytes per second.
	Speed float64
	// ETA is zero when the speed or the total is unknown.
	ETA time.Duration
}

// Measure computes percentage, speed and ETA.
func Measure(current, total int64, elapsed time.Duration) Progress {
	p := Progress{Current: current, Total: total}
	if total > 0 {
		p.Percent = float64(current) * 100 / float64(total)
	}
	if secs := elapsed.Seconds(); secs > 0 {
		p.Speed = float64(current) / secs
	}
	if total > 0 && p.Speed > 0 && current < total {
		p.ETA = time.Duration(float64(total-current) / p.Speed * float64(time.Second))
	}
	return p
}

// RenderProgress formats a progress measurement as status text.
func RenderProgress(l *domain.Locale, dir Direction, p Progress) string {
	eta := "00:00"
	if p.Total > 0 && p.Speed > 0 {
		eta = FormatDuration(p.ETA)
	}
	return fmt.Sprintf("%s\n[%s] %.1f%%\n\n%s: %s / %s\n%s: %s/s | %s: %s",
		dir.label(l),
		ProgressBar(p.Percent), p.Percent,
		l.ProgressSize, FormatSize(float64(p.Current)), FormatSize(float64(p.Total)),
		l.ProgressSpeed, FormatSize(p.Speed),
		l.ProgressETA, eta,
	)
}

// ProgressBar renders a 10-cell bar with floor(percent/10) filled cells.
func ProgressBar(percent float64) string {
	filled := int(percent / 10)
	if percent >= 100 || filled > barCells {
		filled = barCells
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("■", filled) + strings.Repeat("□", barCells-filled)
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(size float64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d Bytes", int64(size))
	case size < 1024*1024:
		return fmt.Sprintf("%.2f KB", size/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB", size/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB", size/(1024*1024*1024))
	}
}

// FormatDuration renders d as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	h, m, s := secs/3600, secs%3600/60, secs%60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
