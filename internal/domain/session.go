package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// State is the conversation state of a session.
type State int

const (
	StateAwaitingAction State = iota + 1
	StateSelectingPreset
	StateConfiguringAdvanced
	StateConfirmingAdvanced
	StateCompressing
	StateChoosingDelivery
	StateAwaitingThumbnail
	StateChoosingRename
	StateAwaitingNewName
	StateUploading
	StateCompleted
	StateCancelled
	StateErrored
)

var stateNames = map[State]string{
	StateAwaitingAction:      "awaiting_action",
	StateSelectingPreset:     "selecting_compression_preset",
	StateConfiguringAdvanced: "configuring_advanced",
	StateConfirmingAdvanced:  "confirming_advanced",
	StateCompressing:         "compressing",
	StateChoosingDelivery:    "choosing_delivery_mode",
	StateAwaitingThumbnail:   "awaiting_thumbnail",
	StateChoosingRename:      "choosing_rename",
	StateAwaitingNewName:     "awaiting_new_name",
	StateUploading:           "uploading",
	StateCompleted:           "completed",
	StateCancelled:           "cancelled",
	StateErrored:             "errored",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether the state ends the session.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateErrored
}

// MediaRef points at an inbound media item held by the gateway.
type MediaRef struct {
	FileID   string
	FileName string
	MimeType string
	Size     int64
}

// DisplayName returns the declared file name or a name derived from the file id.
func (m MediaRef) DisplayName() string {
	if m.FileName != "" {
		return filepath.Base(m.FileName)
	}
	return fmt.Sprintf("video_%s.mp4", m.FileID)
}

// OutputDisposition describes how the result is delivered.
type OutputDisposition struct {
	AsFile        bool
	ThumbnailPath string
	NewName       string
}

// FileName returns the name the delivered file is sent under.
func (d OutputDisposition) FileName(source MediaRef) string {
	if d.NewName == "" {
		return source.DisplayName()
	}
	if strings.HasSuffix(d.NewName, ".mp4") {
		return d.NewName
	}
	return d.NewName + ".mp4"
}

// ProgressState throttles progress edits for one session.
type ProgressState struct {
	LastUpdate  time.Time
	LastPercent float64
}

// Artifact is the output of a transform: a remote URL or a local path.
type Artifact struct {
	URL  string
	Path string
}

// IsRemote reports whether the artifact lives behind a URL.
func (a Artifact) IsRemote() bool {
	return a.URL != ""
}

// IsZero reports whether the artifact is unset.
func (a Artifact) IsZero() bool {
	return a.URL == "" && a.Path == ""
}

// Session tracks one user's conversation and pipeline artifacts.
type Session struct {
	ID          string
	ChatID      int64
	State       State
	Dimension   Dimension
	Source      MediaRef
	Selections  []Selection
	Spec        TransformSpec
	Disposition OutputDisposition
	Progress    *ProgressState
	StatusMsgID int
	Result      Artifact
	// OriginalSize is the source size in bytes as measured on disk.
	OriginalSize int64
	CreatedAt    time.Time
}

// NewSession creates a session in the awaiting_action state.
func NewSession(id string, chatID int64, now time.Time) *Session {
	return &Session{
		ID:        id,
		ChatID:    chatID,
		State:     StateAwaitingAction,
		Progress:  &ProgressState{},
		CreatedAt: now,
	}
}

// Options returns the selections as an option-name keyed map.
func (s *Session) Options() map[Dimension]string {
	opts := make(map[Dimension]string, len(s.Selections))
	for _, sel := range s.Selections {
		opts[sel.Dimension] = sel.Value
	}
	return opts
}

// LocalArtifacts returns every temporary path owned by the session.
func (s *Session) LocalArtifacts() []string {
	var paths []string
	if s.Disposition.ThumbnailPath != "" {
		paths = append(paths, s.Disposition.ThumbnailPath)
	}
	if s.Result.Path != "" {
		paths = append(paths, s.Result.Path)
	}
	return paths
}

// Clone returns a shallow copy for use outside the chat lock. The progress
// state is shared with the original.
func (s *Session) Clone() *Session {
	c := *s
	c.Selections = append([]Selection(nil), s.Selections...)
	return &c
}
