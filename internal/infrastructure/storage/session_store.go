package storage

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Anzel0/New-Bot/internal/domain"
)

// ArtifactRemover deletes a temporary file, treating a missing file as success.
type ArtifactRemover interface {
	RemoveFile(path string) error
}

// SessionStore holds at most one session per chat. Removing a session deletes
// every temporary artifact it references.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*domain.Session
	remover  ArtifactRemover
	logger   *slog.Logger
	now      func() time.Time
	onSize   func(int)
}

// NewSessionStore creates an empty session store
func NewSessionStore(remover ArtifactRemover, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*domain.Session),
		remover:  remover,
		logger:   logger,
		now:      time.Now,
	}
}

// OnSizeChange registers a callback invoked with the session count after
// every create or delete.
func (s *SessionStore) OnSizeChange(fn func(int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSize = fn
}

// Create starts a new session for chatID, tearing down any existing one first.
func (s *SessionStore) Create(chatID int64) *domain.Session {
	sess := domain.NewSession(uuid.NewString(), chatID, s.now())

	s.mu.Lock()
	old := s.sessions[chatID]
	s.sessions[chatID] = sess
	n := len(s.sessions)
	onSize := s.onSize
	s.mu.Unlock()

	if old != nil {
		s.cleanup(old)
	}
	if onSize != nil {
		onSize(n)
	}
	return sess
}

// Get returns the live session for chatID or nil.
func (s *SessionStore) Get(chatID int64) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[chatID]
}

// Delete removes the chat's session if present. It reports whether a session
// was removed; calling it again is a no-op.
func (s *SessionStore) Delete(chatID int64) bool {
	return s.remove(chatID, "")
}

// DeleteIf removes the chat's session only if it is still sessionID.
func (s *SessionStore) DeleteIf(chatID int64, sessionID string) bool {
	return s.remove(chatID, sessionID)
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) remove(chatID int64, sessionID string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[chatID]
	if !ok || (sessionID != "" && sess.ID != sessionID) {
		s.mu.Unlock()
		return false
	}
	delete(s.sessions, chatID)
	n := len(s.sessions)
	onSize := s.onSize
	s.mu.Unlock()

	s.cleanup(sess)
	if onSize != nil {
		onSize(n)
	}
	return true
}

func (s *SessionStore) cleanup(sess *domain.Session) {
	for _, path := range sess.LocalArtifacts() {
		if err := s.remover.RemoveFile(path); err != nil {
			s.logger.Warn("could not remove artifact", "chat_id", sess.ChatID, "path", path, "error", err)
		}
	}
	s.logger.Info("session cleaned up", "chat_id", sess.ChatID, "session_id", sess.ID, "state", sess.State.String())
}
