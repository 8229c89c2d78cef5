package store

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/arturoeanton/go-commit-annotator/internal/port"
	"github.com/google/uuid"
)

// SessionStore keeps staging sessions in memory. Sessions are never persisted;
// losing in-flight edits on restart is accepted.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.StagingSession
	now      func() time.Time
	newID    func() string
}

// SessionOption configures a SessionStore.
type SessionOption func(*SessionStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) { s.now = now }
}

// NewSessionStore creates an empty store.
func NewSessionStore(opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*domain.StagingSession),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new session and returns its id.
func (s *SessionStore) Create(token, owner, repo, sha, branch string, files map[string]string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.sessions[id] != nil {
		id = s.newID()
	}

	staged := maps.Clone(files)
	if staged == nil {
		staged = map[string]string{}
	}
	s.sessions[id] = &domain.StagingSession{
		ID:        id,
		Token:     token,
		Owner:     owner,
		Repo:      repo,
		CommitSHA: sha,
		Branch:    branch,
		Files:     staged,
		CreatedAt: s.now(),
	}
	return id
}

// Get returns a copy of a live session. An expired session is removed and
// reported as ErrSessionExpired; later reads see ErrSessionNotFound.
func (s *SessionStore) Get(id string) (*domain.StagingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}

// UpdateFiles replaces the staged files wholesale. Concurrent updates are last-write-wins.
func (s *SessionStore) UpdateFiles(id string, files map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.liveLocked(id)
	if err != nil {
		return err
	}
	sess.Files = maps.Clone(files)
	if sess.Files == nil {
		sess.Files = map[string]string{}
	}
	return nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Reap removes every expired session and returns how many were removed.
func (s *SessionStore) Reap() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, including expired ones not yet reaped.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run reaps expired sessions every interval until ctx is cancelled.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Reap(); n > 0 {
				slog.Info("reaped expired sessions", "count", n)
			}
		}
	}
}

func (s *SessionStore) liveLocked(id string) (*domain.StagingSession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, port.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, port.ErrSessionExpired
	}
	return sess, nil
}
