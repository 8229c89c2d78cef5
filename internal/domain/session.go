package domain

import (
	"maps"
	"time"
)

// SessionTTL is the fixed lifetime of a staging session.
const SessionTTL = time.Hour

// StagingSession holds annotated file contents awaiting review before publish.
type StagingSession struct {
	ID        string            `json:"session_id"`
	Token     string            `json:"-"` // never serialized
	Owner     string            `json:"owner"`
	Repo      string            `json:"repo"`
	CommitSHA string            `json:"commit_sha"`
	Branch    string            `json:"branch"`
	Files     map[string]string `json:"files"`
	CreatedAt time.Time         `json:"created_at"`
}

// ExpiresAt returns the instant after which the session is gone.
func (s *StagingSession) ExpiresAt() time.Time {
	return s.CreatedAt.Add(SessionTTL)
}

// Expired reports whether the session has outlived its TTL at now.
func (s *StagingSession) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > SessionTTL
}

// Clone returns a deep copy so callers never alias stored state.
func (s *StagingSession) Clone() *StagingSession {
	c := *s
	c.Files = maps.Clone(s.Files)
	if c.Files == nil {
		c.Files = map[string]string{}
	}
	return &c
}
