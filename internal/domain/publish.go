package domain

import "time"

// PublishResult summarizes a publish. CommitSHA is empty when nothing was committed.
type PublishResult struct {
	FileCount int    `json:"file_count"`
	CommitSHA string `json:"commit_sha,omitempty"`
	Message   string `json:"message"`
}

// PublishRecord is the durable audit row written after a successful publish.
type PublishRecord struct {
	ID        string    `json:"id"         db:"id"`
	Owner     string    `json:"owner"      db:"owner"`
	Repo      string    `json:"repo"       db:"repo"`
	Branch    string    `json:"branch"     db:"branch"`
	SourceSHA string    `json:"source_sha" db:"source_sha"`
	CommitSHA string    `json:"commit_sha" db:"commit_sha"`
	FileCount int       `json:"file_count" db:"file_count"`
	SessionID string    `json:"session_id" db:"session_id"` // empty for direct publishes
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
