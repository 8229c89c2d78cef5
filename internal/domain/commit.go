package domain

import "time"

// CommitDetail is a snapshot of one remote commit and the files it touched.
type CommitDetail struct {
	SHA         string       `json:"sha"`
	Message     string       `json:"message"`
	AuthorName  string       `json:"author_name"`
	AuthorEmail string       `json:"author_email"`
	Date        time.Time    `json:"date"`
	Files       []FileChange `json:"files"`
	Additions   int          `json:"additions"`
	Deletions   int          `json:"deletions"`
	Total       int          `json:"total"`
}

// ShortSHA returns the first eight characters of the commit sha.
func (c *CommitDetail) ShortSHA() string {
	return ShortSHA(c.SHA)
}

// FileChange describes one file's change within a commit.
// Patch is empty for binary or very large files.
type FileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"` // added, modified, removed, renamed
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}

// HasPatch reports whether the host returned a patch fragment.
func (f FileChange) HasPatch() bool {
	return f.Patch != ""
}

// File status constants.
const (
	FileStatusAdded    = "added"
	FileStatusModified = "modified"
	FileStatusRemoved  = "removed"
	FileStatusRenamed  = "renamed"
)

// ShortSHA truncates a sha to eight characters.
func ShortSHA(sha string) string {
	if len(sha) <= 8 {
		return sha
	}
	return sha[:8]
}
