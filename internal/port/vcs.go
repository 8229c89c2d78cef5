package port

import (
	"context"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
)

// RepositoryHost abstracts the remote repository host (GitHub REST object API).
// Every call authenticates with the caller-supplied token.
type RepositoryHost interface {
	// GetCommit fetches commit metadata, diff stats and per-file patches.
	GetCommit(ctx context.Context, token, owner, repo, sha string) (*domain.CommitDetail, error)

	// GetFileContent returns the decoded content of path at ref.
	GetFileContent(ctx context.Context, token, owner, repo, path, ref string) (string, error)

	// CommitFiles writes files to branch as one commit and returns the new commit sha.
	// The branch reference is updated last; any failure leaves the branch untouched.
	CommitFiles(ctx context.Context, token, owner, repo, branch, message string, files map[string]string) (string, error)
}
