package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/arturoeanton/go-commit-annotator/internal/adapter/annotation"
	"github.com/arturoeanton/go-commit-annotator/internal/adapter/diff"
	"github.com/arturoeanton/go-commit-annotator/internal/adapter/store"
	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/arturoeanton/go-commit-annotator/internal/port"
)

// NothingToAnnotate is the direct-publish message when no file qualified.
const NothingToAnnotate = "nothing to annotate"

// PublishRecorder persists an audit row for every successful publish.
type PublishRecorder interface {
	RecordPublish(ctx context.Context, r domain.PublishRecord) error
}

// CommentService orchestrates preview, edit and publish of generated comments.
type CommentService struct {
	host      port.RepositoryHost
	annotator *Annotator
	filter    *annotation.Filter
	sessions  *store.SessionStore
	recorder  PublishRecorder
}

// CommentServiceOption configures a CommentService.
type CommentServiceOption func(*CommentService)

// WithPublishRecorder enables the durable publish audit trail.
func WithPublishRecorder(r PublishRecorder) CommentServiceOption {
	return func(s *CommentService) { s.recorder = r }
}

// NewCommentService creates the pipeline coordinator.
func NewCommentService(host port.RepositoryHost, annotator *Annotator, filter *annotation.Filter, sessions *store.SessionStore, opts ...CommentServiceOption) *CommentService {
	s := &CommentService{
		host:      host,
		annotator: annotator,
		filter:    filter,
		sessions:  sessions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fileResult is the outcome of one changed file: a preview or a skip reason.
type fileResult struct {
	filename string
	preview  *domain.FilePreview
	skipped  string
}

// Preview annotates every eligible file of a commit and stages the modified ones
// in a new session. Single-file failures are skipped, never fatal.
func (s *CommentService) Preview(ctx context.Context, token, owner, repo, sha, branch string) (*domain.Preview, error) {
	slog.Info("generating comment preview", "owner", owner, "repo", repo, "sha", sha, "branch", branch)

	commit, err := s.host.GetCommit(ctx, token, owner, repo, sha)
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", domain.ShortSHA(sha), err)
	}

	preview := &domain.Preview{
		CommitSHA:     sha,
		CommitMessage: commit.Message,
		Branch:        branch,
		Files:         make(map[string]domain.FilePreview),
	}
	for _, r := range s.annotateCommit(ctx, token, owner, repo, branch, commit) {
		if r.preview == nil {
			preview.Skipped = append(preview.Skipped, domain.SkippedFile{Filename: r.filename, Reason: r.skipped})
			continue
		}
		preview.Files[r.filename] = *r.preview
	}

	preview.SessionID = s.sessions.Create(token, owner, repo, sha, branch, preview.StagedFiles())

	slog.Info("comment preview ready",
		"session_id", preview.SessionID,
		"files", len(preview.Files),
		"skipped", len(preview.Skipped),
	)
	return preview, nil
}

// Session returns a copy of a live session.
func (s *CommentService) Session(_ context.Context, sessionID string) (*domain.StagingSession, error) {
	return s.sessions.Get(sessionID)
}

// UpdateSession replaces the staged files of a session with the caller's full set.
func (s *CommentService) UpdateSession(_ context.Context, sessionID string, files map[string]string) error {
	if len(files) == 0 {
		return port.Validationf("updated files must not be empty")
	}
	for path := range files {
		if strings.TrimSpace(path) == "" {
			return port.Validationf("file path must not be empty")
		}
	}
	if err := s.sessions.UpdateFiles(sessionID, files); err != nil {
		return err
	}
	slog.Info("updated session files", "session_id", sessionID, "files", len(files))
	return nil
}

// DeleteSession removes a live session; missing or expired sessions surface as errors.
func (s *CommentService) DeleteSession(_ context.Context, sessionID string) error {
	if _, err := s.sessions.Get(sessionID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	slog.Info("deleted session", "session_id", sessionID)
	return nil
}

// Publish commits a session's staged files as one commit and consumes the session.
// On any remote failure the session is left intact for retry.
func (s *CommentService) Publish(ctx context.Context, sessionID string) (*domain.PublishResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if len(sess.Files) == 0 {
		return nil, port.ErrNothingToPublish
	}

	message := fmt.Sprintf("docs: Add generated comments for commit %s", domain.ShortSHA(sess.CommitSHA))
	commitSHA, err := s.host.CommitFiles(ctx, sess.Token, sess.Owner, sess.Repo, sess.Branch, message, sess.Files)
	if err != nil {
		slog.Error("session publish failed", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("publish session: %w", err)
	}

	s.sessions.Delete(sessionID)
	s.record(ctx, domain.PublishRecord{
		Owner:     sess.Owner,
		Repo:      sess.Repo,
		Branch:    sess.Branch,
		SourceSHA: sess.CommitSHA,
		CommitSHA: commitSHA,
		FileCount: len(sess.Files),
		SessionID: sessionID,
	})

	slog.Info("published session", "session_id", sessionID, "commit", commitSHA, "files", len(sess.Files))
	return publishResult(len(sess.Files), commitSHA), nil
}

// PublishDirect annotates and commits in one call, skipping review.
func (s *CommentService) PublishDirect(ctx context.Context, token, owner, repo, sha, branch string) (*domain.PublishResult, error) {
	slog.Info("direct comment publish", "owner", owner, "repo", repo, "sha", sha, "branch", branch)

	commit, err := s.host.GetCommit(ctx, token, owner, repo, sha)
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", domain.ShortSHA(sha), err)
	}

	staged := make(map[string]string)
	for _, r := range s.annotateCommit(ctx, token, owner, repo, branch, commit) {
		if r.preview != nil && r.preview.Modified {
			staged[r.filename] = r.preview.AnnotatedContent
		}
	}
	if len(staged) == 0 {
		return &domain.PublishResult{Message: NothingToAnnotate}, nil
	}

	message := fmt.Sprintf("docs: Add generated comments for commit %s\n\n%s", domain.ShortSHA(sha), commit.Message)
	commitSHA, err := s.host.CommitFiles(ctx, token, owner, repo, branch, message, staged)
	if err != nil {
		return nil, fmt.Errorf("publish direct: %w", err)
	}

	s.record(ctx, domain.PublishRecord{
		Owner:     owner,
		Repo:      repo,
		Branch:    branch,
		SourceSHA: sha,
		CommitSHA: commitSHA,
		FileCount: len(staged),
	})
	return publishResult(len(staged), commitSHA), nil
}

// LiveSessions returns the number of sessions currently held.
func (s *CommentService) LiveSessions() int {
	return s.sessions.Len()
}

func (s *CommentService) annotateCommit(ctx context.Context, token, owner, repo, branch string, commit *domain.CommitDetail) []fileResult {
	changes := make([]domain.FileChange, 0, len(commit.Files))
	for _, f := range commit.Files {
		if s.filter.Eligible(f.Filename) {
			changes = append(changes, f)
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Filename < changes[j].Filename })

	results := make([]fileResult, 0, len(changes))
	for _, change := range changes {
		results = append(results, s.annotateFile(ctx, token, owner, repo, branch, commit, change))
	}
	return results
}

func (s *CommentService) annotateFile(ctx context.Context, token, owner, repo, branch string, commit *domain.CommitDetail, change domain.FileChange) fileResult {
	res := fileResult{filename: change.Filename}
	if change.Status == domain.FileStatusRemoved {
		res.skipped = "file removed in commit"
		return res
	}

	content, err := s.host.GetFileContent(ctx, token, owner, repo, change.Filename, branch)
	if err != nil {
		slog.Warn("failed to fetch file", "file", change.Filename, "error", err)
		res.skipped = err.Error()
		return res
	}

	annotated, records := s.annotator.Annotate(content, change, *commit)
	preview := &domain.FilePreview{
		Filename:         change.Filename,
		OriginalContent:  content,
		AnnotatedContent: annotated,
		Annotations:      records,
		Modified:         annotated != content,
	}
	if preview.Modified {
		d, err := diff.Unified(change.Filename, content, annotated)
		if err != nil {
			slog.Warn("failed to render preview diff", "file", change.Filename, "error", err)
		}
		preview.Diff = d
	}
	res.preview = preview
	return res
}

func (s *CommentService) record(ctx context.Context, r domain.PublishRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordPublish(ctx, r); err != nil {
		slog.Warn("failed to record publish", "commit", r.CommitSHA, "error", err)
	}
}

func publishResult(files int, commitSHA string) *domain.PublishResult {
	return &domain.PublishResult{
		FileCount: files,
		CommitSHA: commitSHA,
		Message:   fmt.Sprintf("Committed generated comments to %d file(s). Commit: %s", files, domain.ShortSHA(commitSHA)),
	}
}
