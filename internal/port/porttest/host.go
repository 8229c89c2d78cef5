// Package porttest provides in-memory port implementations for tests.
package porttest

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/arturoeanton/go-commit-annotator/internal/port"
)

// Commit is one recorded CommitFiles call.
type Commit struct {
	Owner, Repo, Branch, Message string
	Files                        map[string]string
	SHA                          string
}

// Host is an in-memory port.RepositoryHost.
type Host struct {
	mu sync.Mutex

	Commits  map[string]*domain.CommitDetail // by sha
	Contents map[string]string               // by path

	// FetchErrors fails GetFileContent for the listed paths.
	FetchErrors map[string]error
	// CommitErr fails every CommitFiles call when set.
	CommitErr error

	Published []Commit
}

// NewHost returns an empty host.
func NewHost() *Host {
	return &Host{
		Commits:     make(map[string]*domain.CommitDetail),
		Contents:    make(map[string]string),
		FetchErrors: make(map[string]error),
	}
}

// AddFile registers path with content and adds it to commit sha as a
// modified file carrying patch.
func (h *Host) AddFile(sha, message, path, content, patch string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.Commits[sha]
	if !ok {
		c = &domain.CommitDetail{SHA: sha, Message: message}
		h.Commits[sha] = c
	}
	c.Files = append(c.Files, domain.FileChange{
		Filename: path,
		Status:   domain.FileStatusModified,
		Patch:    patch,
	})
	h.Contents[path] = content
}

func (h *Host) GetCommit(_ context.Context, _, _, _, sha string) (*domain.CommitDetail, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.Commits[sha]
	if !ok {
		return nil, &port.RemoteError{Op: "get commit", StatusCode: 404, Message: "No commit found for SHA: " + sha}
	}
	cp := *c
	cp.Files = append([]domain.FileChange(nil), c.Files...)
	return &cp, nil
}

func (h *Host) GetFileContent(_ context.Context, _, _, _, path, _ string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.FetchErrors[path]; err != nil {
		return "", err
	}
	content, ok := h.Contents[path]
	if !ok {
		return "", &port.RemoteError{Op: "get file content", StatusCode: 404, Message: "Not Found"}
	}
	return content, nil
}

func (h *Host) CommitFiles(_ context.Context, _, owner, repo, branch, message string, files map[string]string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.CommitErr != nil {
		return "", h.CommitErr
	}
	sha := fmt.Sprintf("c0ffee%02d", len(h.Published)+1)
	h.Published = append(h.Published, Commit{
		Owner: owner, Repo: repo, Branch: branch, Message: message,
		Files: maps.Clone(files),
		SHA:   sha,
	})
	return sha, nil
}

// PublishedCommits returns a snapshot of every successful CommitFiles call.
func (h *Host) PublishedCommits() []Commit {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Commit(nil), h.Published...)
}
