package vcs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/arturoeanton/go-commit-annotator/internal/port"
)

// DefaultGitHubAPIURL is the public GitHub REST endpoint.
const DefaultGitHubAPIURL = "https://api.github.com"

// GitHubClient implements port.RepositoryHost against the GitHub REST object API.
type GitHubClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGitHubClient creates a client. An empty baseURL selects api.github.com.
func NewGitHubClient(baseURL string, timeout time.Duration) *GitHubClient {
	if baseURL == "" {
		baseURL = DefaultGitHubAPIURL
	}
	return &GitHubClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetCommit fetches commit metadata, stats and per-file patches.
func (g *GitHubClient) GetCommit(ctx context.Context, token, owner, repo, sha string) (*domain.CommitDetail, error) {
	var payload struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Name  string    `json:"name"`
				Email string    `json:"email"`
				Date  time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
		Stats struct {
			Additions int `json:"additions"`
			Deletions int `json:"deletions"`
			Total     int `json:"total"`
		} `json:"stats"`
		Files []domain.FileChange `json:"files"`
	}

	path := fmt.Sprintf("/repos/%s/%s/commits/%s", url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(sha))
	if err := g.do(ctx, "get commit", http.MethodGet, path, token, nil, &payload); err != nil {
		return nil, err
	}

	return &domain.CommitDetail{
		SHA:         payload.SHA,
		Message:     payload.Commit.Message,
		AuthorName:  payload.Commit.Author.Name,
		AuthorEmail: payload.Commit.Author.Email,
		Date:        payload.Commit.Author.Date,
		Files:       payload.Files,
		Additions:   payload.Stats.Additions,
		Deletions:   payload.Stats.Deletions,
		Total:       payload.Stats.Total,
	}, nil
}

// GetFileContent fetches path at ref and decodes the base64 body.
func (g *GitHubClient) GetFileContent(ctx context.Context, token, owner, repo, path, ref string) (string, error) {
	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s",
		url.PathEscape(owner), url.PathEscape(repo), escapePath(path), url.QueryEscape(ref))
	if err := g.do(ctx, "get file content", http.MethodGet, endpoint, token, nil, &payload); err != nil {
		return "", err
	}

	if payload.Encoding != "" && payload.Encoding != "base64" {
		return "", &port.RemoteError{Op: "get file content", Message: "unsupported encoding " + payload.Encoding}
	}
	decoded, err := base64.StdEncoding.DecodeString(stripWhitespace(payload.Content))
	if err != nil {
		return "", &port.RemoteError{Op: "get file content", Message: "decode content", Err: err}
	}
	return string(decoded), nil
}

// CommitFiles performs the four-step object protocol: resolve head, create tree,
// create commit, force-update the branch. The ref moves only after every prior
// step succeeded, so a failure never leaves the branch on a half-built commit.
// Every step failure surfaces as the same "commit files" error.
func (g *GitHubClient) CommitFiles(ctx context.Context, token, owner, repo, branch, message string, files map[string]string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &port.RemoteError{Op: "commit files", Message: err.Error()}
	}

	head, err := g.branchHead(ctx, token, owner, repo, branch)
	if err != nil {
		return fail(err)
	}
	tree, err := g.createTree(ctx, token, owner, repo, head, files)
	if err != nil {
		return fail(err)
	}
	commit, err := g.createCommit(ctx, token, owner, repo, message, tree, head)
	if err != nil {
		return fail(err)
	}
	if err := g.updateRef(ctx, token, owner, repo, branch, commit); err != nil {
		return fail(err)
	}
	return commit, nil
}

type treeEntry struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (g *GitHubClient) branchHead(ctx context.Context, token, owner, repo, branch string) (string, error) {
	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	if err := g.do(ctx, "resolve branch head", http.MethodGet, refPath(owner, repo, branch), token, nil, &ref); err != nil {
		return "", err
	}
	if ref.Object.SHA == "" {
		return "", fmt.Errorf("resolve branch head: empty sha for %s", branch)
	}
	return ref.Object.SHA, nil
}

func (g *GitHubClient) createTree(ctx context.Context, token, owner, repo, baseTree string, files map[string]string) (string, error) {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	entries := make([]treeEntry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, treeEntry{Path: p, Mode: "100644", Type: "blob", Content: files[p]})
	}

	body := map[string]interface{}{"base_tree": baseTree, "tree": entries}
	var out struct {
		SHA string `json:"sha"`
	}
	path := fmt.Sprintf("/repos/%s/%s/git/trees", url.PathEscape(owner), url.PathEscape(repo))
	if err := g.do(ctx, "create tree", http.MethodPost, path, token, body, &out); err != nil {
		return "", err
	}
	return out.SHA, nil
}

func (g *GitHubClient) createCommit(ctx context.Context, token, owner, repo, message, tree, parent string) (string, error) {
	body := map[string]interface{}{"message": message, "tree": tree, "parents": []string{parent}}
	var out struct {
		SHA string `json:"sha"`
	}
	path := fmt.Sprintf("/repos/%s/%s/git/commits", url.PathEscape(owner), url.PathEscape(repo))
	if err := g.do(ctx, "create commit", http.MethodPost, path, token, body, &out); err != nil {
		return "", err
	}
	return out.SHA, nil
}

func (g *GitHubClient) updateRef(ctx context.Context, token, owner, repo, branch, sha string) error {
	body := map[string]interface{}{"sha": sha, "force": true}
	return g.do(ctx, "update branch ref", http.MethodPost, refPath(owner, repo, branch), token, body, nil)
}

// do sends one API request and decodes a 2xx JSON response into out.
func (g *GitHubClient) do(ctx context.Context, op, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &port.RemoteError{Op: op, Message: "encode request", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return &port.RemoteError{Op: op, Message: "create request", Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &port.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &port.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: hostMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &port.RemoteError{Op: op, Message: "decode response", Err: err}
	}
	return nil
}

// hostMessage extracts GitHub's {"message": ...} field, falling back to the raw body.
func hostMessage(raw []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(raw))
}

func refPath(owner, repo, branch string) string {
	return fmt.Sprintf("/repos/%s/%s/git/refs/heads/%s", url.PathEscape(owner), url.PathEscape(repo), escapePath(branch))
}

// escapePath escapes each segment of a slash-separated path.
func escapePath(p string) string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
}
