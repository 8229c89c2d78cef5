package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/arturoeanton/go-commit-annotator/internal/port"
)

// LocalGitHost implements port.RepositoryHost over a local clone using the git CLI.
// Token, owner and repo arguments are ignored; every call targets repoPath.
type LocalGitHost struct {
	repoPath string
}

// NewLocalGitHost creates a host for the repository at repoPath.
func NewLocalGitHost(repoPath string) *LocalGitHost {
	return &LocalGitHost{repoPath: repoPath}
}

// GetCommit reads commit metadata, numstat and per-file patches.
func (g *LocalGitHost) GetCommit(ctx context.Context, _, _, _, sha string) (*domain.CommitDetail, error) {
	const sep = "\x1f"
	meta, err := g.git(ctx, nil, "", "log", "-1", "--format=%H"+sep+"%an"+sep+"%ae"+sep+"%aI"+sep+"%B", sha)
	if err != nil {
		return nil, &port.RemoteError{Op: "get commit", Err: err}
	}
	parts := strings.SplitN(meta, sep, 5)
	if len(parts) < 5 {
		return nil, &port.RemoteError{Op: "get commit", Message: "unexpected git log output"}
	}
	date, _ := time.Parse(time.RFC3339, parts[3])
	detail := &domain.CommitDetail{
		SHA:         parts[0],
		AuthorName:  parts[1],
		AuthorEmail: parts[2],
		Date:        date,
		Message:     strings.TrimSpace(parts[4]),
	}

	statuses, err := g.git(ctx, nil, "", "diff-tree", "--no-commit-id", "-r", "--root", "--name-status", detail.SHA)
	if err != nil {
		return nil, &port.RemoteError{Op: "get commit", Err: err}
	}
	numstat, err := g.git(ctx, nil, "", "diff-tree", "--no-commit-id", "-r", "--root", "--numstat", detail.SHA)
	if err != nil {
		return nil, &port.RemoteError{Op: "get commit", Err: err}
	}
	stats := parseNumstat(numstat)

	for _, line := range strings.Split(strings.TrimSpace(statuses), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		path := fields[len(fields)-1]
		st := stats[path]
		change := domain.FileChange{
			Filename:  path,
			Status:    statusName(fields[0]),
			Additions: st.add,
			Deletions: st.del,
			Changes:   st.add + st.del,
		}
		if !st.binary {
			patch, err := g.git(ctx, nil, "", "show", "--format=", "--patch", detail.SHA, "--", path)
			if err != nil {
				return nil, &port.RemoteError{Op: "get commit", Err: err}
			}
			change.Patch = hunksOnly(patch)
		}
		detail.Files = append(detail.Files, change)
		detail.Additions += st.add
		detail.Deletions += st.del
	}
	detail.Total = detail.Additions + detail.Deletions
	return detail, nil
}

// GetFileContent reads path at ref.
func (g *LocalGitHost) GetFileContent(ctx context.Context, _, _, _, path, ref string) (string, error) {
	out, err := g.git(ctx, nil, "", "show", ref+":"+path)
	if err != nil {
		return "", &port.RemoteError{Op: "get file content", Err: err}
	}
	return out, nil
}

// CommitFiles mirrors the remote object protocol with plumbing commands on a
// throwaway index: resolve head, write blobs and tree, commit-tree, then move the
// branch ref last.
func (g *LocalGitHost) CommitFiles(ctx context.Context, _, _, _, branch, message string, files map[string]string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &port.RemoteError{Op: "commit files", Err: err}
	}

	head, err := g.git(ctx, nil, "", "rev-parse", "--verify", "refs/heads/"+branch+"^{commit}")
	if err != nil {
		return fail(err)
	}
	head = strings.TrimSpace(head)

	tmpDir, err := os.MkdirTemp("", "annotator-index-*")
	if err != nil {
		return fail(err)
	}
	defer os.RemoveAll(tmpDir)
	env := []string{"GIT_INDEX_FILE=" + filepath.Join(tmpDir, "index")}

	if _, err := g.git(ctx, env, "", "read-tree", head); err != nil {
		return fail(err)
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		blob, err := g.git(ctx, env, files[p], "hash-object", "-w", "--stdin")
		if err != nil {
			return fail(err)
		}
		cacheinfo := "100644," + strings.TrimSpace(blob) + "," + p
		if _, err := g.git(ctx, env, "", "update-index", "--add", "--cacheinfo", cacheinfo); err != nil {
			return fail(err)
		}
	}

	tree, err := g.git(ctx, env, "", "write-tree")
	if err != nil {
		return fail(err)
	}
	commit, err := g.git(ctx, env, "", "commit-tree", strings.TrimSpace(tree), "-p", head, "-m", message)
	if err != nil {
		return fail(err)
	}
	commit = strings.TrimSpace(commit)

	if _, err := g.git(ctx, nil, "", "update-ref", "refs/heads/"+branch, commit); err != nil {
		return fail(err)
	}
	return commit, nil
}

func (g *LocalGitHost) git(ctx context.Context, env []string, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", g.repoPath}, args...)...)
	if env != nil {
		cmd.Env = append(os.Environ(), env...)
	}
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

type fileStat struct {
	add, del int
	binary   bool
}

func parseNumstat(out string) map[string]fileStat {
	stats := make(map[string]fileStat)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		if fields[0] == "-" {
			stats[fields[2]] = fileStat{binary: true}
			continue
		}
		add, _ := strconv.Atoi(fields[0])
		del, _ := strconv.Atoi(fields[1])
		stats[fields[2]] = fileStat{add: add, del: del}
	}
	return stats
}

func statusName(code string) string {
	switch {
	case strings.HasPrefix(code, "A"):
		return domain.FileStatusAdded
	case strings.HasPrefix(code, "D"):
		return domain.FileStatusRemoved
	case strings.HasPrefix(code, "R"):
		return domain.FileStatusRenamed
	default:
		return domain.FileStatusModified
	}
}

// hunksOnly drops the diff header so the patch starts at the first hunk, matching
// the fragment GitHub returns.
func hunksOnly(patch string) string {
	idx := strings.Index(patch, "@@")
	if idx < 0 {
		return ""
	}
	return strings.TrimRight(patch[idx:], "\n")
}
