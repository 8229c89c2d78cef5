package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/arturoeanton/go-commit-annotator/internal/port"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	t.Setenv("GIT_AUTHOR_NAME", "Octo Cat")
	t.Setenv("GIT_AUTHOR_EMAIL", "octo@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Octo Cat")
	t.Setenv("GIT_COMMITTER_EMAIL", "octo@example.com")
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	dir := t.TempDir()
	run(t, dir, "init", "-q", "-b", "main")
	return dir
}

func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLocalGitHost_GetCommit(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "src/Foo.java", "public class Foo {\n}\n")
	writeFile(t, dir, "old.txt", "gone\n")
	run(t, dir, "add", ".")
	run(t, dir, "commit", "-q", "-m", "initial")

	writeFile(t, dir, "src/Foo.java", "public class Foo {\n    public void bar() {\n    }\n}\n")
	run(t, dir, "rm", "-q", "old.txt")
	run(t, dir, "add", ".")
	run(t, dir, "commit", "-q", "-m", "feat: add bar\n\nLonger body.")
	sha := run(t, dir, "rev-parse", "HEAD")

	host := NewLocalGitHost(dir)
	commit, err := host.GetCommit(context.Background(), "", "", "", sha)
	require.NoError(t, err)

	assert.Equal(t, sha, commit.SHA)
	assert.Equal(t, "feat: add bar\n\nLonger body.", commit.Message)
	assert.Equal(t, "Octo Cat", commit.AuthorName)
	assert.Equal(t, 2, commit.Additions)
	assert.Equal(t, 1, commit.Deletions)

	byName := map[string]domain.FileChange{}
	for _, f := range commit.Files {
		byName[f.Filename] = f
	}
	require.Contains(t, byName, "src/Foo.java")
	assert.Equal(t, domain.FileStatusModified, byName["src/Foo.java"].Status)
	assert.True(t, strings.HasPrefix(byName["src/Foo.java"].Patch, "@@"))
	assert.Contains(t, byName["src/Foo.java"].Patch, "+    public void bar() {")
	assert.Equal(t, domain.FileStatusRemoved, byName["old.txt"].Status)
}

func TestLocalGitHost_GetFileContent(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "a.js", "let a = 1;\n")
	run(t, dir, "add", ".")
	run(t, dir, "commit", "-q", "-m", "initial")

	host := NewLocalGitHost(dir)
	content, err := host.GetFileContent(context.Background(), "", "", "", "a.js", "main")
	require.NoError(t, err)
	assert.Equal(t, "let a = 1;\n", content)

	_, err = host.GetFileContent(context.Background(), "", "", "", "missing.js", "main")
	assert.ErrorIs(t, err, port.ErrRemoteAPI)
}

func TestLocalGitHost_CommitFiles(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "a.js", "let a = 1;\n")
	writeFile(t, dir, "keep.txt", "untouched\n")
	run(t, dir, "add", ".")
	run(t, dir, "commit", "-q", "-m", "initial")
	head := run(t, dir, "rev-parse", "main")

	host := NewLocalGitHost(dir)
	sha, err := host.CommitFiles(context.Background(), "", "", "", "main", "docs: Add generated comments", map[string]string{
		"a.js":     "let a = 1;\n// Declares a variable\n",
		"new/b.js": "const b = 2;\n",
	})
	require.NoError(t, err)

	assert.Equal(t, sha, run(t, dir, "rev-parse", "main"))
	assert.Equal(t, head, run(t, dir, "rev-parse", "main^"))
	assert.Equal(t, "docs: Add generated comments", run(t, dir, "log", "-1", "--format=%s", "main"))
	assert.Equal(t, "let a = 1;\n// Declares a variable", run(t, dir, "show", "main:a.js"))
	assert.Equal(t, "const b = 2;", run(t, dir, "show", "main:new/b.js"))
	assert.Equal(t, "untouched", run(t, dir, "show", "main:keep.txt"))
}

func TestLocalGitHost_CommitFilesUnknownBranch(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "a.js", "x\n")
	run(t, dir, "add", ".")
	run(t, dir, "commit", "-q", "-m", "initial")

	host := NewLocalGitHost(dir)
	_, err := host.CommitFiles(context.Background(), "", "", "", "nope", "msg", map[string]string{"a.js": "y"})

	var remote *port.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "commit files", remote.Op)
}
