package vcs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-commit-annotator/internal/port"
)

// fakeGitHub records every request and serves canned object-API responses.
type fakeGitHub struct {
	mu       sync.Mutex
	calls    []string
	bodies   map[string]map[string]interface{}
	failStep string
}

func newFakeGitHub(t *testing.T) (*fakeGitHub, *GitHubClient) {
	t.Helper()
	f := &fakeGitHub{bodies: make(map[string]map[string]interface{})}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, NewGitHubClient(srv.URL, 5*time.Second)
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.calls = append(f.calls, key)
	if r.Body != nil && r.Method != http.MethodGet {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies[key] = body
	}
	fail := f.failStep == key
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		return
	}
	if fail {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch key {
	case "GET /repos/octo/demo/commits/abc123":
		_, _ = w.Write([]byte(`{
			"sha": "abc123",
			"commit": {"message": "feat: add bar", "author": {"name": "Octo Cat", "email": "octo@example.com", "date": "2026-01-02T15:04:05Z"}},
			"stats": {"additions": 3, "deletions": 1, "total": 4},
			"files": [{"filename": "src/Foo.java", "status": "modified", "additions": 3, "deletions": 1, "changes": 4, "patch": "@@ -1 +1 @@\n+public void bar() {"}]
		}`))
	case "GET /repos/octo/demo/contents/src/Foo.java":
		encoded := base64.StdEncoding.EncodeToString([]byte("public class Foo {\n}\n"))
		// GitHub wraps base64 content at 60 columns.
		wrapped := encoded[:10] + "\n" + encoded[10:]
		_ = json.NewEncoder(w).Encode(map[string]string{"content": wrapped, "encoding": "base64"})
	case "GET /repos/octo/demo/git/refs/heads/main":
		_, _ = w.Write([]byte(`{"ref": "refs/heads/main", "object": {"sha": "head000", "type": "commit"}}`))
	case "POST /repos/octo/demo/git/trees":
		_, _ = w.Write([]byte(`{"sha": "tree111"}`))
	case "POST /repos/octo/demo/git/commits":
		_, _ = w.Write([]byte(`{"sha": "commit222"}`))
	case "POST /repos/octo/demo/git/refs/heads/main":
		_, _ = w.Write([]byte(`{"ref": "refs/heads/main", "object": {"sha": "commit222"}}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}
}

func (f *fakeGitHub) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestGitHubClient_GetCommit(t *testing.T) {
	_, client := newFakeGitHub(t)

	commit, err := client.GetCommit(context.Background(), "tok", "octo", "demo", "abc123")
	require.NoError(t, err)

	assert.Equal(t, "abc123", commit.SHA)
	assert.Equal(t, "feat: add bar", commit.Message)
	assert.Equal(t, "Octo Cat", commit.AuthorName)
	assert.Equal(t, 2026, commit.Date.Year())
	assert.Equal(t, 4, commit.Total)
	require.Len(t, commit.Files, 1)
	assert.Equal(t, "src/Foo.java", commit.Files[0].Filename)
	assert.True(t, commit.Files[0].HasPatch())
}

func TestGitHubClient_GetFileContentDecodesBase64(t *testing.T) {
	_, client := newFakeGitHub(t)

	content, err := client.GetFileContent(context.Background(), "tok", "octo", "demo", "src/Foo.java", "main")
	require.NoError(t, err)
	assert.Equal(t, "public class Foo {\n}\n", content)
}

func TestGitHubClient_HostMessageSurfaced(t *testing.T) {
	_, client := newFakeGitHub(t)

	_, err := client.GetCommit(context.Background(), "wrong", "octo", "demo", "abc123")
	require.Error(t, err)

	var remote *port.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
	assert.Equal(t, "Bad credentials", remote.Message)
	assert.ErrorIs(t, err, port.ErrRemoteAPI)
}

func TestGitHubClient_CommitFilesProtocol(t *testing.T) {
	f, client := newFakeGitHub(t)
	files := map[string]string{"b/Two.java": "two", "a/One.java": "one"}

	sha, err := client.CommitFiles(context.Background(), "tok", "octo", "demo", "main", "docs: Add generated comments for commit abc123de", files)
	require.NoError(t, err)
	assert.Equal(t, "commit222", sha)

	assert.Equal(t, []string{
		"GET /repos/octo/demo/git/refs/heads/main",
		"POST /repos/octo/demo/git/trees",
		"POST /repos/octo/demo/git/commits",
		"POST /repos/octo/demo/git/refs/heads/main",
	}, f.recorded())

	tree := f.bodies["POST /repos/octo/demo/git/trees"]
	assert.Equal(t, "head000", tree["base_tree"])
	entries := tree["tree"].([]interface{})
	require.Len(t, entries, 2)
	first := entries[0].(map[string]interface{})
	assert.Equal(t, "a/One.java", first["path"])
	assert.Equal(t, "100644", first["mode"])
	assert.Equal(t, "blob", first["type"])
	assert.Equal(t, "one", first["content"])

	commit := f.bodies["POST /repos/octo/demo/git/commits"]
	assert.Equal(t, "tree111", commit["tree"])
	assert.Equal(t, []interface{}{"head000"}, commit["parents"])

	ref := f.bodies["POST /repos/octo/demo/git/refs/heads/main"]
	assert.Equal(t, "commit222", ref["sha"])
	assert.Equal(t, true, ref["force"])
}

func TestGitHubClient_CommitFilesStopsBeforeRefOnFailure(t *testing.T) {
	for _, step := range []string{
		"POST /repos/octo/demo/git/trees",
		"POST /repos/octo/demo/git/commits",
	} {
		t.Run(step, func(t *testing.T) {
			f, client := newFakeGitHub(t)
			f.failStep = step

			_, err := client.CommitFiles(context.Background(), "tok", "octo", "demo", "main", "msg", map[string]string{"a.js": "x"})
			require.Error(t, err)

			var remote *port.RemoteError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, "commit files", remote.Op)
			assert.Contains(t, remote.Message, "Validation Failed")
			assert.NotContains(t, f.recorded(), "POST /repos/octo/demo/git/refs/heads/main")
		})
	}
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "src/my%20dir/Foo.java", escapePath("/src/my dir/Foo.java"))
	assert.Equal(t, "feature/x", escapePath("feature/x"))
}
