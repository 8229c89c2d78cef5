package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/go-commit-annotator/internal/adapter/diff"
)

func TestWholeFilePatch(t *testing.T) {
	patch := wholeFilePatch("a\r\nb\n")

	assert.Equal(t, "@@ -0,0 +1,2 @@\n+a\n+b\n", patch)
	assert.Equal(t, map[string]bool{"a": true, "b": true}, diff.AddedLines(patch))
}

func TestTarget(t *testing.T) {
	o := &options{token: "tok"}
	owner, repo, sha, err := o.target([]string{"octo", "demo", "abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"octo", "demo", "abc"}, []string{owner, repo, sha})

	_, _, _, err = o.target([]string{"abc"})
	assert.Error(t, err)

	_, _, _, err = (&options{}).target([]string{"octo", "demo", "abc"})
	assert.ErrorContains(t, err, "token")

	local := &options{localRepo: "."}
	_, _, sha, err = local.target([]string{"abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", sha)
}

func TestAnnotateFileCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.java")
	require.NoError(t, os.WriteFile(path, []byte("public class Foo {\n}\n"), 0o644))

	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"annotate-file", "--no-color", "-m", "feat: foo", path})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "public class Foo {\n// New feature: Defines a new class\n}\n", out.String())
	assert.Contains(t, errOut.String(), "1 comment(s)")
}
