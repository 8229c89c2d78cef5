package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTonePrefix(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"refactor: split handler", "Refactor: "},
		{"Refactor and fix parser", "Refactor: "},
		{"feat: add login", "New feature: "},
		{"Add retry to client", "New feature: "},
		{"fix: nil pointer", "Bug fix: "},
		{"docs: readme", "Documentation: "},
		{"chore: bump deps", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TonePrefix(tt.message), tt.message)
	}
}

func TestIsCommentLine(t *testing.T) {
	for _, line := range []string{"// x", "/* x */", "* x", "# x", "<!-- x -->"} {
		assert.True(t, IsCommentLine(line), line)
	}
	for _, line := range []string{"x // y", "public void a() {", ""} {
		assert.False(t, IsCommentLine(line), line)
	}
}

type stubRules struct{ name string }

func (s stubRules) Name() string             { return s.name }
func (s stubRules) Extensions() []string     { return []string{".stub"} }
func (s stubRules) Comment(string) string    { return s.name + " comment" }
func (s stubRules) Qualifies(string) bool    { return true }
func (s stubRules) Marker() (string, string) { return "//", "" }

func TestRuleEngine_Fallback(t *testing.T) {
	e := NewRuleEngine(stubRules{"fallback"}, stubRules{"stub"})

	assert.Equal(t, "stub", e.RulesFor("a.STUB").Name())
	assert.Equal(t, "fallback", e.RulesFor("a.txt").Name())
	assert.Equal(t, "fallback", e.RulesFor("Makefile").Name())
	assert.True(t, e.Supported("x/y.stub"))
	assert.False(t, e.Supported("x/y.txt"))
}
