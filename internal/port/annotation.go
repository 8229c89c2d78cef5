package port

import (
	"path/filepath"
	"strings"
)

// LanguageRules is one language family of the annotation rule engine (Strategy Pattern).
type LanguageRules interface {
	// Name returns the family name (e.g. "java", "javascript").
	Name() string

	// Extensions lists the lower-cased file extensions this family handles.
	Extensions() []string

	// Comment returns the comment text for a trimmed, non-comment code line.
	Comment(trimmed string) string

	// Qualifies reports whether a trimmed line is a structural insertion point.
	Qualifies(trimmed string) bool

	// Marker returns the opening and closing comment markers. Closing is empty for
	// line comments.
	Marker() (open, close string)
}

// RuleEngine dispatches lines to language families by file extension.
type RuleEngine struct {
	byExt    map[string]LanguageRules
	fallback LanguageRules
}

// NewRuleEngine creates an engine. fallback handles unrecognized extensions.
func NewRuleEngine(fallback LanguageRules, families ...LanguageRules) *RuleEngine {
	m := make(map[string]LanguageRules)
	for _, f := range families {
		for _, ext := range f.Extensions() {
			m[ext] = f
		}
	}
	return &RuleEngine{byExt: m, fallback: fallback}
}

// RulesFor returns the family for filePath, or the fallback.
func (e *RuleEngine) RulesFor(filePath string) LanguageRules {
	if r, ok := e.byExt[strings.ToLower(filepath.Ext(filePath))]; ok {
		return r
	}
	return e.fallback
}

// Supported reports whether filePath maps to a registered family.
func (e *RuleEngine) Supported(filePath string) bool {
	_, ok := e.byExt[strings.ToLower(filepath.Ext(filePath))]
	return ok
}

// CommentForLine returns the comment text for line, or false when the line is
// blank or already a comment.
func (e *RuleEngine) CommentForLine(line, filePath string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") {
		return "", false
	}
	return e.RulesFor(filePath).Comment(trimmed), true
}

// tone checks run in this order; the first match wins.
var toneChecks = []struct {
	keywords []string
	prefix   string
}{
	{[]string{"refactor"}, "Refactor: "},
	{[]string{"feat", "add"}, "New feature: "},
	{[]string{"fix"}, "Bug fix: "},
	{[]string{"docs"}, "Documentation: "},
}

// TonePrefix maps a commit message to the prefix prepended to every comment.
func TonePrefix(message string) string {
	lower := strings.ToLower(message)
	for _, check := range toneChecks {
		for _, kw := range check.keywords {
			if strings.Contains(lower, kw) {
				return check.prefix
			}
		}
	}
	return ""
}

// IsCommentLine reports whether a trimmed line starts with a known comment marker.
func IsCommentLine(trimmed string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

var commentPrefixes = []string{"//", "/*", "*", "#", "<!--"}
