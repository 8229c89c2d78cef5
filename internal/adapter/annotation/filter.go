package annotation

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SupportedExtensions lists the extensions eligible for annotation.
var SupportedExtensions = []string{
	".java", ".js", ".ts", ".jsx", ".tsx", ".py", ".css", ".scss",
	".html", ".vue", ".php", ".go", ".rs", ".cpp", ".c", ".h",
}

// Filter decides which changed files are eligible for annotation. Paths are matched
// lower-cased against doublestar patterns.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter builds the default allowlist plus optional exclude globs
// (e.g. "vendor/**").
func NewFilter(exclude ...string) (*Filter, error) {
	include := make([]string, 0, len(SupportedExtensions))
	for _, ext := range SupportedExtensions {
		include = append(include, "**/*"+ext)
	}

	var cleaned []string
	for _, pattern := range exclude {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
		cleaned = append(cleaned, strings.ToLower(pattern))
	}

	return &Filter{include: include, exclude: cleaned}, nil
}

// Eligible reports whether path should be annotated.
func (f *Filter) Eligible(path string) bool {
	p := strings.ToLower(strings.TrimPrefix(path, "/"))
	for _, pattern := range f.exclude {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return false
		}
	}
	for _, pattern := range f.include {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}
