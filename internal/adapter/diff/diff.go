// Package diff reads unified patch fragments and renders before/after diffs.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// AddedLines returns the trimmed text of every line the patch adds. Hunk headers,
// context and removed lines are ignored.
func AddedLines(patch string) map[string]bool {
	added := make(map[string]bool)
	for _, line := range strings.Split(patch, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		if text := strings.TrimSpace(line[1:]); text != "" {
			added[text] = true
		}
	}
	return added
}

// Unified renders a unified diff from original to annotated for filename.
// It returns an empty string when the two are identical.
func Unified(filename, original, annotated string) (string, error) {
	if original == annotated {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(annotated),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  3,
	})
}

// SplitLines splits content into lines that keep their terminators, so joining the
// result reproduces content exactly.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Terminator returns the line ending of line ("\r\n", "\n" or "").
func Terminator(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	default:
		return ""
	}
}
