package service

import (
	"strings"

	"github.com/arturoeanton/go-commit-annotator/internal/adapter/diff"
	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/arturoeanton/go-commit-annotator/internal/port"
)

// Annotator injects rule-generated comment lines into a file's current content.
type Annotator struct {
	engine      *port.RuleEngine
	changedOnly bool
}

// AnnotatorOption configures an Annotator.
type AnnotatorOption func(*Annotator)

// WithChangedLinesOnly restricts insertion points to lines the patch adds.
func WithChangedLinesOnly(on bool) AnnotatorOption {
	return func(a *Annotator) { a.changedOnly = on }
}

// NewAnnotator creates an annotator over the given rule engine.
func NewAnnotator(engine *port.RuleEngine, opts ...AnnotatorOption) *Annotator {
	a := &Annotator{engine: engine}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate returns content with a comment line inserted after every structural
// insertion point, plus one record per inserted comment. Without a patch the
// content is returned unchanged. Existing lines are never altered.
func (a *Annotator) Annotate(content string, change domain.FileChange, commit domain.CommitDetail) (string, []domain.AnnotationRecord) {
	records := []domain.AnnotationRecord{}
	if !change.HasPatch() {
		return content, records
	}

	rules := a.engine.RulesFor(change.Filename)
	tone := port.TonePrefix(commit.Message)
	open, closing := rules.Marker()

	var added map[string]bool
	if a.changedOnly {
		added = diff.AddedLines(change.Patch)
	}

	sep := "\n"
	if strings.Contains(content, "\r\n") {
		sep = "\r\n"
	}

	var sb strings.Builder
	sb.Grow(len(content))
	for i, line := range diff.SplitLines(content) {
		sb.WriteString(line)

		body := strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimSpace(body)
		if trimmed == "" || port.IsCommentLine(trimmed) || !rules.Qualifies(trimmed) {
			continue
		}
		if added != nil && !added[trimmed] {
			continue
		}

		comment, ok := a.engine.CommentForLine(body, change.Filename)
		if !ok {
			continue
		}
		text := tone + comment

		injected := indentation(body) + open + " " + text
		if closing != "" {
			injected += " " + closing
		}
		if term := diff.Terminator(line); term != "" {
			sb.WriteString(injected + term)
		} else {
			sb.WriteString(sep + injected)
		}

		records = append(records, domain.AnnotationRecord{
			LineNumber: i + 1,
			Comment:    text,
			CodeLine:   trimmed,
		})
	}

	if len(records) == 0 {
		return content, records
	}
	return sb.String(), records
}

func indentation(line string) string {
	end := 0
	for end < len(line) && (line[end] == ' ' || line[end] == '\t') {
		end++
	}
	return line[:end]
}
