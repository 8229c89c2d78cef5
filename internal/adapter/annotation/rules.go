// Package annotation holds the language families of the comment rule engine.
package annotation

import (
	"strings"

	"github.com/arturoeanton/go-commit-annotator/internal/port"
)

// rule is one ordered (pattern -> comment) check. Order in a family's list is its
// priority: the first matching rule wins.
type rule struct {
	match   func(line string) bool
	comment string
}

func firstMatch(rules []rule, line, fallback string) string {
	for _, r := range rules {
		if r.match(line) {
			return r.comment
		}
	}
	return fallback
}

func contains(subs ...string) func(string) bool {
	return func(line string) bool {
		for _, s := range subs {
			if !strings.Contains(line, s) {
				return false
			}
		}
		return true
	}
}

func containsAny(subs ...string) func(string) bool {
	return func(line string) bool {
		for _, s := range subs {
			if strings.Contains(line, s) {
				return true
			}
		}
		return false
	}
}

func hasPrefix(prefixes ...string) func(string) bool {
	return func(line string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				return true
			}
		}
		return false
	}
}

func allOf(preds ...func(string) bool) func(string) bool {
	return func(line string) bool {
		for _, p := range preds {
			if !p(line) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(line string) bool {
		for _, p := range preds {
			if p(line) {
				return true
			}
		}
		return false
	}
}

func not(pred func(string) bool) func(string) bool {
	return func(line string) bool { return !pred(line) }
}

// NewEngine returns the rule engine with every built-in family registered.
func NewEngine() *port.RuleEngine {
	return port.NewRuleEngine(
		NewGenericRules(),
		NewJavaRules(),
		NewJavaScriptRules(),
		NewPythonRules(),
		NewCSSRules(),
		NewMarkupRules(),
	)
}
