package changelog

import (
	"regexp"
	"strings"
)

// conventionalPattern matches "type(scope): description" with an optional scope.
var conventionalPattern = regexp.MustCompile(`^(\w+)(?:\([^)]+\))?:\s*(.+)$`)

// TypeRule maps a conventional-commit type identifier to a category.
type TypeRule struct {
	Type     string
	Category Category
}

// KeywordRule assigns Category when the lowercased subject contains any
// of Keywords as a substring.
type KeywordRule struct {
	Category Category
	Keywords []string
}

// TypeRules is the conventional-commit type table. Types not listed here
// classify as Changed.
var TypeRules = []TypeRule{
	{Type: "feat", Category: Added},
	{Type: "fix", Category: Fixed},
	{Type: "docs", Category: Documentation},
	{Type: "refactor", Category: Changed},
	{Type: "perf", Category: Performance},
	{Type: "test", Category: Testing},
	{Type: "chore", Category: Maintenance},
	{Type: "breaking", Category: BreakingChanges},
	{Type: "security", Category: Security},
	{Type: "deprecate", Category: Deprecated},
	{Type: "remove", Category: Removed},
}

// KeywordRules is evaluated top to bottom for subjects that are not
// conventional commits. The first matching rule wins.
var KeywordRules = []KeywordRule{
	{Category: Added, Keywords: []string{"add", "new", "create", "implement", "feature"}},
	{Category: Fixed, Keywords: []string{"fix", "bug", "patch", "resolve", "correct"}},
	{Category: Removed, Keywords: []string{"remove", "delete", "drop"}},
	{Category: Changed, Keywords: []string{"update", "change", "modify", "refactor", "improve"}},
	{Category: Documentation, Keywords: []string{"doc", "readme", "comment"}},
	{Category: Security, Keywords: []string{"security", "vulnerability", "cve"}},
}

// DefaultCategory is used for unknown conventional types and for subjects
// that match no keyword rule.
const DefaultCategory = Changed

// Classify returns the category and changelog description for a commit
// subject.
//
// Conventional commits yield the text after the colon (scope dropped).
// Everything else is keyword-scanned and keeps the full subject.
func Classify(subject string) (Category, string) {
	if m := conventionalPattern.FindStringSubmatch(subject); m != nil {
		return categoryForType(m[1]), m[2]
	}

	if cat, ok := matchKeywords(subject); ok {
		return cat, subject
	}

	return DefaultCategory, subject
}

func categoryForType(typ string) Category {
	typ = strings.ToLower(typ)
	for _, rule := range TypeRules {
		if rule.Type == typ {
			return rule.Category
		}
	}
	return DefaultCategory
}

func matchKeywords(subject string) (Category, bool) {
	lower := strings.ToLower(subject)
	for _, rule := range KeywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category, true
			}
		}
	}
	return 0, false
}
