package textextract

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lowercases text and collapses internal whitespace runs to a
// single space, per spec.md §4.2. Idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	collapsed := whitespaceRun.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(collapsed)
}
