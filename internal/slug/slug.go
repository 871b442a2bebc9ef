// Package slug derives stable, key-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// Make lowercases the input and collapses every run of non-word characters
// into a single underscore. The result is deterministic: the same display
// name always produces the same slug, which is what makes get-or-create
// idempotent across crawl runs. Distinct names that normalize to the same
// slug ("A-B" and "A B") deliberately resolve to the same entity.
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonWord.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
