// Package index builds the per-batch relationship index the pattern
// detectors share. The index is built once per batch in a single pass
// and is read-only afterward; it is never persisted.
package index

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize canonicalizes a person or entity name for equality
// comparison: lowercase, trimmed, runs of whitespace collapsed to one
// space. Two names denote the same entity iff their normalized forms
// are equal — exact match only, no fuzzy or phonetic resolution.
// Empty input normalizes to the empty string, which callers must skip
// rather than use as a map key.
func Normalize(name string) string {
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return strings.ToLower(strings.TrimSpace(name))
}
