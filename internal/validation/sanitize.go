package validation

import (
	"regexp"
	"strings"
)

// Sanitizer cleans user-supplied text before it is persisted. The production
// wiring may swap in a richer HTML sanitizer; the core only depends on this
// contract.
type Sanitizer interface {
	Clean(raw string) string
}

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// BasicSanitizer strips markup tags and control characters and trims
// surrounding whitespace.
type BasicSanitizer struct{}

// Clean implements Sanitizer.
func (BasicSanitizer) Clean(raw string) string {
	cleaned := tagRegex.ReplaceAllString(raw, "")
	cleaned = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, cleaned)
	return strings.TrimSpace(cleaned)
}
