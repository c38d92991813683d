// Package slug derives URL-safe article identifiers from titles.
package slug

import (
	"strings"

	"github.com/google/uuid"
)

const suffixLen = 8

// Base normalizes a title into its slug stem: lower-cased, reduced to ASCII
// letters and digits, with runs of everything else collapsed into single
// hyphens. Two titles share a stem iff they clean to the same value.
func Base(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// Make builds a slug from the title plus a random 8-character suffix. The
// suffix is what keeps two articles with identical titles apart; the unique
// index on articles.slug backs it up.
func Make(title string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
	base := Base(title)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
