package slug

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation runs", "Hello,   World!!!", "hello-world"},
		{"mixed case", "GoLang Rocks", "golang-rocks"},
		{"digits kept", "Top 10 Things", "top-10-things"},
		{"non-ascii stripped", "Caffè Überfahrt", "caff-berfahrt"},
		{"leading and trailing junk", "  --Hello--  ", "hello"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Base(tt.title))
		})
	}
}

func TestMake_SuffixShape(t *testing.T) {
	t.Parallel()

	s := Make("Hello World")
	assert.True(t, strings.HasPrefix(s, "hello-world-"), "got %q", s)
	assert.Len(t, s, len("hello-world-")+8)
}

func TestMake_EmptyStemStillProducesSlug(t *testing.T) {
	t.Parallel()

	s := Make("!!!")
	assert.Len(t, s, 8)
}

func TestMake_DistinctForIdenticalTitles(t *testing.T) {
	t.Parallel()

	const n = 50
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		seen[Make("Hello World")] = struct{}{}
	}
	assert.Len(t, seen, n, "identical titles must still yield distinct slugs")
}
