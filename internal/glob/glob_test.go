package glob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Pattern
	}{
		{name: "bare name", raw: "todo.md", expected: Pattern{Body: "todo.md"}},
		{name: "leading slash anchors", raw: "/build", expected: Pattern{Body: "build", Anchored: true}},
		{name: "internal slash anchors", raw: "notes/todo.md", expected: Pattern{Body: "notes/todo.md", Anchored: true}},
		{name: "trailing slash is dir only", raw: "build/", expected: Pattern{Body: "build", DirOnly: true}},
		{name: "dot slash stripped", raw: "./notes/*.md", expected: Pattern{Body: "notes/*.md", Anchored: true}},
		{name: "double star prefix", raw: "**/cache", expected: Pattern{Body: "**/cache", Anchored: true}},
		{name: "surrounding space", raw: "  *.log  ", expected: Pattern{Body: "*.log"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParse_EmptyPatterns(t *testing.T) {
	for _, raw := range []string{"", "   ", "/", "./", "//"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrEmptyPattern, "pattern %q", raw)
	}
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, `(?:.*/)?[^/]*\.md`, Translate("**/*.md"))
	assert.Equal(t, `a/.*`, Translate("a/**"))
	assert.Equal(t, `a.*b`, Translate("a**b"))
	assert.Equal(t, `file[^/]\.txt`, Translate("file?.txt"))
	assert.Equal(t, `\(draft\)\+`, Translate("(draft)+"))
	// Brackets are literal, not character classes.
	assert.Equal(t, `\[ab\]\.md`, Translate("[ab].md"))
}

func TestGlob_Match(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		expected bool
	}{
		// Unanchored patterns match the basename at any depth
		{name: "ext at root", pattern: "*.md", path: "todo.md", expected: true},
		{name: "ext nested", pattern: "*.md", path: "notes/daily/todo.md", expected: true},
		{name: "ext mismatch", pattern: "*.md", path: "todo.txt", expected: false},
		{name: "bare name nested", pattern: "todo.md", path: "notes/todo.md", expected: true},
		{name: "bare name partial", pattern: "todo.md", path: "notes/mytodo.md", expected: false},

		// Anchored patterns match from the vault root
		{name: "anchored match", pattern: "notes/*.md", path: "notes/todo.md", expected: true},
		{name: "anchored no deeper", pattern: "notes/*.md", path: "notes/daily/todo.md", expected: false},
		{name: "anchored not nested", pattern: "notes/*.md", path: "archive/notes/todo.md", expected: false},
		{name: "leading slash", pattern: "/todo.md", path: "notes/todo.md", expected: false},

		// Double star
		{name: "double star dirs zero", pattern: "notes/**/*.md", path: "notes/todo.md", expected: true},
		{name: "double star dirs many", pattern: "notes/**/*.md", path: "notes/a/b/todo.md", expected: true},
		{name: "double star suffix", pattern: "notes/**", path: "notes/a/b.txt", expected: true},
		{name: "double star prefix", pattern: "**/daily/*.md", path: "x/y/daily/a.md", expected: true},

		// Question mark
		{name: "question one char", pattern: "day?.md", path: "day1.md", expected: true},
		{name: "question not slash", pattern: "a?b", path: "a/b", expected: false},
		{name: "question two chars", pattern: "day?.md", path: "day12.md", expected: false},

		// Literal escaping
		{name: "dot is literal", pattern: "a.md", path: "abmd", expected: false},
		{name: "parens literal", pattern: "(draft).md", path: "(draft).md", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, g.Match(tt.path))
		})
	}
}

func TestCompileAll_DropsEmpty(t *testing.T) {
	globs := CompileAll([]string{"*.md", "", "  ", "notes/**"})
	require.Len(t, globs, 2)
	assert.Equal(t, "*.md", globs[0].Raw)
	assert.Equal(t, "notes/**", globs[1].Raw)

	assert.True(t, MatchAny(globs, "notes/x.txt"))
	assert.False(t, MatchAny(globs, "other/x.txt"))
	assert.False(t, MatchAny(nil, "x.md"))
}
