package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreContent_LiteralTiers(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		title    string
		path     string
		expected int
	}{
		{name: "exact title", query: "todo", title: "Todo", path: "notes/todo.md", expected: contentScoreExact},
		{name: "exact path", query: "notes/todo.md", title: "Todo", path: "notes/todo.md", expected: contentScoreExact},
		{name: "title prefix", query: "note", title: "Notes", path: "x/y.md", expected: contentScorePrefix},
		{name: "path prefix", query: "notes/", title: "Todo", path: "notes/todo.md", expected: contentScorePrefix},
		{name: "substring", query: "ekly", title: "Weekly Review", path: "w.md", expected: contentScoreSubstring},
		{name: "fuzzy", query: "nts", title: "notes", path: "x.md", expected: contentScoreFuzzy},
		{name: "content only", query: "milk", title: "Todo", path: "notes/todo.md", expected: contentScoreBase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := compileMatcher(tt.query, QueryOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, scoreContent(m, tt.title, tt.path))
		})
	}
}

func TestScoreContent_CaseSensitive(t *testing.T) {
	m, err := compileMatcher("todo", QueryOptions{CaseSensitive: true})
	require.NoError(t, err)

	// "Todo" is not equal, and the path gives only a substring hit.
	assert.Equal(t, contentScoreSubstring, scoreContent(m, "Todo", "notes/todo.md"))
}

func TestScoreContent_Regex(t *testing.T) {
	m, err := compileMatcher("^tod", QueryOptions{Regex: true})
	require.NoError(t, err)

	assert.Equal(t, contentScoreRegexHit, scoreContent(m, "Todo", "notes/todo.md"))
	assert.Equal(t, contentScoreBase, scoreContent(m, "Shopping", "notes/shopping.md"))
}

func TestScoreTitle_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		title    string
		path     string
		expected int
	}{
		{name: "exact", query: "notes", title: "Notes", path: "a.md", expected: titleScoreExact},
		{name: "prefix", query: "note", title: "notes", path: "a.md", expected: titleScorePrefix},
		{name: "substring", query: "ote", title: "notes", path: "a.md", expected: titleScoreSubstring},
		{name: "fuzzy", query: "nts", title: "notes", path: "a.md", expected: titleScoreFuzzy},
		{name: "fuzzy via path", query: "dly", title: "x", path: "daily/2024.md", expected: titleScoreFuzzy},
		{name: "no relation", query: "milk", title: "Todo", path: "notes/todo.md", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scoreTitle(tt.query, false, tt.title, tt.path))
		})
	}
}

func TestScoreTitle_FuzzyRanksBelowSubstring(t *testing.T) {
	fuzzy := scoreTitle("nts", false, "notes", "notes.md")
	prefix := scoreTitle("note", false, "notes", "notes.md")
	substring := scoreTitle("ote", false, "notes", "notes.md")

	assert.Less(t, fuzzy, substring)
	assert.Less(t, substring, prefix)
}

func TestIsSubsequence(t *testing.T) {
	tests := []struct {
		query    string
		target   string
		expected bool
	}{
		{"nts", "notes", true},
		{"nst", "notes", false},
		{"", "notes", false},
		{"notes", "nts", false},
		{"çé", "façade été", true},
	}

	for _, tt := range tests {
		t.Run(tt.query+"_"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.expected, isSubsequence(tt.query, tt.target))
		})
	}
}
