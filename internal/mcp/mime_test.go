package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMimeTypeForPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		// Notes
		{name: "markdown", path: "notes/daily.md", expected: "text/markdown"},
		{name: "markdown long ext", path: "README.markdown", expected: "text/markdown"},
		{name: "upper case ext", path: "Inbox/TODO.MD", expected: "text/markdown"},
		{name: "plain text", path: "scratch.txt", expected: "text/plain"},
		{name: "org", path: "agenda.org", expected: "text/x-org"},

		// Obsidian
		{name: "canvas", path: "Boards/plan.canvas", expected: "application/json"},

		// Data
		{name: "json", path: "data.json", expected: "application/json"},
		{name: "yaml", path: "config.yaml", expected: "text/x-yaml"},
		{name: "yml", path: "config.yml", expected: "text/x-yaml"},
		{name: "csv", path: "tables/books.csv", expected: "text/csv"},

		// Special filenames
		{name: "gitignore", path: ".gitignore", expected: "text/plain"},
		{name: "nested rgignore", path: "sub/.rgignore", expected: "text/plain"},

		// Unknown
		{name: "unknown ext", path: "file.xyz", expected: "text/plain"},
		{name: "no ext", path: "LICENSE", expected: "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MimeTypeForPath(tt.path))
		})
	}
}

func TestMimeTypeForPath_BackslashPath(t *testing.T) {
	// Given: a path written with Windows separators
	// When: detecting the MIME type
	// Then: the extension is still found
	assert.Equal(t, "text/markdown", MimeTypeForPath(`Projects\plan.md`))
}
