package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSnippet(t *testing.T) {
	longBefore := strings.Repeat("a", 60) + "milk"
	longAfter := "milk" + strings.Repeat("b", 150)

	tests := []struct {
		name       string
		text       string
		offset     int
		length     int
		wantText   string
		wantLine   int
		wantColumn int
	}{
		{
			name:       "whole text fits",
			text:       "buy milk",
			offset:     4,
			length:     4,
			wantText:   "buy milk",
			wantLine:   1,
			wantColumn: 5,
		},
		{
			name:       "clamped before",
			text:       longBefore,
			offset:     60,
			length:     4,
			wantText:   "..." + strings.Repeat("a", 50) + "milk",
			wantLine:   1,
			wantColumn: 61,
		},
		{
			name:       "clamped after",
			text:       longAfter,
			offset:     0,
			length:     4,
			wantText:   "milk" + strings.Repeat("b", 100) + "...",
			wantLine:   1,
			wantColumn: 1,
		},
		{
			name:       "newline runs collapse",
			text:       "line one\n\n\nmilk here\r\nend",
			offset:     11,
			length:     4,
			wantText:   "line one milk here end",
			wantLine:   4,
			wantColumn: 1,
		},
		{
			name:       "surrounding whitespace trimmed",
			text:       "\n\n  milk  \n",
			offset:     4,
			length:     4,
			wantText:   "milk",
			wantLine:   3,
			wantColumn: 3,
		},
		{
			name:       "columns count characters",
			text:       "héllo wörld milk",
			offset:     14,
			length:     4,
			wantText:   "héllo wörld milk",
			wantLine:   1,
			wantColumn: 13,
		},
		{
			name:       "zero width at end",
			text:       "abc",
			offset:     3,
			length:     1,
			wantText:   "abc",
			wantLine:   1,
			wantColumn: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSnippet(tt.text, tt.offset, tt.length)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantLine, got.Line)
			assert.Equal(t, tt.wantColumn, got.Column)
		})
	}
}

func TestBuildSnippet_WindowCountsCharacters(t *testing.T) {
	// 60 two-byte runes before the match: the window keeps exactly 50 of them.
	text := strings.Repeat("é", 60) + "milk"
	got := buildSnippet(text, len(text)-4, 4)

	assert.Equal(t, "..."+strings.Repeat("é", 50)+"milk", got.Text)
	assert.Equal(t, 61, got.Column)
}
