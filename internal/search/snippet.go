package search

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Snippet window around a match, in characters.
const (
	snippetBefore = 50
	snippetAfter  = 100
	ellipsis      = "..."
)

var newlineRun = regexp.MustCompile(`[\r\n]+`)

// snippet is an excerpt plus the 1-based position of the match.
type snippet struct {
	Text   string
	Line   int
	Column int
}

// buildSnippet excerpts text around the match at byte offset with the given
// byte length. Columns count characters, not bytes.
func buildSnippet(text string, offset, length int) snippet {
	if offset > len(text) {
		offset = len(text)
	}

	line := 1 + strings.Count(text[:offset], "\n")
	lineStart := strings.LastIndexByte(text[:offset], '\n') + 1
	column := 1 + utf8.RuneCountInString(text[lineStart:offset])

	matchEnd := offset + length
	if matchEnd > len(text) {
		matchEnd = len(text)
	}
	matchRunes := utf8.RuneCountInString(text[offset:matchEnd])
	if matchRunes == 0 {
		matchRunes = 1
	}

	start := offset
	for i := 0; i < snippetBefore && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := offset
	for i := 0; i < matchRunes+snippetAfter && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}

	excerpt := strings.TrimSpace(newlineRun.ReplaceAllString(text[start:end], " "))
	if start > 0 {
		excerpt = ellipsis + excerpt
	}
	if end < len(text) {
		excerpt += ellipsis
	}

	return snippet{Text: excerpt, Line: line, Column: column}
}
