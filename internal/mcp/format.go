package mcp

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/vaultsearch/internal/search"
)

// FormatContentResults formats content matches as markdown.
func FormatContentResults(query string, results []search.ContentMatch) string {
	if len(results) == 0 {
		return fmt.Sprintf("No matches found for \"%s\"", query)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Content Matches for \"%s\"\n\n", query))
	writeCount(&sb, len(results))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("### %d. %s", i+1, r.RelativePath))
		if r.Line > 0 {
			sb.WriteString(fmt.Sprintf(":%d:%d", r.Line, r.Column))
		}
		sb.WriteString("\n\n")

		if r.Title != "" {
			sb.WriteString(fmt.Sprintf("**Title:** %s\n", r.Title))
		}
		if r.Source == search.SourceBuffer {
			sb.WriteString("**Source:** unsaved buffer\n")
		}
		sb.WriteString("\n")
		sb.WriteString("> ")
		sb.WriteString(r.Snippet)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// FormatTitleResults formats title matches as a markdown table.
func FormatTitleResults(query string, results []search.TitleMatch) string {
	if len(results) == 0 {
		return fmt.Sprintf("No titles found for \"%s\"", query)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Title Matches for \"%s\"\n\n", query))
	writeCount(&sb, len(results))

	sb.WriteString("| # | Title | Path | Score |\n")
	sb.WriteString("|---|-------|------|-------|\n")
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("| %d | %s | `%s` | %d |\n",
			i+1, escapeCell(r.Title), r.RelativePath, r.Score))
	}

	return sb.String()
}

func writeCount(sb *strings.Builder, n int) {
	sb.WriteString(fmt.Sprintf("Found %d result", n))
	if n != 1 {
		sb.WriteString("s")
	}
	sb.WriteString("\n\n")
}

// escapeCell keeps a value from breaking the table layout.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
