package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Aman-CERP/vaultsearch/internal/search"
)

// Format selects how results are printed.
type Format string

const (
	// FormatText prints one grep-style line per result.
	FormatText Format = "text"
	// FormatJSON prints the result slice as indented JSON.
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (use text or json)", s)
	}
}

// JSON writes v as indented JSON followed by a newline.
func (w *Writer) JSON(v any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ContentMatches prints content results as
//
//	path:line:column [unsaved]  snippet
//
// The marker appears for matches found in open buffers.
func (w *Writer) ContentMatches(matches []search.ContentMatch, format Format) error {
	if format == FormatJSON {
		if matches == nil {
			matches = []search.ContentMatch{}
		}
		return w.JSON(matches)
	}
	if len(matches) == 0 {
		w.noMatches()
		return nil
	}

	st := w.styles
	for _, m := range matches {
		var b strings.Builder
		b.WriteString(st.Path.Render(m.RelativePath))
		if m.Line > 0 {
			b.WriteString(st.Location.Render(fmt.Sprintf(":%d:%d", m.Line, m.Column)))
		}
		if m.Source == search.SourceBuffer {
			b.WriteString(st.Buffer.Render(" [unsaved]"))
		}
		b.WriteString("  ")
		b.WriteString(st.Snippet.Render(m.Snippet))
		_, _ = fmt.Fprintln(w.out, b.String())
	}
	return nil
}

// TitleMatches prints title results as "path  title  (score)".
func (w *Writer) TitleMatches(matches []search.TitleMatch, format Format) error {
	if format == FormatJSON {
		if matches == nil {
			matches = []search.TitleMatch{}
		}
		return w.JSON(matches)
	}
	if len(matches) == 0 {
		w.noMatches()
		return nil
	}

	st := w.styles
	for _, m := range matches {
		_, _ = fmt.Fprintf(w.out, "%s  %s  %s\n",
			st.Path.Render(m.RelativePath),
			st.Header.Render(m.Title),
			st.Score.Render(fmt.Sprintf("(%d)", m.Score)))
	}
	return nil
}

// Paths prints one path per line, or a JSON array.
func (w *Writer) Paths(paths []string, format Format) error {
	if format == FormatJSON {
		if paths == nil {
			paths = []string{}
		}
		return w.JSON(paths)
	}
	for _, p := range paths {
		_, _ = fmt.Fprintln(w.out, p)
	}
	return nil
}

func (w *Writer) noMatches() {
	_, _ = fmt.Fprintln(w.out, w.styles.Dim.Render("No matches."))
}
