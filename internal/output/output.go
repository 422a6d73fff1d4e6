// Package output provides consistent CLI output: status lines and search
// results in text or JSON.
package output

import (
	"fmt"
	"io"

	"github.com/Aman-CERP/vaultsearch/internal/ui"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles ui.Styles
	err    error
}

// Option configures a Writer.
type Option func(*Writer)

// WithStyles renders results with styles instead of plain text.
func WithStyles(styles ui.Styles) Option {
	return func(w *Writer) {
		w.styles = styles
	}
}

// New creates a new output Writer. It writes plain text unless WithStyles
// is given.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{
		out:    out,
		styles: ui.NoColorStyles(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Icons that lead a status line.
const (
	IconOK     = "✅"
	IconWarn   = "⚠️ "
	IconFail   = "❌"
	IconPath   = "📁"
	IconHint   = "💡"
	IconList   = "📋"
	IconBackup = "💾"
)

// Line prints one status line. Without an icon the line is indented to
// sit under the text of the previous one.
func (w *Writer) Line(icon, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if icon == "" {
		w.printf("   %s\n", msg)
		return
	}
	w.printf("%s %s\n", icon, msg)
}

// Success prints a line marked as passing.
func (w *Writer) Success(format string, args ...any) {
	w.Line(IconOK, "%s", w.styles.Success.Render(fmt.Sprintf(format, args...)))
}

// Warning prints a line marked as a warning.
func (w *Writer) Warning(format string, args ...any) {
	w.Line(IconWarn, "%s", w.styles.Warning.Render(fmt.Sprintf(format, args...)))
}

// Error prints a line marked as failed.
func (w *Writer) Error(format string, args ...any) {
	w.Line(IconFail, "%s", w.styles.Error.Render(fmt.Sprintf(format, args...)))
}

// Blank prints an empty line.
func (w *Writer) Blank() {
	w.printf("\n")
}

// Err returns the first error hit while writing status lines.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}
