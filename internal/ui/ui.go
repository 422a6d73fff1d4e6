// Package ui provides terminal styling, TTY detection and the interactive
// search palette.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// fder is satisfied by *os.File and by anything else backed by a descriptor.
type fder interface {
	Fd() uintptr
}

// IsTTY reports whether w writes to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorSuppressed follows the NO_COLOR convention (any non-empty value) and
// treats TERM=dumb the same way.
func colorSuppressed() bool {
	return os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb"
}

// ColorEnabled reports whether output written to w should be styled.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || colorSuppressed() {
		return false
	}
	return IsTTY(w)
}

// StylesFor returns colored styles when ColorEnabled, plain ones otherwise.
func StylesFor(w io.Writer, noColor bool) Styles {
	return GetStyles(!ColorEnabled(w, noColor))
}
