package errors

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// FormatForCLI renders err for the terminal. A VaultError gets its hint and
// code on indented lines; the cause is shown only in debug mode. Any other
// error prints as a single line.
func FormatForCLI(err error, debug bool) string {
	if err == nil {
		return ""
	}

	ve, ok := As(err)
	if !ok {
		return "Error: " + err.Error() + "\n"
	}

	var b strings.Builder
	b.WriteString("Error: " + ve.Message + "\n")
	if ve.Suggestion != "" {
		b.WriteString("  Hint: " + ve.Suggestion + "\n")
	}
	if debug && ve.Cause != nil {
		b.WriteString("  Cause: " + ve.Cause.Error() + "\n")
	}
	b.WriteString("  Code: " + ve.Code + "\n")
	return b.String()
}

// MarshalJSON encodes the error with its category, severity and cause
// flattened to strings.
func (e *VaultError) MarshalJSON() ([]byte, error) {
	wire := struct {
		Code       string            `json:"code"`
		Message    string            `json:"message"`
		Category   Category          `json:"category"`
		Severity   Severity          `json:"severity"`
		Details    map[string]string `json:"details,omitempty"`
		Suggestion string            `json:"suggestion,omitempty"`
		Cause      string            `json:"cause,omitempty"`
	}{
		Code:       e.Code,
		Message:    e.Message,
		Category:   e.Category,
		Severity:   e.Severity,
		Details:    e.Details,
		Suggestion: e.Suggestion,
	}
	if e.Cause != nil {
		wire.Cause = e.Cause.Error()
	}
	return json.Marshal(wire)
}

// LogValue implements slog.LogValuer so a VaultError logs as a group.
func (e *VaultError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", e.Code),
		slog.String("message", e.Message),
		slog.String("category", string(e.Category)),
	}
	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}
	for k, v := range e.Details {
		attrs = append(attrs, slog.String(k, v))
	}
	return slog.GroupValue(attrs...)
}

// ErrAttr returns an "error" attribute for err. A VaultError anywhere in the
// chain is logged structurally; anything else logs its message.
func ErrAttr(err error) slog.Attr {
	if ve, ok := As(err); ok {
		return slog.Any("error", ve)
	}
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
