package errors

import (
	"errors"
	"fmt"
)

// VaultError carries a stable code alongside the message, so callers can
// map it to exit output, MCP error codes and log groups.
type VaultError struct {
	Code     string
	Message  string
	Category Category
	Severity Severity
	// Details are logged and encoded but never shown on the terminal.
	Details    map[string]string
	Cause      error
	Suggestion string
}

// Error implements the error interface.
func (e *VaultError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *VaultError) Unwrap() error {
	return e.Cause
}

// Is matches any VaultError with the same code.
func (e *VaultError) Is(target error) bool {
	if t, ok := target.(*VaultError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail records key=value and returns e.
func (e *VaultError) WithDetail(key, value string) *VaultError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion sets the hint printed under the message.
func (e *VaultError) WithSuggestion(suggestion string) *VaultError {
	e.Suggestion = suggestion
	return e
}

// New creates a new VaultError with the given code and message.
// Category and severity come from the code.
func New(code string, message string, cause error) *VaultError {
	c := classify(code)
	return &VaultError{
		Code:     code,
		Message:  message,
		Category: c.category,
		Severity: c.severity,
		Cause:    cause,
	}
}

// Wrap creates a VaultError from an existing error.
// The error's message becomes the VaultError message.
func Wrap(code string, err error) *VaultError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *VaultError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *VaultError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *VaultError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *VaultError {
	return New(ErrCodeInternal, message, cause)
}

// VaultNotFound reports a vault path that does not exist.
func VaultNotFound(path string, cause error) *VaultError {
	return New(ErrCodeVaultNotFound, fmt.Sprintf("vault not found: %s", path), cause).
		WithDetail("vault", path).
		WithSuggestion("Check the vault path or pass --vault")
}

// VaultNotDirectory reports a vault path that exists but is not a directory.
func VaultNotDirectory(path string) *VaultError {
	return New(ErrCodeVaultNotDirectory, fmt.Sprintf("vault is not a directory: %s", path), nil).
		WithDetail("vault", path)
}

// InvalidQuery reports a query that cannot be compiled.
func InvalidQuery(query string, cause error) *VaultError {
	return New(ErrCodeInvalidQuery, fmt.Sprintf("invalid query %q", query), cause).
		WithDetail("query", query).
		WithSuggestion("Regular expressions use RE2 syntax; drop --regex for a literal search")
}

// As finds the first VaultError in err's chain.
func As(err error) (*VaultError, bool) {
	var ve *VaultError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors abort the whole call.
func IsFatal(err error) bool {
	if ve, ok := As(err); ok {
		return ve.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a VaultError.
// Returns empty string if not a VaultError.
func GetCode(err error) string {
	if ve, ok := As(err); ok {
		return ve.Code
	}
	return ""
}

// GetCategory extracts the category from a VaultError.
// Returns empty string if not a VaultError.
func GetCategory(err error) Category {
	if ve, ok := As(err); ok {
		return ve.Category
	}
	return ""
}
