// Package errors provides structured errors for vaultsearch.
//
// Every code reads ERR_<number>_<NAME>. The hundreds digit groups codes:
// 1xx config and vault location, 2xx file access, 4xx bad input, 5xx
// internal failures.
package errors

// Category groups codes by what went wrong.
type Category string

const (
	CategoryConfig     Category = "CONFIG"
	CategoryIO         Category = "IO"
	CategoryValidation Category = "VALIDATION"
	CategoryInternal   Category = "INTERNAL"
)

// Severity says how far an error reaches. A fatal error aborts the whole
// call; a warning only skips one file.
type Severity string

const (
	SeverityFatal   Severity = "FATAL"
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

const (
	ErrCodeConfigNotFound    = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid     = "ERR_102_CONFIG_INVALID"
	ErrCodeVaultNotFound     = "ERR_104_VAULT_NOT_FOUND"
	ErrCodeVaultNotDirectory = "ERR_105_VAULT_NOT_DIRECTORY"

	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeFileTooLarge   = "ERR_204_FILE_TOO_LARGE"
	ErrCodeFileBinary     = "ERR_207_FILE_BINARY"

	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidQuery = "ERR_403_INVALID_QUERY"
	ErrCodeInvalidPath  = "ERR_406_INVALID_PATH"

	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeSearchFailed = "ERR_503_SEARCH_FAILED"
)

type classification struct {
	category Category
	severity Severity
}

var classifications = map[string]classification{
	ErrCodeConfigNotFound:    {CategoryConfig, SeverityError},
	ErrCodeConfigInvalid:     {CategoryConfig, SeverityError},
	ErrCodeVaultNotFound:     {CategoryConfig, SeverityFatal},
	ErrCodeVaultNotDirectory: {CategoryConfig, SeverityFatal},

	ErrCodeFileNotFound:   {CategoryIO, SeverityError},
	ErrCodeFilePermission: {CategoryIO, SeverityError},
	ErrCodeFileTooLarge:   {CategoryIO, SeverityWarning},
	ErrCodeFileBinary:     {CategoryIO, SeverityWarning},

	ErrCodeInvalidInput: {CategoryValidation, SeverityError},
	ErrCodeInvalidQuery: {CategoryValidation, SeverityFatal},
	ErrCodeInvalidPath:  {CategoryValidation, SeverityError},

	ErrCodeInternal:     {CategoryInternal, SeverityError},
	ErrCodeSearchFailed: {CategoryInternal, SeverityError},
}

// classify looks code up. Unknown codes are internal errors.
func classify(code string) classification {
	if c, ok := classifications[code]; ok {
		return c
	}
	return classification{CategoryInternal, SeverityError}
}
