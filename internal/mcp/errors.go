// Package mcp implements the Model Context Protocol (MCP) server for vaultsearch.
package mcp

import (
	"context"
	"errors"
	"fmt"

	vserrors "github.com/Aman-CERP/vaultsearch/internal/errors"
	"github.com/Aman-CERP/vaultsearch/internal/scanner"
)

// JSON-RPC error codes. The -3200x range is reserved for vaultsearch.
const (
	ErrCodeVaultNotFound = -32001
	ErrCodeTimeout       = -32003
	ErrCodeFileNotFound  = -32004
	ErrCodeFileTooLarge  = -32005
	ErrCodeFileBinary    = -32006

	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// MCPError is an error returned to the client with a JSON-RPC code.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// sentinels maps errors recognized with errors.Is to what the client sees.
var sentinels = []struct {
	target error
	MCPError
}{
	{context.DeadlineExceeded, MCPError{ErrCodeTimeout, "Request timed out."}},
	{context.Canceled, MCPError{ErrCodeTimeout, "Request was canceled."}},
	{scanner.ErrTooLarge, MCPError{ErrCodeFileTooLarge, "File is too large to read."}},
	{scanner.ErrBinary, MCPError{ErrCodeFileBinary, "File is binary."}},
}

// vaultCodes maps VaultError codes with their own client code. Other vault
// errors are mapped by category.
var vaultCodes = map[string]int{
	vserrors.ErrCodeVaultNotFound:     ErrCodeVaultNotFound,
	vserrors.ErrCodeVaultNotDirectory: ErrCodeVaultNotFound,
	vserrors.ErrCodeFileNotFound:      ErrCodeFileNotFound,
	vserrors.ErrCodeFileTooLarge:      ErrCodeFileTooLarge,
	vserrors.ErrCodeFileBinary:        ErrCodeFileBinary,
}

// MapError converts err into the error the client receives. Internal
// details of unrecognized errors are never sent.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}
	if ve, ok := vserrors.As(err); ok {
		return fromVaultError(ve)
	}
	for _, s := range sentinels {
		if errors.Is(err, s.target) {
			e := s.MCPError
			return &e
		}
	}
	return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
}

// NewInvalidParamsError reports bad tool arguments.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError reports a call to an unknown tool.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{Code: ErrCodeMethodNotFound, Message: fmt.Sprintf("Tool '%s' not found.", name)}
}

func fromVaultError(ve *vserrors.VaultError) *MCPError {
	msg := ve.Message
	if ve.Suggestion != "" {
		msg += " " + ve.Suggestion
	}

	if code, ok := vaultCodes[ve.Code]; ok {
		return &MCPError{Code: code, Message: msg}
	}
	if ve.Category == vserrors.CategoryValidation {
		return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
	}
	return &MCPError{Code: ErrCodeInternalError, Message: msg}
}
