// Package mcp implements the Model Context Protocol server for wbadvisor.
package mcp

import (
	"context"
	"errors"
	"fmt"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

// Custom MCP error codes for wbadvisor.
const (
	// ErrCodeStoreUnavailable indicates the profile store could not be used.
	ErrCodeStoreUnavailable = -32001

	// ErrCodeStoreBusy indicates another process holds the profile lock.
	ErrCodeStoreBusy = -32002

	// ErrCodeAircraftInvalid indicates the loaded aircraft data is malformed.
	ErrCodeAircraftInvalid = -32003

	// ErrCodeProfileNotFound indicates no profile has the requested name.
	ErrCodeProfileNotFound = -32004

	// ErrCodeTimeout indicates the request timed out or was canceled.
	ErrCodeTimeout = -32005

	// Standard JSON-RPC error codes.
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// ErrNoProfileStore is returned by profile tools when the server runs
// without a store.
var ErrNoProfileStore = errors.New("profile store not configured")

// MCPError represents an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}

	var wbErr *wberrors.WBError
	if errors.As(err, &wbErr) {
		return mapWBError(wbErr)
	}

	switch {
	case errors.Is(err, ErrNoProfileStore):
		return &MCPError{
			Code:    ErrCodeStoreUnavailable,
			Message: "Profiles are not available on this server.",
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out.",
		}
	case errors.Is(err, context.Canceled):
		return &MCPError{
			Code:    ErrCodeTimeout,
			Message: "Request was canceled.",
		}
	default:
		return &MCPError{
			Code:    ErrCodeInternalError,
			Message: "Internal server error.",
		}
	}
}

// NewInvalidParamsError creates an error for invalid parameters with a custom message.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{
		Code:    ErrCodeInvalidParams,
		Message: msg,
	}
}

// NewMethodNotFoundError creates an error for unknown tools.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{
		Code:    ErrCodeMethodNotFound,
		Message: fmt.Sprintf("Tool '%s' not found.", name),
	}
}

func mapWBError(we *wberrors.WBError) *MCPError {
	message := we.Message
	if we.Suggestion != "" {
		message = fmt.Sprintf("%s (%s)", we.Message, we.Suggestion)
	}

	switch we.Code {
	case wberrors.ErrCodeProfileNotFound:
		return &MCPError{Code: ErrCodeProfileNotFound, Message: message}
	case wberrors.ErrCodeProfileLocked:
		return &MCPError{Code: ErrCodeStoreBusy, Message: message}
	case wberrors.ErrCodeAircraftInvalid:
		return &MCPError{Code: ErrCodeAircraftInvalid, Message: message}
	}

	switch we.Category {
	case wberrors.CategoryValidation:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	case wberrors.CategoryStorage:
		return &MCPError{Code: ErrCodeStoreUnavailable, Message: message}
	default: // config, internal and unknown
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
