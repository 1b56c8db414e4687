package errors

import (
	"errors"
	"fmt"
)

// WBError is the structured error type for wbadvisor.
// It provides rich context for error handling, logging, and user presentation.
type WBError struct {
	// Code is the unique error code (e.g., "ERR_103_AIRCRAFT_INVALID").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Storage, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *WBError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *WBError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with WBError.
func (e *WBError) Is(target error) bool {
	if t, ok := target.(*WBError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *WBError) WithDetail(key, value string) *WBError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *WBError) WithSuggestion(suggestion string) *WBError {
	e.Suggestion = suggestion
	return e
}

// New creates a new WBError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *WBError {
	return &WBError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a WBError from an existing error.
// The error's message becomes the WBError message.
func Wrap(code string, err error) *WBError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates an application configuration error.
func ConfigError(message string, cause error) *WBError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// AircraftError creates a malformed aircraft configuration error.
func AircraftError(message string, cause error) *WBError {
	return New(ErrCodeAircraftInvalid, message, cause)
}

// StorageError creates a profile storage error.
func StorageError(message string, cause error) *WBError {
	return New(ErrCodeProfileStoreIO, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *WBError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *WBError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var we *WBError
	if errors.As(err, &we) {
		return we.Retryable
	}
	return false
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	var we *WBError
	if errors.As(err, &we) {
		return we.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a WBError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var we *WBError
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}

// GetCategory extracts the category from a WBError.
// Returns empty string if not a WBError.
func GetCategory(err error) Category {
	var we *WBError
	if errors.As(err, &we) {
		return we.Category
	}
	return ""
}

// GetSeverity extracts the severity from a WBError.
// Returns empty string if not a WBError.
func GetSeverity(err error) Severity {
	var we *WBError
	if errors.As(err, &we) {
		return we.Severity
	}
	return ""
}
