// Package errors provides structured error handling for wbadvisor.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors (application and aircraft configuration)
//   - 2XX: Profile storage errors
//   - 4XX: Input validation errors
//   - 5XX: Internal errors
//
// Out-of-envelope and over-limit results are never errors. They are
// advisories carried on the report.
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryStorage indicates profile storage errors.
	CategoryStorage Category = "STORAGE"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound  = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid   = "ERR_102_CONFIG_INVALID"
	ErrCodeAircraftInvalid = "ERR_103_AIRCRAFT_INVALID"

	// Profile storage errors (200-299)
	ErrCodeProfileStoreIO      = "ERR_201_PROFILE_STORE_IO"
	ErrCodeProfileStoreCorrupt = "ERR_202_PROFILE_STORE_CORRUPT"
	ErrCodeProfileLocked       = "ERR_203_PROFILE_LOCKED"

	// Validation errors (400-499)
	ErrCodeInvalidInput       = "ERR_401_INVALID_INPUT"
	ErrCodeUnknownStation     = "ERR_402_UNKNOWN_STATION"
	ErrCodeInvalidProfileName = "ERR_403_INVALID_PROFILE_NAME"
	ErrCodeProfileNotFound    = "ERR_404_PROFILE_NOT_FOUND"
	ErrCodeInvalidUnit        = "ERR_405_INVALID_UNIT"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Numeric portion, e.g. "103" from "ERR_103_AIRCRAFT_INVALID"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryStorage
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeAircraftInvalid, ErrCodeConfigInvalid:
		// The core refuses to compute against a malformed configuration.
		return SeverityFatal
	case ErrCodeProfileStoreIO, ErrCodeProfileStoreCorrupt, ErrCodeProfileLocked:
		// Profile persistence is optional; hosts continue without it.
		return SeverityWarning
	default:
		return SeverityError
	}
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	return code == ErrCodeProfileLocked
}
