package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var we *WBError
	if !errors.As(err, &we) {
		we = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", we.Message))

	if len(we.Details) > 0 {
		keys := sortedKeys(we.Details)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, we.Details[k]))
		}
	}

	if we.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", we.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("  Code: %s\n", we.Code))

	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
	Retryable  bool              `json:"retryable"`
}

// FormatJSON returns a JSON representation of the error.
// Suitable for machine consumption (compute --json, MCP tool errors).
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	var we *WBError
	if !errors.As(err, &we) {
		we = Wrap(ErrCodeInternal, err)
	}

	je := jsonError{
		Code:       we.Code,
		Message:    we.Message,
		Category:   string(we.Category),
		Severity:   string(we.Severity),
		Details:    we.Details,
		Suggestion: we.Suggestion,
		Retryable:  we.Retryable,
	}

	if we.Cause != nil {
		je.Cause = we.Cause.Error()
	}

	return json.Marshal(je)
}

// FormatForLog formats an error for structured logging.
// Returns key-value pairs suitable for slog attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	var we *WBError
	if !errors.As(err, &we) {
		return map[string]any{
			"error": err.Error(),
		}
	}

	result := map[string]any{
		"error_code": we.Code,
		"message":    we.Message,
		"category":   string(we.Category),
		"severity":   string(we.Severity),
		"retryable":  we.Retryable,
	}

	if we.Cause != nil {
		result["cause"] = we.Cause.Error()
	}

	if we.Suggestion != "" {
		result["suggestion"] = we.Suggestion
	}

	for k, v := range we.Details {
		result["detail_"+k] = v
	}

	return result
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
