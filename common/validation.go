package common

import (
	"fmt"
	"strings"
)

// ValidationError represents a single reason a catalog row was rejected
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecordValidationResult holds validation results for a single row
type RecordValidationResult struct {
	RowNumber int               `json:"row_number"`
	RecordID  string            `json:"record_id,omitempty"`
	Valid     bool              `json:"valid"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (r *RecordValidationResult) AddError(field, code, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Code:    code,
		Message: message,
	})
}

// Reason returns the code of the first error, or "" for a valid row
func (r *RecordValidationResult) Reason() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Code
}

// ValidateRequired checks if a string field is not empty
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   field,
			Code:    "missing_" + field,
			Message: fmt.Sprintf("%s is required", field),
		}
	}
	return nil
}

// ValidateEnum checks if value is in allowed list
func ValidateEnum(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Code:    "invalid_" + field,
		Message: fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")),
	}
}

// IsHTTPURL reports whether s looks like an absolute web link.
// Only the scheme prefix is checked, matching how links are shown.
func IsHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http")
}
