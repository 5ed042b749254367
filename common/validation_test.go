package common

import (
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"Alpha", true},
		{"  padded  ", true},
		{"", false},
		{"   ", false},
		{"\t\r", false},
	}

	for _, tt := range tests {
		err := ValidateRequired("name", tt.value)
		if (err == nil) != tt.valid {
			t.Errorf("ValidateRequired(%q) = %v, want valid=%v", tt.value, err, tt.valid)
		}
		if err != nil && err.Code != "missing_name" {
			t.Errorf("ValidateRequired(%q) code = %q, want missing_name", tt.value, err.Code)
		}
	}
}

func TestValidateEnum(t *testing.T) {
	allowed := []string{"csv", "ndjson"}

	if err := ValidateEnum("format", "csv", allowed); err != nil {
		t.Errorf("csv should be allowed, got %v", err)
	}
	err := ValidateEnum("format", "xml", allowed)
	if err == nil {
		t.Fatal("xml should be rejected")
	}
	if err.Message != "format must be one of: csv, ndjson" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestIsHTTPURL(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"https://example.com/watch", true},
		{"http://example.com", true},
		{"", false},
		{"ftp://example.com", false},
		{"www.example.com", false},
	}

	for _, tt := range tests {
		result := IsHTTPURL(tt.input)
		if result != tt.valid {
			t.Errorf("IsHTTPURL(%q) = %v, want %v", tt.input, result, tt.valid)
		}
	}
}

func TestValidationError(t *testing.T) {
	result := &RecordValidationResult{
		RowNumber: 1,
		RecordID:  "Alpha",
		Valid:     true,
	}

	// Initially valid, no errors
	if !result.Valid || len(result.Errors) != 0 || result.Reason() != "" {
		t.Error("New result should be valid with no errors")
	}

	result.AddError("", "short_row", "row has 1 fields, header has 2")

	if result.Valid {
		t.Error("Result should be invalid after adding error")
	}
	if result.Reason() != "short_row" {
		t.Errorf("Expected reason 'short_row', got %q", result.Reason())
	}

	result.AddError("name", "missing_name", "name is required")

	if len(result.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(result.Errors))
	}
	if result.Reason() != "short_row" {
		t.Error("Reason should stay with the first error")
	}
}
