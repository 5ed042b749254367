package parsers

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// CanonicalKey lowercases a header and strips everything outside [a-z0-9],
// so "Movie Title" becomes "movietitle".
func CanonicalKey(header string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "")
}

// FieldRule assigns a semantic field name to canonical keys it matches
type FieldRule struct {
	Field    string
	Contains []string
}

// Matches reports whether key contains any of the rule's substrings
func (r FieldRule) Matches(key string) bool {
	for _, s := range r.Contains {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// FieldRules are evaluated independently, in order, against every header.
// When several rules match, the last one decides the field name.
var FieldRules = []FieldRule{
	{Field: "name", Contains: []string{"title"}},
	{Field: "type", Contains: []string{"category", "type"}},
	{Field: "translator", Contains: []string{"translator"}},
}

// FieldName maps a canonical key to its field name. Keys no rule matches
// keep their canonical form.
func FieldName(key string) string {
	field := key
	for _, rule := range FieldRules {
		if rule.Matches(key) {
			field = rule.Field
		}
	}
	return field
}

// MapHeaders turns raw header cells into field names, one per column
func MapHeaders(headers []string) []string {
	fields := make([]string, len(headers))
	for i, h := range headers {
		fields[i] = FieldName(CanonicalKey(h))
	}
	return fields
}
