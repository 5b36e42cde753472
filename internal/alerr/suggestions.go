package alerr

import (
	"strings"
)

// typeSuggestions maps common column names to a model type descriptor.
var typeSuggestions = []struct {
	pattern string
	typ     string
}{
	{"email", "string(255)"},
	{"username", "string(50)"},
	{"phone", "string(20)"},
	{"mobile", "string(20)"},
	{"slug", "string(255)"},
	{"url", "string(2048)"},
	{"uuid", "uuid"},
	{"price", "decimal"},
	{"amount", "decimal"},
	{"total", "decimal"},
	{"count", "integer"},
	{"quantity", "integer"},
	{"description", "text"},
	{"content", "text"},
	{"body", "text"},
	{"is_", "boolean"},
	{"_at", "timestamp"},
	{"date", "date"},
	{"metadata", "jsonb"},
	{"name", "string(255)"},
	{"title", "string(255)"},
}

// SuggestType suggests a model type descriptor from a column name.
// Returns empty string if no suggestion is available.
func SuggestType(colName string) string {
	lower := strings.ToLower(colName)
	for _, s := range typeSuggestions {
		if lower == s.pattern {
			return s.typ
		}
	}
	for _, s := range typeSuggestions {
		if strings.Contains(lower, s.pattern) {
			return s.typ
		}
	}
	return ""
}

// NewMissingTypeError creates an error for a model column without a type.
func NewMissingTypeError(table, colName string) *Error {
	e := New(ErrInvalidType, "column \""+colName+"\" has no type").
		WithTable("", table).
		WithColumn(colName)
	if suggestion := SuggestType(colName); suggestion != "" {
		e.WithHelp("try type: " + suggestion)
	}
	return e
}
