package introspect

import (
	"reflect"
	"testing"
)

// -----------------------------------------------------------------------------
// parseEnumValues Tests
// -----------------------------------------------------------------------------

func TestParseEnumValues(t *testing.T) {
	tests := []struct {
		name  string
		check string
		want  []string
	}{
		{"simple_enum", "CHECK(status IN ('draft', 'published', 'archived'))", []string{"draft", "published", "archived"}},
		{"lowercase_in", "CHECK(status in ('active', 'inactive'))", []string{"active", "inactive"}},
		{"no_space_before_parenthesis", "CHECK(status IN('a', 'b'))", []string{"a", "b"}},
		{"double_quotes", `CHECK(type IN ("option1", "option2"))`, []string{"option1", "option2"}},
		{"mixed_spacing", "CHECK(status IN ('one' , 'two' ,  'three'))", []string{"one", "two", "three"}},
		{"not_an_enum", "CHECK(price > 0)", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseEnumValues(tt.check); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseEnumValues() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColumnEnumValues(t *testing.T) {
	createSQL := `CREATE TABLE "companies" (
		"id" INTEGER PRIMARY KEY,
		"old_status" TEXT CHECK ("old_status" IN ('x', 'y')),
		"status" TEXT NOT NULL CHECK ("status" IN ('active', 'inactive')),
		kind TEXT CHECK(kind IN ('a'))
	)`

	tests := []struct {
		column string
		want   []string
	}{
		{"status", []string{"active", "inactive"}},
		{"old_status", []string{"x", "y"}},
		{"kind", []string{"a"}},
		{"id", nil},
	}
	for _, tt := range tests {
		if got := columnEnumValues(createSQL, tt.column); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("columnEnumValues(%s) = %v, want %v", tt.column, got, tt.want)
		}
	}
}
