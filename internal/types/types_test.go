package types

import (
	"slices"
	"testing"
)

// -----------------------------------------------------------------------------
// Database spelling tests
// -----------------------------------------------------------------------------

func TestFromDB(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"character varying(255)", String(255)},
		{"CHARACTER VARYING(50)", String(50)},
		{"varchar(20)", String(20)},
		{"character varying", String(0)},
		{"char(2)", String(2)},
		{"text", Of(KindText)},
		{"longtext", Of(KindText)},
		{"integer", Of(KindInteger)},
		{"int(11)", Of(KindInteger)},
		{"serial", Of(KindInteger)},
		{"bigint", Of(KindBigInt)},
		{"int8", Of(KindBigInt)},
		{"smallint", Of(KindSmallInt)},
		{"tinyint(1)", Of(KindBoolean)},
		{"tinyint(4)", Of(KindSmallInt)},
		{"numeric(10,2)", Of(KindDecimal)},
		{"double precision", Of(KindDouble)},
		{"real", Of(KindReal)},
		{"float", Of(KindFloat)},
		{"date", Of(KindDate)},
		{"time without time zone", Of(KindTime)},
		{"timestamp with time zone", Of(KindTimestamp)},
		{"timestamp without time zone", Of(KindTimestamp)},
		{"datetime", Of(KindTimestamp)},
		{"uuid", Of(KindUUID)},
		{"boolean", Of(KindBoolean)},
		{"bool", Of(KindBoolean)},
		{"json", Of(KindJSON)},
		{"jsonb", Of(KindJSONB)},
		{"text[]", Of(KindArray)},
		{"_int4", Of(KindArray)},
		{"ARRAY", Of(KindArray)},
		{"bytea", Of(KindBytea)},
		{"longblob", Of(KindBlob)},
		{"geometry(Point,4326)", Of(KindGeometry)},
		{"geography", Of(KindGeography)},
		{"enum('Active','in''active')", Enum("Active", "in'active")},
		{"interval", String(0)},
		{"", String(0)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := FromDB(tt.input)
			if got.Kind != tt.want.Kind || got.Length != tt.want.Length || !slices.Equal(got.Values, tt.want.Values) {
				t.Errorf("FromDB(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromDBUserDefinedEnum(t *testing.T) {
	got := FromDB("USER-DEFINED", "active", "inactive")
	want := Enum("active", "inactive")
	if got.Kind != KindEnum || !slices.Equal(got.Values, want.Values) {
		t.Errorf("FromDB(USER-DEFINED) = %s, want %s", got, want)
	}
}

// -----------------------------------------------------------------------------
// Model descriptor tests
// -----------------------------------------------------------------------------

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		input string
		want  Descriptor
	}{
		{"string", Descriptor{Name: "string"}},
		{"string(20)", Descriptor{Name: "string", Length: 20}},
		{"STRING(20)", Descriptor{Name: "string", Length: 20}},
		{"decimal(10,2)", Descriptor{Name: "decimal", Length: 10}},
		{"enum(active, inactive)", Descriptor{Name: "enum", Values: []string{"active", "inactive"}}},
		{"enum('a','b')", Descriptor{Name: "enum", Values: []string{"a", "b"}}},
		{" uuid ", Descriptor{Name: "uuid"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDescriptor(tt.input)
			if got.Name != tt.want.Name || got.Length != tt.want.Length || !slices.Equal(got.Values, tt.want.Values) {
				t.Errorf("ParseDescriptor(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromModel(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		want Category
	}{
		{"bounded string", Descriptor{Name: "string", Length: 50}, String(50)},
		{"unbounded string", Descriptor{Name: "string"}, String(0)},
		{"varchar alias", Descriptor{Name: "varchar", Length: 10}, String(10)},
		{"datetime alias", Descriptor{Name: "datetime"}, Of(KindTimestamp)},
		{"date", Descriptor{Name: "date"}, Of(KindDate)},
		{"enum", Descriptor{Name: "enum", Values: []string{"a", "b"}}, Enum("a", "b")},
		{"jsonb", Descriptor{Name: "jsonb"}, Of(KindJSONB)},
		{"unknown defaults to string", Descriptor{Name: "hstore"}, String(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromModel(tt.desc)
			if !got.Equal(tt.want) {
				t.Errorf("FromModel(%+v) = %s, want %s", tt.desc, got, tt.want)
			}
		})
	}
}

// Both directions must agree on the canonical form.
func TestTranslationAgreement(t *testing.T) {
	pairs := []struct {
		model string
		db    string
	}{
		{"string(255)", "character varying(255)"},
		{"text", "text"},
		{"integer", "integer"},
		{"bigint", "bigint"},
		{"boolean", "boolean"},
		{"timestamp", "timestamp with time zone"},
		{"date", "date"},
		{"uuid", "uuid"},
		{"jsonb", "jsonb"},
		{"decimal(10,2)", "numeric(10,2)"},
	}

	for _, p := range pairs {
		t.Run(p.model, func(t *testing.T) {
			m := FromModel(ParseDescriptor(p.model))
			d := FromDB(p.db)
			if !m.Equal(d) {
				t.Errorf("model %s = %s, db %s = %s", p.model, m, p.db, d)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// Category tests
// -----------------------------------------------------------------------------

func TestCategoryEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Category
		want bool
	}{
		{"same string length", String(20), String(20), true},
		{"different string length", String(20), String(50), false},
		{"bounded vs unbounded", String(20), String(0), false},
		{"string vs text", String(0), Of(KindText), false},
		{"enum same labels", Enum("a", "b"), Enum("a", "b"), true},
		{"enum different labels", Enum("a", "b"), Enum("a", "c"), false},
		{"enum unknown labels", Enum("a", "b"), Enum(), true},
		{"json vs jsonb", Of(KindJSON), Of(KindJSONB), false},
		{"float stored as double", Of(KindFloat), FromDB("double precision"), true},
		{"blob stored as bytea", Of(KindBlob), FromDB("bytea"), true},
		{"float vs real", Of(KindFloat), Of(KindReal), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%s.Equal(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{String(50), "STRING(50)"},
		{String(0), "STRING"},
		{Enum("active", "inactive"), "ENUM(active,inactive)"},
		{Of(KindTimestamp), "TIMESTAMP"},
		{Of(KindGeography), "GEOGRAPHY"},
	}

	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"string", "varchar", "datetime", "bool", "enum", "geography"} {
		if !Known(name) {
			t.Errorf("Known(%q) = false, want true", name)
		}
	}
	if Known("strng") {
		t.Error("Known(strng) = true, want false")
	}
	if got := Def(KindTimestamp).Name; got != "timestamp" {
		t.Errorf("Def(TIMESTAMP).Name = %q, want timestamp", got)
	}
	names := Names()
	if len(names) != 22 {
		t.Errorf("len(Names()) = %d, want 22", len(names))
	}
}
