// Package types defines the canonical column type categories shared by the
// declared models and the live database.
//
// Both sides of a comparison are translated into a Category before diffing,
// so "character varying(255)" from PostgreSQL and "string(255)" from a model
// file compare equal.
package types

import (
	"fmt"
	"slices"
	"strings"
)

// Kind identifies a canonical type category.
type Kind int

const (
	KindString Kind = iota
	KindText
	KindInteger
	KindBigInt
	KindSmallInt
	KindDecimal
	KindFloat
	KindDouble
	KindReal
	KindDate
	KindTime
	KindTimestamp
	KindUUID
	KindBoolean
	KindEnum
	KindJSON
	KindJSONB
	KindArray
	KindBlob
	KindBytea
	KindGeometry
	KindGeography
)

var kindNames = [...]string{
	KindString:    "STRING",
	KindText:      "TEXT",
	KindInteger:   "INTEGER",
	KindBigInt:    "BIGINT",
	KindSmallInt:  "SMALLINT",
	KindDecimal:   "DECIMAL",
	KindFloat:     "FLOAT",
	KindDouble:    "DOUBLE",
	KindReal:      "REAL",
	KindDate:      "DATE",
	KindTime:      "TIME",
	KindTimestamp: "TIMESTAMP",
	KindUUID:      "UUID",
	KindBoolean:   "BOOLEAN",
	KindEnum:      "ENUM",
	KindJSON:      "JSON",
	KindJSONB:     "JSONB",
	KindArray:     "ARRAY",
	KindBlob:      "BLOB",
	KindBytea:     "BYTEA",
	KindGeometry:  "GEOMETRY",
	KindGeography: "GEOGRAPHY",
}

// String returns the upper-case category name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// -----------------------------------------------------------------------------
// Category
// -----------------------------------------------------------------------------

// Category is a canonical column type. Length applies to STRING only and 0
// means unbounded. Values applies to ENUM only.
type Category struct {
	Kind   Kind
	Length int
	Values []string
}

// String returns a STRING category; length 0 means unbounded.
func String(length int) Category { return Category{Kind: KindString, Length: length} }

// Enum returns an ENUM category with the given ordered labels.
func Enum(values ...string) Category {
	return Category{Kind: KindEnum, Values: slices.Clone(values)}
}

// Of returns a category for kinds that take no parameters.
func Of(k Kind) Category { return Category{Kind: k} }

// String renders the category, e.g. STRING(255) or ENUM(active,inactive).
func (c Category) String() string {
	switch c.Kind {
	case KindString:
		if c.Length > 0 {
			return fmt.Sprintf("STRING(%d)", c.Length)
		}
		return "STRING"
	case KindEnum:
		if len(c.Values) > 0 {
			return "ENUM(" + strings.Join(c.Values, ",") + ")"
		}
		return "ENUM"
	default:
		return c.Kind.String()
	}
}

// storedAs maps kinds that PostgreSQL stores under another kind: FLOAT
// reads back as double precision and binary data is always bytea.
var storedAs = map[Kind]Kind{
	KindFloat: KindDouble,
	KindBlob:  KindBytea,
}

// Stored returns the category as a database reports it back.
func (c Category) Stored() Category {
	if k, ok := storedAs[c.Kind]; ok {
		c.Kind = k
	}
	return c
}

// Equal reports whether two categories describe the same column type.
// Kinds that are stored alike compare equal. ENUM labels are compared only
// when both sides know them, because live enum labels are resolved
// separately and may be unavailable.
func (c Category) Equal(o Category) bool {
	c, o = c.Stored(), o.Stored()
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindString:
		return c.Length == o.Length
	case KindEnum:
		if len(c.Values) == 0 || len(o.Values) == 0 {
			return true
		}
		return slices.Equal(c.Values, o.Values)
	}
	return true
}

// IsBoundedString reports whether values must be truncated to fit.
func (c Category) IsBoundedString() bool {
	return c.Kind == KindString && c.Length > 0
}

// IsTextual reports whether the category stores free-form character data.
func (c Category) IsTextual() bool {
	return c.Kind == KindString || c.Kind == KindText
}

// IsInteger reports whether the category belongs to the integer family.
func (c Category) IsInteger() bool {
	switch c.Kind {
	case KindInteger, KindBigInt, KindSmallInt:
		return true
	}
	return false
}

// IsFractional reports whether the category belongs to the decimal family.
func (c Category) IsFractional() bool {
	switch c.Kind {
	case KindDecimal, KindFloat, KindDouble, KindReal:
		return true
	}
	return false
}

// IsJSON reports whether the category is JSON or JSONB.
func (c Category) IsJSON() bool {
	return c.Kind == KindJSON || c.Kind == KindJSONB
}

// -----------------------------------------------------------------------------
// TypeDef - logical model type definitions
// -----------------------------------------------------------------------------

// TypeDef describes a logical type name accepted in model files.
type TypeDef struct {
	Name     string     // Logical model name (e.g., "string", "timestamp")
	Aliases  []string   // Alternative model spellings
	Kind     Kind       // Canonical kind
	SQLTypes SQLTypeMap // Database-specific DDL spelling
	HasArgs  bool       // True if the descriptor accepts arguments (e.g., string(255))
}

// SQLTypeMap holds database-specific SQL type strings.
// %d is substituted with the length for bounded strings.
type SQLTypeMap struct {
	Postgres string
	SQLite   string
}

var (
	registry = make(map[string]*TypeDef)
	byKind   = make(map[Kind]*TypeDef)
	names    []string
)

// Register adds a type to the registry.
// Panics if a name or alias is already registered.
func Register(t *TypeDef) {
	for _, n := range append([]string{t.Name}, t.Aliases...) {
		if _, exists := registry[n]; exists {
			panic("type already registered: " + n)
		}
		registry[n] = t
	}
	if _, exists := byKind[t.Kind]; !exists {
		byKind[t.Kind] = t
	}
	names = append(names, t.Name)
}

// Get returns the type definition for a logical name or alias, or nil.
func Get(name string) *TypeDef {
	return registry[strings.ToLower(name)]
}

// Known reports whether name is a registered logical type or alias.
func Known(name string) bool {
	return Get(name) != nil
}

// Names returns the primary logical names in registration order.
func Names() []string {
	return slices.Clone(names)
}

// Def returns the definition for a canonical kind.
func Def(k Kind) *TypeDef {
	return byKind[k]
}

func init() {
	Register(&TypeDef{Name: "string", Aliases: []string{"varchar", "char"}, Kind: KindString,
		SQLTypes: SQLTypeMap{Postgres: "VARCHAR(%d)", SQLite: "VARCHAR(%d)"}, HasArgs: true})
	Register(&TypeDef{Name: "text", Kind: KindText,
		SQLTypes: SQLTypeMap{Postgres: "TEXT", SQLite: "TEXT"}})
	Register(&TypeDef{Name: "integer", Aliases: []string{"int"}, Kind: KindInteger,
		SQLTypes: SQLTypeMap{Postgres: "INTEGER", SQLite: "INTEGER"}})
	Register(&TypeDef{Name: "bigint", Kind: KindBigInt,
		SQLTypes: SQLTypeMap{Postgres: "BIGINT", SQLite: "BIGINT"}})
	Register(&TypeDef{Name: "smallint", Kind: KindSmallInt,
		SQLTypes: SQLTypeMap{Postgres: "SMALLINT", SQLite: "SMALLINT"}})
	Register(&TypeDef{Name: "decimal", Aliases: []string{"numeric"}, Kind: KindDecimal,
		SQLTypes: SQLTypeMap{Postgres: "NUMERIC", SQLite: "NUMERIC"}, HasArgs: true})
	Register(&TypeDef{Name: "float", Kind: KindFloat,
		SQLTypes: SQLTypeMap{Postgres: "FLOAT", SQLite: "FLOAT"}})
	Register(&TypeDef{Name: "double", Kind: KindDouble,
		SQLTypes: SQLTypeMap{Postgres: "DOUBLE PRECISION", SQLite: "DOUBLE PRECISION"}})
	Register(&TypeDef{Name: "real", Kind: KindReal,
		SQLTypes: SQLTypeMap{Postgres: "REAL", SQLite: "REAL"}})
	Register(&TypeDef{Name: "date", Kind: KindDate,
		SQLTypes: SQLTypeMap{Postgres: "DATE", SQLite: "DATE"}})
	Register(&TypeDef{Name: "time", Kind: KindTime,
		SQLTypes: SQLTypeMap{Postgres: "TIME", SQLite: "TIME"}})
	Register(&TypeDef{Name: "timestamp", Aliases: []string{"datetime", "timestamptz"}, Kind: KindTimestamp,
		SQLTypes: SQLTypeMap{Postgres: "TIMESTAMP WITH TIME ZONE", SQLite: "TIMESTAMP"}})
	Register(&TypeDef{Name: "uuid", Kind: KindUUID,
		SQLTypes: SQLTypeMap{Postgres: "UUID", SQLite: "UUID"}})
	Register(&TypeDef{Name: "boolean", Aliases: []string{"bool"}, Kind: KindBoolean,
		SQLTypes: SQLTypeMap{Postgres: "BOOLEAN", SQLite: "BOOLEAN"}})
	Register(&TypeDef{Name: "enum", Kind: KindEnum,
		SQLTypes: SQLTypeMap{Postgres: "TEXT", SQLite: "TEXT"}, HasArgs: true})
	Register(&TypeDef{Name: "json", Kind: KindJSON,
		SQLTypes: SQLTypeMap{Postgres: "JSON", SQLite: "JSON"}})
	Register(&TypeDef{Name: "jsonb", Kind: KindJSONB,
		SQLTypes: SQLTypeMap{Postgres: "JSONB", SQLite: "JSONB"}})
	Register(&TypeDef{Name: "array", Kind: KindArray,
		SQLTypes: SQLTypeMap{Postgres: "TEXT[]", SQLite: "ARRAY"}})
	Register(&TypeDef{Name: "blob", Kind: KindBlob,
		SQLTypes: SQLTypeMap{Postgres: "BYTEA", SQLite: "BLOB"}})
	Register(&TypeDef{Name: "bytea", Aliases: []string{"binary"}, Kind: KindBytea,
		SQLTypes: SQLTypeMap{Postgres: "BYTEA", SQLite: "BYTEA"}})
	Register(&TypeDef{Name: "geometry", Kind: KindGeometry,
		SQLTypes: SQLTypeMap{Postgres: "GEOMETRY", SQLite: "GEOMETRY"}})
	Register(&TypeDef{Name: "geography", Kind: KindGeography,
		SQLTypes: SQLTypeMap{Postgres: "GEOGRAPHY", SQLite: "GEOGRAPHY"}})
}
