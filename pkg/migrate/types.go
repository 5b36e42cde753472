package migrate

import (
	"fmt"
	"slices"
	"strings"
)

// Type is a canonical column type.
type Type struct {
	Kind   string   // STRING, TEXT, INTEGER, ...
	Length int      // STRING only; 0 is unbounded
	Values []string // ENUM only
}

// String returns a STRING type. A length of 0 is unbounded.
func String(length int) Type { return Type{Kind: "STRING", Length: length} }

// Enum returns an ENUM type with ordered labels.
func Enum(values ...string) Type { return Type{Kind: "ENUM", Values: slices.Clone(values)} }

// Parameterless types.
var (
	Text      = Type{Kind: "TEXT"}
	Integer   = Type{Kind: "INTEGER"}
	BigInt    = Type{Kind: "BIGINT"}
	SmallInt  = Type{Kind: "SMALLINT"}
	Decimal   = Type{Kind: "DECIMAL"}
	Float     = Type{Kind: "FLOAT"}
	Double    = Type{Kind: "DOUBLE"}
	Real      = Type{Kind: "REAL"}
	Date      = Type{Kind: "DATE"}
	Time      = Type{Kind: "TIME"}
	Timestamp = Type{Kind: "TIMESTAMP"}
	UUID      = Type{Kind: "UUID"}
	Boolean   = Type{Kind: "BOOLEAN"}
	JSON      = Type{Kind: "JSON"}
	JSONB     = Type{Kind: "JSONB"}
	Array     = Type{Kind: "ARRAY"}
	Blob      = Type{Kind: "BLOB"}
	Bytea     = Type{Kind: "BYTEA"}
	Geometry  = Type{Kind: "GEOMETRY"}
	Geography = Type{Kind: "GEOGRAPHY"}
)

func (t Type) String() string {
	switch {
	case t.Kind == "STRING" && t.Length > 0:
		return fmt.Sprintf("STRING(%d)", t.Length)
	case t.Kind == "ENUM" && len(t.Values) > 0:
		return "ENUM(" + strings.Join(t.Values, ",") + ")"
	}
	return t.Kind
}
