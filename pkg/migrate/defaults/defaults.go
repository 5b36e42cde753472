// Package defaults holds the special column default values generated
// migration units may reference.
package defaults

// uuidV4 marks a column whose default is a generated version 4 UUID.
type uuidV4 struct{}

func (uuidV4) String() string { return "UUIDV4" }

// UUIDV4 is the default for UUID columns generated on insert.
var UUIDV4 = uuidV4{}

// IsUUIDV4 reports whether v is the UUIDV4 marker.
func IsUUIDV4(v any) bool {
	_, ok := v.(uuidV4)
	return ok
}

// RawLiteral is a SQL expression used verbatim as a column default,
// such as CURRENT_TIMESTAMP.
type RawLiteral string

func (r RawLiteral) String() string { return string(r) }

// Literal returns a raw SQL default expression.
func Literal(expr string) RawLiteral { return RawLiteral(expr) }
