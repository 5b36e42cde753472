// Package dialect provides database-specific SQL fragments.
// The backfill synthesizer builds its statements from these fragments, and
// the diff preview renders planned operations to SQL through them.
package dialect

import (
	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/types"
)

// Dialect defines the interface for database-specific SQL generation.
// Implementations exist for PostgreSQL and SQLite.
type Dialect interface {
	// Name returns the dialect name (postgres, sqlite).
	Name() string

	// ColumnType returns the DDL type for a canonical category.
	ColumnType(c types.Category) string

	// -------------------------------------------------------------------------
	// Identifiers and literals
	// -------------------------------------------------------------------------

	// QuoteIdent quotes an identifier when it is not a plain lower-case name.
	QuoteIdent(name string) string

	// Literal renders a string, bool, integer or float as a SQL literal.
	Literal(v any) string

	// -------------------------------------------------------------------------
	// Expression fragments
	// -------------------------------------------------------------------------

	// TextCast casts an expression to text.
	// PostgreSQL: expr::text
	// SQLite: CAST(expr AS TEXT)
	TextCast(expr string) string

	// EmailLocalPart extracts the part of an e-mail address before '@'.
	EmailLocalPart(col string) string

	// LeadingDigits returns the leading digits of a value shaped like
	// "123@host", or NULL for any other value.
	LeadingDigits(col string) string

	// ConcatWS joins expressions with a separator, skipping NULLs.
	ConcatWS(sep string, exprs ...string) string

	// Substring returns the first n characters of an expression.
	Substring(expr string, n int) string

	// Length returns the character length of an expression.
	Length(expr string) string

	// RandomUUID returns an expression generating a random UUID.
	RandomUUID() string

	// CurrentTimestamp returns the current timestamp expression.
	CurrentTimestamp() string

	// CurrentTime returns the current time-of-day expression.
	CurrentTime() string

	// EmptyJSON returns an empty JSON document for a JSON or JSONB column.
	// collection selects an array over an object.
	EmptyJSON(c types.Category, collection bool) string

	// EmptyArray returns an empty array value.
	EmptyArray() string

	// BooleanLiteral returns the SQL literal for a boolean.
	BooleanLiteral(b bool) string

	// -------------------------------------------------------------------------
	// SQL generation for operations
	// -------------------------------------------------------------------------

	// CreateTableSQL generates CREATE TABLE statement.
	CreateTableSQL(op *ast.CreateTable) (string, error)

	// DropTableSQL generates DROP TABLE statement.
	DropTableSQL(op *ast.DropTable) (string, error)

	// AddColumnSQL generates ALTER TABLE ADD COLUMN statement.
	AddColumnSQL(op *ast.AddColumn) (string, error)

	// ChangeColumnSQL generates column modification statement.
	ChangeColumnSQL(op *ast.ChangeColumn) (string, error)

	// RemoveColumnSQL generates ALTER TABLE DROP COLUMN statement.
	RemoveColumnSQL(op *ast.RemoveColumn) (string, error)
}

// Get returns the dialect implementation for the given name.
// Valid names: "postgres", "postgresql", "sqlite", "sqlite3".
// Returns nil if the dialect is not supported.
func Get(name string) Dialect {
	switch name {
	case "postgres", "postgresql":
		return Postgres()
	case "sqlite", "sqlite3":
		return SQLite()
	default:
		return nil
	}
}

// Names returns the list of supported dialect names.
func Names() []string {
	return []string{"postgres", "sqlite"}
}

// OperationSQL renders any operation for the given dialect.
func OperationSQL(d Dialect, op ast.Operation) (string, error) {
	switch o := op.(type) {
	case *ast.CreateTable:
		return d.CreateTableSQL(o)
	case *ast.DropTable:
		return d.DropTableSQL(o)
	case *ast.AddColumn:
		return d.AddColumnSQL(o)
	case *ast.ChangeColumn:
		return d.ChangeColumnSQL(o)
	case *ast.RemoveColumn:
		return d.RemoveColumnSQL(o)
	case *ast.RawSQL:
		return o.SQL, nil
	}
	return "", alerr.Newf(alerr.ErrUnsupportedStep, "unsupported operation %s", op.Type()).
		WithTable("", op.Table())
}
