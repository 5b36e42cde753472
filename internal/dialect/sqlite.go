package dialect

import (
	"fmt"
	"strings"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/types"
)

// sqlite implements the Dialect interface for SQLite.
type sqlite struct{}

// SQLite returns the SQLite dialect implementation.
func SQLite() Dialect {
	return &sqlite{}
}

func (d *sqlite) Name() string {
	return "sqlite"
}

func (d *sqlite) ColumnType(c types.Category) string {
	return buildColumnTypeSQL(c, func(m types.SQLTypeMap) string { return m.SQLite })
}

// -----------------------------------------------------------------------------
// Identifiers and literals
// -----------------------------------------------------------------------------

func (d *sqlite) QuoteIdent(name string) string {
	if !needsQuote(name) {
		return name
	}
	return quoteIdentDoubleQuote(name)
}

func (d *sqlite) Literal(v any) string {
	return buildLiteral(v, quoteLiteralSingle, d.BooleanLiteral)
}

func (d *sqlite) BooleanLiteral(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// -----------------------------------------------------------------------------
// Expression fragments
// -----------------------------------------------------------------------------

func (d *sqlite) TextCast(expr string) string {
	return "CAST(" + expr + " AS TEXT)"
}

func (d *sqlite) EmailLocalPart(col string) string {
	return fmt.Sprintf("CASE WHEN instr(%s, '@') > 0 THEN substr(%s, 1, instr(%s, '@') - 1) ELSE %s END",
		col, col, col, col)
}

func (d *sqlite) LeadingDigits(col string) string {
	local := fmt.Sprintf("substr(%s, 1, instr(%s, '@') - 1)", col, col)
	return fmt.Sprintf("CASE WHEN instr(%s, '@') > 1 AND %s NOT GLOB '*[^0-9]*' THEN %s ELSE NULL END",
		col, local, local)
}

func (d *sqlite) ConcatWS(sep string, exprs ...string) string {
	return fmt.Sprintf("concat_ws(%s, %s)", d.Literal(sep), strings.Join(exprs, ", "))
}

func (d *sqlite) Substring(expr string, n int) string {
	return fmt.Sprintf("substr(%s, 1, %d)", expr, n)
}

func (d *sqlite) Length(expr string) string {
	return "length(" + expr + ")"
}

func (d *sqlite) RandomUUID() string {
	return "lower(hex(randomblob(16)))"
}

func (d *sqlite) CurrentTimestamp() string {
	return "CURRENT_TIMESTAMP"
}

func (d *sqlite) CurrentTime() string {
	return "CURRENT_TIME"
}

func (d *sqlite) EmptyJSON(_ types.Category, collection bool) string {
	if collection {
		return "'[]'"
	}
	return "'{}'"
}

func (d *sqlite) EmptyArray() string {
	return "'[]'"
}

// -----------------------------------------------------------------------------
// SQL generation
// -----------------------------------------------------------------------------

func (d *sqlite) CreateTableSQL(op *ast.CreateTable) (string, error) {
	return buildCreateTableSQL(op, d.QuoteIdent, d.columnDefSQL)
}

func (d *sqlite) DropTableSQL(op *ast.DropTable) (string, error) {
	return buildDropTableSQL(op, d.QuoteIdent)
}

func (d *sqlite) AddColumnSQL(op *ast.AddColumn) (string, error) {
	// SQLite has no ADD COLUMN IF NOT EXISTS; the runtime guard covers it.
	return buildAddColumnSQL(op, false, d.QuoteIdent, d.columnDefSQL)
}

func (d *sqlite) ChangeColumnSQL(op *ast.ChangeColumn) (string, error) {
	// SQLite cannot alter a column in place. The runner must rebuild the
	// table: create a copy with the new definition, copy rows, swap names.
	return "", alerr.New(alerr.ErrUnsupportedStep, "SQLite does not support ALTER COLUMN; use table recreation pattern").
		WithTable("", op.Table_).
		WithColumn(op.Column.Name)
}

func (d *sqlite) RemoveColumnSQL(op *ast.RemoveColumn) (string, error) {
	// SQLite 3.35.0+ supports DROP COLUMN
	return buildRemoveColumnSQL(op, d.QuoteIdent)
}

// -----------------------------------------------------------------------------
// Helper methods
// -----------------------------------------------------------------------------

func (d *sqlite) columnDefSQL(col ast.ColumnSpec, tableName string) string {
	return buildColumnDefSQL(col, ColumnDefConfig{
		QuoteIdent: d.QuoteIdent,
		TypeSQL:    d.ColumnType,
		DefaultSQL: d.defaultSQL,
		Literal:    d.Literal,
		TableName:  tableName,
	})
}

func (d *sqlite) defaultSQL(def ast.DefaultValue) string {
	switch def.Kind {
	case ast.DefaultLiteral:
		return d.Literal(def.Value)
	case ast.DefaultUUIDV4:
		return "(" + d.RandomUUID() + ")"
	case ast.DefaultRawSQL:
		return def.SQL
	}
	return ""
}
