package dialect

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/types"
)

// postgres implements the Dialect interface for PostgreSQL.
type postgres struct{}

// Postgres returns the PostgreSQL dialect implementation.
func Postgres() Dialect {
	return &postgres{}
}

func (d *postgres) Name() string {
	return "postgres"
}

func (d *postgres) ColumnType(c types.Category) string {
	return buildColumnTypeSQL(c, func(m types.SQLTypeMap) string { return m.Postgres })
}

// -----------------------------------------------------------------------------
// Identifiers and literals
// -----------------------------------------------------------------------------

func (d *postgres) QuoteIdent(name string) string {
	if !needsQuote(name) {
		return name
	}
	return pq.QuoteIdentifier(name)
}

func (d *postgres) Literal(v any) string {
	return buildLiteral(v, func(s string) string {
		// pq prefixes escape-string literals with a space.
		return strings.TrimSpace(pq.QuoteLiteral(s))
	}, d.BooleanLiteral)
}

func (d *postgres) BooleanLiteral(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// -----------------------------------------------------------------------------
// Expression fragments
// -----------------------------------------------------------------------------

func (d *postgres) TextCast(expr string) string {
	return expr + "::text"
}

func (d *postgres) EmailLocalPart(col string) string {
	return fmt.Sprintf("SUBSTRING(%s FROM '^([^@]+)')", col)
}

func (d *postgres) LeadingDigits(col string) string {
	return fmt.Sprintf("CASE WHEN %s ~ '^[0-9]+@' THEN SUBSTRING(%s FROM '^([0-9]+)') ELSE NULL END", col, col)
}

func (d *postgres) ConcatWS(sep string, exprs ...string) string {
	return fmt.Sprintf("CONCAT_WS(%s, %s)", d.Literal(sep), strings.Join(exprs, ", "))
}

func (d *postgres) Substring(expr string, n int) string {
	return fmt.Sprintf("SUBSTRING(%s FROM 1 FOR %d)", expr, n)
}

func (d *postgres) Length(expr string) string {
	return "LENGTH(" + expr + ")"
}

func (d *postgres) RandomUUID() string {
	return "gen_random_uuid()"
}

func (d *postgres) CurrentTimestamp() string {
	return "CURRENT_TIMESTAMP"
}

func (d *postgres) CurrentTime() string {
	return "CURRENT_TIME"
}

func (d *postgres) EmptyJSON(c types.Category, collection bool) string {
	doc := "'{}'"
	if collection {
		doc = "'[]'"
	}
	if c.Kind == types.KindJSONB {
		return doc + "::jsonb"
	}
	return doc + "::json"
}

func (d *postgres) EmptyArray() string {
	return "ARRAY[]::text[]"
}

// -----------------------------------------------------------------------------
// SQL generation
// -----------------------------------------------------------------------------

func (d *postgres) CreateTableSQL(op *ast.CreateTable) (string, error) {
	return buildCreateTableSQL(op, d.QuoteIdent, d.columnDefSQL)
}

func (d *postgres) DropTableSQL(op *ast.DropTable) (string, error) {
	return buildDropTableSQL(op, d.QuoteIdent)
}

func (d *postgres) AddColumnSQL(op *ast.AddColumn) (string, error) {
	return buildAddColumnSQL(op, true, d.QuoteIdent, d.columnDefSQL)
}

// ChangeColumnSQL emits one ALTER TABLE with a clause per attribute.
func (d *postgres) ChangeColumnSQL(op *ast.ChangeColumn) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	col := op.Column
	name := d.QuoteIdent(col.Name)
	typ := d.ColumnType(col.Category)

	clauses := []string{
		fmt.Sprintf("ALTER COLUMN %s TYPE %s USING %s::%s", name, typ, name, typ),
	}
	if col.Nullable {
		clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s DROP NOT NULL", name))
	} else {
		clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s SET NOT NULL", name))
	}
	if def := d.defaultSQL(col.Default); def != "" {
		clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", name, def))
	} else {
		clauses = append(clauses, fmt.Sprintf("ALTER COLUMN %s DROP DEFAULT", name))
	}
	if col.Unique && !col.PrimaryKey {
		clauses = append(clauses, fmt.Sprintf("ADD CONSTRAINT %s UNIQUE (%s)",
			d.QuoteIdent(uniqueConstraintName(op.Table(), col.Name)), name))
	}

	return "ALTER TABLE " + d.QuoteIdent(op.Table()) + " " + strings.Join(clauses, ", "), nil
}

func (d *postgres) RemoveColumnSQL(op *ast.RemoveColumn) (string, error) {
	return buildRemoveColumnSQL(op, d.QuoteIdent)
}

// -----------------------------------------------------------------------------
// Helper methods
// -----------------------------------------------------------------------------

func (d *postgres) columnDefSQL(col ast.ColumnSpec, tableName string) string {
	return buildColumnDefSQL(col, ColumnDefConfig{
		QuoteIdent: d.QuoteIdent,
		TypeSQL:    d.ColumnType,
		DefaultSQL: d.defaultSQL,
		Literal:    d.Literal,
		TableName:  tableName,
	})
}

func (d *postgres) defaultSQL(def ast.DefaultValue) string {
	switch def.Kind {
	case ast.DefaultLiteral:
		return d.Literal(def.Value)
	case ast.DefaultUUIDV4:
		return d.RandomUUID()
	case ast.DefaultRawSQL:
		return def.SQL
	}
	return ""
}
