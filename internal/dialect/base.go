// Package dialect provides database-specific SQL generation.
// This file contains shared helper functions used by all dialect implementations.
package dialect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/types"
)

// QuoteIdentFunc is a function that quotes an identifier.
type QuoteIdentFunc func(name string) string

var plainIdentPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// reservedWords are identifiers that must always be quoted.
var reservedWords = map[string]bool{
	"all": true, "and": true, "as": true, "asc": true, "check": true, "column": true,
	"constraint": true, "default": true, "desc": true, "distinct": true, "from": true,
	"group": true, "having": true, "in": true, "key": true, "limit": true, "not": true,
	"null": true, "offset": true, "on": true, "or": true, "order": true, "primary": true,
	"references": true, "select": true, "table": true, "to": true, "union": true,
	"unique": true, "user": true, "where": true, "with": true,
}

// needsQuote reports whether an identifier cannot be emitted bare.
func needsQuote(name string) bool {
	return !plainIdentPattern.MatchString(name) || reservedWords[name]
}

// quoteIdentDoubleQuote wraps an identifier in double quotes, doubling any
// embedded quote.
func quoteIdentDoubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteralSingle wraps a string in single quotes, doubling any embedded quote.
func quoteLiteralSingle(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// buildLiteral renders a Go scalar with the dialect's string and boolean rules.
func buildLiteral(v any, quote func(string) string, boolean func(bool) string) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(x)
	case bool:
		return boolean(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return quote(fmt.Sprintf("%v", x))
	}
}

// buildColumnTypeSQL generates the SQL type from the type registry.
func buildColumnTypeSQL(c types.Category, pick func(types.SQLTypeMap) string) string {
	def := types.Def(c.Kind)
	if def == nil {
		return "TEXT"
	}
	sqlType := pick(def.SQLTypes)
	if c.Kind == types.KindString {
		if c.Length > 0 && strings.Contains(sqlType, "%d") {
			return fmt.Sprintf(sqlType, c.Length)
		}
		return strings.Replace(sqlType, "(%d)", "", 1)
	}
	return sqlType
}

// ColumnDefConfig holds dialect-specific functions for column definitions.
type ColumnDefConfig struct {
	QuoteIdent QuoteIdentFunc
	TypeSQL    func(types.Category) string
	DefaultSQL func(ast.DefaultValue) string
	Literal    func(any) string
	TableName  string
}

// buildColumnDefSQL generates the SQL for a column definition.
func buildColumnDefSQL(col ast.ColumnSpec, cfg ColumnDefConfig) string {
	var b strings.Builder

	b.WriteString(cfg.QuoteIdent(col.Name))
	b.WriteString(" ")
	b.WriteString(cfg.TypeSQL(col.Category))

	if col.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if !col.Nullable && !col.PrimaryKey {
		b.WriteString(" NOT NULL")
	}
	if col.Unique && !col.PrimaryKey {
		b.WriteString(" CONSTRAINT ")
		b.WriteString(cfg.QuoteIdent(uniqueConstraintName(cfg.TableName, col.Name)))
		b.WriteString(" UNIQUE")
	}
	if col.Default.IsSet() {
		if def := cfg.DefaultSQL(col.Default); def != "" {
			b.WriteString(" DEFAULT ")
			b.WriteString(def)
		}
	}
	if values := col.EnumValues(); len(values) > 0 {
		b.WriteString(" CHECK (")
		b.WriteString(cfg.QuoteIdent(col.Name))
		b.WriteString(" IN (")
		for i, v := range values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(cfg.Literal(v))
		}
		b.WriteString("))")
	}

	return b.String()
}

// buildCreateTableSQL generates CREATE TABLE SQL using provided helper functions.
func buildCreateTableSQL(op *ast.CreateTable, quoteIdent QuoteIdentFunc, columnDef func(ast.ColumnSpec, string) string) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	tableName := op.Table()

	b.WriteString("CREATE TABLE ")
	b.WriteString(quoteIdent(tableName))
	b.WriteString(" (\n")

	for i, col := range op.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("  ")
		b.WriteString(columnDef(col, tableName))
	}

	b.WriteString("\n)")
	return b.String(), nil
}

// buildDropTableSQL generates DROP TABLE SQL.
func buildDropTableSQL(op *ast.DropTable, quoteIdent QuoteIdentFunc) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	return "DROP TABLE " + quoteIdent(op.Table()), nil
}

// buildAddColumnSQL generates ALTER TABLE ADD COLUMN SQL.
func buildAddColumnSQL(op *ast.AddColumn, ifNotExists bool, quoteIdent QuoteIdentFunc, columnDef func(ast.ColumnSpec, string) string) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	tableName := op.Table()
	b.WriteString("ALTER TABLE ")
	b.WriteString(quoteIdent(tableName))
	b.WriteString(" ADD COLUMN ")
	if op.Guarded && ifNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(columnDef(op.Column, tableName))
	return b.String(), nil
}

// buildRemoveColumnSQL generates ALTER TABLE DROP COLUMN SQL.
func buildRemoveColumnSQL(op *ast.RemoveColumn, quoteIdent QuoteIdentFunc) (string, error) {
	if err := op.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("ALTER TABLE ")
	b.WriteString(quoteIdent(op.Table()))
	b.WriteString(" DROP COLUMN ")
	b.WriteString(quoteIdent(op.Name))
	return b.String(), nil
}

// uniqueConstraintName returns the conventional name of a single-column
// unique constraint.
func uniqueConstraintName(table, column string) string {
	return table + "_" + column + "_key"
}
