// Package introspect reads live table definitions from database catalogs
// and converts them into canonical table schemas.
package introspect

import (
	"context"
	"database/sql"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/dialect"
)

// Reader queries a database catalog.
type Reader interface {
	// DescribeTable returns the columns of a table in ordinal order. A
	// table that does not exist yields no rows and no error.
	DescribeTable(ctx context.Context, table string) ([]RawColumn, error)

	// ListTables returns the user tables of the current schema, sorted.
	ListTables(ctx context.Context) ([]string, error)
}

// New creates a Reader for the given dialect.
func New(db *sql.DB, d dialect.Dialect) (Reader, error) {
	switch d.Name() {
	case "postgres":
		return &postgresReader{db: db}, nil
	case "sqlite":
		return &sqliteReader{db: db, dialect: d}, nil
	}
	return nil, alerr.New(alerr.EUnsupportedDialect, "dialect not supported for introspection").
		With("dialect", d.Name())
}

// RawColumn represents column metadata from the database catalog.
type RawColumn struct {
	Name          string
	DataType      string // Raw SQL type (character varying, INTEGER, ...)
	UDTName       string // Underlying type name of a USER-DEFINED column (geometry, citext, ...)
	IsNullable    bool
	Default       sql.NullString // Raw default expression
	IsPrimaryKey  bool
	IsUnique      bool
	AutoIncrement bool
	MaxLength     sql.NullInt64 // For character types
	EnumValues    []string      // Labels of a user-defined enum or CHECK (col IN ...)
}

// Source adapts a Reader to the generator's live table lookup.
type Source struct {
	reader Reader
}

// NewSource wraps r.
func NewSource(r Reader) *Source {
	return &Source{reader: r}
}

// LiveTable describes and converts one table. A missing table is returned
// as an empty schema.
func (s *Source) LiveTable(ctx context.Context, table string) (*ast.TableSchema, error) {
	rows, err := s.reader.DescribeTable(ctx, table)
	if err != nil {
		return nil, err
	}
	return LiveTable(table, rows)
}

// ListTables lists the live user tables, sorted.
func (s *Source) ListTables(ctx context.Context) ([]string, error) {
	return s.reader.ListTables(ctx)
}

// internalTables lists tables that belong to migration runners.
var internalTables = map[string]bool{
	"schema_migrations": true,
	"migen_migrations":  true,
}

// isInternalTable checks if a table should be skipped.
func isInternalTable(name string) bool {
	return internalTables[name]
}
