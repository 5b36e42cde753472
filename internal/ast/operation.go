package ast

import (
	"fmt"

	"github.com/hlop3z/migen/internal/alerr"
)

// Operation represents a single atomic change in a generated migration.
// Plans are built from Operations and rendered by a single emitter.
type Operation interface {
	// Type returns the operation type (OpCreateTable, OpAddColumn, etc.)
	Type() OpType

	// Table returns the table the operation targets.
	Table() string

	// Validate checks that the operation is well-formed.
	// Returns an error if the operation has invalid or missing fields.
	Validate() error
}

// -----------------------------------------------------------------------------
// Embedded types for DRY operation definitions
// -----------------------------------------------------------------------------

// TableOp provides the Name field for table-level operations.
type TableOp struct {
	Name string
}

// Table returns the table name.
func (t TableOp) Table() string { return t.Name }

// TableRef provides the Table_ field for column-level operations.
type TableRef struct {
	Table_ string
}

// Table returns the table name.
func (t TableRef) Table() string { return t.Table_ }

// -----------------------------------------------------------------------------
// CreateTable - creates a new table
// -----------------------------------------------------------------------------

// CreateTable creates a table with every column in its final form.
type CreateTable struct {
	TableOp
	Columns []ColumnSpec
}

func (op *CreateTable) Type() OpType { return OpCreateTable }

func (op *CreateTable) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired)
	}
	if len(op.Columns) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNeedsColumn).
			WithTable("", op.Name)
	}
	for _, col := range op.Columns {
		if err := col.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column").
				WithTable("", op.Name).
				WithColumn(col.Name)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// DropTable - removes an existing table
// -----------------------------------------------------------------------------

// DropTable drops a table.
type DropTable struct {
	TableOp
}

func (op *DropTable) Type() OpType { return OpDropTable }

func (op *DropTable) Validate() error {
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "table name is required for drop")
	}
	return nil
}

// -----------------------------------------------------------------------------
// AddColumn - adds a column to an existing table
// -----------------------------------------------------------------------------

// AddColumn adds a column. Guarded adds check the live table first so a
// rerun after a partial failure does not add the column twice. Staged adds
// carry a relaxed definition that a later ChangeColumn tightens.
type AddColumn struct {
	TableRef
	Column  ColumnSpec
	Guarded bool
	Staged  bool
}

func (op *AddColumn) Type() OpType { return OpAddColumn }

func (op *AddColumn) Validate() error {
	if op.Table_ == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired)
	}
	if err := op.Column.Validate(); err != nil {
		return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column").
			WithTable("", op.Table_).
			WithColumn(op.Column.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------
// ChangeColumn - replaces a column definition
// -----------------------------------------------------------------------------

// ChangeColumn replaces an existing column with a complete new definition.
type ChangeColumn struct {
	TableRef
	Column ColumnSpec
}

func (op *ChangeColumn) Type() OpType { return OpChangeColumn }

func (op *ChangeColumn) Validate() error {
	if op.Table_ == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired)
	}
	if err := op.Column.Validate(); err != nil {
		return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column").
			WithTable("", op.Table_).
			WithColumn(op.Column.Name)
	}
	return nil
}

// -----------------------------------------------------------------------------
// RemoveColumn - drops a column
// -----------------------------------------------------------------------------

// RemoveColumn drops a column.
type RemoveColumn struct {
	TableRef
	Name string
}

func (op *RemoveColumn) Type() OpType { return OpRemoveColumn }

func (op *RemoveColumn) Validate() error {
	if op.Table_ == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired)
	}
	if op.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgColumnNameRequired).
			WithTable("", op.Table_)
	}
	return nil
}

// -----------------------------------------------------------------------------
// RawSQL - raw statement
// -----------------------------------------------------------------------------

// RawSQL runs a statement verbatim. DownSQL undoes it and is empty when the
// statement has no inverse. Note is rendered as a comment above the statement.
type RawSQL struct {
	TableRef
	SQL     string
	DownSQL string
	Note    string
}

func (op *RawSQL) Type() OpType { return OpRawSQL }

func (op *RawSQL) Validate() error {
	if op.SQL == "" {
		return alerr.New(alerr.ErrSchemaInvalid, "raw SQL cannot be empty").
			WithTable("", op.Table_)
	}
	return nil
}

// Inverse returns the statement undoing op, or nil when there is none.
func (op *RawSQL) Inverse() *RawSQL {
	if op.DownSQL == "" {
		return nil
	}
	return &RawSQL{TableRef: op.TableRef, SQL: op.DownSQL, Note: op.Note}
}

// -----------------------------------------------------------------------------
// Summaries
// -----------------------------------------------------------------------------

// Describe returns a one-line human summary of an operation.
func Describe(op Operation) string {
	switch o := op.(type) {
	case *CreateTable:
		return fmt.Sprintf("create table %s (%d columns)", o.Name, len(o.Columns))
	case *DropTable:
		return fmt.Sprintf("drop table %s", o.Name)
	case *AddColumn:
		s := fmt.Sprintf("add column %s", o.Column)
		if o.Staged {
			s += " (staged)"
		}
		return s
	case *ChangeColumn:
		return fmt.Sprintf("change column %s", o.Column)
	case *RemoveColumn:
		return fmt.Sprintf("remove column %s", o.Name)
	case *RawSQL:
		if o.Note != "" {
			return o.Note
		}
		return "raw SQL"
	}
	return op.Type().String()
}
