// Package engine diffs declared tables against the live database and plans
// the staged operations that migrate one into the other.
package engine

import (
	"github.com/hlop3z/migen/internal/ast"
)

// ColumnChange is a column present on both sides whose attributes differ.
// Old is the live definition and New the declared one.
type ColumnChange struct {
	Name string
	Old  ast.ColumnSpec
	New  ast.ColumnSpec
}

// DiffResult is the column-level difference for one table.
// Create is set when the live table does not exist; Adds then holds every
// declared column.
type DiffResult struct {
	Create  bool
	Adds    []ast.ColumnSpec
	Changes []ColumnChange
	Removes []string
}

// IsEmpty reports whether the table needs no migration.
func (r DiffResult) IsEmpty() bool {
	return !r.Create && len(r.Adds) == 0 && len(r.Changes) == 0 && len(r.Removes) == 0
}

// Diff compares a declared table against the live one.
//
// Algorithm:
//  1. Live table has no columns: the whole table is created
//  2. Declared columns missing live are adds (declared order)
//  3. Columns on both sides with a different category, nullability or
//     uniqueness are changes (declared order)
//  4. Live columns missing from the declared table are removes (live order)
//
// Column order never produces a difference.
func Diff(declared, live *ast.TableSchema) DiffResult {
	var r DiffResult

	if live.IsEmpty() {
		r.Create = true
		r.Adds = declared.Columns()
		return r
	}

	for _, col := range declared.Columns() {
		liveCol, exists := live.Column(col.Name)
		if !exists {
			r.Adds = append(r.Adds, col)
			continue
		}
		if columnChanged(liveCol, col) {
			r.Changes = append(r.Changes, ColumnChange{Name: col.Name, Old: liveCol, New: col})
		}
	}

	for _, name := range live.Names() {
		if !declared.Has(name) {
			r.Removes = append(r.Removes, name)
		}
	}

	return r
}

// columnChanged compares the attributes the differ tracks.
func columnChanged(old, new ast.ColumnSpec) bool {
	return !old.Category.Equal(new.Category) ||
		old.Nullable != new.Nullable ||
		old.Unique != new.Unique
}
