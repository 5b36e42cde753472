package engine

import (
	"fmt"

	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/types"
)

// TablePlan holds the operations migrating one table.
// Down is aligned with Up: it lists the inverse of each planned step in the
// same order, and is reversed when the migration is rolled back.
type TablePlan struct {
	Table string
	Up    []ast.Operation
	Down  []ast.Operation
}

// IsEmpty reports whether the table needs no operations.
func (p TablePlan) IsEmpty() bool {
	return len(p.Up) == 0 && len(p.Down) == 0
}

// Rollback returns the down operations in the order they run.
func (p TablePlan) Rollback() []ast.Operation {
	return reversed(p.Down)
}

// MigrationPlan is the table plans of one run, in declaration order.
type MigrationPlan struct {
	Tables []TablePlan
}

// Add appends a table plan, ignoring empty ones.
func (m *MigrationPlan) Add(p TablePlan) {
	if p.IsEmpty() {
		return
	}
	m.Tables = append(m.Tables, p)
}

// IsEmpty reports whether no table needs migrating.
func (m *MigrationPlan) IsEmpty() bool {
	for _, t := range m.Tables {
		if !t.IsEmpty() {
			return false
		}
	}
	return true
}

// UpOperations returns every up operation, table by table.
func (m *MigrationPlan) UpOperations() []ast.Operation {
	var ops []ast.Operation
	for _, t := range m.Tables {
		ops = append(ops, t.Up...)
	}
	return ops
}

// reversed returns a reversed copy of ops.
func reversed(ops []ast.Operation) []ast.Operation {
	out := make([]ast.Operation, len(ops))
	for i, op := range ops {
		out[len(ops)-1-i] = op
	}
	return out
}

// Planner turns a table diff into staged up and down operations.
type Planner struct {
	Synth *Synthesizer

	// PreserveRemoved restores a removed column with its live type on
	// rollback. By default the column comes back as a nullable unbounded
	// STRING placeholder.
	PreserveRemoved bool
}

// NewPlanner creates a planner using the synthesizer for backfills.
func NewPlanner(s *Synthesizer) *Planner {
	return &Planner{Synth: s}
}

// PlanTable plans one table. Adds are sequenced before changes and changes
// before removes, so no backfill or truncation reads a column not yet added.
//
// A NOT NULL column reaching a populated table moves through
// staged (nullable) -> backfilled -> truncated (bounded strings) -> enforced.
func (p *Planner) PlanTable(table string, diff DiffResult, live *ast.TableSchema) TablePlan {
	plan := TablePlan{Table: table}

	if diff.Create {
		plan.Up = append(plan.Up, &ast.CreateTable{
			TableOp: ast.TableOp{Name: table},
			Columns: diff.Adds,
		})
		plan.Down = append(plan.Down, &ast.DropTable{TableOp: ast.TableOp{Name: table}})
		return plan
	}

	for _, col := range diff.Adds {
		p.planAdd(&plan, col, live)
	}
	for _, ch := range diff.Changes {
		p.planChange(&plan, ch, live)
	}
	for _, name := range diff.Removes {
		p.planRemove(&plan, name, live)
	}
	return plan
}

func (p *Planner) planAdd(plan *TablePlan, col ast.ColumnSpec, live *ast.TableSchema) {
	ref := ast.TableRef{Table_: plan.Table}

	if col.Nullable {
		plan.Up = append(plan.Up, &ast.AddColumn{TableRef: ref, Column: col, Guarded: true})
		plan.Down = append(plan.Down, &ast.RemoveColumn{TableRef: ref, Name: col.Name})
		return
	}

	if !live.Has(col.Name) {
		plan.Up = append(plan.Up, &ast.AddColumn{
			TableRef: ref,
			Column:   col.Staged(),
			Guarded:  true,
			Staged:   true,
		})
	}
	p.appendBackfill(plan, col, live)
	if col.Category.IsBoundedString() {
		p.appendTruncate(plan, col)
	}
	plan.Up = append(plan.Up, &ast.ChangeColumn{TableRef: ref, Column: col})
	plan.Down = append(plan.Down, &ast.RemoveColumn{TableRef: ref, Name: col.Name})
}

func (p *Planner) planChange(plan *TablePlan, ch ColumnChange, live *ast.TableSchema) {
	ref := ast.TableRef{Table_: plan.Table}

	if ch.Old.Nullable && !ch.New.Nullable {
		p.appendBackfill(plan, ch.New, live)
		if ch.New.Category.IsBoundedString() {
			p.appendTruncate(plan, ch.New)
		}
	} else if shrinks(ch.Old.Category, ch.New.Category) {
		p.appendTruncate(plan, ch.New)
	}

	plan.Up = append(plan.Up, &ast.ChangeColumn{TableRef: ref, Column: ch.New})
	plan.Down = append(plan.Down, &ast.ChangeColumn{TableRef: ref, Column: ch.Old})
}

func (p *Planner) planRemove(plan *TablePlan, name string, live *ast.TableSchema) {
	ref := ast.TableRef{Table_: plan.Table}

	restored := ast.ColumnSpec{Name: name, Category: types.String(0), Nullable: true}
	if old, ok := live.Column(name); ok && p.PreserveRemoved {
		restored = old.Staged()
	}

	plan.Up = append(plan.Up, &ast.RemoveColumn{TableRef: ref, Name: name})
	plan.Down = append(plan.Down, &ast.AddColumn{TableRef: ref, Column: restored})
}

// appendBackfill adds the synthesized backfill, if any. When no value can
// be proposed the constraint change is still planned.
func (p *Planner) appendBackfill(plan *TablePlan, col ast.ColumnSpec, live *ast.TableSchema) {
	if p.Synth == nil {
		return
	}
	stmt, ok := p.Synth.Backfill(plan.Table, col, live)
	if !ok {
		return
	}
	p.appendRaw(plan, &ast.RawSQL{
		TableRef: ast.TableRef{Table_: plan.Table},
		SQL:      stmt,
		Note:     fmt.Sprintf("backfill %s.%s", plan.Table, col.Name),
	})
}

// appendTruncate cuts existing values down to the column's length.
func (p *Planner) appendTruncate(plan *TablePlan, col ast.ColumnSpec) {
	if p.Synth == nil {
		return
	}
	d := p.Synth.Dialect()
	n := col.Category.Length
	c := d.QuoteIdent(col.Name)
	p.appendRaw(plan, &ast.RawSQL{
		TableRef: ast.TableRef{Table_: plan.Table},
		SQL: fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s > %d",
			d.QuoteIdent(plan.Table), c, d.Substring(c, n), d.Length(c), n),
		Note: fmt.Sprintf("truncate %s.%s to %d characters", plan.Table, col.Name, n),
	})
}

func (p *Planner) appendRaw(plan *TablePlan, op *ast.RawSQL) {
	plan.Up = append(plan.Up, op)
	if inv := op.Inverse(); inv != nil {
		plan.Down = append(plan.Down, inv)
	}
}

// shrinks reports whether values of old may not fit in new.
func shrinks(old, new types.Category) bool {
	if !new.IsBoundedString() {
		return false
	}
	if old.IsBoundedString() {
		return old.Length > new.Length
	}
	return true
}
