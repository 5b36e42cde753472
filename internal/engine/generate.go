package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/model"
)

// LiveReader returns the live schema of a table. A table that does not
// exist is reported as an empty schema, not an error.
type LiveReader interface {
	LiveTable(ctx context.Context, table string) (*ast.TableSchema, error)
}

// Warning records a table skipped during generation. Duplicate marks a
// repeated declaration whose first occurrence was still planned; Source
// names the file of the repeat.
type Warning struct {
	Table     string
	Source    string
	Duplicate bool
	Err       error
}

func (w Warning) String() string {
	if w.Duplicate {
		return fmt.Sprintf("%s: duplicate declaration in %s ignored", w.Table, w.Source)
	}
	return fmt.Sprintf("%s: %v", w.Table, w.Err)
}

// Generator plans every declared table against the live database.
type Generator struct {
	Reader  LiveReader
	Planner *Planner
}

// NewGenerator creates a generator.
func NewGenerator(r LiveReader, p *Planner) *Generator {
	return &Generator{Reader: r, Planner: p}
}

// Generate diffs and plans the registry's tables one at a time, in
// declaration order. A table that failed to load, fails validation or
// cannot be introspected is logged, reported as a warning and skipped;
// the remaining tables are still planned.
//
// The returned error is non-nil only when ctx is cancelled.
func (g *Generator) Generate(ctx context.Context, reg *model.Registry) (*MigrationPlan, []Warning, error) {
	plan := &MigrationPlan{}
	var warnings []Warning

	skip := func(table string, err error) {
		slog.Warn("skipping table", "table", table, "error", err)
		warnings = append(warnings, Warning{Table: table, Err: err})
	}

	for _, entry := range reg.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}

		name := entry.Name()
		if entry.Duplicate() {
			slog.Warn("ignoring duplicate table declaration", "table", name, "file", entry.Source)
			warnings = append(warnings, Warning{Table: name, Source: entry.Source, Duplicate: true, Err: entry.Err})
			continue
		}
		if entry.Err != nil {
			skip(name, entry.Err)
			continue
		}
		if err := entry.Table.Validate(); err != nil {
			skip(name, err)
			continue
		}

		live, err := g.Reader.LiveTable(ctx, name)
		if err != nil {
			skip(name, alerr.Wrap(alerr.ErrIntrospection, err, "cannot read live table").
				WithTable("", name))
			continue
		}

		diff := Diff(entry.Table, live)
		if diff.IsEmpty() {
			slog.Debug("table up to date", "table", name)
			continue
		}

		tp := g.Planner.PlanTable(name, diff, live)
		slog.Debug("planned table", "table", name, "up", len(tp.Up), "down", len(tp.Down))
		plan.Add(tp)
	}

	return plan, warnings, nil
}
