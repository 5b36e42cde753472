package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/cli"
	"github.com/hlop3z/migen/internal/dialect"
	"github.com/hlop3z/migen/internal/drift"
	"github.com/hlop3z/migen/internal/emit"
	"github.com/hlop3z/migen/internal/engine"
	"github.com/hlop3z/migen/internal/introspect"
	"github.com/hlop3z/migen/internal/model"
)

// session is an open database plus the live reader built on it.
type session struct {
	cfg     *Config
	db      *sql.DB
	dialect dialect.Dialect
	source  *introspect.Source
}

func openSession(ctx context.Context, cfg *Config) (*session, error) {
	db, d, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	reader, err := introspect.New(db, d)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &session{cfg: cfg, db: db, dialect: d, source: introspect.NewSource(reader)}, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

// plan diffs every declared table against the database.
func (s *session) plan(ctx context.Context, reg *model.Registry) (*engine.MigrationPlan, []engine.Warning, error) {
	planner := engine.NewPlanner(engine.NewSynthesizer(s.dialect))
	planner.PreserveRemoved = s.cfg.PreserveRemoved
	return engine.NewGenerator(s.source, planner).Generate(ctx, reg)
}

func newEmitter(cfg *Config, reg *model.Registry) *emit.Emitter {
	e := emit.New()
	e.Package = cfg.Package
	e.Runtime = cfg.RuntimeImport
	if reg != nil {
		hash, err := drift.ComputeSchemaHash(reg.Tables())
		if err != nil {
			slog.Warn("cannot fingerprint models", "error", err)
		} else {
			e.SchemaHash = hash.Root
		}
	}
	return e
}

// printWarnings reports skipped tables. Generation continues past them.
func printWarnings(w io.Writer, warnings []engine.Warning) {
	for _, warn := range warnings {
		if warn.Duplicate {
			fmt.Fprint(w, duplicateWarning(warn.Table, warn.Source, warn.Err))
			continue
		}
		fmt.Fprint(w, cli.FormatWarning("table skipped",
			cli.At(warn.Table),
			cli.WithNotes(warningNote(warn.Err))))
	}
}

// duplicateWarning reports a repeated table declaration. The first
// declaration is still used.
func duplicateWarning(table, source string, err error) string {
	var notes []string
	var ae *alerr.Error
	if errors.As(err, &ae) {
		notes = ae.Notes()
	}
	return cli.FormatWarning("duplicate declaration of table "+table+" ignored",
		cli.At(source),
		cli.WithNotes(notes...),
		cli.WithHelps("remove or rename one of the declarations"))
}

func warningNote(err error) string {
	var ae *alerr.Error
	if !errors.As(err, &ae) {
		return err.Error()
	}
	msg := ae.GetMessage()
	if cause := ae.GetCause(); cause != nil {
		var inner *alerr.Error
		if errors.As(cause, &inner) {
			return msg + ": " + inner.GetMessage()
		}
		return msg + ": " + cause.Error()
	}
	return msg
}

// formatPlan lists the up operations of each table.
func formatPlan(plan *engine.MigrationPlan) string {
	if plan.IsEmpty() {
		return "No schema changes detected.\n"
	}

	var b strings.Builder
	for _, tp := range plan.Tables {
		b.WriteString(cli.Header(tp.Table))
		b.WriteString("\n")
		list := cli.NewList()
		for _, op := range tp.Up {
			addOperation(list, op)
		}
		b.WriteString(list.String())
	}
	ops := len(plan.UpOperations())
	fmt.Fprintf(&b, "%s across %s\n",
		cli.FormatCount(ops, "operation", "operations"),
		cli.FormatCount(len(plan.Tables), "table", "tables"))
	return b.String()
}

func addOperation(list *cli.List, op ast.Operation) {
	desc := ast.Describe(op)
	switch op.Type().Effect() {
	case ast.EffectCreate:
		list.AddCreated(desc)
	case ast.EffectDrop:
		list.AddDropped(desc)
	case ast.EffectAlter:
		list.AddAltered(desc)
	default:
		list.Add(desc)
	}
}

// planSQL renders the up operations as statements for the dialect. Steps
// the dialect cannot express in one statement are listed as comments.
func planSQL(d dialect.Dialect, plan *engine.MigrationPlan) (string, error) {
	var b strings.Builder
	for _, tp := range plan.Tables {
		fmt.Fprintf(&b, "-- %s\n", tp.Table)
		for _, op := range tp.Up {
			stmt, err := dialect.OperationSQL(d, op)
			if alerr.Is(err, alerr.ErrUnsupportedStep) {
				fmt.Fprintf(&b, "-- %s: no single %s statement\n", ast.Describe(op), d.Name())
				continue
			}
			if err != nil {
				return "", err
			}
			if raw, ok := op.(*ast.RawSQL); ok && raw.Note != "" {
				fmt.Fprintf(&b, "-- %s\n", raw.Note)
			}
			b.WriteString(strings.TrimSuffix(stmt, ";"))
			b.WriteString(";\n")
		}
	}
	return b.String(), nil
}
