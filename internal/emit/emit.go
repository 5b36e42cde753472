// Package emit renders migration plans as Go source files compiled
// against the pkg/migrate runtime.
package emit

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/engine"
	"github.com/hlop3z/migen/internal/strutil"
)

const (
	// DefaultPackage is the package clause of generated files.
	DefaultPackage = "migrations"

	// DefaultRuntime is the import path of the runtime package.
	DefaultRuntime = "github.com/hlop3z/migen/pkg/migrate"

	revisionLayout = "20060102150405"
)

var validNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Artifact is a rendered migration file.
type Artifact struct {
	ID       string // revision plus name, e.g. 20261019120000_add_status
	Name     string
	Filename string
	Imports  ImportSet
	Source   []byte
	Up       int // statements in the up function
	Down     int // statements in the down function
}

// IsEmpty reports whether the artifact changes nothing.
func (a *Artifact) IsEmpty() bool { return a.Up == 0 && a.Down == 0 }

// Emitter renders plans into artifacts.
type Emitter struct {
	Package string
	Runtime string

	// SchemaHash is written to the header when set.
	SchemaHash string

	Now func() time.Time
}

// New creates an emitter with the default package and runtime.
func New() *Emitter {
	return &Emitter{Package: DefaultPackage, Runtime: DefaultRuntime, Now: time.Now}
}

// Emit renders the table plans of one run. The up function applies the
// tables in order; the down function visits them in the same order and
// undoes each table's steps in reverse. An empty plan renders functions
// that return nil.
func (e *Emitter) Emit(name string, plans []engine.TablePlan) (*Artifact, error) {
	a, err := e.newArtifact(name)
	if err != nil {
		return nil, err
	}

	r := renderer{runtime: e.runtime(), defaults: e.runtime() + "/defaults"}
	a.Imports.Add("context")
	a.Imports.AddNamed("migrate", r.runtime)

	var up, down strings.Builder
	var backfills bool
	for _, tp := range plans {
		if tp.IsEmpty() {
			continue
		}
		n, err := e.renderBlock(&up, r, &a.Imports, tp.Table, tp.Up)
		if err != nil {
			return nil, err
		}
		a.Up += n
		n, err = e.renderBlock(&down, r, &a.Imports, tp.Table, tp.Rollback())
		if err != nil {
			return nil, err
		}
		a.Down += n
		backfills = backfills || hasRaw(tp.Up)
	}

	var notes []string
	switch {
	case a.IsEmpty():
		notes = append(notes, "No schema changes detected.")
	case backfills:
		notes = append(notes, "Backfill values are placeholders derived from column names.",
			"Review them before applying.")
	}

	return e.finish(a, notes, up.String(), down.String())
}

// Template renders an empty migration for hand-written changes.
func (e *Emitter) Template(name string) (*Artifact, error) {
	a, err := e.newArtifact(name)
	if err != nil {
		return nil, err
	}
	a.Imports.Add("context")
	a.Imports.AddNamed("migrate", e.runtime())

	body := "// Call m.CreateTable, m.AddColumn, m.RawQuery, ... here.\n"
	return e.finish(a, nil, body, body)
}

// renderBlock writes the statements of one table under a comment naming it.
func (e *Emitter) renderBlock(b *strings.Builder, r renderer, imports *ImportSet, table string, ops []ast.Operation) (int, error) {
	if len(ops) == 0 {
		return 0, nil
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("// " + table + "\n")
	for _, op := range ops {
		st, err := r.render(op)
		if err != nil {
			return 0, err
		}
		imports.Merge(st.imports)
		b.WriteString(st.code)
	}
	return len(ops), nil
}

func (e *Emitter) newArtifact(name string) (*Artifact, error) {
	normalized := strutil.ToSnakeCase(strings.TrimSpace(name))
	if !validNamePattern.MatchString(normalized) {
		return nil, alerr.New(alerr.ErrInvalidName, "invalid migration name").
			With("name", name).
			WithHelp("use letters, digits and underscores, starting with a letter")
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	revision := now().UTC().Format(revisionLayout)
	id := revision + "_" + normalized
	return &Artifact{ID: id, Name: normalized, Filename: id + ".go"}, nil
}

func (e *Emitter) finish(a *Artifact, notes []string, up, down string) (*Artifact, error) {
	suffix := a.ID[:len(revisionLayout)] + strutil.ToPascalCase(a.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "// Migration: %s\n", a.Name)
	fmt.Fprintf(&b, "// Generated at: %s\n", e.generatedAt(a))
	if e.SchemaHash != "" {
		fmt.Fprintf(&b, "// Schema hash: %s\n", e.SchemaHash)
	}
	for _, n := range notes {
		b.WriteString("// " + n + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "package %s\n\n", e.pkg())
	b.WriteString(a.Imports.Block())
	b.WriteString("\n")
	fmt.Fprintf(&b, "func init() {\nmigrate.Register(%q, up%s, down%s)\n}\n\n", a.ID, suffix, suffix)
	writeFunc(&b, "up"+suffix, up)
	b.WriteString("\n")
	writeFunc(&b, "down"+suffix, down)

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrEmitFailed, err, "generated migration is not valid Go").
			With("migration", a.ID)
	}
	a.Source = src
	return a, nil
}

func writeFunc(b *strings.Builder, name, body string) {
	fmt.Fprintf(b, "func %s(ctx context.Context, m migrate.Executor) error {\n", name)
	b.WriteString(body)
	b.WriteString("return nil\n}\n")
}

// generatedAt recovers the timestamp from the revision so the header and
// the file name always agree.
func (e *Emitter) generatedAt(a *Artifact) string {
	t, err := time.Parse(revisionLayout, a.ID[:len(revisionLayout)])
	if err != nil {
		return a.ID[:len(revisionLayout)]
	}
	return t.Format(time.RFC3339)
}

func (e *Emitter) pkg() string {
	if e.Package == "" {
		return DefaultPackage
	}
	return e.Package
}

func (e *Emitter) runtime() string {
	if e.Runtime == "" {
		return DefaultRuntime
	}
	return e.Runtime
}

func hasRaw(ops []ast.Operation) bool {
	for _, op := range ops {
		if op.Type() == ast.OpRawSQL {
			return true
		}
	}
	return false
}

// WriteFile writes the artifact into dir and returns its path. An existing
// file is never overwritten.
func WriteFile(dir string, a *Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", alerr.Wrap(alerr.ErrFileWrite, err, "failed to create migrations directory").
			With("dir", dir)
	}

	path := filepath.Join(dir, a.Filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", alerr.Wrap(alerr.ErrFileWrite, err, "failed to create migration file").
			With("path", path)
	}
	if _, err := f.Write(a.Source); err != nil {
		f.Close()
		return "", alerr.Wrap(alerr.ErrFileWrite, err, "failed to write migration file").
			With("path", path)
	}
	if err := f.Close(); err != nil {
		return "", alerr.Wrap(alerr.ErrFileWrite, err, "failed to write migration file").
			With("path", path)
	}
	return path, nil
}
