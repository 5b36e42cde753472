// Package model loads declared table models from YAML and JavaScript files
// into an ordered Registry.
package model

import (
	"slices"
	"sync"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
)

// Entry is one declared table. Err is set when the table could not be
// loaded; Table is nil in that case.
type Entry struct {
	TableName string
	Table     *ast.TableSchema
	Source    string // model file the table came from
	Err       error
}

// Name returns the table name.
func (e Entry) Name() string {
	if e.Table != nil && e.Table.Name != "" {
		return e.Table.Name
	}
	return e.TableName
}

// Duplicate reports whether the entry repeats a table declared earlier.
// The earlier declaration stays registered.
func (e Entry) Duplicate() bool {
	return alerr.Is(e.Err, alerr.ErrSchemaDuplicate)
}

// Registry stores declared tables in registration order.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int // table name -> entries position
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register adds a loaded table.
// Returns an error if a table with the same name is already registered.
func (r *Registry) Register(source string, t *ast.TableSchema) error {
	if t == nil {
		return alerr.New(alerr.ErrSchemaInvalid, "table definition cannot be nil").
			WithFile(source, 0)
	}
	if t.Name == "" {
		return alerr.New(alerr.ErrInvalidIdentifier, "table name cannot be empty").
			WithFile(source, 0)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, exists := r.index[t.Name]; exists {
		return alerr.New(alerr.ErrSchemaDuplicate, "table already declared").
			WithTable("", t.Name).
			WithFile(source, 0).
			WithNote("first declared in " + r.entries[i].Source)
	}

	r.index[t.Name] = len(r.entries)
	r.entries = append(r.entries, Entry{TableName: t.Name, Table: t, Source: source})
	return nil
}

// Fail records a table that could not be loaded. name may be empty when
// the file failed before a table name was known.
func (r *Registry) Fail(name, source string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{TableName: name, Source: source, Err: err})
}

// Get returns a registered table by name.
func (r *Registry) Get(name string) (*ast.TableSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.entries[i].Table, true
}

// Entries returns a copy of all entries, failed ones included, in
// registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.entries)
}

// Tables returns the successfully loaded tables in registration order.
func (r *Registry) Tables() []*ast.TableSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*ast.TableSchema
	for _, e := range r.entries {
		if e.Err == nil {
			result = append(result, e.Table)
		}
	}
	return result
}

// Errors returns the failed entries.
func (r *Registry) Errors() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Entry
	for _, e := range r.entries {
		if e.Err != nil {
			result = append(result, e)
		}
	}
	return result
}

// Count returns the number of successfully loaded tables.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.index)
}
