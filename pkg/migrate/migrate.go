// Package migrate is the runtime contract generated migration units are
// compiled against. A unit registers paired up and down functions that
// drive an Executor supplied by the migration runner.
package migrate

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Executor applies schema changes. Implementations belong to the runner
// that executes generated units.
type Executor interface {
	CreateTable(ctx context.Context, table string, columns []Column) error
	DropTable(ctx context.Context, table string) error
	AddColumn(ctx context.Context, table string, column Column) error
	ChangeColumn(ctx context.Context, table string, column Column) error
	RemoveColumn(ctx context.Context, table, column string) error
	RawQuery(ctx context.Context, sql string) error
	HasColumn(ctx context.Context, table, column string) (bool, error)
}

// Column is a complete column definition.
// Default is nil, a Go scalar, defaults.UUIDV4 or a defaults.RawLiteral.
type Column struct {
	Name          string
	Type          Type
	AllowNull     bool
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	Default       any
}

// Func is one direction of a migration.
type Func func(ctx context.Context, m Executor) error

// Migration is a registered unit.
type Migration struct {
	ID   string
	Up   Func
	Down Func
}

var (
	mu         sync.Mutex
	migrations = make(map[string]Migration)
)

// Register records a migration unit. Generated units call it from init.
// Panics if the id is empty or already registered.
func Register(id string, up, down Func) {
	if id == "" {
		panic("migrate: empty migration id")
	}
	if up == nil || down == nil {
		panic("migrate: migration " + id + " needs up and down functions")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := migrations[id]; exists {
		panic("migrate: migration already registered: " + id)
	}
	migrations[id] = Migration{ID: id, Up: up, Down: down}
}

// Registered returns all registered units ordered by id. Ids start with a
// timestamp, so this is creation order.
func Registered() []Migration {
	mu.Lock()
	defer mu.Unlock()

	result := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		result = append(result, m)
	}
	slices.SortFunc(result, func(a, b Migration) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Lookup returns a registered unit by id.
func Lookup(id string) (Migration, bool) {
	mu.Lock()
	defer mu.Unlock()

	m, ok := migrations[id]
	return m, ok
}

// AddColumnIfMissing adds column unless the table already has it, so a
// unit that failed part way can be run again.
func AddColumnIfMissing(ctx context.Context, m Executor, table string, column Column) error {
	exists, err := m.HasColumn(ctx, table, column.Name)
	if err != nil {
		return fmt.Errorf("check column %s.%s: %w", table, column.Name, err)
	}
	if exists {
		return nil
	}
	return m.AddColumn(ctx, table, column)
}
