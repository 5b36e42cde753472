//go:build integration

package introspect

import (
	"context"
	"slices"
	"testing"

	"github.com/hlop3z/migen/internal/dialect"
	"github.com/hlop3z/migen/internal/testutil"
	"github.com/hlop3z/migen/internal/types"
)

func TestSQLiteReader_DescribeTable(t *testing.T) {
	db := testutil.SetupSQLite(t)
	ctx := context.Background()

	testutil.ExecSQL(t, db, `
		CREATE TABLE companies (
			id INTEGER PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			email TEXT UNIQUE,
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)
	`)

	r, err := New(db, dialect.SQLite())
	if err != nil {
		t.Fatal(err)
	}

	live, err := NewSource(r).LiveTable(ctx, "companies")
	if err != nil {
		t.Fatalf("LiveTable() error = %v", err)
	}
	if !slices.Equal(live.Names(), []string{"id", "name", "email", "status", "created_at"}) {
		t.Fatalf("Names() = %v", live.Names())
	}

	id, _ := live.Column("id")
	if !id.PrimaryKey || !id.AutoIncrement || id.Nullable {
		t.Errorf("id = %s, want auto-increment primary key", id)
	}
	name, _ := live.Column("name")
	if !name.Category.Equal(types.String(100)) || name.Nullable {
		t.Errorf("name = %s", name)
	}
	email, _ := live.Column("email")
	if !email.Unique || !email.Nullable {
		t.Errorf("email = %s, want nullable unique", email)
	}
	status, _ := live.Column("status")
	if !slices.Equal(status.EnumValues(), []string{"active", "inactive"}) {
		t.Errorf("status = %s, want enum", status)
	}
}

func TestSQLiteReader_MissingTable(t *testing.T) {
	db := testutil.SetupSQLite(t)

	r, err := New(db, dialect.SQLite())
	if err != nil {
		t.Fatal(err)
	}
	live, err := NewSource(r).LiveTable(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("LiveTable() error = %v", err)
	}
	if !live.IsEmpty() {
		t.Errorf("missing table should be empty, got %v", live.Names())
	}
}

func TestSQLiteReader_ListTables(t *testing.T) {
	db := testutil.SetupSQLite(t)
	testutil.ExecSQL(t, db, "CREATE TABLE b_table (id INTEGER)")
	testutil.ExecSQL(t, db, "CREATE TABLE a_table (id INTEGER)")
	testutil.ExecSQL(t, db, "CREATE TABLE schema_migrations (version TEXT)")

	r, err := New(db, dialect.SQLite())
	if err != nil {
		t.Fatal(err)
	}
	tables, err := r.ListTables(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(tables, []string{"a_table", "b_table"}) {
		t.Errorf("ListTables() = %v", tables)
	}
}
