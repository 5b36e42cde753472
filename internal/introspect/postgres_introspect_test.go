//go:build integration

package introspect

import (
	"context"
	"slices"
	"testing"

	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/dialect"
	"github.com/hlop3z/migen/internal/testutil"
	"github.com/hlop3z/migen/internal/types"
)

func TestPostgresReader_DescribeTable(t *testing.T) {
	db := testutil.SetupPostgres(t)
	ctx := context.Background()

	testutil.ExecSQL(t, db, `CREATE TYPE company_kind AS ENUM ('startup', 'enterprise')`)
	testutil.ExecSQL(t, db, `
		CREATE TABLE companies (
			id SERIAL PRIMARY KEY,
			token UUID NOT NULL DEFAULT gen_random_uuid(),
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) UNIQUE,
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
			kind company_kind,
			bio TEXT
		)
	`)

	r, err := New(db, dialect.Postgres())
	if err != nil {
		t.Fatal(err)
	}
	live, err := NewSource(r).LiveTable(ctx, "companies")
	if err != nil {
		t.Fatalf("LiveTable() error = %v", err)
	}

	want := []string{"id", "token", "name", "email", "status", "kind", "bio"}
	if !slices.Equal(live.Names(), want) {
		t.Fatalf("Names() = %v, want %v", live.Names(), want)
	}

	id, _ := live.Column("id")
	if !id.PrimaryKey || !id.AutoIncrement || id.Default.IsSet() {
		t.Errorf("id = %s, want serial primary key", id)
	}
	token, _ := live.Column("token")
	if token.Default.Kind != ast.DefaultUUIDV4 {
		t.Errorf("token default = %s, want UUIDV4", token.Default)
	}
	name, _ := live.Column("name")
	if !name.Category.Equal(types.String(100)) || name.Nullable {
		t.Errorf("name = %s", name)
	}
	email, _ := live.Column("email")
	if !email.Unique {
		t.Errorf("email = %s, want unique", email)
	}
	status, _ := live.Column("status")
	if !slices.Equal(status.EnumValues(), []string{"active", "inactive"}) {
		t.Errorf("status = %s, want enum from check constraint", status)
	}
	kind, _ := live.Column("kind")
	if !slices.Equal(kind.EnumValues(), []string{"startup", "enterprise"}) {
		t.Errorf("kind = %s, want enum from type", kind)
	}
}

func TestPostgresReader_MissingTable(t *testing.T) {
	db := testutil.SetupPostgres(t)

	r, err := New(db, dialect.Postgres())
	if err != nil {
		t.Fatal(err)
	}
	rows, err := r.DescribeTable(context.Background(), "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Errorf("DescribeTable(ghost) = %d rows", len(rows))
	}
}
