package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/types"
)

func TestNormalizeSQL(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"simple", "UPDATE users SET a = 1", "UPDATE USERS SET A = 1"},
		{"extra spaces", "UPDATE  users   SET a = 1", "UPDATE USERS SET A = 1"},
		{"newlines and tabs", "UPDATE users\n\tSET a = 1\n", "UPDATE USERS SET A = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSQL(tt.sql); got != tt.want {
				t.Errorf("NormalizeSQL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssertSQL(t *testing.T) {
	AssertSQL(t, "update users\nset a = 1", "UPDATE users SET a = 1")
	AssertSQLContains(t, "UPDATE users SET a = 1 WHERE a IS NULL", "where a is null")
}

func TestAssertError(t *testing.T) {
	AssertError(t, alerr.New(alerr.ErrInvalidIdentifier, "bad"), alerr.ErrInvalidIdentifier)
	AssertNoError(t, nil)
}

func TestMustTable(t *testing.T) {
	ts := MustTable(t, "users", ast.ColumnSpec{Name: "id", Category: types.Of(types.KindInteger)})
	if ts.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ts.Len())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "users.yaml")
	WriteFile(t, path, "users: {}")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "users: {}" {
		t.Errorf("content = %q", data)
	}
}
