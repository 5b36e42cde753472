package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeSQL folds case and runs of whitespace so that statements
// compare equal regardless of layout.
func NormalizeSQL(sql string) string {
	return strings.ToUpper(strings.TrimSpace(whitespaceRe.ReplaceAllString(sql, " ")))
}

// AssertSQL fails the test unless got and want normalize to the same statement.
func AssertSQL(t testing.TB, got, want string) {
	t.Helper()

	if NormalizeSQL(got) != NormalizeSQL(want) {
		t.Errorf("SQL mismatch:\ngot:  %s\nwant: %s", got, want)
	}
}

// AssertSQLContains fails the test unless the normalized sql contains the
// normalized substr.
func AssertSQLContains(t testing.TB, sql, substr string) {
	t.Helper()

	if !strings.Contains(NormalizeSQL(sql), NormalizeSQL(substr)) {
		t.Errorf("SQL does not contain expected substring:\nsql:    %s\nsubstr: %s", sql, substr)
	}
}

// AssertError fails the test unless err's chain carries code.
func AssertError(t testing.TB, err error, code alerr.Code) {
	t.Helper()

	if err == nil {
		t.Errorf("expected error with code %s, got nil", code)
		return
	}
	if !alerr.Is(err, code) {
		t.Errorf("expected error code %s, got %s: %v", code, alerr.GetErrorCode(err), err)
	}
}

// AssertNoError stops the test on a non-nil err.
func AssertNoError(t testing.TB, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// MustTable builds a schema, stopping the test on a duplicate column.
func MustTable(t testing.TB, name string, cols ...ast.ColumnSpec) *ast.TableSchema {
	t.Helper()

	ts, err := ast.NewTableSchema(name, cols...)
	if err != nil {
		t.Fatalf("NewTableSchema(%s): %v", name, err)
	}
	return ts
}

// WriteFile writes a fixture, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
