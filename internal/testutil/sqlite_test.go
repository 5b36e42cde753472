package testutil

import (
	"slices"
	"testing"
)

func TestSetupSQLite(t *testing.T) {
	db := SetupSQLite(t)
	ExecSQL(t, db,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT)",
		"INSERT INTO users (email) VALUES ('a@example.com'), (NULL)",
	)

	got := QueryStrings(t, db, "SELECT email FROM users ORDER BY id")
	if !slices.Equal(got, []string{"a@example.com", ""}) {
		t.Errorf("QueryStrings() = %q", got)
	}
}
