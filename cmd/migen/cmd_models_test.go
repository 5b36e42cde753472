package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/model"
	"github.com/hlop3z/migen/internal/testutil"
	"github.com/hlop3z/migen/internal/types"
)

func TestWriteModels(t *testing.T) {
	dir := filepath.Join("project", "models")
	reg := model.NewRegistry()
	users := testutil.MustTable(t, "users",
		ast.ColumnSpec{Name: "id", Category: types.Of(types.KindInteger), PrimaryKey: true},
		ast.ColumnSpec{Name: "email", Category: types.String(255)},
	)
	testutil.AssertNoError(t, reg.Register(filepath.Join(dir, "users.yaml"), users))
	reg.Fail("audit", filepath.Join(dir, "audit.js"),
		alerr.New(alerr.ErrInvalidType, "unknown type descriptor"))

	var buf bytes.Buffer
	writeModels(&buf, dir, reg)
	out := buf.String()

	for _, want := range []string{
		"TABLE",
		"users.yaml",
		"ok",
		"audit.js",
		"error",
		"✗ audit: unknown type descriptor",
		"2 tables, 1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[2], "users  2") {
		t.Errorf("first row = %q", lines[2])
	}
}

func TestWriteModels_Empty(t *testing.T) {
	var buf bytes.Buffer
	writeModels(&buf, "models", model.NewRegistry())
	if !strings.Contains(buf.String(), "no models found") {
		t.Errorf("output = %q", buf.String())
	}
}
