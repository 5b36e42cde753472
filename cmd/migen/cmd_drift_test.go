package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/hlop3z/migen/internal/drift"
	"github.com/hlop3z/migen/internal/model"
)

func TestWriteDriftJSON(t *testing.T) {
	result := &drift.Result{
		HasDrift:     true,
		ExpectedHash: "aaa",
		ActualHash:   "bbb",
		Tables:       2,
		Comparison: &drift.HashComparison{
			MissingTables: []string{"orders"},
			ExtraTables:   []string{"legacy_users"},
			TableDiffs: map[string]*drift.TableDiff{
				"users": {Name: "users", ModifiedColumns: []string{"email"}},
			},
		},
	}
	reg := model.NewRegistry()
	reg.Fail("audit", "models/audit.yaml", errors.New("bad type"))

	var buf bytes.Buffer
	if err := writeDriftJSON(&buf, result, reg); err != nil {
		t.Fatalf("writeDriftJSON() error = %v", err)
	}

	var got driftReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if !got.Drift || got.Expected != "aaa" || got.Actual != "bbb" {
		t.Errorf("header fields = %+v", got)
	}
	if got.Summary == nil || got.Summary.MissingTables != 1 || got.Summary.ModifiedTables != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if !slices.Equal(got.Missing, []string{"orders"}) {
		t.Errorf("missing = %q", got.Missing)
	}
	if !slices.Equal(got.Extra, []string{"legacy_users"}) || got.Summary.ExtraTables != 1 {
		t.Errorf("extra = %q", got.Extra)
	}
	if len(got.Modified) != 1 || got.Modified[0].Name != "users" {
		t.Errorf("modified = %+v", got.Modified)
	}
	if !slices.Equal(got.Skipped, []string{"audit"}) {
		t.Errorf("skipped = %q", got.Skipped)
	}
}
