package drift

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/testutil"
	"github.com/hlop3z/migen/internal/types"
)

func usersTable(t *testing.T) *ast.TableSchema {
	return testutil.MustTable(t, "users",
		ast.ColumnSpec{Name: "id", Category: types.Of(types.KindUUID), PrimaryKey: true},
		ast.ColumnSpec{Name: "email", Category: types.String(255), Unique: true},
		ast.ColumnSpec{Name: "created_at", Category: types.Of(types.KindTimestamp), Nullable: true},
	)
}

func TestComputeSchemaHash_Empty(t *testing.T) {
	hash, err := ComputeSchemaHash(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash.Root != emptyHash() {
		t.Errorf("Root = %q, want empty hash", hash.Root)
	}
	if len(hash.Tables) != 0 {
		t.Errorf("expected 0 tables, got %d", len(hash.Tables))
	}

	// A table that does not exist counts as absent.
	hash, err = ComputeSchemaHash([]*ast.TableSchema{testutil.MustTable(t, "ghost")})
	if err != nil {
		t.Fatal(err)
	}
	if hash.Root != emptyHash() {
		t.Error("empty table schema should not contribute to the hash")
	}
}

func TestComputeSchemaHash_SingleTable(t *testing.T) {
	hash, err := ComputeSchemaHash([]*ast.TableSchema{usersTable(t)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tableHash, ok := hash.Tables["users"]
	if !ok {
		t.Fatal("expected users table hash")
	}
	if len(tableHash.Columns) != 3 {
		t.Errorf("expected 3 column hashes, got %d", len(tableHash.Columns))
	}
}

func TestComputeSchemaHash_StoredKinds(t *testing.T) {
	declared := testutil.MustTable(t, "readings",
		ast.ColumnSpec{Name: "value", Category: types.Of(types.KindFloat)},
		ast.ColumnSpec{Name: "raw", Category: types.Of(types.KindBlob)},
	)
	live := testutil.MustTable(t, "readings",
		ast.ColumnSpec{Name: "value", Category: types.FromDB("double precision")},
		ast.ColumnSpec{Name: "raw", Category: types.FromDB("bytea")},
	)

	a, err := ComputeSchemaHash([]*ast.TableSchema{declared})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeSchemaHash([]*ast.TableSchema{live})
	if err != nil {
		t.Fatal(err)
	}
	if a.Root != b.Root {
		t.Error("float and blob columns should hash as they are stored")
	}
}

func TestComputeSchemaHash_Deterministic(t *testing.T) {
	reordered := testutil.MustTable(t, "users",
		ast.ColumnSpec{Name: "created_at", Category: types.Of(types.KindTimestamp), Nullable: true},
		ast.ColumnSpec{Name: "email", Category: types.String(255), Unique: true},
		ast.ColumnSpec{Name: "id", Category: types.Of(types.KindUUID), PrimaryKey: true},
	)
	tags := testutil.MustTable(t, "tags", ast.ColumnSpec{Name: "label", Category: types.String(20)})

	a, err := ComputeSchemaHash([]*ast.TableSchema{usersTable(t), tags})
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeSchemaHash([]*ast.TableSchema{tags, reordered})
	if err != nil {
		t.Fatal(err)
	}
	if a.Root != b.Root {
		t.Error("hash should not depend on table or column order")
	}
}

func TestComputeSchemaHash_IgnoresDefaults(t *testing.T) {
	plain := testutil.MustTable(t, "users", ast.ColumnSpec{Name: "status", Category: types.String(20)})
	withDefault := testutil.MustTable(t, "users", ast.ColumnSpec{
		Name: "status", Category: types.String(20), Default: ast.Literal("active"),
	})

	a, _ := ComputeSchemaHash([]*ast.TableSchema{plain})
	b, _ := ComputeSchemaHash([]*ast.TableSchema{withDefault})
	if a.Root != b.Root {
		t.Error("defaults should not change the hash")
	}
}

func TestCompareHashes(t *testing.T) {
	expected, _ := ComputeSchemaHash([]*ast.TableSchema{
		usersTable(t),
		testutil.MustTable(t, "tags", ast.ColumnSpec{Name: "label", Category: types.String(20)}),
	})
	actual, _ := ComputeSchemaHash([]*ast.TableSchema{
		testutil.MustTable(t, "users",
			ast.ColumnSpec{Name: "id", Category: types.Of(types.KindUUID), PrimaryKey: true},
			ast.ColumnSpec{Name: "email", Category: types.String(100), Unique: true},
			ast.ColumnSpec{Name: "legacy", Category: types.Of(types.KindText), Nullable: true},
		),
		testutil.MustTable(t, "audit", ast.ColumnSpec{Name: "id", Category: types.Of(types.KindInteger)}),
	})

	cmp := CompareHashes(expected, actual)
	if cmp.Match {
		t.Fatal("expected mismatch")
	}
	if len(cmp.MissingTables) != 1 || cmp.MissingTables[0] != "tags" {
		t.Errorf("MissingTables = %v", cmp.MissingTables)
	}
	if len(cmp.ExtraTables) != 1 || cmp.ExtraTables[0] != "audit" {
		t.Errorf("ExtraTables = %v", cmp.ExtraTables)
	}

	diff := cmp.TableDiffs["users"]
	if diff == nil || len(diff.MissingColumns)+len(diff.ExtraColumns)+len(diff.ModifiedColumns) == 0 {
		t.Fatal("expected users diff")
	}
	if strings.Join(diff.MissingColumns, ",") != "created_at" {
		t.Errorf("MissingColumns = %v", diff.MissingColumns)
	}
	if strings.Join(diff.ExtraColumns, ",") != "legacy" {
		t.Errorf("ExtraColumns = %v", diff.ExtraColumns)
	}
	if strings.Join(diff.ModifiedColumns, ",") != "email" {
		t.Errorf("ModifiedColumns = %v", diff.ModifiedColumns)
	}
}

func TestCompareHashes_Match(t *testing.T) {
	a, _ := ComputeSchemaHash([]*ast.TableSchema{usersTable(t)})
	b, _ := ComputeSchemaHash([]*ast.TableSchema{usersTable(t)})
	cmp := CompareHashes(a, b)
	if !cmp.Match || len(cmp.TableDiffs) != 0 {
		t.Errorf("expected match, got %+v", cmp)
	}
}

type mapReader map[string]*ast.TableSchema

func (m mapReader) LiveTable(_ context.Context, table string) (*ast.TableSchema, error) {
	if table == "broken" {
		return nil, errors.New("permission denied")
	}
	if t, ok := m[table]; ok {
		return t, nil
	}
	return &ast.TableSchema{Name: table}, nil
}

func (m mapReader) ListTables(context.Context) ([]string, error) {
	return slices.Sorted(maps.Keys(m)), nil
}

func TestDetector(t *testing.T) {
	ctx := context.Background()
	users := usersTable(t)
	tags := testutil.MustTable(t, "tags", ast.ColumnSpec{Name: "label", Category: types.String(20)})

	d := NewDetector(mapReader{"users": usersTable(t)})
	result, err := d.Detect(ctx, []*ast.TableSchema{users, tags})
	if err != nil {
		t.Fatal(err)
	}
	if !result.HasDrift {
		t.Fatal("expected drift for missing tags table")
	}
	summary := Summarize(result)
	if summary.MissingTables != 1 || summary.ModifiedTables != 0 || summary.Tables != 2 {
		t.Errorf("summary = %+v", summary)
	}
	if got := FormatSummary(summary); got != "drift: 1 missing" {
		t.Errorf("FormatSummary() = %q", got)
	}
	if out := FormatResult(result); !strings.Contains(out, "- tags") {
		t.Errorf("FormatResult() missing table line:\n%s", out)
	}

	result, err = d.Detect(ctx, []*ast.TableSchema{users})
	if err != nil {
		t.Fatal(err)
	}
	if result.HasDrift {
		t.Error("expected no drift")
	}
	if out := FormatResult(result); !strings.Contains(out, "in sync") {
		t.Errorf("FormatResult() = %q", out)
	}

	legacy := testutil.MustTable(t, "legacy", ast.ColumnSpec{Name: "note", Category: types.Of(types.KindText)})
	withExtra := NewDetector(mapReader{"users": usersTable(t), "legacy": legacy})
	result, err = withExtra.Detect(ctx, []*ast.TableSchema{users})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(result.Comparison.ExtraTables, []string{"legacy"}) {
		t.Errorf("ExtraTables = %v", result.Comparison.ExtraTables)
	}
	if got := FormatSummary(Summarize(result)); got != "drift: 1 extra" {
		t.Errorf("FormatSummary() = %q", got)
	}
	if out := FormatResult(result); !strings.Contains(out, "not in models") {
		t.Errorf("FormatResult() missing extra tables:\n%s", out)
	}

	result, err = withExtra.Detect(ctx, []*ast.TableSchema{users}, "legacy")
	if err != nil {
		t.Fatal(err)
	}
	if result.HasDrift {
		t.Error("unchecked live table should not count as drift")
	}

	if _, err := d.Detect(ctx, []*ast.TableSchema{testutil.MustTable(t, "broken",
		ast.ColumnSpec{Name: "id", Category: types.Of(types.KindInteger)})}); err == nil {
		t.Error("expected introspection error")
	}
}

func TestTruncateHash(t *testing.T) {
	if got := TruncateHash("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("TruncateHash() = %q", got)
	}
	if got := TruncateHash("abc"); got != "abc" {
		t.Errorf("TruncateHash() = %q", got)
	}
}
