package engine

import (
	"testing"

	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/types"
)

// col builds a column; nullable unless notNull is set.
func col(name string, c types.Category, notNull bool) ast.ColumnSpec {
	return ast.ColumnSpec{Name: name, Category: c, Nullable: !notNull}
}

func table(t *testing.T, name string, cols ...ast.ColumnSpec) *ast.TableSchema {
	t.Helper()
	ts, err := ast.NewTableSchema(name, cols...)
	if err != nil {
		t.Fatalf("NewTableSchema(%s) error = %v", name, err)
	}
	return ts
}

func idCol() ast.ColumnSpec {
	return ast.ColumnSpec{Name: "id", Category: types.Of(types.KindInteger), PrimaryKey: true, AutoIncrement: true}
}

// opTypes lists the operation types of ops, for order assertions.
func opTypes(ops []ast.Operation) []ast.OpType {
	out := make([]ast.OpType, len(ops))
	for i, op := range ops {
		out[i] = op.Type()
	}
	return out
}
