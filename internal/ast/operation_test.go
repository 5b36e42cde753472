package ast

import (
	"testing"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/types"
)

func TestOpType(t *testing.T) {
	tests := []struct {
		op     OpType
		name   string
		effect Effect
	}{
		{OpCreateTable, "CreateTable", EffectCreate},
		{OpDropTable, "DropTable", EffectDrop},
		{OpAddColumn, "AddColumn", EffectCreate},
		{OpChangeColumn, "ChangeColumn", EffectAlter},
		{OpRemoveColumn, "RemoveColumn", EffectDrop},
		{OpRawSQL, "RawSQL", EffectData},
		{OpType(99), "Unknown", EffectData},
		{OpType(-1), "Unknown", EffectData},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.name {
			t.Errorf("OpType(%d).String() = %q, want %q", int(tt.op), got, tt.name)
		}
		if got := tt.op.Effect(); got != tt.effect {
			t.Errorf("%s.Effect() = %v, want %v", tt.name, got, tt.effect)
		}
	}
}

func TestOperationValidate(t *testing.T) {
	id := ColumnSpec{Name: "id", Category: types.Of(types.KindUUID), PrimaryKey: true}
	status := ColumnSpec{Name: "status", Category: types.Enum("active", "inactive")}

	tests := []struct {
		name     string
		op       Operation
		wantErr  bool
		wantCode alerr.Code
	}{
		{"create table", &CreateTable{TableOp: TableOp{Name: "companies"}, Columns: []ColumnSpec{id}}, false, ""},
		{"create table without name", &CreateTable{Columns: []ColumnSpec{id}}, true, alerr.ErrSchemaInvalid},
		{"create table without columns", &CreateTable{TableOp: TableOp{Name: "companies"}}, true, alerr.ErrSchemaInvalid},
		{"create table with bad column", &CreateTable{TableOp: TableOp{Name: "companies"}, Columns: []ColumnSpec{{Name: "bad name"}}}, true, alerr.ErrSchemaInvalid},
		{"drop table", &DropTable{TableOp: TableOp{Name: "companies"}}, false, ""},
		{"drop table without name", &DropTable{}, true, alerr.ErrSchemaInvalid},
		{"add column", &AddColumn{TableRef: TableRef{Table_: "companies"}, Column: status}, false, ""},
		{"add column without table", &AddColumn{Column: status}, true, alerr.ErrSchemaInvalid},
		{"add enum without values", &AddColumn{TableRef: TableRef{Table_: "companies"}, Column: ColumnSpec{Name: "status", Category: types.Enum()}}, true, alerr.ErrSchemaInvalid},
		{"change column", &ChangeColumn{TableRef: TableRef{Table_: "companies"}, Column: status}, false, ""},
		{"change nullable primary key", &ChangeColumn{TableRef: TableRef{Table_: "companies"}, Column: ColumnSpec{Name: "id", PrimaryKey: true, Nullable: true}}, true, alerr.ErrSchemaInvalid},
		{"remove column", &RemoveColumn{TableRef: TableRef{Table_: "companies"}, Name: "status"}, false, ""},
		{"remove column without name", &RemoveColumn{TableRef: TableRef{Table_: "companies"}}, true, alerr.ErrSchemaInvalid},
		{"raw sql", &RawSQL{TableRef: TableRef{Table_: "companies"}, SQL: "UPDATE companies SET status = 'active'"}, false, ""},
		{"empty raw sql", &RawSQL{TableRef: TableRef{Table_: "companies"}}, true, alerr.ErrSchemaInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !alerr.Is(err, tt.wantCode) {
				t.Errorf("Validate() code = %v, want %v", alerr.GetErrorCode(err), tt.wantCode)
			}
		})
	}
}

func TestOperationTable(t *testing.T) {
	ops := []Operation{
		&CreateTable{TableOp: TableOp{Name: "companies"}},
		&DropTable{TableOp: TableOp{Name: "companies"}},
		&AddColumn{TableRef: TableRef{Table_: "companies"}},
		&ChangeColumn{TableRef: TableRef{Table_: "companies"}},
		&RemoveColumn{TableRef: TableRef{Table_: "companies"}},
		&RawSQL{TableRef: TableRef{Table_: "companies"}},
	}
	for _, op := range ops {
		if op.Table() != "companies" {
			t.Errorf("%s.Table() = %q, want companies", op.Type(), op.Table())
		}
	}
}

func TestRawSQLInverse(t *testing.T) {
	op := &RawSQL{TableRef: TableRef{Table_: "t"}, SQL: "UPDATE t SET a = 1"}
	if op.Inverse() != nil {
		t.Error("Inverse() should be nil without DownSQL")
	}

	op.DownSQL = "UPDATE t SET a = NULL"
	inv := op.Inverse()
	if inv == nil || inv.SQL != "UPDATE t SET a = NULL" || inv.Table() != "t" {
		t.Errorf("Inverse() = %+v", inv)
	}
}

func TestDescribe(t *testing.T) {
	status := ColumnSpec{Name: "status", Category: types.Enum("active", "inactive"), Nullable: true}
	tests := []struct {
		op   Operation
		want string
	}{
		{&CreateTable{TableOp: TableOp{Name: "companies"}, Columns: []ColumnSpec{status}}, "create table companies (1 columns)"},
		{&DropTable{TableOp: TableOp{Name: "companies"}}, "drop table companies"},
		{&AddColumn{TableRef: TableRef{Table_: "companies"}, Column: status, Staged: true}, "add column status ENUM(active,inactive) (staged)"},
		{&RemoveColumn{TableRef: TableRef{Table_: "companies"}, Name: "status"}, "remove column status"},
		{&RawSQL{SQL: "SELECT 1", Note: "backfill status"}, "backfill status"},
	}
	for _, tt := range tests {
		if got := Describe(tt.op); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
