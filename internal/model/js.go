package model

import (
	"math/rand"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
)

// fixedSeed makes Math.random deterministic inside model files.
const fixedSeed = 12345

// Sandbox evaluates JavaScript model files. Each file declares tables with
//
//	table("users", {
//	  id:    { type: "integer", primaryKey: true, autoIncrement: true },
//	  email: { type: "string(255)", allowNull: false },
//	  token: { type: "uuid", default: uuidv4() },
//	  bio:   "text",
//	}, { underscored: true });
//
// Column order follows property order.
type Sandbox struct {
	vm      *goja.Runtime
	timeout time.Duration
	tables  []TableDef
}

// NewSandbox creates a hardened JavaScript sandbox.
func NewSandbox() *Sandbox {
	vm := goja.New()

	vm.SetMaxCallStackSize(500)
	seedRand := rand.New(rand.NewSource(fixedSeed))
	vm.SetRandSource(func() float64 { return seedRand.Float64() })
	disableDangerousGlobals(vm)

	s := &Sandbox{vm: vm, timeout: 5 * time.Second}
	s.bind()
	return s
}

// disableDangerousGlobals removes eval and freezes the builtin prototypes.
func disableDangerousGlobals(vm *goja.Runtime) {
	vm.Set("eval", goja.Undefined())

	_, _ = vm.RunString(`
		(function() {
			try {
				Object.freeze(Object.prototype);
				Object.freeze(Array.prototype);
				Object.freeze(String.prototype);
				Object.freeze(Number.prototype);
				Object.freeze(Boolean.prototype);
			} catch(e) {}
		})();
	`)
}

func (s *Sandbox) bind() {
	// sql() marks a default as a raw SQL expression
	s.vm.Set("sql", func(expr string) map[string]any {
		return map[string]any{"_type": "sql_expr", "expr": expr}
	})
	s.vm.Set("uuidv4", func() map[string]any {
		return map[string]any{"_type": "uuidv4"}
	})
	s.vm.Set("table", s.tableFunc)
}

// SetTimeout sets the execution timeout for one file.
func (s *Sandbox) SetTimeout(d time.Duration) {
	s.timeout = d
}

// Eval runs a model file and returns the tables it declared.
func (s *Sandbox) Eval(code, source string) ([]TableDef, error) {
	s.tables = nil

	// Goja runs ES5.1; drop module syntax.
	code = strings.ReplaceAll(code, "export default ", "")

	timer := time.AfterFunc(s.timeout, func() {
		s.vm.Interrupt("execution timeout")
	})
	defer timer.Stop()

	if _, err := s.vm.RunString(code); err != nil {
		s.vm.ClearInterrupt()
		if _, ok := err.(*goja.InterruptedError); ok {
			return nil, alerr.New(alerr.ErrJSExecution, "model script timed out").
				With("timeout", s.timeout.String()).
				WithFile(source, 0)
		}
		return nil, wrapJSError(err, alerr.ErrJSExecution).WithFile(source, 0)
	}

	if len(s.tables) == 0 {
		return nil, alerr.New(alerr.ErrModelLoad, "model file did not declare a table").
			WithFile(source, 0).
			WithHelp(`declare one with table("name", { id: { type: "integer", primaryKey: true } })`)
	}
	return s.tables, nil
}

// tableFunc implements table(name, columns, options).
func (s *Sandbox) tableFunc(call goja.FunctionCall) goja.Value {
	name := call.Argument(0)
	if goja.IsUndefined(name) || goja.IsNull(name) {
		panic(s.vm.NewTypeError("table() requires a name"))
	}
	cols, ok := call.Argument(1).(*goja.Object)
	if !ok {
		panic(s.vm.NewTypeError("table() requires a column object"))
	}

	def := TableDef{Name: name.String()}
	if opts, ok := call.Argument(2).(*goja.Object); ok {
		def.Underscored, _ = getBool(opts, "underscored")
	}

	for _, key := range cols.Keys() {
		col, err := s.parseColumn(key, cols.Get(key))
		if err != nil {
			panic(s.vm.NewTypeError(err.Error()))
		}
		def.Columns = append(def.Columns, col)
	}

	s.tables = append(s.tables, def)
	return goja.Undefined()
}

func (s *Sandbox) parseColumn(name string, v goja.Value) (ColumnDef, error) {
	col := ColumnDef{Name: name}
	if !present(v) {
		return col, nil
	}

	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() == "String" {
		// shorthand: bio: "text"
		col.Type = v.String()
		return col, nil
	}

	col.Type, _ = getString(obj, "type")
	col.Length, _ = getInt(obj, "length")
	col.Values, _ = getStringArray(obj, "values")
	col.PrimaryKey = firstBool(obj, "primaryKey", "primary_key")
	col.Unique = firstBool(obj, "unique")
	col.AutoIncrement = firstBool(obj, "autoIncrement", "auto_increment")

	if b, ok := getBool(obj, "nullable"); ok {
		col.Nullable = &b
	} else if b, ok := getBool(obj, "allowNull"); ok {
		col.Nullable = &b
	}

	raw := obj.Get("default")
	if raw == nil || goja.IsUndefined(raw) {
		raw = obj.Get("defaultValue")
	}
	dv, err := jsDefault(raw)
	if err != nil {
		return col, alerr.Wrap(alerr.ErrInvalidDefault, err, "invalid default for "+name)
	}
	col.Default = dv
	return col, nil
}

// jsDefault converts an exported default value.
func jsDefault(v goja.Value) (ast.DefaultValue, error) {
	switch x := exportValue(v).(type) {
	case nil:
		return ast.NoDefault(), nil
	case string, bool, int64, float64:
		return ast.Literal(x), nil
	case map[string]any:
		switch x["_type"] {
		case "uuidv4":
			return ast.UUIDV4(), nil
		case "sql_expr":
			expr, _ := x["expr"].(string)
			return ast.RawDefault(expr), nil
		}
	}
	return ast.NoDefault(), alerr.New(alerr.ErrInvalidDefault,
		"default must be a string, number, boolean, sql() or uuidv4()")
}
