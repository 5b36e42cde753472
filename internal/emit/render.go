package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/types"
)

// typeIdents maps parameterless kinds to their runtime package variable.
var typeIdents = map[types.Kind]string{
	types.KindText:      "Text",
	types.KindInteger:   "Integer",
	types.KindBigInt:    "BigInt",
	types.KindSmallInt:  "SmallInt",
	types.KindDecimal:   "Decimal",
	types.KindFloat:     "Float",
	types.KindDouble:    "Double",
	types.KindReal:      "Real",
	types.KindDate:      "Date",
	types.KindTime:      "Time",
	types.KindTimestamp: "Timestamp",
	types.KindUUID:      "UUID",
	types.KindBoolean:   "Boolean",
	types.KindJSON:      "JSON",
	types.KindJSONB:     "JSONB",
	types.KindArray:     "Array",
	types.KindBlob:      "Blob",
	types.KindBytea:     "Bytea",
	types.KindGeometry:  "Geometry",
	types.KindGeography: "Geography",
}

// renderer turns operations into Go statements against the runtime package.
type renderer struct {
	runtime  string // import path of the runtime package
	defaults string // import path of the defaults package
}

// statement is one rendered operation and the imports its text references.
type statement struct {
	code    string
	imports ImportSet
}

func (r renderer) render(op ast.Operation) (statement, error) {
	var st statement
	var call string

	switch o := op.(type) {
	case *ast.CreateTable:
		var b strings.Builder
		b.WriteString("[]migrate.Column{\n")
		for _, col := range o.Columns {
			lit, err := r.columnFields(col, &st.imports)
			if err != nil {
				return st, wrapRender(err, op)
			}
			b.WriteString("{" + lit + "},\n")
		}
		b.WriteString("}")
		st.imports.AddNamed("migrate", r.runtime)
		call = fmt.Sprintf("m.CreateTable(ctx, %s, %s)", goString(o.Name), b.String())

	case *ast.DropTable:
		call = fmt.Sprintf("m.DropTable(ctx, %s)", goString(o.Name))

	case *ast.AddColumn:
		lit, err := r.columnFields(o.Column, &st.imports)
		if err != nil {
			return st, wrapRender(err, op)
		}
		st.imports.AddNamed("migrate", r.runtime)
		if o.Guarded {
			call = fmt.Sprintf("migrate.AddColumnIfMissing(ctx, m, %s, migrate.Column{%s})", goString(o.Table_), lit)
		} else {
			call = fmt.Sprintf("m.AddColumn(ctx, %s, migrate.Column{%s})", goString(o.Table_), lit)
		}

	case *ast.ChangeColumn:
		lit, err := r.columnFields(o.Column, &st.imports)
		if err != nil {
			return st, wrapRender(err, op)
		}
		st.imports.AddNamed("migrate", r.runtime)
		call = fmt.Sprintf("m.ChangeColumn(ctx, %s, migrate.Column{%s})", goString(o.Table_), lit)

	case *ast.RemoveColumn:
		call = fmt.Sprintf("m.RemoveColumn(ctx, %s, %s)", goString(o.Table_), goString(o.Name))

	case *ast.RawSQL:
		call = fmt.Sprintf("m.RawQuery(ctx, %s)", goString(o.SQL))

	default:
		return st, alerr.New(alerr.ErrUnsupportedStep, "operation cannot be rendered").
			With("operation", op.Type().String())
	}

	var b strings.Builder
	if raw, ok := op.(*ast.RawSQL); ok && raw.Note != "" {
		b.WriteString("// " + raw.Note + "\n")
	}
	b.WriteString("if err := " + call + "; err != nil {\nreturn err\n}\n")
	st.code = b.String()
	return st, nil
}

// columnFields renders the fields of a migrate.Column literal, leaving out
// zero values.
func (r renderer) columnFields(col ast.ColumnSpec, imports *ImportSet) (string, error) {
	fields := []string{
		"Name: " + goString(col.Name),
		"Type: " + typeExpr(col.Category),
	}
	if col.Nullable {
		fields = append(fields, "AllowNull: true")
	}
	if col.PrimaryKey {
		fields = append(fields, "PrimaryKey: true")
	}
	if col.AutoIncrement {
		fields = append(fields, "AutoIncrement: true")
	}
	if col.Unique {
		fields = append(fields, "Unique: true")
	}
	if col.Default.IsSet() {
		expr, err := r.defaultExpr(col.Default, imports)
		if err != nil {
			return "", alerr.Wrap(alerr.ErrInvalidDefault, err, "cannot render default").
				WithColumn(col.Name)
		}
		fields = append(fields, "Default: "+expr)
	}
	return strings.Join(fields, ", "), nil
}

func (r renderer) defaultExpr(d ast.DefaultValue, imports *ImportSet) (string, error) {
	switch d.Kind {
	case ast.DefaultUUIDV4:
		imports.AddNamed("defaults", r.defaults)
		return "defaults.UUIDV4", nil
	case ast.DefaultRawSQL:
		imports.AddNamed("defaults", r.defaults)
		return "defaults.Literal(" + goString(d.SQL) + ")", nil
	case ast.DefaultLiteral:
		switch v := d.Value.(type) {
		case string:
			return strconv.Quote(v), nil
		case bool:
			return strconv.FormatBool(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		case int:
			return strconv.Itoa(v), nil
		case float64:
			s := strconv.FormatFloat(v, 'g', -1, 64)
			if !strings.ContainsAny(s, ".eEn") {
				s += ".0"
			}
			return s, nil
		}
		return "", fmt.Errorf("unsupported literal %T", d.Value)
	}
	return "nil", nil
}

// typeExpr renders a category as a runtime package expression.
func typeExpr(c types.Category) string {
	switch c.Kind {
	case types.KindString:
		return fmt.Sprintf("migrate.String(%d)", c.Length)
	case types.KindEnum:
		quoted := make([]string, len(c.Values))
		for i, v := range c.Values {
			quoted[i] = strconv.Quote(v)
		}
		return "migrate.Enum(" + strings.Join(quoted, ", ") + ")"
	}
	if ident, ok := typeIdents[c.Kind]; ok {
		return "migrate." + ident
	}
	return "migrate.String(0)"
}

// goString renders s as a Go string literal. Single-line SQL with double
// quotes is rendered as a raw string.
func goString(s string) string {
	if strings.Contains(s, `"`) && strconv.CanBackquote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

func wrapRender(err error, op ast.Operation) error {
	return alerr.Wrap(alerr.ErrEmitFailed, err, "cannot render operation").
		WithTable("", op.Table()).
		With("operation", op.Type().String())
}
