package model

import (
	"slices"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/strutil"
	"github.com/hlop3z/migen/internal/types"
)

// ColumnDef is a column as written in a model file, before its type is
// translated.
type ColumnDef struct {
	Name          string
	Type          string   // descriptor such as "string(50)" or "enum"
	Length        int      // overrides a length in Type
	Values        []string // enum labels; override labels in Type
	Nullable      *bool    // nil means nullable unless the column is a primary key
	PrimaryKey    bool
	Unique        bool
	AutoIncrement bool
	Default       ast.DefaultValue
}

// TableDef is a table as written in a model file.
type TableDef struct {
	Name        string
	Underscored bool // convert column names to snake_case
	Columns     []ColumnDef
}

// Schema converts the definition into a canonical table schema.
func (d TableDef) Schema() (*ast.TableSchema, error) {
	if d.Name == "" {
		return nil, alerr.New(alerr.ErrInvalidIdentifier, "table name cannot be empty")
	}
	t, err := ast.NewTableSchema(d.Name)
	if err != nil {
		return nil, err
	}
	for _, c := range d.Columns {
		if d.Underscored {
			c.Name = strutil.ToSnakeCase(c.Name)
		}
		spec, err := c.Spec(d.Name)
		if err != nil {
			return nil, err
		}
		if err := t.Add(spec); err != nil {
			return nil, err
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Spec translates the column into a ColumnSpec.
func (c ColumnDef) Spec(table string) (ast.ColumnSpec, error) {
	if c.Type == "" {
		return ast.ColumnSpec{}, alerr.NewMissingTypeError(table, c.Name)
	}

	desc := types.ParseDescriptor(c.Type)
	if !types.Known(desc.Name) {
		e := alerr.Newf(alerr.ErrInvalidType, "unknown column type %q", desc.Name).
			WithTable("", table).
			WithColumn(c.Name)
		if hint := alerr.SuggestSimilar(desc.Name, types.Names()); hint != "" {
			e.WithHelp(hint)
		}
		return ast.ColumnSpec{}, e
	}
	if c.Length > 0 {
		desc.Length = c.Length
	}
	if len(c.Values) > 0 {
		desc.Values = c.Values
	}

	nullable := !c.PrimaryKey
	if c.Nullable != nil {
		nullable = *c.Nullable
	}

	spec := ast.ColumnSpec{
		Name:          c.Name,
		Category:      types.FromModel(desc),
		Nullable:      nullable,
		PrimaryKey:    c.PrimaryKey,
		Unique:        c.Unique && !c.PrimaryKey, // a primary key is already unique
		AutoIncrement: c.AutoIncrement,
		Default:       c.Default,
	}

	if err := checkDefault(table, spec); err != nil {
		return ast.ColumnSpec{}, err
	}
	return spec, nil
}

// checkDefault rejects defaults the column type cannot hold.
func checkDefault(table string, c ast.ColumnSpec) error {
	d := c.Default
	invalid := func(msg string) error {
		return alerr.New(alerr.ErrInvalidDefault, msg).
			WithTable("", table).
			WithColumn(c.Name)
	}

	switch {
	case d.Kind == ast.DefaultUUIDV4 && c.Category.Kind != types.KindUUID:
		return invalid("uuidv4 default requires a uuid column")
	case d.Kind != ast.DefaultLiteral:
		return nil
	case c.Category.Kind == types.KindEnum:
		s, _ := d.Value.(string)
		if !slices.Contains(c.Category.Values, s) {
			return invalid("enum default must be one of the declared values")
		}
	case c.Category.Kind == types.KindBoolean:
		if _, ok := d.Value.(bool); !ok {
			return invalid("boolean column requires a true or false default")
		}
	}
	return nil
}
