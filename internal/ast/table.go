package ast

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/types"
)

// Validation messages shared by ColumnSpec, TableSchema and the operations.
const (
	msgTableNameRequired  = "table name is required"
	msgColumnNameRequired = "column name is required"
	msgTableNeedsColumn   = "table must have at least one column"
)

// validIdentifierPattern matches identifiers that are safe to emit unquoted
// in generated code. Mixed case is allowed for models that keep camelCase names.
var validIdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks that a name is a usable table or column identifier.
func ValidateIdentifier(name string) error {
	if !validIdentifierPattern.MatchString(name) {
		return alerr.New(alerr.ErrInvalidIdentifier,
			fmt.Sprintf("invalid identifier %q; must match [A-Za-z_][A-Za-z0-9_]*", name))
	}
	return nil
}

// -----------------------------------------------------------------------------
// DefaultValue
// -----------------------------------------------------------------------------

// DefaultKind discriminates the DefaultValue variants.
type DefaultKind int

const (
	DefaultNone    DefaultKind = iota
	DefaultLiteral             // Value holds a string, bool, int64 or float64
	DefaultUUIDV4              // database or runtime generated UUID
	DefaultRawSQL              // SQL holds an expression passed through verbatim
)

// DefaultValue is a column default.
type DefaultValue struct {
	Kind  DefaultKind
	Value any
	SQL   string
}

// NoDefault returns the empty default.
func NoDefault() DefaultValue { return DefaultValue{} }

// Literal returns a literal default. Integer and float values are normalized
// to int64 and float64.
func Literal(v any) DefaultValue {
	switch n := v.(type) {
	case int:
		v = int64(n)
	case int32:
		v = int64(n)
	case float32:
		v = float64(n)
	}
	return DefaultValue{Kind: DefaultLiteral, Value: v}
}

// UUIDV4 returns the auto-UUID default marker.
func UUIDV4() DefaultValue { return DefaultValue{Kind: DefaultUUIDV4} }

// RawDefault returns a raw SQL default such as CURRENT_TIMESTAMP.
func RawDefault(sql string) DefaultValue { return DefaultValue{Kind: DefaultRawSQL, SQL: sql} }

// IsSet reports whether any default is present.
func (d DefaultValue) IsSet() bool { return d.Kind != DefaultNone }

// Equal reports whether two defaults are the same.
func (d DefaultValue) Equal(o DefaultValue) bool {
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case DefaultLiteral:
		return d.Value == o.Value
	case DefaultRawSQL:
		return strings.EqualFold(strings.TrimSpace(d.SQL), strings.TrimSpace(o.SQL))
	}
	return true
}

func (d DefaultValue) String() string {
	switch d.Kind {
	case DefaultLiteral:
		if s, ok := d.Value.(string); ok {
			return strconv.Quote(s)
		}
		return fmt.Sprintf("%v", d.Value)
	case DefaultUUIDV4:
		return "UUIDV4"
	case DefaultRawSQL:
		return d.SQL
	}
	return ""
}

// -----------------------------------------------------------------------------
// ColumnSpec
// -----------------------------------------------------------------------------

// ColumnSpec is a canonical column description. It is a value: helpers that
// modify it return a copy.
type ColumnSpec struct {
	Name          string
	Category      types.Category
	Nullable      bool
	PrimaryKey    bool
	Unique        bool
	AutoIncrement bool
	Default       DefaultValue
}

// EnumValues returns the ordered ENUM labels, or nil for other categories.
func (c ColumnSpec) EnumValues() []string {
	if c.Category.Kind != types.KindEnum {
		return nil
	}
	return c.Category.Values
}

// Validate checks that the column is well-formed.
func (c ColumnSpec) Validate() error {
	if c.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgColumnNameRequired)
	}
	if err := ValidateIdentifier(c.Name); err != nil {
		return err
	}
	if c.PrimaryKey && c.Nullable {
		return alerr.New(alerr.ErrSchemaInvalid, "primary key column cannot be nullable").
			WithColumn(c.Name)
	}
	if c.Category.Kind == types.KindEnum && len(c.Category.Values) == 0 {
		return alerr.New(alerr.ErrInvalidType, "enum column requires at least one value").
			WithColumn(c.Name)
	}
	return nil
}

// Staged returns the column as it is first added to a populated table:
// nullable, with key and uniqueness constraints deferred to the final change.
func (c ColumnSpec) Staged() ColumnSpec {
	c.Nullable = true
	c.PrimaryKey = false
	c.Unique = false
	c.AutoIncrement = false
	c.Category.Values = slices.Clone(c.Category.Values)
	return c
}

// String summarizes the column, e.g. "status ENUM(active,inactive) NOT NULL".
func (c ColumnSpec) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.Category.String())
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Default.IsSet() {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default.String())
	}
	return b.String()
}

// -----------------------------------------------------------------------------
// TableSchema
// -----------------------------------------------------------------------------

// TableSchema is a table name plus its columns in declaration order.
// A schema with no columns stands for a table that does not exist.
type TableSchema struct {
	Name    string
	columns []ColumnSpec
	index   map[string]int
}

// NewTableSchema builds a schema from columns in order.
// A repeated column name is an error.
func NewTableSchema(name string, cols ...ColumnSpec) (*TableSchema, error) {
	t := &TableSchema{Name: name, index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.Add(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add appends a column.
func (t *TableSchema) Add(c ColumnSpec) error {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, exists := t.index[c.Name]; exists {
		return alerr.New(alerr.ErrSchemaDuplicate, "column declared more than once").
			WithTable("", t.Name).
			WithColumn(c.Name)
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// Column returns the named column.
func (t *TableSchema) Column(name string) (ColumnSpec, bool) {
	if t == nil {
		return ColumnSpec{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return ColumnSpec{}, false
	}
	return t.columns[i], true
}

// Has reports whether the named column exists.
func (t *TableSchema) Has(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Columns returns a copy of the columns in order.
func (t *TableSchema) Columns() []ColumnSpec {
	if t == nil {
		return nil
	}
	return slices.Clone(t.columns)
}

// Names returns the column names in order.
func (t *TableSchema) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of columns.
func (t *TableSchema) Len() int {
	if t == nil {
		return 0
	}
	return len(t.columns)
}

// IsEmpty reports whether the schema has no columns.
func (t *TableSchema) IsEmpty() bool { return t.Len() == 0 }

// Validate checks the table and every column.
func (t *TableSchema) Validate() error {
	if t.Name == "" {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNameRequired)
	}
	if err := ValidateIdentifier(t.Name); err != nil {
		return err
	}
	if len(t.columns) == 0 {
		return alerr.New(alerr.ErrSchemaInvalid, msgTableNeedsColumn).
			WithTable("", t.Name)
	}
	for _, c := range t.columns {
		if err := c.Validate(); err != nil {
			return alerr.Wrap(alerr.ErrSchemaInvalid, err, "invalid column").
				WithTable("", t.Name).
				WithColumn(c.Name)
		}
	}
	return nil
}
