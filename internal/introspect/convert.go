package introspect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/types"
)

var (
	// 'value'::character varying, 'active'::status_enum, 'x'
	quotedDefaultRe = regexp.MustCompile(`^\(?'((?:[^']|'')*)'\)?(?:::[\w\s."]+(?:\[\])?)?$`)
	castSuffixRe    = regexp.MustCompile(`::[\w\s."]+$`)
	uuidDefaultRe   = regexp.MustCompile(`(?i)^\(?\s*(gen_random_uuid|uuid_generate_v4)\(\)\s*\)?$`)
)

// LiveTable converts catalog rows into a table schema. No rows means the
// table does not exist and yields an empty schema.
func LiveTable(name string, rows []RawColumn) (*ast.TableSchema, error) {
	t, err := ast.NewTableSchema(name)
	if err != nil {
		return nil, err
	}
	for _, raw := range rows {
		if err := t.Add(ColumnSpec(raw)); err != nil {
			return nil, alerr.Wrap(alerr.ErrIntrospection, err, "catalog returned a column twice").
				WithTable("", name)
		}
	}
	return t, nil
}

// ColumnSpec converts one catalog row.
func ColumnSpec(raw RawColumn) ast.ColumnSpec {
	col := ast.ColumnSpec{
		Name:          raw.Name,
		Category:      rawCategory(raw),
		Nullable:      raw.IsNullable && !raw.IsPrimaryKey, // PK columns are never nullable
		PrimaryKey:    raw.IsPrimaryKey,
		Unique:        raw.IsUnique && !raw.IsPrimaryKey,
		AutoIncrement: raw.AutoIncrement,
	}
	if raw.Default.Valid {
		def, serial := parseDefault(raw.Default.String)
		col.Default = def
		col.AutoIncrement = col.AutoIncrement || serial
	}
	return col
}

// rawCategory translates the catalog type. A USER-DEFINED column without
// enum labels is an extension type and is translated by its udt name.
func rawCategory(raw RawColumn) types.Category {
	typ := raw.DataType
	if strings.EqualFold(typ, "USER-DEFINED") && len(raw.EnumValues) == 0 && raw.UDTName != "" {
		typ = raw.UDTName
	}
	if raw.MaxLength.Valid && raw.MaxLength.Int64 > 0 && !strings.Contains(typ, "(") {
		typ = fmt.Sprintf("%s(%d)", typ, raw.MaxLength.Int64)
	}
	c := types.FromDB(typ, raw.EnumValues...)
	if len(raw.EnumValues) > 0 && c.IsTextual() {
		return types.Enum(raw.EnumValues...)
	}
	return c
}

// parseDefault turns a catalog default expression into a DefaultValue. The
// second result reports a sequence default, which marks an auto-increment
// column rather than a default.
func parseDefault(expr string) (ast.DefaultValue, bool) {
	s := strings.TrimSpace(expr)
	switch {
	case s == "", strings.EqualFold(s, "NULL"), strings.HasPrefix(strings.ToUpper(s), "NULL::"):
		return ast.NoDefault(), false
	case strings.HasPrefix(strings.ToLower(s), "nextval("):
		return ast.NoDefault(), true
	case uuidDefaultRe.MatchString(s):
		return ast.UUIDV4(), false
	}

	if m := quotedDefaultRe.FindStringSubmatch(s); m != nil {
		return ast.Literal(strings.ReplaceAll(m[1], "''", "'")), false
	}

	bare := castSuffixRe.ReplaceAllString(s, "")
	switch strings.ToLower(bare) {
	case "true":
		return ast.Literal(true), false
	case "false":
		return ast.Literal(false), false
	}
	if n, err := strconv.ParseInt(strings.Trim(bare, "()"), 10, 64); err == nil {
		return ast.Literal(n), false
	}
	if f, err := strconv.ParseFloat(strings.Trim(bare, "()"), 64); err == nil {
		return ast.Literal(f), false
	}
	return ast.RawDefault(s), false
}
