package types

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	lengthRe   = regexp.MustCompile(`\(\s*(\d+)\s*(?:,\s*\d+\s*)?\)`)
	enumBodyRe = regexp.MustCompile(`(?i)^enum\s*\((.*)\)$`)
	enumItemRe = regexp.MustCompile(`'((?:[^']|'')*)'`)
)

// FromDB translates a database type spelling into a canonical category.
// PostgreSQL, MySQL and SQLite spellings are recognized; anything else is an
// unbounded STRING. enumValues supplies labels for user-defined enum types,
// which the catalog reports separately from the column type.
func FromDB(typeString string, enumValues ...string) Category {
	s := strings.ToLower(strings.TrimSpace(typeString))
	if s == "" {
		return String(0)
	}

	if m := enumBodyRe.FindStringSubmatch(s); m != nil {
		// Labels keep their original case.
		orig := enumBodyRe.FindStringSubmatch(strings.TrimSpace(typeString))
		return Enum(parseEnumItems(orig[1])...)
	}

	if strings.HasSuffix(s, "[]") || strings.HasPrefix(s, "_") || s == "array" {
		return Of(KindArray)
	}

	base := s
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	switch {
	case base == "character varying", base == "varchar", base == "nvarchar",
		base == "varchar2", base == "nvarchar2", base == "string":
		return String(parseLength(s))
	case base == "character", base == "char", base == "bpchar", base == "nchar":
		return String(parseLength(s))
	case base == "text", base == "tinytext", base == "mediumtext", base == "longtext",
		base == "clob", base == "citext":
		return Of(KindText)
	case base == "tinyint" && parseLength(s) == 1:
		return Of(KindBoolean)
	case base == "bigint", base == "int8", base == "bigserial", base == "serial8":
		return Of(KindBigInt)
	case base == "smallint", base == "int2", base == "smallserial", base == "serial2", base == "tinyint":
		return Of(KindSmallInt)
	case base == "integer", base == "int", base == "int4", base == "mediumint",
		base == "serial", base == "serial4":
		return Of(KindInteger)
	case base == "numeric", base == "decimal", base == "money":
		return Of(KindDecimal)
	case base == "double precision", base == "double", base == "float8":
		return Of(KindDouble)
	case base == "real", base == "float4":
		return Of(KindReal)
	case base == "float":
		return Of(KindFloat)
	case strings.HasPrefix(base, "timestamp"), base == "datetime", base == "timestamptz":
		return Of(KindTimestamp)
	case base == "date":
		return Of(KindDate)
	case strings.HasPrefix(base, "time"):
		return Of(KindTime)
	case base == "uuid", base == "uniqueidentifier":
		return Of(KindUUID)
	case base == "boolean", base == "bool", base == "bit":
		return Of(KindBoolean)
	case base == "user-defined", base == "enum":
		return Enum(enumValues...)
	case base == "jsonb":
		return Of(KindJSONB)
	case base == "json":
		return Of(KindJSON)
	case base == "bytea":
		return Of(KindBytea)
	case base == "blob", base == "tinyblob", base == "mediumblob", base == "longblob",
		base == "binary", base == "varbinary":
		return Of(KindBlob)
	case strings.HasPrefix(base, "geometry"):
		return Of(KindGeometry)
	case strings.HasPrefix(base, "geography"):
		return Of(KindGeography)
	}
	return String(0)
}

// Descriptor is a logical model type: a name plus optional arguments.
type Descriptor struct {
	Name   string
	Length int
	Values []string
}

// ParseDescriptor parses a model type string such as "string(20)",
// "decimal(10,2)" or "enum(active,inactive)".
func ParseDescriptor(s string) Descriptor {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Descriptor{Name: strings.ToLower(s)}
	}
	d := Descriptor{Name: strings.ToLower(strings.TrimSpace(s[:open]))}
	args := s[open+1 : len(s)-1]
	if Get(d.Name) != nil && Get(d.Name).Kind == KindEnum {
		for _, v := range strings.Split(args, ",") {
			v = strings.Trim(strings.TrimSpace(v), `'"`)
			if v != "" {
				d.Values = append(d.Values, v)
			}
		}
		return d
	}
	d.Length = parseLength(s)
	return d
}

// FromModel translates a model type descriptor into a canonical category.
// Unknown names become an unbounded STRING.
func FromModel(d Descriptor) Category {
	def := Get(d.Name)
	if def == nil {
		return String(0)
	}
	switch def.Kind {
	case KindString:
		return String(d.Length)
	case KindEnum:
		return Enum(d.Values...)
	}
	return Of(def.Kind)
}

func parseLength(s string) int {
	m := lengthRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func parseEnumItems(body string) []string {
	var values []string
	for _, m := range enumItemRe.FindAllStringSubmatch(body, -1) {
		values = append(values, strings.ReplaceAll(m[1], "''", "'"))
	}
	return values
}
