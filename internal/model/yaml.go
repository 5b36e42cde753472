package model

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
)

// yamlTable is one YAML document:
//
//	table: users
//	columns:
//	  id: {type: integer, primary_key: true, auto_increment: true}
//	  email: {type: string(255), nullable: false, unique: true}
//	  bio: text
//
// Column order follows the mapping order in the file.
type yamlTable struct {
	Table       string    `yaml:"table"`
	Underscored bool      `yaml:"underscored"`
	Columns     yaml.Node `yaml:"columns"`
}

type yamlColumn struct {
	Type          string    `yaml:"type"`
	Length        int       `yaml:"length"`
	Values        []string  `yaml:"values"`
	Nullable      *bool     `yaml:"nullable"`
	PrimaryKey    bool      `yaml:"primary_key"`
	Unique        bool      `yaml:"unique"`
	AutoIncrement bool      `yaml:"auto_increment"`
	Default       yaml.Node `yaml:"default"`
}

// ParseYAML reads every table document from r.
func ParseYAML(r io.Reader, source string) ([]TableDef, error) {
	dec := yaml.NewDecoder(r)

	var defs []TableDef
	for {
		var doc yamlTable
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrModelLoad, err, "invalid YAML model").
				WithFile(source, 0)
		}
		def, err := doc.tableDef()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (doc yamlTable) tableDef() (TableDef, error) {
	def := TableDef{Name: doc.Table, Underscored: doc.Underscored}
	if doc.Columns.Kind == 0 {
		return def, nil
	}
	if doc.Columns.Kind != yaml.MappingNode {
		return def, alerr.New(alerr.ErrModelLoad, "columns must be a mapping").
			WithTable("", doc.Table).
			With("line", doc.Columns.Line)
	}

	content := doc.Columns.Content
	for i := 0; i+1 < len(content); i += 2 {
		name, value := content[i].Value, content[i+1]

		var raw yamlColumn
		switch value.Kind {
		case yaml.ScalarNode:
			// shorthand: "bio: text"
			raw.Type = value.Value
		case yaml.MappingNode:
			if err := value.Decode(&raw); err != nil {
				return def, alerr.Wrap(alerr.ErrModelLoad, err, "invalid column").
					WithTable("", doc.Table).
					WithColumn(name)
			}
		default:
			return def, alerr.New(alerr.ErrModelLoad, "column must be a type or a mapping").
				WithTable("", doc.Table).
				WithColumn(name)
		}

		dv, err := yamlDefault(&raw.Default)
		if err != nil {
			return def, alerr.Wrap(alerr.ErrInvalidDefault, err, "invalid default").
				WithTable("", doc.Table).
				WithColumn(name)
		}

		def.Columns = append(def.Columns, ColumnDef{
			Name:          name,
			Type:          raw.Type,
			Length:        raw.Length,
			Values:        raw.Values,
			Nullable:      raw.Nullable,
			PrimaryKey:    raw.PrimaryKey,
			Unique:        raw.Unique,
			AutoIncrement: raw.AutoIncrement,
			Default:       dv,
		})
	}
	return def, nil
}

// yamlDefault reads a default value node. Besides plain scalars it accepts
// the !uuidv4 and !sql tags and a {sql: expr} mapping.
func yamlDefault(n *yaml.Node) (ast.DefaultValue, error) {
	switch {
	case n.Kind == 0:
		return ast.NoDefault(), nil
	case n.Tag == "!uuidv4":
		return ast.UUIDV4(), nil
	case n.Tag == "!sql":
		return ast.RawDefault(n.Value), nil
	case n.Kind == yaml.MappingNode:
		var m struct {
			SQL string `yaml:"sql"`
		}
		if err := n.Decode(&m); err != nil {
			return ast.NoDefault(), err
		}
		if m.SQL == "" {
			return ast.NoDefault(), errors.New("default mapping requires an sql key")
		}
		return ast.RawDefault(m.SQL), nil
	case n.Kind != yaml.ScalarNode:
		return ast.NoDefault(), errors.New("default must be a scalar")
	}

	switch n.ShortTag() {
	case "!!null":
		return ast.NoDefault(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return ast.NoDefault(), err
		}
		return ast.Literal(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return ast.NoDefault(), err
		}
		return ast.Literal(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return ast.NoDefault(), err
		}
		return ast.Literal(f), nil
	}
	return ast.Literal(n.Value), nil
}
