// Package drift fingerprints table schemas with merkle trees and compares
// the declared models against the live database.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"strings"

	"github.com/cbergoon/merkletree"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
)

// SchemaHash is the fingerprint of a set of tables: a merkle root over the
// per-table hashes, kept for drill-down.
type SchemaHash struct {
	Root   string
	Tables map[string]*TableHash
}

// TableHash fingerprints one table and each of its columns.
type TableHash struct {
	Name    string
	Hash    string
	Columns map[string]string
}

// leaf is a merkle tree leaf holding a table hash.
type leaf string

func (l leaf) CalculateHash() ([]byte, error) {
	sum := sha256.Sum256([]byte(l))
	return sum[:], nil
}

func (l leaf) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(leaf)
	return ok && o == l, nil
}

// ComputeSchemaHash fingerprints tables. Tables with no columns (not yet
// created) are left out, and the result does not depend on table order.
func ComputeSchemaHash(tables []*ast.TableSchema) (*SchemaHash, error) {
	sh := &SchemaHash{Tables: make(map[string]*TableHash)}
	for _, t := range tables {
		if !t.IsEmpty() {
			sh.Tables[t.Name] = hashTable(t)
		}
	}
	if len(sh.Tables) == 0 {
		sh.Root = emptyHash()
		return sh, nil
	}

	var leaves []merkletree.Content
	for _, name := range slices.Sorted(maps.Keys(sh.Tables)) {
		leaves = append(leaves, leaf(sh.Tables[name].Hash))
	}
	tree, err := merkletree.NewTree(leaves)
	if err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "failed to build merkle tree")
	}
	sh.Root = hex.EncodeToString(tree.MerkleRoot())
	return sh, nil
}

// hashTable hashes columns in name order, so a live table whose columns
// were added in another order still matches its model.
func hashTable(t *ast.TableSchema) *TableHash {
	th := &TableHash{Name: t.Name, Columns: make(map[string]string)}
	for _, col := range t.Columns() {
		th.Columns[col.Name] = hashColumn(col)
	}

	var b strings.Builder
	b.WriteString("table:" + t.Name)
	for _, name := range slices.Sorted(maps.Keys(th.Columns)) {
		b.WriteString("|" + name + "=" + th.Columns[name])
	}
	th.Hash = hashString(b.String())
	return th
}

// hashColumn covers what the differ compares: the stored type, nullability
// and uniqueness. Defaults are not hashed.
func hashColumn(col ast.ColumnSpec) string {
	var b strings.Builder
	b.WriteString(col.Name)
	b.WriteString("|" + col.Category.Stored().String())
	if col.Nullable {
		b.WriteString("|null")
	}
	if col.Unique {
		b.WriteString("|unique")
	}
	return hashString(b.String())
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func emptyHash() string { return hashString("migen:no-tables") }

// HashComparison is the outcome of comparing declared and live fingerprints.
type HashComparison struct {
	Match         bool
	TableDiffs    map[string]*TableDiff
	MissingTables []string // declared but not in the database
	ExtraTables   []string // in the database but not declared
}

// ModifiedTables returns the tables present on both sides that differ, sorted.
func (c *HashComparison) ModifiedTables() []string {
	return slices.Sorted(maps.Keys(c.TableDiffs))
}

// TableDiff lists the columns of one table that differ.
type TableDiff struct {
	Name            string   `json:"name"`
	MissingColumns  []string `json:"missing_columns,omitempty"`
	ExtraColumns    []string `json:"extra_columns,omitempty"`
	ModifiedColumns []string `json:"modified_columns,omitempty"`
}

// CompareHashes drills down from the roots to the tables and columns that differ.
func CompareHashes(expected, actual *SchemaHash) *HashComparison {
	c := &HashComparison{
		Match:         expected.Root == actual.Root,
		TableDiffs:    make(map[string]*TableDiff),
		MissingTables: []string{},
		ExtraTables:   []string{},
	}
	if c.Match {
		return c
	}

	var changed []string
	c.MissingTables, c.ExtraTables, changed = diffKeys(
		tableHashes(expected.Tables), tableHashes(actual.Tables))
	for _, name := range changed {
		exp, act := expected.Tables[name], actual.Tables[name]
		d := &TableDiff{Name: name}
		d.MissingColumns, d.ExtraColumns, d.ModifiedColumns = diffKeys(exp.Columns, act.Columns)
		c.TableDiffs[name] = d
	}
	return c
}

func tableHashes(tables map[string]*TableHash) map[string]string {
	out := make(map[string]string, len(tables))
	for name, th := range tables {
		out[name] = th.Hash
	}
	return out
}

// diffKeys splits two name->hash maps into names only in want, names only
// in got and names whose hashes differ. Each list is sorted and non-nil.
func diffKeys(want, got map[string]string) (missing, extra, changed []string) {
	missing, extra, changed = []string{}, []string{}, []string{}
	for _, name := range slices.Sorted(maps.Keys(want)) {
		h, ok := got[name]
		switch {
		case !ok:
			missing = append(missing, name)
		case h != want[name]:
			changed = append(changed, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(got)) {
		if _, ok := want[name]; !ok {
			extra = append(extra, name)
		}
	}
	return missing, extra, changed
}
