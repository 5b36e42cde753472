package drift

import (
	"context"
	"slices"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/engine"
)

// LiveSource reads live tables and lists the tables the database holds.
type LiveSource interface {
	engine.LiveReader
	ListTables(ctx context.Context) ([]string, error)
}

// Detector compares declared tables against the live database.
type Detector struct {
	source LiveSource
}

// NewDetector creates a drift detector reading live tables through s.
func NewDetector(s LiveSource) *Detector {
	return &Detector{source: s}
}

// Result represents the complete drift detection result.
type Result struct {
	// HasDrift is true if any differences were found
	HasDrift bool

	// ExpectedHash is the merkle root of the declared tables
	ExpectedHash string

	// ActualHash is the merkle root of the live tables
	ActualHash string

	// Comparison contains detailed comparison results
	Comparison *HashComparison

	// Tables is the number of declared tables checked
	Tables int
}

// Detect introspects every declared table and every live table without a
// model, then compares the hashes. Live tables named in unchecked (models
// that failed to load) are left out rather than reported as extra.
func (d *Detector) Detect(ctx context.Context, declared []*ast.TableSchema, unchecked ...string) (*Result, error) {
	names := make([]string, 0, len(declared))
	for _, t := range declared {
		names = append(names, t.Name)
	}

	liveNames, err := d.source.ListTables(ctx)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrIntrospection, err, "failed to list live tables")
	}
	for _, name := range liveNames {
		if !slices.Contains(names, name) && !slices.Contains(unchecked, name) {
			names = append(names, name)
		}
	}

	live := make([]*ast.TableSchema, 0, len(names))
	for _, name := range names {
		lt, err := d.source.LiveTable(ctx, name)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrIntrospection, err, "failed to introspect table").
				WithTable("", name)
		}
		live = append(live, lt)
	}

	expectedHash, err := ComputeSchemaHash(declared)
	if err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "failed to compute declared schema hash")
	}
	actualHash, err := ComputeSchemaHash(live)
	if err != nil {
		return nil, alerr.Wrap(alerr.EInternalError, err, "failed to compute live schema hash")
	}

	comparison := CompareHashes(expectedHash, actualHash)

	return &Result{
		HasDrift:     !comparison.Match,
		ExpectedHash: expectedHash.Root,
		ActualHash:   actualHash.Root,
		Comparison:   comparison,
		Tables:       len(declared),
	}, nil
}

// DriftSummary provides a short summary of drift detection results.
type DriftSummary struct {
	Tables         int
	MissingTables  int
	ExtraTables    int
	ModifiedTables int
}

// Summarize counts the differences in result.
func Summarize(result *Result) *DriftSummary {
	if result == nil || result.Comparison == nil {
		return &DriftSummary{}
	}
	return &DriftSummary{
		Tables:         result.Tables,
		MissingTables:  len(result.Comparison.MissingTables),
		ExtraTables:    len(result.Comparison.ExtraTables),
		ModifiedTables: len(result.Comparison.TableDiffs),
	}
}
