package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hlop3z/migen/internal/ast"
	"github.com/hlop3z/migen/internal/dialect"
	"github.com/hlop3z/migen/internal/strutil"
	"github.com/hlop3z/migen/internal/types"
)

// relatedStems maps a target column name to name stems of live columns that
// plausibly hold the same information. Live columns whose name contains a
// stem become COALESCE sources, in stem order.
var relatedStems = map[string][]string{
	"address":     {"street", "location"},
	"amount":      {"price", "total", "value"},
	"city":        {"location", "address"},
	"code":        {"id", "key", "reference"},
	"content":     {"description", "text", "body"},
	"count":       {"total", "number"},
	"country":     {"location", "region"},
	"date":        {"created_at", "timestamp"},
	"description": {"content", "text", "body", "note"},
	"device_id":   {"id", "uuid"},
	"email":       {"username", "login"},
	"end_date":    {"updated_at", "date"},
	"first_name":  {"name", "full_name"},
	"full_name":   {"first_name", "last_name"},
	"ip_address":  {"ip", "address"},
	"last_name":   {"surname", "family_name"},
	"mobile":      {"phone", "telephone"},
	"name":        {"title", "label"},
	"phone":       {"mobile", "telephone", "contact", "email"},
	"postal_code": {"zip", "zip_code"},
	"price":       {"cost", "amount"},
	"reference":   {"code", "key"},
	"slug":        {"name", "title"},
	"start_date":  {"created_at", "date"},
	"state":       {"status"},
	"status":      {"state", "active"},
	"street":      {"address"},
	"title":       {"name", "label", "heading"},
	"total":       {"count", "sum"},
	"user_agent":  {"agent", "browser"},
	"user_name":   {"username", "user_number", "email"},
	"username":    {"user_number", "email", "login", "account"},
}

// smartDefault is a literal placeholder chosen by target name. When needsID
// is set the value is derived from the id column and the rule yields nothing
// if the table has none.
type smartDefault struct {
	match   []string
	prefix  string
	suffix  string
	needsID bool
	literal string
}

// smartDefaults are checked in order; the first rule whose match list hits
// the target name applies.
var smartDefaults = []smartDefault{
	{match: []string{"email"}, prefix: "user_", suffix: "@example.com", needsID: true},
	{match: []string{"phone", "mobile"}, literal: "0000000000"},
	{match: []string{"username", "user_name", "login"}, prefix: "user_", needsID: true},
	{match: []string{"name", "title", "label"}, prefix: "Untitled_", needsID: true, literal: "Untitled"},
	{match: []string{"code", "reference"}, prefix: "REF_", needsID: true},
	{match: []string{"slug"}, prefix: "slug-", needsID: true},
	{match: []string{"description", "content", "text"}, literal: ""},
	{match: []string{"address", "street", "city"}, literal: "Unknown"},
	{match: []string{"status", "state"}, literal: "active"},
	{match: []string{"url", "link"}, literal: "#"},
	{match: []string{"color"}, literal: "#000000"},
	{match: []string{"count", "number"}, literal: "0"},
}

const idColumn = "id"

// Synthesizer proposes UPDATE statements that give existing rows a value
// for a column about to become NOT NULL.
//
// The values are plausible placeholders derived from column names and types.
// No row data is read and nothing guarantees the values are meaningful.
type Synthesizer struct {
	dialect dialect.Dialect
}

// NewSynthesizer creates a synthesizer emitting SQL for the given dialect.
func NewSynthesizer(d dialect.Dialect) *Synthesizer {
	return &Synthesizer{dialect: d}
}

// Dialect returns the dialect statements are built for.
func (s *Synthesizer) Dialect() dialect.Dialect { return s.dialect }

// Backfill returns the backfill statement for col. Textual columns are
// derived from related live columns; other categories get a type default.
func (s *Synthesizer) Backfill(table string, col ast.ColumnSpec, live *ast.TableSchema) (string, bool) {
	if col.Category.IsTextual() {
		return s.Synthesize(table, col, live)
	}
	return s.DefaultValueSQL(table, col)
}

// Synthesize builds a COALESCE backfill for target from the first rule
// class that yields a source:
//  1. related live columns (stem dictionary and shared snake_case words)
//  2. literal placeholders keyed on the target name
//  3. any live column sharing a 3-character substring, an id-derived
//     literal, or the empty string
func (s *Synthesizer) Synthesize(table string, target ast.ColumnSpec, live *ast.TableSchema) (string, bool) {
	others := liveColumnsExcept(live, target.Name)
	name := strings.ToLower(target.Name)

	sources := s.correlatedSources(name, others)
	if len(sources) == 0 {
		sources = s.smartDefaultSources(name, others)
	}
	if len(sources) == 0 {
		sources = s.fallbackSources(name, others)
	}
	if len(sources) == 0 {
		return "", false
	}

	col := s.dialect.QuoteIdent(target.Name)
	return fmt.Sprintf("UPDATE %s SET %s = COALESCE(%s) WHERE %s IS NULL",
		s.dialect.QuoteIdent(table), col, strings.Join(sources, ", "), col), true
}

// DefaultValueSQL returns a type-driven backfill for col. Binary and
// spatial columns, and UUID columns generated by their default, get none.
func (s *Synthesizer) DefaultValueSQL(table string, col ast.ColumnSpec) (string, bool) {
	value, ok := s.typeDefault(col)
	if !ok {
		return "", false
	}
	return s.assign(table, col.Name, value), true
}

func (s *Synthesizer) typeDefault(col ast.ColumnSpec) (string, bool) {
	d := s.dialect
	name := strings.ToLower(col.Name)
	c := col.Category

	switch {
	case c.Kind == types.KindUUID:
		if col.Default.Kind == ast.DefaultUUIDV4 {
			return "", false
		}
		return d.RandomUUID(), true
	case c.Kind == types.KindDate, c.Kind == types.KindTimestamp:
		return d.CurrentTimestamp(), true
	case c.Kind == types.KindTime:
		return d.CurrentTime(), true
	case c.Kind == types.KindBoolean:
		if col.Default.Kind == ast.DefaultLiteral {
			if b, ok := col.Default.Value.(bool); ok {
				return d.BooleanLiteral(b), true
			}
		}
		return d.BooleanLiteral(false), true
	case c.Kind == types.KindEnum:
		if len(c.Values) == 0 {
			return "", false
		}
		return d.Literal(c.Values[0]), true
	case c.IsInteger():
		return "0", true
	case c.IsFractional():
		if strutil.ContainsAny(name, "price", "cost", "amount", "total") {
			return "0.00", true
		}
		return "0.0", true
	case c.IsTextual():
		return d.Literal(""), true
	case c.IsJSON():
		return d.EmptyJSON(c, strutil.ContainsAny(name, "array", "list", "items")), true
	case c.Kind == types.KindArray:
		return d.EmptyArray(), true
	}
	// BLOB, BYTEA, GEOMETRY, GEOGRAPHY
	return "", false
}

// correlatedSources implements rule class 1.
func (s *Synthesizer) correlatedSources(name string, others []ast.ColumnSpec) []string {
	related := relatedColumns(name, others)
	if len(related) == 0 {
		return nil
	}

	var sources []string
	for _, col := range related {
		lower := strings.ToLower(col.Name)
		quoted := s.dialect.QuoteIdent(col.Name)

		switch {
		case strutil.ContainsAny(name, "username", "user_name") && lower == "email":
			sources = append(sources, s.dialect.EmailLocalPart(quoted))
		case strings.Contains(name, "phone") && lower == "email":
			sources = append(sources, s.dialect.LeadingDigits(quoted))
		case name == "full_name" && strutil.ContainsAny(lower, "first", "last"):
			first, hasFirst := findColumn(others, "first")
			last, hasLast := findColumn(others, "last")
			if hasFirst && hasLast {
				return []string{s.dialect.ConcatWS(" ",
					s.dialect.QuoteIdent(first.Name), s.dialect.QuoteIdent(last.Name))}
			}
		default:
			sources = append(sources, s.nullIfEmpty(col))
		}
	}
	return sources
}

// smartDefaultSources implements rule class 2.
func (s *Synthesizer) smartDefaultSources(name string, others []ast.ColumnSpec) []string {
	hasID := hasColumn(others, idColumn)
	for _, rule := range smartDefaults {
		if !strutil.ContainsAny(name, rule.match...) {
			continue
		}
		if rule.needsID && hasID {
			return []string{s.idDerived(rule.prefix, rule.suffix)}
		}
		if rule.needsID && rule.literal == "" {
			return nil
		}
		return []string{s.dialect.Literal(rule.literal)}
	}
	return nil
}

// fallbackSources implements rule class 3.
func (s *Synthesizer) fallbackSources(name string, others []ast.ColumnSpec) []string {
	for _, col := range others {
		if strutil.ShareSubstring(name, col.Name, 3) {
			return []string{s.nullIfEmpty(col)}
		}
	}
	if hasColumn(others, idColumn) {
		return []string{s.idDerived("default_", "")}
	}
	return []string{s.dialect.Literal("")}
}

// nullIfEmpty turns a related column into a COALESCE source that skips
// empty strings. Non-text columns are cast first.
func (s *Synthesizer) nullIfEmpty(col ast.ColumnSpec) string {
	expr := s.dialect.QuoteIdent(col.Name)
	if !col.Category.IsTextual() {
		expr = s.dialect.TextCast(expr)
	}
	return fmt.Sprintf("NULLIF(%s, %s)", expr, s.dialect.Literal(""))
}

// idDerived renders 'prefix' || id::text || 'suffix'.
func (s *Synthesizer) idDerived(prefix, suffix string) string {
	parts := []string{
		s.dialect.Literal(prefix),
		s.dialect.TextCast(s.dialect.QuoteIdent(idColumn)),
	}
	if suffix != "" {
		parts = append(parts, s.dialect.Literal(suffix))
	}
	return strings.Join(parts, " || ")
}

func (s *Synthesizer) assign(table, column, value string) string {
	col := s.dialect.QuoteIdent(column)
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s IS NULL",
		s.dialect.QuoteIdent(table), col, value, col)
}

// relatedColumns returns live columns matching a stem for name, then live
// columns sharing a snake_case word with it, without duplicates.
func relatedColumns(name string, others []ast.ColumnSpec) []ast.ColumnSpec {
	var names []string
	for _, stem := range relatedStems[name] {
		for _, col := range others {
			if strings.Contains(strings.ToLower(col.Name), stem) {
				names = appendUnique(names, col.Name)
			}
		}
	}
	for _, col := range others {
		if strutil.ShareWord(name, col.Name) {
			names = appendUnique(names, col.Name)
		}
	}

	related := make([]ast.ColumnSpec, 0, len(names))
	for _, n := range names {
		i := slices.IndexFunc(others, func(c ast.ColumnSpec) bool { return c.Name == n })
		related = append(related, others[i])
	}
	return related
}

// appendUnique appends the names not already in dst, keeping first-seen order.
func appendUnique(dst []string, names ...string) []string {
	for _, n := range names {
		if !slices.Contains(dst, n) {
			dst = append(dst, n)
		}
	}
	return dst
}

func liveColumnsExcept(live *ast.TableSchema, name string) []ast.ColumnSpec {
	var cols []ast.ColumnSpec
	for _, c := range live.Columns() {
		if !strings.EqualFold(c.Name, name) {
			cols = append(cols, c)
		}
	}
	return cols
}

func findColumn(cols []ast.ColumnSpec, substr string) (ast.ColumnSpec, bool) {
	for _, c := range cols {
		if strings.Contains(strings.ToLower(c.Name), substr) {
			return c, true
		}
	}
	return ast.ColumnSpec{}, false
}

func hasColumn(cols []ast.ColumnSpec, name string) bool {
	for _, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
