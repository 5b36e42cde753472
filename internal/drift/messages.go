package drift

import (
	"fmt"
	"strings"

	"github.com/hlop3z/migen/internal/cli"
)

// hashDisplayLen is how much of a root hash the CLI prints.
const hashDisplayLen = 12

// FormatResult renders a drift result for the terminal.
func FormatResult(result *Result) string {
	if result == nil {
		return "no drift result"
	}

	var b strings.Builder
	if !result.HasDrift {
		b.WriteString(cli.Success("in sync"))
		fmt.Fprintf(&b, ": %s match the database\n",
			cli.FormatCount(result.Tables, "table", "tables"))
		b.WriteString(cli.Indent(cli.FormatKeyValue("schema hash", TruncateHash(result.ExpectedHash)), 2))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(cli.Warning("drift"))
	b.WriteString(": the database does not match the models\n")
	b.WriteString(cli.Indent(cli.FormatKeyValue("models  ", TruncateHash(result.ExpectedHash)), 2))
	b.WriteString("\n")
	b.WriteString(cli.Indent(cli.FormatKeyValue("database", TruncateHash(result.ActualHash)), 2))
	b.WriteString("\n")

	comp := result.Comparison
	if len(comp.MissingTables) > 0 {
		b.WriteString("\n" + cli.Header("not in database") + "\n")
		list := cli.NewList()
		for _, name := range comp.MissingTables {
			list.AddDropped(name)
		}
		b.WriteString(list.String())
	}
	if len(comp.ExtraTables) > 0 {
		b.WriteString("\n" + cli.Header("not in models") + "\n")
		list := cli.NewList()
		for _, name := range comp.ExtraTables {
			list.AddCreated(name)
		}
		b.WriteString(list.String())
	}
	for _, name := range comp.ModifiedTables() {
		b.WriteString("\n" + cli.Header(name) + "\n")
		b.WriteString(columnList(comp.TableDiffs[name]).String())
	}

	b.WriteString("\n")
	b.WriteString(cli.FormatHelp("run `migen generate <name>` to bring the database in line"))
	return b.String()
}

// columnList marks columns the database lacks with -, columns only the
// database has with + and redefined columns with ~.
func columnList(diff *TableDiff) *cli.List {
	list := cli.NewList()
	for _, col := range diff.MissingColumns {
		list.AddDropped(col)
	}
	for _, col := range diff.ExtraColumns {
		list.AddCreated(col)
	}
	for _, col := range diff.ModifiedColumns {
		list.AddAltered(col)
	}
	return list
}

// FormatSummary renders a one-line summary such as "drift: 1 missing, 2 modified".
func FormatSummary(summary *DriftSummary) string {
	if summary == nil {
		return "no drift result"
	}

	var parts []string
	for _, p := range []struct {
		n    int
		word string
	}{
		{summary.MissingTables, "missing"},
		{summary.ExtraTables, "extra"},
		{summary.ModifiedTables, "modified"},
	} {
		if p.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", p.n, p.word))
		}
	}
	if len(parts) == 0 {
		return "in sync: " + cli.FormatCount(summary.Tables, "table", "tables")
	}
	return "drift: " + strings.Join(parts, ", ")
}

// TruncateHash shortens a hash for display.
func TruncateHash(hash string) string {
	if len(hash) <= hashDisplayLen {
		return hash
	}
	return hash[:hashDisplayLen]
}
