package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// columnGap separates table columns.
const columnGap = "  "

// Table renders left-aligned columns under a header rule. Cells may carry
// color; widths are measured on the visible text.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

func NewTable(headers ...string) *Table {
	t := &Table{headers: headers, widths: make([]int, len(headers))}
	t.measure(headers)
	return t
}

func (t *Table) measure(cells []string) {
	for i := range t.widths {
		t.widths[i] = max(t.widths[i], lipgloss.Width(cells[i]))
	}
}

// AddRow appends a row. Missing trailing cells are blank and extra cells
// are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.measure(row)
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) String() string {
	if len(t.headers) == 0 {
		return ""
	}

	var b strings.Builder
	t.writeLine(&b, t.headers, Header)
	rule := make([]string, len(t.widths))
	for i, w := range t.widths {
		rule[i] = strings.Repeat("─", w)
	}
	t.writeLine(&b, rule, Dim)
	for _, row := range t.rows {
		t.writeLine(&b, row, nil)
	}
	return b.String()
}

func (t *Table) writeLine(b *strings.Builder, cells []string, style func(string) string) {
	var line strings.Builder
	for i, cell := range cells {
		if i > 0 {
			line.WriteString(columnGap)
		}
		if i < len(cells)-1 {
			cell = padRight(cell, t.widths[i])
		}
		if style != nil {
			cell = style(cell)
		}
		line.WriteString(cell)
	}
	b.WriteString(strings.TrimRight(line.String(), " "))
	b.WriteByte('\n')
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// List is a bulleted list whose marker shows what happens to each item.
type List struct {
	items []string
}

func NewList() *List { return &List{} }

func (l *List) push(marker, content string) {
	l.items = append(l.items, marker+" "+content)
}

func (l *List) Add(content string)        { l.push("•", content) }
func (l *List) AddError(content string)   { l.push(Failed("✗"), content) }
func (l *List) AddCreated(content string) { l.push(Added("+"), content) }
func (l *List) AddDropped(content string) { l.push(Removed("-"), content) }
func (l *List) AddAltered(content string) { l.push(Changed("~"), content) }

func (l *List) Len() int { return len(l.items) }

// String renders one item per line, indented by two spaces.
func (l *List) String() string {
	var b strings.Builder
	for _, item := range l.items {
		b.WriteString("  " + item + "\n")
	}
	return b.String()
}

// Indent prefixes every non-empty line of content with spaces.
func Indent(content string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(content, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// FormatKeyValue renders "key: value" with the key dimmed.
func FormatKeyValue(key, value string) string {
	return Dim(key) + ": " + value
}

// FormatCount renders "1 table" or "3 tables".
func FormatCount(count int, singular, plural string) string {
	word := plural
	if count == 1 {
		word = singular
	}
	return strconv.Itoa(count) + " " + word
}
