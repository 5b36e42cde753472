package cli

import (
	"strings"
	"testing"
)

func TestTable_AddRow(t *testing.T) {
	table := NewTable("TABLE", "OPERATION")
	table.AddRow("users", "add column")
	table.AddRow("order_items")

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	if got := table.rows[1][1]; got != "" {
		t.Errorf("missing cell should be empty, got %q", got)
	}
	table.AddRow("tags", "add column label", "extra")
	if got := len(table.rows[2]); got != 2 {
		t.Errorf("extra cells should be dropped, row has %d", got)
	}
	if table.widths[0] != len("order_items") || table.widths[1] != len("add column label") {
		t.Errorf("widths = %v", table.widths)
	}
}

func TestTable_String(t *testing.T) {
	table := NewTable("TABLE", "STEP")
	table.AddRow("users", "add column email")
	table.AddRow("orders", "remove column legacy")

	want := strings.Join([]string{
		"TABLE   STEP",
		"──────  ────────────────────",
		"users   add column email",
		"orders  remove column legacy",
		"",
	}, "\n")
	if got := table.String(); got != want {
		t.Errorf("String() =\n%s\nwant:\n%s", got, want)
	}
}

func TestTable_String_Empty(t *testing.T) {
	if got := NewTable().String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}

func TestList(t *testing.T) {
	list := NewList()
	list.Add("plain")
	list.AddError("failed")
	list.AddCreated("users")
	list.AddDropped("legacy")
	list.AddAltered("email")

	want := strings.Join([]string{
		"  • plain",
		"  ✗ failed",
		"  + users",
		"  - legacy",
		"  ~ email",
		"",
	}, "\n")
	if got := list.String(); got != want {
		t.Errorf("String() =\n%s\nwant:\n%s", got, want)
	}
	if list.Len() != 5 {
		t.Errorf("Len() = %d, want 5", list.Len())
	}
}

func TestList_Empty(t *testing.T) {
	if got := NewList().String(); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		content string
		spaces  int
		want    string
	}{
		{"a\nb", 2, "  a\n  b"},
		{"a\n\nb", 4, "    a\n\n    b"},
		{"", 2, ""},
	}

	for _, tt := range tests {
		if got := Indent(tt.content, tt.spaces); got != tt.want {
			t.Errorf("Indent(%q, %d) = %q, want %q", tt.content, tt.spaces, got, tt.want)
		}
	}
}

func TestFormatKeyValue(t *testing.T) {
	if got := FormatKeyValue("schema hash", "3f2a"); got != "schema hash: 3f2a" {
		t.Errorf("FormatKeyValue() = %q", got)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0 operations"},
		{1, "1 operation"},
		{12, "12 operations"},
	}

	for _, tt := range tests {
		if got := FormatCount(tt.count, "operation", "operations"); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"hello", 8, "hello   "},
		{"hello", 5, "hello"},
		{"hello", 3, "hello"},
		{"", 2, "  "},
		{"ü", 3, "ü  "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.width); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}
