package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hlop3z/migen/internal/alerr"
)

// locationKeys are rendered on the --> line and not repeated as details.
var locationKeys = map[string]bool{
	"file": true, "line": true, "table": true, "column": true,
}

// FormatError formats an error for CLI display in rustc style:
//
//	error[E3001]: cannot read live table
//	  --> users.email
//	   |
//	   | sql: SELECT ...
//	   |
//	note: ...
//	help: ...
//	   |
//	cause: connection refused
//
// Errors that do not carry an *alerr.Error get a single line.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var ae *alerr.Error
	if errors.As(err, &ae) {
		return formatCodedError(ae)
	}
	return formatGenericError(err)
}

func formatCodedError(err *alerr.Error) string {
	var b strings.Builder
	ctx := err.GetContext()

	b.WriteString(Error("error"))
	b.WriteString("[")
	b.WriteString(Code(string(err.GetCode())))
	b.WriteString("]: ")
	b.WriteString(err.GetMessage())
	b.WriteString("\n")

	if loc := location(ctx); loc != "" {
		b.WriteString("  ")
		b.WriteString(Arrow())
		b.WriteString(" ")
		b.WriteString(FilePath(loc))
		b.WriteString("\n")
	}

	var details []string
	for k, v := range ctx {
		if !locationKeys[k] {
			details = append(details, fmt.Sprintf("%s: %v", k, v))
		}
	}
	sort.Strings(details)
	if len(details) > 0 {
		writeGutter(&b)
		for _, d := range details {
			b.WriteString("   ")
			b.WriteString(Pipe())
			b.WriteString(" ")
			b.WriteString(d)
			b.WriteString("\n")
		}
	}

	writeLabeled(&b, err.Notes(), err.Helps())

	if cause := err.GetCause(); cause != nil {
		writeGutter(&b)
		b.WriteString(Note("cause"))
		b.WriteString(": ")
		b.WriteString(cleanCauseMessage(cause))
		b.WriteString("\n")
	}

	return b.String()
}

// location renders "file:line" for model errors and "table.column" for
// schema errors.
func location(ctx map[string]any) string {
	if file, _ := ctx["file"].(string); file != "" {
		if line, _ := ctx["line"].(int); line > 0 {
			return fmt.Sprintf("%s:%d", file, line)
		}
		return file
	}
	table, _ := ctx["table"].(string)
	column, _ := ctx["column"].(string)
	switch {
	case table != "" && column != "":
		return table + "." + column
	case table != "":
		return table
	}
	return column
}

// cleanCauseMessage renders the cause of a coded error. A cause that is
// itself coded shows only its message; goja stack suffixes are dropped.
func cleanCauseMessage(cause error) string {
	var ae *alerr.Error
	if errors.As(cause, &ae) {
		return ae.GetMessage()
	}
	msg := cause.Error()
	if idx := strings.Index(msg, " at github.com"); idx != -1 {
		msg = strings.TrimSpace(msg[:idx])
	}
	return msg
}

func formatGenericError(err error) string {
	return Error("error") + ": " + err.Error() + "\n"
}

func writeGutter(b *strings.Builder) {
	b.WriteString("   ")
	b.WriteString(Pipe())
	b.WriteString("\n")
}

func writeLabeled(b *strings.Builder, notes, helps []string) {
	for _, note := range notes {
		writeGutter(b)
		b.WriteString(Note("note"))
		b.WriteString(": ")
		b.WriteString(note)
		b.WriteString("\n")
	}
	for _, help := range helps {
		b.WriteString(Help("help"))
		b.WriteString(": ")
		b.WriteString(help)
		b.WriteString("\n")
	}
}

// DiagnosticOption configures a warning.
type DiagnosticOption func(*diagnostic)

type diagnostic struct {
	location string
	notes    []string
	helps    []string
}

// At sets the location shown on the --> line.
func At(loc string) DiagnosticOption {
	return func(d *diagnostic) { d.location = loc }
}

// WithNotes adds notes to a diagnostic.
func WithNotes(notes ...string) DiagnosticOption {
	return func(d *diagnostic) { d.notes = append(d.notes, notes...) }
}

// WithHelps adds help suggestions to a diagnostic.
func WithHelps(helps ...string) DiagnosticOption {
	return func(d *diagnostic) { d.helps = append(d.helps, helps...) }
}

// FormatWarning formats a warning message.
func FormatWarning(msg string, opts ...DiagnosticOption) string {
	d := &diagnostic{}
	for _, opt := range opts {
		opt(d)
	}

	var b strings.Builder
	b.WriteString(Warning("warning"))
	b.WriteString(": ")
	b.WriteString(msg)
	b.WriteString("\n")
	if d.location != "" {
		b.WriteString("  ")
		b.WriteString(Arrow())
		b.WriteString(" ")
		b.WriteString(FilePath(d.location))
		b.WriteString("\n")
	}
	writeLabeled(&b, d.notes, d.helps)
	return b.String()
}

// FormatNote formats a note message.
func FormatNote(msg string) string {
	return Note("note") + ": " + msg + "\n"
}

// FormatHelp formats a help message.
func FormatHelp(msg string) string {
	return Help("help") + ": " + msg + "\n"
}

// FormatSuccess formats a success message.
func FormatSuccess(msg string) string {
	return Success("success") + ": " + msg + "\n"
}
