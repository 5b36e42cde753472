// Package alerr provides structured errors for migen.
// Every error carries a stable code, key/value context and an optional cause.
package alerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code is a stable, machine-readable error code of the form E{category}{number}.
type Code string

const (
	// E1xxx: declared or live table schemas
	ErrSchemaInvalid   Code = "E1001" // Table schema is malformed
	ErrSchemaNotFound  Code = "E1002" // Referenced table does not exist
	ErrSchemaDuplicate Code = "E1003" // Table or column declared twice

	// E2xxx: model attributes
	ErrInvalidIdentifier Code = "E2001" // Identifier is empty or malformed
	ErrInvalidType       Code = "E2005" // Type descriptor is not recognized
	ErrInvalidDefault    Code = "E2008" // Default value cannot be represented

	// E3xxx: planning and emitting a migration
	ErrPlanFailed      Code = "E3001" // A table could not be planned
	ErrEmitFailed      Code = "E3002" // Operation could not be rendered
	ErrInvalidName     Code = "E3003" // Migration name is empty or unusable
	ErrUnsupportedStep Code = "E3004" // Operation is not supported by the target

	// E4xxx: database access
	ErrSQLExecution  Code = "E4001" // SQL statement failed to execute
	ErrSQLConnection Code = "E4002" // Database connection failed

	// E5xxx: model files
	ErrJSExecution Code = "E5001" // JavaScript model failed to evaluate
	ErrModelLoad   Code = "E5002" // Model file could not be read or parsed

	// E6xxx: live schema
	ErrIntrospection    Code = "E6001" // Database introspection failed
	EUnsupportedDialect Code = "E6003" // Dialect not supported for operation

	// E7xxx: project files and tooling
	ErrFileWrite Code = "E7001" // Migration file could not be written
	ErrConfig    Code = "E7002" // Configuration file is invalid
	ErrRunner    Code = "E7003" // External migration runner failed

	EInternalError Code = "E9001"
)

// Category names the code family, e.g. "schema" for E1xxx.
func (c Code) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "schema"
	case '2':
		return "validation"
	case '3':
		return "generation"
	case '4':
		return "sql"
	case '5':
		return "model"
	case '6':
		return "introspection"
	case '7':
		return "project"
	case '9':
		return "internal"
	}
	return "unknown"
}

// Error is a coded migen error. Notes and helps are kept apart from the
// context so that diagnostics can render them under their own labels.
type Error struct {
	code    Code
	message string
	context map[string]any
	notes   []string
	helps   []string
	cause   error
}

// New returns an error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{code: code, message: msg, context: map[string]any{}}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap returns an error with the given code whose cause is err.
// A nil err yields a plain New.
func Wrap(code Code, err error, msg string) *Error {
	e := New(code, msg)
	e.cause = err
	return e
}

// Error renders the code, the message, the context and the cause on one line:
//
//	E2005: unknown type "strng" (column=title, table=posts): <cause>
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.code))
	b.WriteString(": ")
	b.WriteString(e.message)

	if keys := e.keys(); len(keys) > 0 {
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.context[k])
		}
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *Error) keys() []string {
	keys := make([]string, 0, len(e.context))
	for k := range e.context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error carrying the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.code == e.code
	}
	return false
}

func (e *Error) GetCode() Code              { return e.code }
func (e *Error) GetMessage() string         { return e.message }
func (e *Error) GetContext() map[string]any { return e.context }
func (e *Error) GetCause() error            { return e.cause }

// Notes returns the notes in the order they were added.
func (e *Error) Notes() []string { return e.notes }

// Helps returns the help lines in the order they were added.
func (e *Error) Helps() []string { return e.helps }

// With sets a context value and returns e.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = map[string]any{}
	}
	e.context[key] = value
	return e
}

// WithTable records the table, qualified by ns when ns is not empty.
func (e *Error) WithTable(ns, table string) *Error {
	if ns != "" {
		table = ns + "." + table
	}
	return e.With("table", table)
}

func (e *Error) WithColumn(name string) *Error { return e.With("column", name) }

// WithFile records a source location. Line 0 means unknown.
func (e *Error) WithFile(path string, line int) *Error {
	e.With("file", path)
	if line > 0 {
		e.With("line", line)
	}
	return e
}

func (e *Error) WithNote(note string) *Error {
	e.notes = append(e.notes, note)
	return e
}

func (e *Error) WithHelp(help string) *Error {
	e.helps = append(e.helps, help)
	return e
}

// GetErrorCode returns the code of the outermost *Error in err's chain,
// or "" when there is none.
func GetErrorCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}

// Is reports whether err's chain carries code.
func Is(err error, code Code) bool {
	return err != nil && GetErrorCode(err) == code
}

// WrapSQL wraps a database error raised while performing op, e.g.
// WrapSQL(err, "scan column", "users"). An empty table is left out.
func WrapSQL(err error, op, table string) *Error {
	e := Wrap(ErrSQLExecution, err, "failed to "+op)
	if table != "" {
		e.WithTable("", table)
	}
	return e
}
