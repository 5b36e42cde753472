package cli

import "github.com/charmbracelet/lipgloss"

// ANSI 256 palette, rustc-like.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleNote    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleHelp    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleCode    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	stylePipe    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	stylePath    = lipgloss.NewStyle().Bold(true)
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleHeader  = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// Schema change markers.
	styleAdded   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleRemoved = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleChanged = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func paint(style lipgloss.Style, s string) string {
	if !EnableColors() {
		return s
	}
	return style.Render(s)
}

// Error returns text styled as an error label.
func Error(s string) string { return paint(styleError, s) }

// Warning returns text styled as a warning label.
func Warning(s string) string { return paint(styleWarning, s) }

// Note returns text styled as a note label.
func Note(s string) string { return paint(styleNote, s) }

// Help returns text styled as a help label.
func Help(s string) string { return paint(styleHelp, s) }

// Success returns text styled as a success message.
func Success(s string) string { return paint(styleSuccess, s) }

// Code returns text styled as an error code.
func Code(s string) string { return paint(styleCode, s) }

// FilePath returns text styled as a file path.
func FilePath(s string) string { return paint(stylePath, s) }

// Failed returns text styled as a failure marker.
func Failed(s string) string { return paint(styleFailed, s) }

// Header returns text styled as a table header.
func Header(s string) string { return paint(styleHeader, s) }

// Dim returns muted text.
func Dim(s string) string { return paint(styleDim, s) }

// Added styles something the migration creates.
func Added(s string) string { return paint(styleAdded, s) }

// Removed styles something the migration drops.
func Removed(s string) string { return paint(styleRemoved, s) }

// Changed styles something the migration alters in place.
func Changed(s string) string { return paint(styleChanged, s) }

// Pipe returns the gutter character used in diagnostics.
func Pipe() string { return paint(stylePipe, "|") }

// Arrow returns the location arrow used in diagnostics.
func Arrow() string { return paint(stylePipe, "-->") }
