// Package cli formats migen's terminal output: diagnostics for errors and
// warnings, colored operation summaries, and tables. Colors are used only
// when stdout is an interactive terminal.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/hlop3z/migen/internal/alerr"
)

// OutputMode selects how commands render their results.
type OutputMode int

const (
	ModeTTY   OutputMode = iota // colored, for terminals
	ModePlain                   // no escape codes, for pipes and CI
	ModeJSON                    // machine-readable, where a command supports it
)

func (m OutputMode) String() string {
	switch m {
	case ModeTTY:
		return "tty"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	}
	return fmt.Sprintf("OutputMode(%d)", int(m))
}

// Config is the process-wide output setting.
type Config struct {
	Mode OutputMode
}

func (c *Config) IsTTY() bool  { return c.Mode == ModeTTY }
func (c *Config) IsJSON() bool  { return c.Mode == ModeJSON }

// DefaultConfig picks ModeTTY when stdout is a terminal, unless NO_COLOR
// is set or TERM is dumb.
func DefaultConfig() *Config {
	return &Config{Mode: detectMode(os.Stdout)}
}

func detectMode(f *os.File) OutputMode {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return ModePlain
	}
	if fd := f.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return ModeTTY
	}
	return ModePlain
}

// NewConfigWithMode returns a config forced to mode.
func NewConfigWithMode(mode OutputMode) *Config {
	return &Config{Mode: mode}
}

// colorChoices are the accepted values of --color.
var colorChoices = []string{"auto", "always", "never"}

// ParseColor maps a --color value to a config. "auto" detects the terminal.
func ParseColor(value string) (*Config, error) {
	switch strings.ToLower(value) {
	case "", "auto":
		return DefaultConfig(), nil
	case "always":
		return NewConfigWithMode(ModeTTY), nil
	case "never":
		return NewConfigWithMode(ModePlain), nil
	}
	err := alerr.New(alerr.ErrConfig, "invalid --color value").
		With("value", value).
		WithHelp("use one of: " + strings.Join(colorChoices, ", "))
	if hint := alerr.SuggestSimilar(value, colorChoices); hint != "" {
		err.WithNote(hint)
	}
	return nil, err
}

var current *Config

// Default returns the process-wide config, detecting it on first use.
func Default() *Config {
	if current == nil {
		current = DefaultConfig()
	}
	return current
}

// SetDefault replaces the process-wide config.
func SetDefault(cfg *Config) { current = cfg }

// EnableColors reports whether output may contain escape codes.
func EnableColors() bool { return Default().IsTTY() }
