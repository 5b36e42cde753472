package cli

import (
	"testing"

	"github.com/hlop3z/migen/internal/alerr"
)

func withConfig(t *testing.T, cfg *Config) {
	t.Helper()
	saved := current
	SetDefault(cfg)
	t.Cleanup(func() { current = saved })
}

func TestOutputMode_String(t *testing.T) {
	for mode, want := range map[OutputMode]string{
		ModeTTY:        "tty",
		ModePlain:      "plain",
		ModeJSON:       "json",
		OutputMode(42): "OutputMode(42)",
	} {
		if got := mode.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestDefaultConfig_RespectsEnvironment(t *testing.T) {
	for _, env := range []struct{ noColor, term string }{
		{"1", "xterm-256color"},
		{"", "dumb"},
	} {
		t.Setenv("NO_COLOR", env.noColor)
		t.Setenv("TERM", env.term)
		if cfg := DefaultConfig(); cfg.Mode != ModePlain {
			t.Errorf("NO_COLOR=%q TERM=%q: mode = %v, want plain", env.noColor, env.term, cfg.Mode)
		}
	}
}

func TestParseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		value string
		want  OutputMode
	}{
		{"", ModePlain},
		{"auto", ModePlain},
		{"always", ModeTTY},
		{"NEVER", ModePlain},
	}
	for _, tt := range tests {
		cfg, err := ParseColor(tt.value)
		if err != nil {
			t.Fatalf("ParseColor(%q) error = %v", tt.value, err)
		}
		if cfg.Mode != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.value, cfg.Mode, tt.want)
		}
	}
}

func TestParseColor_Invalid(t *testing.T) {
	_, err := ParseColor("alway")
	if !alerr.Is(err, alerr.ErrConfig) {
		t.Fatalf("ParseColor() error = %v, want %s", err, alerr.ErrConfig)
	}

	var ae *alerr.Error
	ae, _ = err.(*alerr.Error)
	if ae == nil || len(ae.Notes()) != 1 || ae.Notes()[0] != "did you mean 'always'?" {
		t.Errorf("notes = %v", ae.Notes())
	}
}

func TestEnableColors(t *testing.T) {
	withConfig(t, NewConfigWithMode(ModeTTY))
	if !EnableColors() {
		t.Error("EnableColors() = false in tty mode")
	}

	SetDefault(NewConfigWithMode(ModeJSON))
	if EnableColors() || !Default().IsJSON() {
		t.Error("json mode must not color")
	}
}
