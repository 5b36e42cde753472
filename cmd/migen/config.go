package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/dialect"
	"github.com/hlop3z/migen/internal/emit"
)

// Config represents the migen.yaml configuration file.
type Config struct {
	DatabaseURL     string `yaml:"database_url"`
	Dialect         string `yaml:"dialect"`
	ModelsDir       string `yaml:"models_dir"`
	MigrationsDir   string `yaml:"migrations_dir"`
	Package         string `yaml:"package"`
	RuntimeImport   string `yaml:"runtime_import"`
	PreserveRemoved bool   `yaml:"preserve_removed_columns"`
	Runner          string `yaml:"runner"`
}

func defaultConfig() *Config {
	return &Config{
		ModelsDir:     "./models",
		MigrationsDir: "./migrations",
		Package:       emit.DefaultPackage,
		RuntimeImport: emit.DefaultRuntime,
	}
}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig(f globalFlags) (*Config, error) {
	cfg := defaultConfig()

	if err := readConfigFile(f.configFile, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if f.configExplicit {
			return nil, alerr.Wrap(alerr.ErrConfig, err, "config file not found").
				WithFile(f.configFile, 0)
		}
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("MIGEN_MODELS_DIR"); v != "" {
		cfg.ModelsDir = v
	}
	if v := os.Getenv("MIGEN_MIGRATIONS_DIR"); v != "" {
		cfg.MigrationsDir = v
	}

	if f.databaseURL != "" {
		cfg.DatabaseURL = f.databaseURL
	}
	if f.modelsDir != "" {
		cfg.ModelsDir = f.modelsDir
	}
	if f.migrationsDir != "" {
		cfg.MigrationsDir = f.migrationsDir
	}

	return cfg, nil
}

// readConfigFile decodes path over cfg. Unknown keys are rejected and
// ${VAR} references are expanded. A missing file is returned unwrapped.
func readConfigFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return alerr.Wrap(alerr.ErrConfig, err, "cannot read config file").WithFile(path, 0)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return alerr.Wrap(alerr.ErrConfig, err, "failed to parse config file").WithFile(path, 0)
	}

	cfg.DatabaseURL = expandEnvVars(cfg.DatabaseURL)
	cfg.ModelsDir = expandEnvVars(cfg.ModelsDir)
	cfg.MigrationsDir = expandEnvVars(cfg.MigrationsDir)
	cfg.Runner = expandEnvVars(cfg.Runner)
	return nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

// dialectName returns the configured dialect, or the one implied by the
// database URL.
func (c *Config) dialectName() string {
	if c.Dialect != "" {
		return strings.ToLower(c.Dialect)
	}
	return dialectFromURL(c.DatabaseURL)
}

func dialectFromURL(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(lower, "sqlite://"), strings.HasPrefix(lower, "sqlite3://"),
		strings.HasPrefix(lower, "file:"):
		return "sqlite"
	}
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		if strings.HasSuffix(lower, ext) {
			return "sqlite"
		}
	}
	return ""
}

// resolveDialect returns the target dialect.
func (c *Config) resolveDialect() (dialect.Dialect, error) {
	name := c.dialectName()
	if d := dialect.Get(name); d != nil {
		return d, nil
	}

	e := alerr.Newf(alerr.EUnsupportedDialect, "unsupported dialect %q", name).
		WithHelp("supported dialects: " + strings.Join(dialect.Names(), ", "))
	if name == "" {
		e = alerr.New(alerr.EUnsupportedDialect, "cannot infer dialect from database URL").
			WithHelp("set dialect in migen.yaml")
	} else if hint := alerr.SuggestSimilar(name, dialect.Names()); hint != "" {
		e.WithHelp(hint)
	}
	return nil, e
}

// driverDSN maps a dialect and URL to a database/sql driver name and DSN.
func driverDSN(d dialect.Dialect, url string) (string, string) {
	if d.Name() == "sqlite" {
		for _, prefix := range []string{"sqlite://", "sqlite3://"} {
			if len(url) >= len(prefix) && strings.EqualFold(url[:len(prefix)], prefix) {
				return "sqlite", url[len(prefix):]
			}
		}
		return "sqlite", url
	}
	return "postgres", url
}

// openDatabase connects to the configured database and verifies the
// connection.
func openDatabase(ctx context.Context, cfg *Config) (*sql.DB, dialect.Dialect, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, alerr.New(alerr.ErrConfig, "database URL is not set").
			WithHelp("set database_url in migen.yaml or the DATABASE_URL environment variable").
			WithHelp("or pass --database-url")
	}

	d, err := cfg.resolveDialect()
	if err != nil {
		return nil, nil, err
	}

	driver, dsn := driverDSN(d, cfg.DatabaseURL)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, alerr.Wrap(alerr.ErrSQLConnection, err, "cannot open database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, alerr.Wrap(alerr.ErrSQLConnection, err, "cannot connect to database").
			With("dialect", d.Name())
	}
	return db, d, nil
}
