// Command migen generates Go migration files by diffing declared table
// models against the live database schema.
//
// Usage:
//
//	migen generate <name>      # Write a migration for every model change
//	migen create <name>        # Write an empty migration to fill in by hand
//	migen diff [--sql]         # Show the planned operations without writing
//	migen drift                # Compare model and database fingerprints
//	migen models               # List declared tables
//	migen up | down | status   # Delegate to the configured migration runner
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hlop3z/migen/internal/alerr"
	"github.com/hlop3z/migen/internal/cli"

	// Database drivers
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configFile     string
	configExplicit bool
	databaseURL    string
	modelsDir      string
	migrationsDir  string
	color          string
	verbose        bool
}

var flags globalFlags

func (f *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configFile, "config", "c", "migen.yaml", "Path to config file")
	fs.StringVarP(&f.databaseURL, "database-url", "d", "", "Database connection URL")
	fs.StringVar(&f.modelsDir, "models", "", "Directory containing model files")
	fs.StringVar(&f.migrationsDir, "migrations", "", "Directory migrations are written to")
	fs.StringVar(&f.color, "color", "auto", "Color output: auto, always or never")
	fs.BoolVar(&f.verbose, "verbose", false, "Log debug output to stderr")
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migen",
		Short:         "Generate safe schema migrations from table models",
		Long:          `migen compares declared table models with the live database and writes a Go migration that stages, backfills and enforces each change.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags.configExplicit = cmd.Flags().Changed("config")
			setupLogging(flags.verbose)

			out, err := cli.ParseColor(flags.color)
			if err != nil {
				return err
			}
			cli.SetDefault(out)
			return nil
		},
	}

	flags.register(root.PersistentFlags())

	root.AddCommand(
		generateCmd(),
		createCmd(),
		diffCmd(),
		driftCmd(),
		modelsCmd(),
		runnerCmd("up", "Apply pending migrations"),
		runnerCmd("down", "Roll back the last migration"),
		runnerCmd("status", "Show applied and pending migrations"),
	)
	return root
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if code := alerr.GetErrorCode(err); code != "" {
			slog.Debug("command failed", "code", code, "category", code.Category())
		}
		fmt.Fprint(os.Stderr, cli.FormatError(err))
		stop()
		os.Exit(1)
	}
}
