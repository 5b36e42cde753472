package main

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hlop3z/migen/internal/alerr"
)

// runnerCmd delegates a subcommand to the configured migration runner.
// migen only writes migrations; applying them is the runner's job.
func runnerCmd(name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [-- runner args...]",
		Short: short,
		Long: short + ".\n\nRuns `<runner> " + name + " [args...]` where runner is set in migen.yaml.\n" +
			"Arguments after -- are passed to the runner unchanged.",
		Example: "  migen " + name + " -- --verbose",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			run, err := runnerCommand(cmd.Context(), cfg, name, args)
			if err != nil {
				return err
			}
			run.Stdin = os.Stdin
			run.Stdout = cmd.OutOrStdout()
			run.Stderr = cmd.ErrOrStderr()

			if err := run.Run(); err != nil {
				return alerr.Wrap(alerr.ErrRunner, err, "migration runner failed").
					With("command", strings.Join(run.Args, " "))
			}
			return nil
		},
	}
}

// runnerCommand builds the runner invocation. The database URL and the
// migrations directory are passed through the environment.
func runnerCommand(ctx context.Context, cfg *Config, sub string, args []string) (*exec.Cmd, error) {
	fields := strings.Fields(cfg.Runner)
	if len(fields) == 0 {
		return nil, alerr.New(alerr.ErrRunner, "no migration runner configured").
			WithHelp("set runner in migen.yaml, e.g. runner: go run ./cmd/migrate")
	}

	argv := append(fields[1:], sub)
	argv = append(argv, args...)

	run := exec.CommandContext(ctx, fields[0], argv...)
	run.Env = append(os.Environ(), "MIGEN_MIGRATIONS_DIR="+cfg.MigrationsDir)
	if cfg.DatabaseURL != "" {
		run.Env = append(run.Env, "DATABASE_URL="+cfg.DatabaseURL)
	}
	return run, nil
}
