package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/migen/internal/cli"
	"github.com/hlop3z/migen/internal/emit"
	"github.com/hlop3z/migen/internal/model"
)

// generateCmd writes one migration covering every model change.
func generateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate <name>",
		Short: "Generate a migration from model changes",
		Long: `Diff every model against the live database and write one migration.

Tables that cannot be loaded or introspected are reported and skipped.
NOT NULL columns reaching populated tables are added nullable, backfilled,
truncated when bounded, then tightened.`,
		Example: `  migen generate add_user_status
  migen generate add_user_status --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			reg, err := model.LoadDir(cfg.ModelsDir)
			if err != nil {
				return err
			}

			s, err := openSession(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			plan, warnings, err := s.plan(ctx, reg)
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), warnings)

			a, err := newEmitter(cfg, reg).Emit(args[0], plan.Tables)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprint(cmd.ErrOrStderr(), cli.FormatNote("dry run, no migration file written"))
				_, err := out.Write(a.Source)
				return err
			}

			path, err := emit.WriteFile(cfg.MigrationsDir, a)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatPlan(plan))
			fmt.Fprint(out, cli.FormatSuccess("wrote "+cli.FilePath(path)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the migration instead of writing it")
	return cmd
}
