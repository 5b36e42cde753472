package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hlop3z/migen/internal/cli"
	"github.com/hlop3z/migen/internal/model"
)

// diffCmd shows the plan generate would write, without writing it.
func diffCmd() *cobra.Command {
	var showSQL, watch bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show the operations generate would write",
		Example: `  migen diff
  migen diff --sql
  migen diff --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			s, err := openSession(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			show := func() error {
				return s.showDiff(ctx, out, errOut, showSQL)
			}

			if !watch {
				return show()
			}

			if err := show(); err != nil {
				fmt.Fprint(errOut, cli.FormatError(err))
			}
			w, err := newModelWatcher(cfg.ModelsDir)
			if err != nil {
				return err
			}
			defer w.Close()

			fmt.Fprintln(errOut, cli.Dim("watching "+cfg.ModelsDir+" (ctrl-c to stop)"))
			w.run(ctx, func() {
				fmt.Fprintln(out)
				if err := show(); err != nil {
					fmt.Fprint(errOut, cli.FormatError(err))
				}
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSQL, "sql", false, "Print SQL statements instead of a summary")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-plan whenever a model file changes")
	return cmd
}

// showDiff reloads the models and prints the current plan.
func (s *session) showDiff(ctx context.Context, out, errOut io.Writer, showSQL bool) error {
	reg, err := model.LoadDir(s.cfg.ModelsDir)
	if err != nil {
		return err
	}
	plan, warnings, err := s.plan(ctx, reg)
	if err != nil {
		return err
	}
	printWarnings(errOut, warnings)

	if !showSQL {
		fmt.Fprint(out, formatPlan(plan))
		return nil
	}
	if plan.IsEmpty() {
		fmt.Fprintln(out, "-- no schema changes")
		return nil
	}
	text, err := planSQL(s.dialect, plan)
	if err != nil {
		return err
	}
	fmt.Fprint(out, text)
	return nil
}
