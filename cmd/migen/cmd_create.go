package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hlop3z/migen/internal/cli"
	"github.com/hlop3z/migen/internal/emit"
)

// createCmd writes an empty migration. It needs no database.
func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "create <name>",
		Short:   "Create an empty migration",
		Example: "  migen create seed_countries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			a, err := newEmitter(cfg, nil).Template(args[0])
			if err != nil {
				return err
			}
			path, err := emit.WriteFile(cfg.MigrationsDir, a)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.FormatSuccess("wrote "+cli.FilePath(path)))
			return nil
		},
	}
}
