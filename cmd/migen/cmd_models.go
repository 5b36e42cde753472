package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hlop3z/migen/internal/cli"
	"github.com/hlop3z/migen/internal/model"
)

// modelsCmd lists the declared tables. It needs no database.
func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List declared tables and whether they load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			reg, err := model.LoadDir(cfg.ModelsDir)
			if err != nil {
				return err
			}
			writeModels(cmd.OutOrStdout(), cfg.ModelsDir, reg)
			return nil
		},
	}
}

func writeModels(w io.Writer, dir string, reg *model.Registry) {
	entries := reg.Entries()
	if len(entries) == 0 {
		fmt.Fprint(w, cli.FormatWarning("no models found", cli.At(dir)))
		return
	}

	table := cli.NewTable("TABLE", "COLUMNS", "FILE", "STATUS")
	problems := cli.NewList()
	for _, e := range entries {
		file := e.Source
		if rel, err := filepath.Rel(dir, e.Source); err == nil {
			file = rel
		}
		if e.Err != nil {
			table.AddRow(e.Name(), "-", file, cli.Failed("error"))
			problems.AddError(e.Name() + ": " + warningNote(e.Err))
			continue
		}
		table.AddRow(e.Name(), strconv.Itoa(e.Table.Len()), file, cli.Success("ok"))
	}

	fmt.Fprint(w, table.String())
	if problems.Len() > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, problems.String())
	}
	fmt.Fprintf(w, "\n%s, %d failed\n",
		cli.FormatCount(len(entries), "table", "tables"), problems.Len())
}
