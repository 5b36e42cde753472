package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hlop3z/migen/internal/cli"
	"github.com/hlop3z/migen/internal/drift"
	"github.com/hlop3z/migen/internal/model"
)

// driftReport is the --json output of the drift command.
type driftReport struct {
	Drift    bool                `json:"drift"`
	Expected string              `json:"expected_hash"`
	Actual   string              `json:"actual_hash"`
	Summary  *drift.DriftSummary `json:"summary"`
	Missing  []string            `json:"missing_tables,omitempty"`
	Extra    []string            `json:"extra_tables,omitempty"`
	Modified []*drift.TableDiff  `json:"modified_tables,omitempty"`
	Skipped  []string            `json:"skipped_tables,omitempty"`
}

// driftCmd compares merkle fingerprints of the models and the database.
func driftCmd() *cobra.Command {
	var asJSON, exitCode bool

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Check whether the database matches the models",
		Long: `Fingerprint every declared table and every table in the database
and report tables or columns that differ, including tables that have no
model. Column defaults are not compared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if asJSON {
				cli.SetDefault(cli.NewConfigWithMode(cli.ModeJSON))
			}

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

			var unchecked []string
			for _, e := range reg.Errors() {
				if !e.Duplicate() {
					unchecked = append(unchecked, e.Name())
				}
			}
			result, err := drift.NewDetector(s.source).Detect(ctx, reg.Tables(), unchecked...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cli.Default().IsJSON() {
				if err := writeDriftJSON(out, result, reg); err != nil {
					return err
				}
			} else {
				for _, e := range reg.Errors() {
					if e.Duplicate() {
						fmt.Fprint(cmd.ErrOrStderr(), duplicateWarning(e.Name(), e.Source, e.Err))
						continue
					}
					fmt.Fprint(cmd.ErrOrStderr(), cli.FormatWarning("table not checked",
						cli.At(e.Name()), cli.WithNotes(warningNote(e.Err))))
				}
				fmt.Fprintln(out, drift.FormatResult(result))
			}

			if exitCode && result.HasDrift {
				fmt.Fprintln(cmd.ErrOrStderr(), drift.FormatSummary(drift.Summarize(result)))
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Exit with status 1 when drift is found")
	return cmd
}

func writeDriftJSON(w io.Writer, result *drift.Result, reg *model.Registry) error {
	report := driftReport{
		Drift:    result.HasDrift,
		Expected: result.ExpectedHash,
		Actual:   result.ActualHash,
		Summary:  drift.Summarize(result),
	}
	if c := result.Comparison; c != nil {
		report.Missing = c.MissingTables
		report.Extra = c.ExtraTables
		for _, name := range c.ModifiedTables() {
			report.Modified = append(report.Modified, c.TableDiffs[name])
		}
	}
	for _, e := range reg.Errors() {
		report.Skipped = append(report.Skipped, e.Name())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
