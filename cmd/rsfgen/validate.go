package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/rsfgen/output"
	"github.com/c360studio/rsfgen/report"
	"github.com/c360studio/rsfgen/taxonomy"
)

// errValidationFailed is returned when a validated file has error findings.
var errValidationFailed = errors.New("validation failed")

func (a *app) validateCmd() *cobra.Command {
	var (
		input   string
		data    string
		asJSON  bool
		domains []string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a generated taxonomy file against its tables",
		Long: `Validate reads a generated JSON file and checks it against the
tables it was built from: record totals and per-domain coverage, field
completeness, parent and related_skills references, and identifier format.
Warnings are reported but do not fail the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				input = a.cfg.Output.Path
			}
			if data != "" {
				a.cfg.Data.Path = data
			}
			if len(domains) > 0 {
				a.cfg.Data.Domains = domains
			}

			skills, err := output.ReadJSON(input)
			if err != nil {
				return err
			}
			tables, err := a.loadTables()
			if err != nil {
				return err
			}

			r := taxonomy.Validate(skills, tables)
			a.logger.Debug("Validated taxonomy",
				"path", input,
				"errors", len(r.Errors()),
				"warnings", len(r.Warnings()))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(r); err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
			} else if err := report.NewConsole(cmd.OutOrStdout()).Validation(r); err != nil {
				return fmt.Errorf("print report: %w", err)
			}

			if !r.OK() {
				return fmt.Errorf("%w: %s has %d error(s)", errValidationFailed, input, len(r.Errors()))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Generated JSON file (default: output.path)")
	cmd.Flags().StringVar(&data, "data", "", "Tables YAML file (default: embedded tables)")
	cmd.Flags().StringSliceVar(&domains, "domain", nil, "Only check domains whose key or code matches these globs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}
