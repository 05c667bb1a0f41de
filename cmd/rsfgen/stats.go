package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/rsfgen/report"
	"github.com/c360studio/rsfgen/taxonomy"
)

func (a *app) statsCmd() *cobra.Command {
	var (
		data    string
		domains []string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the taxonomy distribution without writing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if data != "" {
				a.cfg.Data.Path = data
			}
			if len(domains) > 0 {
				a.cfg.Data.Domains = domains
			}

			tables, err := a.loadTables()
			if err != nil {
				return err
			}
			skills := taxonomy.Assemble(tables)

			console := report.NewConsole(cmd.OutOrStdout())
			console.Distribution(tables.Domains, taxonomy.Tally(skills))
			if err := console.Err(); err != nil {
				return fmt.Errorf("print report: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Tables YAML file (default: embedded tables)")
	cmd.Flags().StringSliceVar(&domains, "domain", nil, "Only count domains whose key or code matches these globs")

	return cmd
}
