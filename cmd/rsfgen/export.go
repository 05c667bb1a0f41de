package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/rsfgen/export"
	"github.com/c360studio/rsfgen/output"
	"github.com/c360studio/rsfgen/taxonomy"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		format  string
		outPath string
		profile string
		input   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the taxonomy as SKOS linked data",
		Long: `Export writes the taxonomy as SKOS concepts grouped into one concept
scheme per domain. The esco profile additionally types concepts as
esco:Skill and records the ESCO skill type.

Records are assembled from the tables unless --input names a generated
JSON file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if profile == "" {
				profile = a.cfg.Export.Profile
			}
			p, err := export.ParseProfile(profile)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			tables, err := a.loadTables()
			if err != nil {
				return err
			}
			var skills []taxonomy.Skill
			if input != "" {
				skills, err = output.ReadJSON(input)
				if err != nil {
					return err
				}
			} else {
				skills = taxonomy.Assemble(tables)
			}

			exporter := export.NewSKOSExporter(p)
			exporter.AddSkills(tables.Domains, skills)
			doc, err := exporter.Export(f)
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}
			if err := output.WriteFile(outPath, []byte(doc)); err != nil {
				return err
			}
			a.logger.Info("Wrote export", "path", outPath, "format", f, "profile", p, "skills", len(skills))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTurtle), "Output format: turtle, ntriples, jsonld")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&profile, "profile", "", "Export profile: minimal or esco (default: export.profile)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Generated JSON file to export instead of assembling")

	return cmd
}
