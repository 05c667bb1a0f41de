package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/rsfgen/export"
	"github.com/c360studio/rsfgen/output"
	"github.com/c360studio/rsfgen/report"
	"github.com/c360studio/rsfgen/taxonomy"
	"github.com/c360studio/rsfgen/watch"
)

// generateOptions are flag overrides for the configured generate settings.
type generateOptions struct {
	output      string
	splitDir    string
	data        string
	domains     []string
	exportDir   string
	formats     []string
	profile     string
	metricsFile string
	watch       bool
	debounce    time.Duration
}

func (o *generateOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "Output JSON path (default public/data/robot-smartfactory.json)")
	f.StringVar(&o.splitDir, "split-dir", "", "Also write one <skill_id>.json per record into this directory (e.g. "+output.DefaultSplitDir+")")
	f.StringVar(&o.data, "data", "", "Tables YAML file (default: embedded tables)")
	f.StringSliceVar(&o.domains, "domain", nil, "Only generate domains whose key or code matches these globs")
	f.StringVar(&o.exportDir, "export-dir", "", "Also write linked-data exports into this directory")
	f.StringSliceVar(&o.formats, "format", nil, "Export formats: turtle, ntriples, jsonld")
	f.StringVar(&o.profile, "profile", "", "Export profile: minimal or esco")
	f.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus gauges to this textfile")
	f.BoolVarP(&o.watch, "watch", "w", false, "Regenerate whenever the --data file changes")
	f.DurationVar(&o.debounce, "debounce", 0, "Watch debounce delay (default 500ms)")
}

// apply copies non-zero flag values over the loaded configuration.
func (o *generateOptions) apply(a *app) {
	if o.output != "" {
		a.cfg.Output.Path = o.output
	}
	if o.splitDir != "" {
		a.cfg.Output.SplitDir = o.splitDir
	}
	if o.data != "" {
		a.cfg.Data.Path = o.data
	}
	if len(o.domains) > 0 {
		a.cfg.Data.Domains = o.domains
	}
	if o.exportDir != "" {
		a.cfg.Export.Dir = o.exportDir
	}
	if len(o.formats) > 0 {
		a.cfg.Export.Formats = o.formats
	}
	if o.profile != "" {
		a.cfg.Export.Profile = o.profile
	}
	if o.metricsFile != "" {
		a.cfg.Metrics.Textfile = o.metricsFile
	}
	if o.debounce > 0 {
		a.cfg.Watch.Debounce = o.debounce
	}
}

func (a *app) generateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the taxonomy JSON file and print statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func (a *app) generate(cmd *cobra.Command, opts *generateOptions) error {
	opts.apply(a)
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := a.generateOnce(out); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return a.watchAndRegenerate(cmd.Context(), out)
}

// generateOnce runs one full generation: tables, records, guard, JSON file,
// console report, then the optional export and metrics outputs.
func (a *app) generateOnce(out io.Writer) error {
	console := report.NewConsole(out)
	console.Start()

	tables, err := a.loadTables()
	if err != nil {
		return err
	}

	path := a.cfg.Output.Path
	if err := output.EnsureDir(path); err != nil {
		return err
	}

	skills := taxonomy.Assemble(tables)
	if err := taxonomy.CheckRecords(skills); err != nil {
		return fmt.Errorf("generated records failed checks: %w", err)
	}

	if err := output.WriteJSON(path, skills); err != nil {
		return err
	}
	a.logger.Info("Wrote taxonomy", "path", path, "skills", len(skills))

	if err := console.Generation(path, tables.Domains, skills); err != nil {
		return fmt.Errorf("print report: %w", err)
	}

	if dir := a.cfg.Output.SplitDir; dir != "" {
		paths, err := output.WriteSplit(dir, skills)
		if err != nil {
			return err
		}
		a.logger.Info("Wrote per-record files", "dir", dir, "files", len(paths))
	}

	if a.cfg.Export.Dir != "" {
		if err := a.writeExports(tables, skills, path); err != nil {
			return err
		}
	}

	if a.cfg.Metrics.Textfile != "" {
		if err := report.WriteTextfile(a.cfg.Metrics.Textfile, a.cfg.Metrics.Namespace, skills); err != nil {
			return err
		}
		a.logger.Info("Wrote metrics textfile", "path", a.cfg.Metrics.Textfile)
	}
	return nil
}

func (a *app) writeExports(tables *taxonomy.Tables, skills []taxonomy.Skill, jsonPath string) error {
	profile, err := export.ParseProfile(a.cfg.Export.Profile)
	if err != nil {
		return err
	}
	formats, err := export.ParseFormats(a.cfg.Export.Formats)
	if err != nil {
		return err
	}

	exporter := export.NewSKOSExporter(profile)
	exporter.AddSkills(tables.Domains, skills)

	base := strings.TrimSuffix(filepath.Base(jsonPath), filepath.Ext(jsonPath))
	paths, err := exporter.WriteFiles(a.cfg.Export.Dir, base, formats)
	if err != nil {
		return err
	}
	for _, p := range paths {
		a.logger.Info("Wrote export", "path", p, "profile", profile)
	}
	return nil
}

func (a *app) watchAndRegenerate(ctx context.Context, out io.Writer) error {
	if a.cfg.Data.Path == "" {
		return fmt.Errorf("--watch needs a tables file (--data or data.path); embedded tables never change")
	}

	w, err := watch.NewFileWatcher(a.cfg.Data.Path, a.cfg.Watch.Debounce, a.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	a.logger.Info("Watching tables for changes", "path", w.Path())
	return w.Run(ctx, func(ctx context.Context, ev watch.Event) error {
		a.logger.Info("Tables changed, regenerating", "path", ev.Path)
		return a.generateOnce(out)
	})
}
