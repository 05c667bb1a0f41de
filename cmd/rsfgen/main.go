// Package main provides the rsfgen binary entry point.
// rsfgen generates the robot/smart-factory skill taxonomy and can validate,
// export, seed and publish it.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/rsfgen/config"
	"github.com/c360studio/rsfgen/taxonomy"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "rsfgen"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd() *cobra.Command {
	a := &app{}
	gen := &generateOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Robot/smart-factory skill taxonomy generator",
		Long: `rsfgen builds the robot and smart-factory skill taxonomy from its
domain tables and writes it as a JSON array.

Without a subcommand it behaves like "rsfgen generate": it writes
public/data/robot-smartfactory.json and prints distribution statistics.

Other subcommands validate a generated file, print statistics, export
SKOS/ESCO linked data, seed SQL or NATS KV stores and publish records
to NATS.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(cmd, gen)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	gen.bind(cmd)

	cmd.AddCommand(
		a.generateCmd(),
		a.validateCmd(),
		a.statsCmd(),
		a.exportCmd(),
		a.seedCmd(),
		a.publishCmd(),
		a.configCmd(),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// setup configures logging and loads layered configuration.
func (a *app) setup(cmd *cobra.Command) error {
	a.logger = newLogger(cmd.ErrOrStderr(), a.logLevel)
	slog.SetDefault(a.logger)

	cfg, err := config.NewLoader(a.logger).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg
	return nil
}

func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadTables reads the configured tables and applies the domain filter.
func (a *app) loadTables() (*taxonomy.Tables, error) {
	tables, err := taxonomy.LoadTables(a.cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	if len(a.cfg.Data.Domains) > 0 {
		tables, err = tables.Filter(a.cfg.Data.Domains)
		if err != nil {
			return nil, err
		}
	}
	source := a.cfg.Data.Path
	if source == "" {
		source = "embedded"
	}
	a.logger.Debug("Loaded tables",
		"source", source,
		"domains", len(tables.Domains),
		"records", tables.RecordCount())
	return tables, nil
}
