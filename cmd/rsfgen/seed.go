package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"

	"github.com/c360studio/rsfgen/storage"
	"github.com/c360studio/rsfgen/storage/kv"
	"github.com/c360studio/rsfgen/storage/postgres"
	"github.com/c360studio/rsfgen/storage/sqlite"
	"github.com/c360studio/rsfgen/taxonomy"
)

type seedOptions struct {
	sqlitePath  string
	postgresDSN string
	natsKV      bool
	natsURL     string
	bucket      string
}

func (a *app) seedCmd() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the taxonomy into SQLite, PostgreSQL or NATS KV",
		Long: `Seed assembles the taxonomy and upserts every record into each
selected store. Re-running seed leaves the stores unchanged.

At least one of --sqlite, --postgres or --nats-kv is required; the storage
section of the config file can supply the SQLite path and PostgreSQL DSN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.seed(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.sqlitePath, "sqlite", "", "SQLite database file (default: storage.sqlite_path)")
	f.StringVar(&opts.postgresDSN, "postgres", "", "PostgreSQL connection string (default: storage.postgres_dsn)")
	f.BoolVar(&opts.natsKV, "nats-kv", false, "Also write records to a NATS KV bucket")
	f.StringVar(&opts.natsURL, "nats-url", "", "NATS server URL (default: $NATS_URL or nats.url)")
	f.StringVar(&opts.bucket, "bucket", kv.DefaultBucket, "NATS KV bucket name")

	return cmd
}

func (a *app) seed(ctx context.Context, opts *seedOptions) error {
	if opts.sqlitePath != "" {
		a.cfg.Storage.SQLitePath = opts.sqlitePath
	}
	if opts.postgresDSN != "" {
		a.cfg.Storage.PostgresDSN = opts.postgresDSN
	}
	if a.cfg.Storage.SQLitePath == "" && a.cfg.Storage.PostgresDSN == "" && !opts.natsKV {
		return errors.New("no store selected: pass --sqlite, --postgres or --nats-kv")
	}

	tables, err := a.loadTables()
	if err != nil {
		return err
	}
	skills := taxonomy.Assemble(tables)
	if err := taxonomy.CheckRecords(skills); err != nil {
		return fmt.Errorf("generated records failed checks: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Storage.Timeout)
	defer cancel()

	runner, err := a.openStores(ctx, opts)
	defer func() {
		if cerr := runner.Close(); cerr != nil {
			a.logger.Warn("Failed to close stores", "error", cerr)
		}
	}()
	if err != nil {
		return err
	}

	if err := runner.Run(ctx, skills); err != nil {
		return err
	}
	for _, s := range runner.Stores {
		a.logger.Info("Seeded store", "store", s.Name(), "skills", len(skills))
	}
	return nil
}

// openStores opens every selected store. On error the returned runner still
// holds the stores opened so far so the caller can close them.
func (a *app) openStores(ctx context.Context, opts *seedOptions) (storage.Runner, error) {
	var runner storage.Runner

	if path := a.cfg.Storage.SQLitePath; path != "" {
		s, err := sqlite.Open(ctx, path)
		if err != nil {
			return runner, err
		}
		runner.Stores = append(runner.Stores, s)
	}

	if dsn := a.cfg.Storage.PostgresDSN; dsn != "" {
		s, err := postgres.Connect(ctx, dsn, a.cfg.Storage.Timeout)
		if err != nil {
			return runner, err
		}
		runner.Stores = append(runner.Stores, s)
	}

	if opts.natsKV {
		url := a.natsURL(opts.natsURL)
		nc, err := a.connectNATS(url)
		if err != nil {
			return runner, err
		}
		js, err := jetstream.New(nc)
		if err != nil {
			nc.Close()
			return runner, fmt.Errorf("create jetstream context: %w", err)
		}
		s, err := kv.NewStore(ctx, js, opts.bucket, func() { _ = nc.Drain() })
		if err != nil {
			nc.Close()
			return runner, err
		}
		runner.Stores = append(runner.Stores, s)
	}

	return runner, nil
}
