package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/rsfgen/publish"
	"github.com/c360studio/rsfgen/taxonomy"
)

func (a *app) publishCmd() *cobra.Command {
	var (
		url     string
		prefix  string
		data    string
		domains []string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish every record to NATS as JSON",
		Long: `Publish assembles the taxonomy and sends one message per record on
<prefix>.<domain>.<skill_type>. Each message carries the skill ID and a
stable message ID so JetStream streams can drop duplicates on re-publish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if prefix != "" {
				a.cfg.NATS.SubjectPrefix = prefix
			}
			if data != "" {
				a.cfg.Data.Path = data
			}
			if len(domains) > 0 {
				a.cfg.Data.Domains = domains
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			tables, err := a.loadTables()
			if err != nil {
				return err
			}
			skills := taxonomy.Assemble(tables)
			if err := taxonomy.CheckRecords(skills); err != nil {
				return fmt.Errorf("generated records failed checks: %w", err)
			}

			natsURL := a.natsURL(url)
			nc, err := a.connectNATS(natsURL)
			if err != nil {
				return err
			}
			defer func() {
				if err := nc.Drain(); err != nil {
					a.logger.Warn("Failed to drain NATS connection", "error", err)
				}
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.NATS.Timeout)
			defer cancel()

			p := publish.New(nc, a.cfg.NATS.SubjectPrefix, a.logger)
			sent, err := p.Publish(ctx, skills)
			if err != nil {
				return fmt.Errorf("publish after %d of %d records: %w", sent, len(skills), err)
			}

			a.logger.Info("Published taxonomy",
				"url", natsURL,
				"prefix", a.cfg.NATS.SubjectPrefix,
				"skills", sent)
			fmt.Fprintf(cmd.OutOrStdout(), "📡 %d개 스킬 발행 완료 (%s.>)\n", sent, a.cfg.NATS.SubjectPrefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "nats-url", "", "NATS server URL (default: $NATS_URL or nats.url)")
	cmd.Flags().StringVar(&prefix, "subject-prefix", "", "Subject prefix (default: nats.subject_prefix)")
	cmd.Flags().StringVar(&data, "data", "", "Tables YAML file (default: embedded tables)")
	cmd.Flags().StringSliceVar(&domains, "domain", nil, "Only publish domains whose key or code matches these globs")

	return cmd
}
