package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/rsfgen/publish"
)

// natsURL resolves the server URL: flag, then NATS_URL, then config.
func (a *app) natsURL(flag string) string {
	if flag != "" {
		return flag
	}
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}
	return a.cfg.NATS.URL
}

func (a *app) connectNATS(url string) (*nats.Conn, error) {
	a.logger.Debug("Connecting to NATS", "url", url)
	nc, err := publish.Connect(url, a.cfg.NATS.Timeout)
	if err != nil {
		return nil, wrapNATSError(err, url)
	}
	return nc, nil
}

// wrapNATSError adds startup guidance to errors that mean no server is
// reachable.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

To start NATS:
  docker run -d -p 4222:4222 nats:latest -js

Or set NATS_URL environment variable to point to your NATS server.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
