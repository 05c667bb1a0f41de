// Package config provides configuration loading and management for rsfgen.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360studio/rsfgen/export"
	"github.com/c360studio/rsfgen/output"
	"gopkg.in/yaml.v3"
)

// Config represents the complete rsfgen configuration
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Data    DataConfig    `yaml:"data"`
	Export  ExportConfig  `yaml:"export"`
	Metrics MetricsConfig `yaml:"metrics"`
	NATS    NATSConfig    `yaml:"nats"`
	Storage StorageConfig `yaml:"storage"`
	Watch   WatchConfig   `yaml:"watch"`
}

// OutputConfig configures the JSON taxonomy file
type OutputConfig struct {
	// Path is where the JSON array is written (default: public/data/robot-smartfactory.json)
	Path string `yaml:"path"`
	// SplitDir also receives one <skill_id>.json per record (empty = disabled)
	SplitDir string `yaml:"split_dir"`
}

// DataConfig configures the source tables
type DataConfig struct {
	// Path is a YAML tables file (empty = tables embedded in the binary)
	Path string `yaml:"path"`
	// Domains restricts generation to domains matching these globs (empty = all)
	Domains []string `yaml:"domains"`
}

// ExportConfig configures linked-data export alongside the JSON file
type ExportConfig struct {
	// Dir receives one file per format (empty = no export during generate)
	Dir string `yaml:"dir"`
	// Formats lists serializations: turtle, ntriples, jsonld
	Formats []string `yaml:"formats"`
	// Profile selects type assertions: minimal or esco
	Profile string `yaml:"profile"`
}

// MetricsConfig configures the Prometheus textfile
type MetricsConfig struct {
	// Textfile is the .prom file to write (empty = disabled)
	Textfile string `yaml:"textfile"`
	// Namespace prefixes metric names (default: rsf)
	Namespace string `yaml:"namespace"`
}

// NATSConfig configures record publishing
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// SubjectPrefix is prepended to <domain>.<skill_type> (default: rsf.skills)
	SubjectPrefix string `yaml:"subject_prefix"`
	// Timeout bounds connect and flush
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig configures the SQL stores used by seed
type StorageConfig struct {
	// SQLitePath is a SQLite database file
	SQLitePath string `yaml:"sqlite_path"`
	// PostgresDSN is a PostgreSQL connection string
	PostgresDSN string `yaml:"postgres_dsn"`
	// Timeout bounds the whole seed operation
	Timeout time.Duration `yaml:"timeout"`
}

// WatchConfig configures regeneration on data file changes
type WatchConfig struct {
	// Debounce is how long to wait for more changes before regenerating
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Path: output.DefaultPath,
		},
		Data: DataConfig{
			Path:    "", // Embedded tables
			Domains: nil,
		},
		Export: ExportConfig{
			Dir:     "",
			Formats: []string{string(export.FormatTurtle)},
			Profile: string(export.ProfileESCO),
		},
		Metrics: MetricsConfig{
			Textfile:  "",
			Namespace: "rsf",
		},
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "rsf.skills",
			Timeout:       10 * time.Second,
		},
		Storage: StorageConfig{
			Timeout: 2 * time.Minute,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Path == "" {
		return fmt.Errorf("output.path is required")
	}
	for _, f := range c.Export.Formats {
		if _, err := export.ParseFormat(f); err != nil {
			return fmt.Errorf("export.formats: %w", err)
		}
	}
	if _, err := export.ParseProfile(c.Export.Profile); err != nil {
		return fmt.Errorf("export.profile: %w", err)
	}
	if c.Metrics.Namespace == "" {
		return fmt.Errorf("metrics.namespace is required")
	}
	if c.NATS.SubjectPrefix == "" || strings.ContainsAny(c.NATS.SubjectPrefix, " *>") {
		return fmt.Errorf("nats.subject_prefix must be a literal subject, got %q", c.NATS.SubjectPrefix)
	}
	if c.NATS.Timeout <= 0 {
		return fmt.Errorf("nats.timeout must be positive")
	}
	if c.Storage.Timeout <= 0 {
		return fmt.Errorf("storage.timeout must be positive")
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file over the defaults.
// Environment variables are expanded before parsing (see ExpandEnvWithDefaults).
func LoadFromFile(path string) (*Config, error) {
	layer, err := ReadLayer(path)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	config.Merge(layer)
	return config, nil
}

// ReadLayer parses a YAML file into an otherwise zero Config, so only the
// fields the file sets are non-zero. Layers are combined with Merge.
func ReadLayer(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	layer := &Config{}
	if err := yaml.Unmarshal([]byte(ExpandEnvWithDefaults(string(data))), layer); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return layer, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Output
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}
	if other.Output.SplitDir != "" {
		c.Output.SplitDir = other.Output.SplitDir
	}

	// Data
	if other.Data.Path != "" {
		c.Data.Path = other.Data.Path
	}
	if len(other.Data.Domains) > 0 {
		c.Data.Domains = other.Data.Domains
	}

	// Export
	if other.Export.Dir != "" {
		c.Export.Dir = other.Export.Dir
	}
	if len(other.Export.Formats) > 0 {
		c.Export.Formats = other.Export.Formats
	}
	if other.Export.Profile != "" {
		c.Export.Profile = other.Export.Profile
	}

	// Metrics
	if other.Metrics.Textfile != "" {
		c.Metrics.Textfile = other.Metrics.Textfile
	}
	if other.Metrics.Namespace != "" {
		c.Metrics.Namespace = other.Metrics.Namespace
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}
	if other.NATS.Timeout != 0 {
		c.NATS.Timeout = other.NATS.Timeout
	}

	// Storage
	if other.Storage.SQLitePath != "" {
		c.Storage.SQLitePath = other.Storage.SQLitePath
	}
	if other.Storage.PostgresDSN != "" {
		c.Storage.PostgresDSN = other.Storage.PostgresDSN
	}
	if other.Storage.Timeout != 0 {
		c.Storage.Timeout = other.Storage.Timeout
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}
}
