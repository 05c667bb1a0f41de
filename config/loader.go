package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Config file locations.
const (
	ProjectConfigFile = "rsfgen.yaml"
	UserConfigDir     = ".config/rsfgen"
	UserConfigFile    = "config.yaml"
)

// Loader resolves the effective configuration from defaults and up to three
// files. Later layers override earlier ones field by field.
type Loader struct {
	logger *slog.Logger

	homeDir func() (string, error)
	workDir func() (string, error)
}

// NewLoader creates a loader that looks in the real home and working
// directories.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:  logger,
		homeDir: os.UserHomeDir,
		workDir: os.Getwd,
	}
}

// Load layers, lowest precedence first:
//
//	defaults
//	~/.config/rsfgen/config.yaml
//	the nearest rsfgen.yaml in the working directory or a parent
//	path, when non-empty
//
// A broken user or project file is logged and skipped. The explicit file
// must exist and parse. Flags are applied by the caller afterwards.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	l.mergeOptional(cfg, "user", l.UserConfigPath())
	l.mergeOptional(cfg, "project", l.ProjectConfigPath())

	if path != "" {
		explicit, err := ReadLayer(path)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		l.logger.Debug("Loaded config file", slog.String("path", path))
		cfg.Merge(explicit)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) mergeOptional(cfg *Config, layer, path string) {
	if path == "" {
		l.logger.Debug("No config layer", slog.String("layer", layer))
		return
	}
	layerCfg, err := ReadLayer(path)
	switch {
	case err == nil:
		l.logger.Debug("Loaded config layer", slog.String("layer", layer), slog.String("path", path))
		cfg.Merge(layerCfg)
	case errors.Is(err, os.ErrNotExist):
		l.logger.Debug("No config layer", slog.String("layer", layer), slog.String("path", path))
	default:
		l.logger.Warn("Skipping unreadable config",
			slog.String("layer", layer),
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

// EnsureUserConfig writes the defaults to the user config file unless one
// already exists, and returns its path.
func (l *Loader) EnsureUserConfig() (string, error) {
	path := l.UserConfigPath()
	if path == "" {
		return "", errors.New("cannot determine home directory")
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := DefaultConfig().SaveToFile(path); err != nil {
		return "", err
	}
	l.logger.Info("Created default user config", slog.String("path", path))
	return path, nil
}

// UserConfigPath returns the user config location, or "" without a home
// directory. The file may not exist.
func (l *Loader) UserConfigPath() string {
	home, err := l.homeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// ProjectConfigPath returns the nearest rsfgen.yaml at or above the working
// directory, or "".
func (l *Loader) ProjectConfigPath() string {
	cwd, err := l.workDir()
	if err != nil {
		return ""
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		if filepath.Dir(dir) == dir {
			return ""
		}
	}
}
