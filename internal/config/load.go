package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "geo2obj.yaml"

// Load builds the effective configuration. Later sources override earlier
// ones: Default, then the config file, then command-line flags.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	// A zero or negative count from the file would stall batch mode.
	cfg.Convert.Workers = max(cfg.Convert.Workers, 1)

	return cfg, nil
}

// searchPaths lists where a config file is looked for when --config is not
// given, most specific first.
func searchPaths() []string {
	return []string{
		FileName,
		DefaultPath(),
	}
}

// findConfigFile returns the first existing search path, or "".
func findConfigFile() string {
	for _, path := range searchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for geo2obj.
func ConfigDir() string {
	home, _ := os.UserHomeDir()

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Geo2Obj")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Geo2Obj")
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "geo2obj")
	}
	return filepath.Join(home, ".config", "geo2obj")
}

// loadFromFile merges the YAML file at path over cfg. Keys that do not
// belong to Config are rejected so that typos surface instead of being
// silently ignored. An empty file leaves cfg unchanged.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
