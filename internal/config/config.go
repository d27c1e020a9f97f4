// Package config handles converter configuration loading and management.
package config

import "runtime"

// Config holds all converter settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Convert ConvertConfig `yaml:"convert"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"` // Conversion trace, all levels
	ErrFile    string `yaml:"err_file"` // Failures only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ConvertConfig holds batch conversion settings.
type ConvertConfig struct {
	Workers int    `yaml:"workers"` // Parallel documents in batch mode
	OutDir  string `yaml:"out_dir"` // Empty writes next to each input
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			ErrFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Convert: ConvertConfig{
			Workers: runtime.NumCPU(),
			OutDir:  "",
		},
	}
}
