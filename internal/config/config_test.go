package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.ErrFile != "" {
		t.Errorf("expected empty error file, got %s", cfg.Logging.ErrFile)
	}
	if cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("expected max size 50, got %d", cfg.Logging.MaxSizeMB)
	}
	if !cfg.Logging.Compress {
		t.Error("expected compress to be true by default")
	}

	// Test convert defaults
	if cfg.Convert.Workers != runtime.NumCPU() {
		t.Errorf("expected %d workers, got %d", runtime.NumCPU(), cfg.Convert.Workers)
	}
	if cfg.Convert.OutDir != "" {
		t.Errorf("expected empty out dir, got %s", cfg.Convert.OutDir)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
logging:
  level: "debug"
  log_file: "geo2obj.log"
  err_file: "geo2obj.err"
  max_backups: 10

convert:
  workers: 2
  out_dir: "/tmp/objs"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "geo2obj.log" {
		t.Errorf("expected log file 'geo2obj.log', got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.ErrFile != "geo2obj.err" {
		t.Errorf("expected error file 'geo2obj.err', got %s", cfg.Logging.ErrFile)
	}
	if cfg.Logging.MaxBackups != 10 {
		t.Errorf("expected max backups 10, got %d", cfg.Logging.MaxBackups)
	}
	// Values absent from the file keep their defaults
	if cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("expected max size 50 to survive, got %d", cfg.Logging.MaxSizeMB)
	}

	if cfg.Convert.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Convert.Workers)
	}
	if cfg.Convert.OutDir != "/tmp/objs" {
		t.Errorf("expected out dir /tmp/objs, got %s", cfg.Convert.OutDir)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
convert:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "geo2obj.yaml")
	if err := os.WriteFile(configPath, []byte("convert:\n  workers: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find geo2obj.yaml in current directory")
	}
}

func TestRegisterFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	RegisterConvertFlags(fs)
	defer func() {
		flagDebug = false
		flagLogFile = ""
		flagWorkers = 0
	}()

	if err := fs.Parse([]string{"--debug", "--log-file", "trace.log", "-j", "6"}); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}

	cfg := Default()
	applyFlags(cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "trace.log" {
		t.Errorf("expected log file trace.log, got %s", cfg.Logging.LogFile)
	}
	if cfg.Convert.Workers != 6 {
		t.Errorf("expected 6 workers, got %d", cfg.Convert.Workers)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				flagDebug = false
			},
		},
		{
			name: "log destinations",
			setup: func() {
				flagLogFile = "out.log"
				flagErrFile = "out.err"
			},
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file out.log, got %s", cfg.Logging.LogFile)
				}
				if cfg.Logging.ErrFile != "out.err" {
					t.Errorf("expected error file out.err, got %s", cfg.Logging.ErrFile)
				}
			},
			teardown: func() {
				flagLogFile = ""
				flagErrFile = ""
			},
		},
		{
			name: "out dir flag",
			setup: func() {
				flagOutDir = "converted"
			},
			verify: func(cfg *Config) {
				if cfg.Convert.OutDir != "converted" {
					t.Errorf("expected out dir 'converted', got %s", cfg.Convert.OutDir)
				}
			},
			teardown: func() {
				flagOutDir = ""
			},
		},
		{
			name:  "zero workers keeps default",
			setup: func() {},
			verify: func(cfg *Config) {
				if cfg.Convert.Workers != runtime.NumCPU() {
					t.Errorf("expected default workers, got %d", cfg.Convert.Workers)
				}
			},
			teardown: func() {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
convert:
  workers: 2
  out_dir: "from-file"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	flagConfig = configPath
	flagWorkers = 8
	defer func() {
		flagConfig = ""
		flagWorkers = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Workers should be from flag (8), not file (2)
	if cfg.Convert.Workers != 8 {
		t.Errorf("expected 8 workers from flag, got %d", cfg.Convert.Workers)
	}

	// Out dir should be from file since no flag override
	if cfg.Convert.OutDir != "from-file" {
		t.Errorf("expected out dir from file, got %s", cfg.Convert.OutDir)
	}
}

func TestLoadClampsWorkers(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("convert:\n  workers: -4\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	flagConfig = configPath
	defer func() { flagConfig = "" }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Convert.Workers != 1 {
		t.Errorf("expected workers clamped to 1, got %d", cfg.Convert.Workers)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Logging.LogFile = "trace.log"
	cfg.Convert.Workers = 5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := &Config{}
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("reloaded config %+v differs from saved %+v", loaded, cfg)
	}
}

func TestSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("APPDATA", filepath.Join(home, "appdata"))

	cfg := Default()
	cfg.Convert.OutDir = "objs"
	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := &Config{}
	if err := loadFromFile(loaded, DefaultPath()); err != nil {
		t.Fatalf("failed to reload config from %s: %v", DefaultPath(), err)
	}
	if loaded.Convert.OutDir != "objs" {
		t.Errorf("expected out dir 'objs', got %s", loaded.Convert.OutDir)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("convert:\n  worker: 4\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for misspelled key, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("expected empty config to load, got %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("empty config changed values: %+v", cfg)
	}
}
