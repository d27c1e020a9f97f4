package config

import "github.com/spf13/pflag"

var (
	flagConfig  string
	flagDebug   bool
	flagLogFile string
	flagErrFile string
	flagWorkers int
	flagOutDir  string
)

// RegisterFlags adds the global flags to fs. Call it on the root command's
// persistent flag set.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagConfig, "config", "", "Path to config file")
	fs.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	fs.StringVar(&flagLogFile, "log-file", "", "Append the conversion trace to this file")
	fs.StringVar(&flagErrFile, "err-file", "", "Append failures to this file")
}

// RegisterConvertFlags adds the batch conversion flags to fs.
func RegisterConvertFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&flagWorkers, "workers", "j", 0, "Documents converted in parallel (0 = config default)")
	fs.StringVar(&flagOutDir, "out-dir", "", "Directory for OBJ files (default: next to each input)")
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagLogFile != "" {
		cfg.Logging.LogFile = flagLogFile
	}
	if flagErrFile != "" {
		cfg.Logging.ErrFile = flagErrFile
	}
	if flagWorkers > 0 {
		cfg.Convert.Workers = flagWorkers
	}
	if flagOutDir != "" {
		cfg.Convert.OutDir = flagOutDir
	}
}
