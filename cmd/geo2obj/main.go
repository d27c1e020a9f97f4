// geo2obj converts Houdini GEO documents into Wavefront OBJ meshes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/geo2obj/internal/config"
	"github.com/Faultbox/geo2obj/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app carries the state shared by all commands once flags are parsed.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "geo2obj",
		Short: "Convert Houdini GEO files to Wavefront OBJ",
		Long: `geo2obj - Houdini GEO to Wavefront OBJ converter

Reads the JSON flavour of Houdini's .geo format (optionally gzip-compressed)
and writes polygon meshes as .obj files with positions, normals and UVs.`,
		Example: `  geo2obj convert box.geo
  geo2obj convert box.geo /tmp/box.obj
  geo2obj batch -j 8 --out-dir ./obj scenes/*.geo
  geo2obj info box.geo
  geo2obj config init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if err := initLogger(cfg.Logging); err != nil {
				return err
			}

			logger.Debug("configuration loaded",
				zap.String("config", config.ConfigPath()),
				zap.String("level", cfg.Logging.Level),
				zap.Int("workers", cfg.Convert.Workers))
			return nil
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		a.newConvertCmd(),
		a.newBatchCmd(),
		a.newInfoCmd(),
		a.newConfigCmd(),
	)
	return root
}

// initLogger attaches the configured log destinations.
func initLogger(cfg config.LoggingConfig) error {
	file := func(path string) logger.FileConfig {
		if path == "" {
			return logger.FileConfig{}
		}
		return logger.FileConfig{
			Path:       path,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
	}

	return logger.InitWithOptions(logger.Options{
		Level:     cfg.Level,
		Console:   true,
		File:      file(cfg.LogFile),
		ErrorFile: file(cfg.ErrFile),
	})
}
