package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Faultbox/geo2obj/internal/config"
	"github.com/Faultbox/geo2obj/internal/convert"
	"github.com/Faultbox/geo2obj/internal/logger"
)

func (a *app) converter() *convert.Converter {
	return convert.New(logger.Named("convert"))
}

func (a *app) newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input.geo> [output.obj]",
		Short: "Convert one GEO file",
		Long: `Convert one GEO file. Without an output path the OBJ is written next to
the input with the same base name.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			job := convert.Job{Input: args[0], Output: convert.OutputPath(args[0], "")}
			if len(args) > 1 {
				job.Output = args[1]
			}

			res := a.converter().Convert(job)
			if res.Err != nil {
				return res.Err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Converted: %s (%s)\n", res.Job.Output, humanize.Bytes(uint64(res.Size)))
			return nil
		},
	}
}

func (a *app) newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <input.geo>...",
		Short: "Convert many GEO files in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir := a.cfg.Convert.OutDir
			jobs, err := convert.Plan(args, outDir)
			if err != nil {
				return err
			}
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return fmt.Errorf("creating output directory: %w", err)
				}
			}

			results := a.converter().Batch(cmd.Context(), jobs, a.cfg.Convert.Workers)

			out := cmd.OutOrStdout()
			var total int64
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Failed:    %s: %v\n", r.Job.Input, r.Err)
					continue
				}
				total += r.Size
				fmt.Fprintf(out, "Converted: %s\n", r.Job.Output)
			}

			failed := convert.Failed(results)
			fmt.Fprintf(cmd.ErrOrStderr(), "\n(%d of %d files converted, %s written)\n",
				len(results)-len(failed), len(results), humanize.Bytes(uint64(total)))

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d conversions failed", len(failed), len(results))
			}
			return nil
		},
	}
	config.RegisterConvertFlags(cmd.Flags())
	return cmd
}

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.geo>",
		Short: "Show what a GEO file contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			stat, err := os.Stat(path)
			if err != nil {
				return err
			}

			g, err := a.converter().Inspect(path)
			if err != nil {
				return err
			}

			closed := 0
			for _, p := range g.Polygons {
				if p.Closed {
					closed++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:      %s (%s)\n", path, humanize.Bytes(uint64(stat.Size())))
			if g.FileVersion != "" {
				fmt.Fprintf(out, "Version:   %s\n", g.FileVersion)
			}
			fmt.Fprintf(out, "Points:    %s\n", humanize.Comma(int64(len(g.Points))))
			fmt.Fprintf(out, "Vertices:  %s\n", humanize.Comma(int64(len(g.PointRefs))))
			fmt.Fprintf(out, "Polygons:  %s (%s closed)\n",
				humanize.Comma(int64(len(g.Polygons))), humanize.Comma(int64(closed)))
			fmt.Fprintf(out, "Normals:   %s\n", g.NormalBinding)
			fmt.Fprintf(out, "UVs:       %s\n", g.UVBinding)
			if lo, hi, ok := g.Bounds(); ok {
				fmt.Fprintf(out, "Bounds:    (%g, %g, %g) - (%g, %g, %g)\n", lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
				center := lo.Add(hi).Scale(0.5)
				fmt.Fprintf(out, "Center:    (%g, %g, %g)\n", center.X, center.Y, center.Z)
				fmt.Fprintf(out, "Diagonal:  %g\n", hi.Sub(lo).Length())
			}
			for _, m := range g.CountMismatches() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning:   %s\n", m)
			}
			return nil
		},
	}
}

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration as YAML",
		Long: fmt.Sprintf(`Write the effective configuration (defaults, config file and flags merged)
as YAML. Without a path it is written to %s.`, config.DefaultPath()),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()
			save := a.cfg.Save
			if len(args) > 0 {
				path = args[0]
				save = func() error { return a.cfg.SaveTo(path) }
			}
			if err := save(); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})
	return cmd
}
