// Package convert runs GEO to OBJ conversions and reports their outcome.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/geo2obj/pkg/geo"
	"github.com/Faultbox/geo2obj/pkg/obj"
)

// ErrDuplicateOutput is returned by Plan when two inputs map to one output.
var ErrDuplicateOutput = errors.New("several inputs map to the same output")

// Job is one conversion.
type Job struct {
	Input  string
	Output string
}

// Result describes a finished Job.
type Result struct {
	Job      Job
	Points   int
	Polygons int
	Size     int64 // Bytes written
	Elapsed  time.Duration
	Err      error
}

// Converter parses GEO files and writes OBJ files.
type Converter struct {
	log    *zap.Logger
	parser *geo.Parser
}

// New creates a Converter that reports progress to log.
func New(log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{
		log:    log,
		parser: geo.NewParser(geo.WithLogger(log.Named("geo"))),
	}
}

// OutputPath returns the default OBJ path for input: the same base name
// with .obj, next to the input or in outDir when it is set. Compression
// suffixes are stripped along with the format extension, so mesh.geo.gz
// becomes mesh.obj.
func OutputPath(input, outDir string) string {
	base := strings.TrimSuffix(input, ".gz")
	base = strings.TrimSuffix(base, filepath.Ext(base)) + obj.Extension
	if outDir != "" {
		return filepath.Join(outDir, filepath.Base(base))
	}
	return base
}

// Plan builds one Job per input using OutputPath.
func Plan(inputs []string, outDir string) ([]Job, error) {
	jobs := make([]Job, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := OutputPath(in, outDir)
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrDuplicateOutput, prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, Job{Input: in, Output: out})
	}
	return jobs, nil
}

// Inspect parses input without writing anything.
func (c *Converter) Inspect(input string) (*geo.Geometry, error) {
	return c.parser.ParseFile(input)
}

// Convert parses job.Input and, only if that fully succeeds, writes
// job.Output. The outcome is logged and returned; Result.Err is nil on
// success.
func (c *Converter) Convert(job Job) Result {
	start := time.Now()
	log := c.log.With(zap.String("input", job.Input))
	log.Info("converting")

	res := Result{Job: job}
	res.Err = c.convert(&res)
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		log.Error("conversion failed", zap.Error(res.Err))
		return res
	}

	log.Info("done",
		zap.String("output", job.Output),
		zap.Int("points", res.Points),
		zap.Int("polygons", res.Polygons),
		zap.String("size", humanize.Bytes(uint64(res.Size))),
		zap.Duration("elapsed", res.Elapsed))
	return res
}

func (c *Converter) convert(res *Result) error {
	g, err := c.parser.ParseFile(res.Job.Input)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", res.Job.Input, err)
	}
	res.Points = len(g.Points)
	res.Polygons = len(g.Polygons)

	if err := obj.WriteFile(res.Job.Output, g); err != nil {
		return fmt.Errorf("writing %s: %w", res.Job.Output, err)
	}

	if info, err := os.Stat(res.Job.Output); err == nil {
		res.Size = info.Size()
	}
	return nil
}

// Batch converts jobs with at most workers conversions in flight. Every
// job runs to completion regardless of the others failing; results are in
// job order. Once ctx is done no new jobs start and the remaining results
// carry ctx.Err().
func (c *Converter) Batch(ctx context.Context, jobs []Job, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Job: job, Err: err}
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Job: job, Err: err}
				return nil
			}
			results[i] = c.Convert(job)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
