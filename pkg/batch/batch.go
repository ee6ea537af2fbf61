// Package batch converts repr dumps on disk in bulk: glob discovery, an
// mmap-backed read cache, and a worker pool that runs the converter over
// every matched file.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// Options configures one batch run.
type Options struct {
	// Scan holds include/exclude globs. Zero value uses DefaultScanConfig.
	Scan ScanConfig

	// Workers is the pool size; 0 auto-detects.
	Workers int

	// WriteOutputs writes each successful conversion next to its input as
	// <path>.json. When false, results are only reported.
	WriteOutputs bool

	// Convert overrides the conversion function (e.g. a memoizing cache).
	Convert ConvertFunc
}

// Outcome is the per-file result of a batch run.
type Outcome struct {
	Path    string
	Success bool
	JSON    string
	Error   string
}

// Summary aggregates a batch run.
type Summary struct {
	Discovered int
	Converted  int
	Failed     int
}

// Runner executes batch conversions.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a Runner. A nil logger falls back to slog.Default().
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run discovers files under rootDir and converts them concurrently. The
// returned outcomes are sorted by path. Conversion failures are reported in
// the outcomes and the summary, not as an error; the returned error covers
// discovery and I/O setup problems and context cancellation only.
func (r *Runner) Run(ctx context.Context, rootDir string, opts Options) (Summary, []Outcome, error) {
	scan := opts.Scan
	if len(scan.Include) == 0 && len(scan.Exclude) == 0 {
		scan = DefaultScanConfig()
	}

	files, err := DiscoverFiles(rootDir, scan)
	if err != nil {
		return Summary{}, nil, fmt.Errorf("discovery failed: %w", err)
	}

	summary := Summary{Discovered: len(files)}
	if len(files) == 0 {
		return summary, nil, nil
	}

	fileCache := NewFileCache(r.logger)
	defer fileCache.Close()

	pool := NewWorkerPool(opts.Workers, fileCache, opts.Convert, r.logger)
	pool.Start()
	defer pool.Stop()

	go func() {
		for i, path := range files {
			if err := pool.Submit(FileJob{Path: path, JobID: i}); err != nil {
				return
			}
		}
		pool.CloseJobs()
	}()

	outcomes := make([]Outcome, 0, len(files))
	for range files {
		if err := ctx.Err(); err != nil {
			return summary, outcomes, err
		}
		select {
		case <-ctx.Done():
			return summary, outcomes, ctx.Err()
		case res := <-pool.Results():
			outcome := Outcome{Path: res.Path}
			switch {
			case res.Err != nil:
				outcome.Error = res.Err.Error()
			case res.Result.Success:
				outcome.Success = true
				outcome.JSON = res.Result.JSON
			default:
				outcome.Error = res.Result.Error
			}
			outcomes = append(outcomes, outcome)
		}
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Path < outcomes[j].Path })

	for i := range outcomes {
		if !outcomes[i].Success {
			summary.Failed++
			r.logger.Warn("conversion failed", "file", outcomes[i].Path, "error", outcomes[i].Error)
			continue
		}
		summary.Converted++

		if opts.WriteOutputs {
			outPath := outcomes[i].Path + ".json"
			if err := os.WriteFile(outPath, []byte(outcomes[i].JSON+"\n"), 0644); err != nil {
				return summary, outcomes, fmt.Errorf("failed to write %q: %w", outPath, err)
			}
			r.logger.Info("wrote converted output", "file", outPath)
		}
	}

	return summary, outcomes, nil
}
