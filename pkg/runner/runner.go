package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/convert"
)

// Runner converts many files with a shared Converter.
type Runner struct {
	Converter *convert.Converter
}

// New creates a new Runner with the given converter.
func New(conv *convert.Converter) *Runner {
	return &Runner{Converter: conv}
}

// Run discovers files under opts.Paths and converts them concurrently.
// Per-file failures are recorded in the result; only discovery errors and
// cancellation are returned as errors.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := logging.FromContext(ctx).With(logging.FieldRunID, runID)
	ctx = logging.WithLogger(ctx, logger)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID: runID,
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		result.Elapsed = time.Since(start)
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	logger.Debug("run started",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
	)

	// Outcomes are written by index so order follows discovery order.
	outcomes := make([]FileOutcome, len(files))

	var group errgroup.Group
	group.SetLimit(jobs)

	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		group.Go(func() error {
			outcomes[i] = r.convert(ctx, path)
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}
	result.Elapsed = time.Since(start)

	logger.Debug("run finished",
		logging.FieldFilesConverted, result.Stats.FilesConverted,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldNodes, result.Stats.Nodes,
		logging.FieldElapsed, result.Elapsed,
	)

	return result, nil
}

func (r *Runner) convert(ctx context.Context, path string) FileOutcome {
	res, err := r.Converter.ConvertFile(ctx, path)
	if err != nil {
		logging.FromContext(ctx).Debug("conversion failed",
			logging.FieldPath, path,
			logging.FieldError, err,
		)
		return FileOutcome{Path: path, Error: err}
	}
	return FileOutcome{Path: path, Result: res}
}
