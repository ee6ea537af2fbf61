package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mwhitley/reprjson/pkg/convert"
	"github.com/mwhitley/reprjson/pkg/util"
)

// FileJob is one file to convert.
type FileJob struct {
	Path  string
	JobID int
}

// FileResult is the conversion outcome for one file. Result.Success reflects
// the converter's verdict; Err is set only for infrastructure failures
// (unreadable file), never for conversion failures.
type FileResult struct {
	Path   string
	Result convert.ConversionResult
	Err    error
	JobID  int
}

// ConvertFunc converts raw text to a ConversionResult. Injected so that a
// memoizing cache can stand in for the plain converter.
type ConvertFunc func(string) convert.ConversionResult

// WorkerPool converts files concurrently with a fixed set of goroutines fed
// by a buffered job channel.
type WorkerPool struct {
	numWorkers int
	jobs       chan FileJob
	results    chan FileResult
	wg         sync.WaitGroup

	files   *FileCache
	convert ConvertFunc
	logger  *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	started    atomic.Bool
	stopped    atomic.Bool
	jobsClosed atomic.Bool

	jobsSubmitted atomic.Int64
	jobsProcessed atomic.Int64
	jobsFailed    atomic.Int64
}

// NewWorkerPool creates a pool. numWorkers of 0 auto-detects via
// util.GetOptimalPoolSize. A nil convertFn uses convert.Convert directly and
// a nil files cache makes each worker read through a shared new cache.
func NewWorkerPool(numWorkers int, files *FileCache, convertFn ConvertFunc, logger *slog.Logger) *WorkerPool {
	if numWorkers == 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	if convertFn == nil {
		convertFn = convert.Convert
	}
	if files == nil {
		files = NewFileCache(logger)
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan FileJob, numWorkers*2),
		results:    make(chan FileResult, numWorkers),
		files:      files,
		convert:    convertFn,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start spawns the worker goroutines. Must be called before Submit.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		wp.logger.Warn("worker pool already started")
		return
	}

	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			wp.processJob(id, job)
		}
	}
}

func (wp *WorkerPool) processJob(workerID int, job FileJob) {
	content, err := wp.files.Get(job.Path)
	if err != nil {
		wp.jobsFailed.Add(1)
		wp.deliver(FileResult{
			Path:  job.Path,
			Err:   fmt.Errorf("failed to read file: %w", err),
			JobID: job.JobID,
		})
		return
	}

	res := wp.convert(string(content))
	if !res.Success {
		wp.logger.Debug("conversion failed", "worker_id", workerID, "file", job.Path, "error", res.Error)
	}

	wp.jobsProcessed.Add(1)
	wp.deliver(FileResult{Path: job.Path, Result: res, JobID: job.JobID})
}

// deliver sends a result unless the pool has been cancelled, so a worker can
// never block forever on a consumer that went away.
func (wp *WorkerPool) deliver(res FileResult) {
	select {
	case wp.results <- res:
	case <-wp.ctx.Done():
	}
}

// Submit enqueues a job. Blocks when the job channel is full; returns an
// error once the pool is stopped or cancelled.
func (wp *WorkerPool) Submit(job FileJob) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}

	wp.jobsSubmitted.Add(1)

	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool cancelled")
	case wp.jobs <- job:
		return nil
	}
}

// Results returns the channel results are delivered on.
func (wp *WorkerPool) Results() <-chan FileResult {
	return wp.results
}

// CloseJobs signals that no more jobs will be submitted. Workers exit once
// the remaining jobs drain.
func (wp *WorkerPool) CloseJobs() {
	if wp.jobsClosed.CompareAndSwap(false, true) {
		close(wp.jobs)
	}
}

// Wait blocks until all workers have exited.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop cancels outstanding work and waits for workers to exit. Idempotent.
// The jobs channel is left open so a concurrent Submit can never write to a
// closed channel; cancelled workers stop draining it regardless.
func (wp *WorkerPool) Stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	wp.cancel()
	wp.wg.Wait()
}

// PoolStats is a snapshot of the pool counters.
type PoolStats struct {
	Submitted int64
	Processed int64
	Failed    int64
}

// Stats returns current pool counters.
func (wp *WorkerPool) Stats() PoolStats {
	return PoolStats{
		Submitted: wp.jobsSubmitted.Load(),
		Processed: wp.jobsProcessed.Load(),
		Failed:    wp.jobsFailed.Load(),
	}
}
