package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"subtitle/internal/fileutil"
	"subtitle/internal/generator"
	"subtitle/internal/logging"
	"subtitle/internal/services"
)

// ConcurrentProcessor processes many files through a bounded worker pool.
// Each unit of work drives its own engine subprocess, so units are
// isolated from each other; the pool only bounds how many run at once.
//
// Results are awaited in submission order: a later task may already be
// done while an earlier one is still being waited on. Completion-order
// reporting would surface faster files sooner, but submission order is the
// contract callers rely on for stable progress output.
type ConcurrentProcessor struct {
	gen        *generator.Generator
	maxWorkers int
	logger     *slog.Logger

	mu      sync.Mutex
	tasks   chan func()
	started bool
	closed  bool
	workers sync.WaitGroup
	senders sync.WaitGroup
}

// NewConcurrentProcessor constructs a pool-backed processor. A worker
// count below one is clamped to exactly one.
func NewConcurrentProcessor(gen *generator.Generator, maxWorkers int, logger *slog.Logger) (*ConcurrentProcessor, error) {
	if gen == nil {
		return nil, services.Wrap(services.ErrValidation, "batch", "new", "a generator is required", nil)
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &ConcurrentProcessor{gen: gen, maxWorkers: maxWorkers, logger: logger}, nil
}

// MaxWorkers returns the effective pool size.
func (c *ConcurrentProcessor) MaxWorkers() int { return c.maxWorkers }

// ensurePool starts the workers on first use so a processor that never
// runs anything never spawns them.
func (c *ConcurrentProcessor) ensurePool() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.tasks = make(chan func())
	for i := 0; i < c.maxWorkers; i++ {
		c.workers.Add(1)
		go func() {
			defer c.workers.Done()
			for task := range c.tasks {
				task()
			}
		}()
	}
	c.started = true
}

// submit queues one unit of work without blocking and returns the channel
// its result will arrive on. A panic inside the unit becomes a failure
// result instead of taking down the pool.
func (c *ConcurrentProcessor) submit(run func() FileResult) <-chan FileResult {
	c.ensurePool()
	out := make(chan FileResult, 1)

	task := func() {
		defer func() {
			if r := recover(); r != nil {
				out <- FileResult{
					Success:   false,
					Error:     fmt.Sprintf("worker panic: %v", r),
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				}
			}
		}()
		out <- run()
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		out <- FileResult{
			Success:   false,
			Error:     "processor is shut down",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		return out
	}
	tasks := c.tasks
	// The hand-off runs in its own goroutine so submission never blocks on
	// a busy pool; Shutdown waits for in-flight hand-offs before closing
	// the task channel.
	c.senders.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.senders.Done()
		tasks <- task
	}()
	return out
}

// ProcessSingle processes one file through the pool. A missing file is
// reported as a failure result without touching the pool.
func (c *ConcurrentProcessor) ProcessSingle(ctx context.Context, path, model, format, outputDir string) FileResult {
	if !fileutil.FileExists(path) {
		return FileResult{
			FilePath:  path,
			Success:   false,
			Error:     fmt.Sprintf("file not found: %s", path),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
	}
	if outputDir == "" {
		outputDir = filepath.Dir(path)
	}
	result := <-c.submit(func() FileResult {
		return processFile(ctx, c.gen, path, model, format, outputDir, c.logger)
	})
	if result.FilePath == "" {
		result.FilePath = path
	}
	return result
}

// ProcessMultiple submits one unit of work per path (up to MaxWorkers run
// at once, the rest queue) and awaits the results in submission order,
// firing progress events as each submitted result is reached. An empty
// input returns an all-zero summary without starting the pool. An empty
// outputDir places each artifact next to its source file.
func (c *ConcurrentProcessor) ProcessMultiple(ctx context.Context, paths []string, model, format, outputDir string, progress ProgressFunc) Summary {
	if len(paths) == 0 {
		return Summary{Results: []FileResult{}}
	}

	start := time.Now()
	total := len(paths)

	pending := make([]<-chan FileResult, 0, total)
	for _, path := range paths {
		path := path
		fileOutputDir := outputDir
		if fileOutputDir == "" {
			fileOutputDir = filepath.Dir(path)
		}
		pending = append(pending, c.submit(func() FileResult {
			return processFile(ctx, c.gen, path, model, format, fileOutputDir, c.logger)
		}))
	}

	results := make([]FileResult, 0, total)
	for idx, ch := range pending {
		path := paths[idx]
		if progress != nil {
			progress(path, idx+1, total, "processing")
		}

		result := <-ch
		if result.FilePath == "" {
			result.FilePath = path
		}
		results = append(results, result)

		if progress != nil {
			status := "complete"
			if !result.Success {
				status = "failed: " + result.Error
			}
			progress(path, idx+1, total, status)
		}
	}

	return summarize(results, total, 0, time.Since(start))
}

// Shutdown stops the workers and releases pool resources. It is safe to
// call repeatedly and on every exit path; pending queued tasks are still
// drained by the workers before they exit.
func (c *ConcurrentProcessor) Shutdown() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	started := c.started
	c.mu.Unlock()

	if started {
		c.senders.Wait()
		close(c.tasks)
		c.workers.Wait()
	}
}

// Close makes ConcurrentProcessor usable with defer for scoped acquisition.
func (c *ConcurrentProcessor) Close() error {
	c.Shutdown()
	return nil
}
