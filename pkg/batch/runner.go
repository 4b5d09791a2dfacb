// Package batch provides a bounded worker pool for running indexed jobs
// concurrently while preserving result order.
package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds runner configuration.
type Config struct {
	// MaxConcurrency is the maximum number of parallel jobs.
	MaxConcurrency int

	// Timeout bounds each individual job.
	Timeout time.Duration
}

// DefaultConfig returns safe defaults for API fan-out.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 10,
		Timeout:        15 * time.Second,
	}
}

// Runner executes indexed jobs with bounded concurrency.
type Runner struct {
	config Config
}

// NewRunner creates a runner, falling back to defaults for zero fields.
func NewRunner(config Config) *Runner {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 10
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &Runner{config: config}
}

// Run executes jobs 0..n-1 and returns their errors index-aligned with
// the jobs. Every job is attempted even when others fail; a cancelled
// context marks the remaining jobs with ctx.Err.
func (r *Runner) Run(ctx context.Context, n int, job func(ctx context.Context, index int) error) []error {
	if n <= 0 {
		return nil
	}

	start := time.Now()
	errs := make([]error, n)

	queue := make(chan int, n)
	for i := 0; i < n; i++ {
		queue <- i
	}
	close(queue)

	workers := r.config.MaxConcurrency
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				select {
				case <-ctx.Done():
					errs[i] = ctx.Err()
					continue
				default:
				}

				jobCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
				errs[i] = job(jobCtx, i)
				cancel()
			}
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	log.Debug().
		Int("jobs", n).
		Int("workers", workers).
		Int("failed", failed).
		Dur("duration", time.Since(start)).
		Msg("Batch complete")

	return errs
}
