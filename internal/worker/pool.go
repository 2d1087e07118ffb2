// Package worker runs independent per-file jobs (tokenize, parse, extract)
// across a fixed number of goroutines. Each job is a pure computation over
// its input, so results are written into per-index slots with no locking.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Job pairs an input with its computed result.
type Job[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// WorkFunc processes a single input.
type WorkFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool is a fixed-size worker pool.
type Pool[T any, R any] struct {
	workers int
	work    WorkFunc[T, R]
}

// NewPool creates a pool with the given concurrency. Fewer than one worker
// degrades to sequential processing.
func NewPool[T any, R any](workers int, fn WorkFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, work: fn}
}

// Run processes all inputs and returns one Job per input, in input order.
// Cancelling ctx stops dispatching new inputs; jobs never started carry
// ctx.Err() so callers can tell them apart from completed work.
func (p *Pool[T, R]) Run(ctx context.Context, inputs []T) []Job[T, R] {
	results := make([]Job[T, R], len(inputs))
	indexCh := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-indexCh:
					if !ok {
						return
					}
					result, err := p.work(ctx, inputs[idx])
					results[idx] = Job[T, R]{Input: inputs[idx], Result: result, Err: err}
					if err != nil {
						log.Error().Err(err).Int("worker", workerID).Int("index", idx).Msg("Job failed")
					}
				}
			}
		}(w)
	}

	for i := range inputs {
		select {
		case <-ctx.Done():
			results[i] = Job[T, R]{Input: inputs[i], Err: ctx.Err()}
		case indexCh <- i:
		}
	}
	close(indexCh)

	wg.Wait()
	// Workers that left on ctx.Done may strand dispatched indices in the
	// channel; mark those jobs cancelled too.
	for idx := range indexCh {
		results[idx] = Job[T, R]{Input: inputs[idx], Err: ctx.Err()}
	}
	return results
}
