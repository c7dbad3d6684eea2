package twsnip

import (
	"context"
	"sync"
)

// RunFunc performs one regeneration. trigger names what asked for it.
type RunFunc func(ctx context.Context, trigger string) (Result, error)

// Runner serializes regenerations. At most one run executes at a time;
// background triggers that arrive while a run is in flight collapse into
// exactly one follow-up run, which starts after the current one and reads
// the settings current at that point.
type Runner struct {
	fn      RunFunc
	onError func(trigger string, err error)

	exec sync.Mutex // Held while a run executes

	mu     sync.Mutex
	queued bool // A background run is waiting for exec
	closed bool
	wg     sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRunner creates a runner. onError receives failures of background
// runs; synchronous callers get their error returned instead.
func NewRunner(fn RunFunc, onError func(trigger string, err error)) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	if onError == nil {
		onError = func(string, error) {}
	}
	return &Runner{fn: fn, onError: onError, ctx: ctx, cancel: cancel}
}

// Run waits for any in-flight run, then runs and returns its result.
func (r *Runner) Run(ctx context.Context, trigger string) (Result, error) {
	r.exec.Lock()
	defer r.exec.Unlock()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return r.fn(ctx, trigger)
}

// Trigger schedules a background run and returns immediately. A trigger
// is dropped when a background run is already waiting to start.
func (r *Runner) Trigger(trigger string) {
	r.mu.Lock()
	if r.closed || r.queued {
		r.mu.Unlock()
		return
	}
	r.queued = true
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()

		r.exec.Lock()
		defer r.exec.Unlock()

		// Triggers from now on queue the next follow-up
		r.mu.Lock()
		r.queued = false
		r.mu.Unlock()

		if r.ctx.Err() != nil {
			return
		}
		if _, err := r.fn(r.ctx, trigger); err != nil && r.ctx.Err() == nil {
			r.onError(trigger, err)
		}
	}()
}

// Close cancels background runs and waits for them to finish.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()
}
