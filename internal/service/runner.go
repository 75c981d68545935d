package service

import (
	"context"
	"log"
	"sync"
)

// TaskRunner launches fire-and-forget background jobs through a single
// tracked abstraction: panics are recovered and logged instead of crashing
// the process, and shutdown can drain in-flight jobs rather than silently
// dropping them.
type TaskRunner struct {
	wg sync.WaitGroup
}

// NewTaskRunner creates an empty runner.
func NewTaskRunner() *TaskRunner {
	return &TaskRunner{}
}

// Go runs fn on its own goroutine. The name is only used for logging.
func (r *TaskRunner) Go(name string, fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("background task %s panicked: %v", name, rec)
			}
		}()
		fn()
	}()
}

// Drain blocks until all in-flight tasks finish or the context expires.
func (r *TaskRunner) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
