package service

import (
	"context"

	"github.com/rs/zerolog"
)

// TaskRunner schedules work that outlives the request that triggered it.
// There is no completion channel back to the caller; a scheduled task may
// finish arbitrarily later or not at all (process restart).
type TaskRunner interface {
	Schedule(task func(ctx context.Context))
}

type goroutineTaskRunner struct {
	logger zerolog.Logger
}

// NewGoroutineTaskRunner returns a fire-and-forget runner backed by goroutines.
func NewGoroutineTaskRunner(logger zerolog.Logger) TaskRunner {
	return &goroutineTaskRunner{
		logger: logger.With().Str("component", "task_runner").Logger(),
	}
}

func (r *goroutineTaskRunner) Schedule(task func(ctx context.Context)) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error().Interface("panic", rec).Msg("background task panicked")
			}
		}()

		// Background tasks are detached from the request context so an
		// abandoned request does not cancel already-scheduled grading.
		task(context.Background())
	}()
}

// synchronousTaskRunner runs tasks inline; used in tests for determinism.
type synchronousTaskRunner struct{}

// NewSynchronousTaskRunner returns a runner that executes tasks immediately.
func NewSynchronousTaskRunner() TaskRunner {
	return synchronousTaskRunner{}
}

func (synchronousTaskRunner) Schedule(task func(ctx context.Context)) {
	task(context.Background())
}
