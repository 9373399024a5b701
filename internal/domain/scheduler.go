package domain

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// ResultHandler receives every terminal result. Calls are serialized on the
// goroutine that called Scheduler.Run.
type ResultHandler func(mutation m.Mutation, result m.Result) error

// Scheduler gates a session on a passing baseline and then runs mutations on a
// bounded worker pool.
type Scheduler interface {
	// Run returns a *BaselineFailure without running any mutant when the
	// baseline does not pass. A cancelled session returns an error wrapping
	// ErrSessionIncomplete after every in-flight run has stopped.
	Run(ctx context.Context, mutations []m.Mutation, threads int, handle ResultHandler) error
}

type scheduler struct {
	Orchestrator
}

// NewScheduler creates a new Scheduler instance.
func NewScheduler(orchestrator Orchestrator) Scheduler {
	return &scheduler{Orchestrator: orchestrator}
}

type completedRun struct {
	mutation m.Mutation
	result   m.Result
}

func (s *scheduler) Run(ctx context.Context, mutations []m.Mutation, threads int, handle ResultHandler) error {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	if err := s.Baseline(ctx); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrSessionIncomplete, err)
		}

		return err
	}

	if len(mutations) == 0 {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan m.Mutation)
	results := make(chan completedRun, threads)

	group, groupCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		defer close(queue)

		for _, mutation := range mutations {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case queue <- mutation:
			}
		}

		return nil
	})

	for range min(threads, len(mutations)) {
		group.Go(func() error {
			for mutation := range queue {
				result, err := s.TestMutation(groupCtx, mutation)
				if err != nil {
					return err
				}

				results <- completedRun{mutation: mutation, result: result}
			}

			return nil
		})
	}

	var workerErr error

	go func() {
		workerErr = group.Wait()
		close(results)
	}()

	var handleErr error

	for run := range results {
		if handleErr != nil {
			continue
		}

		if handleErr = handle(run.mutation, run.result); handleErr != nil {
			slog.Error("Failed to record result, stopping session", "mutation", run.mutation.ID, "error", handleErr)
			cancel()
		}
	}

	switch {
	case handleErr != nil:
		return fmt.Errorf("%w: %w", ErrSessionIncomplete, handleErr)
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", ErrSessionIncomplete, ctx.Err())
	case workerErr != nil:
		return fmt.Errorf("%w: %w", ErrSessionIncomplete, workerErr)
	}

	return nil
}
