package domain

import (
	"context"
	"errors"
	"log/slog"
	"time"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// Orchestrator coordinates acquiring an isolated workspace with a mutation
// applied, running the test command in it and turning the outcome into a
// verdict. Infrastructure failures are retried before the mutant is reported
// as Errored.
type Orchestrator interface {
	TestMutation(ctx context.Context, mutation m.Mutation) (m.Result, error)
	// Baseline runs the unmodified tree through the same pipeline. A non-nil
	// error is either a *BaselineFailure or the context error.
	Baseline(ctx context.Context) error
}

type orchestrator struct {
	workspace   Workspace
	executor    Executor
	command     []string
	timeout     time.Duration
	retryBudget int
}

// NewOrchestrator constructs an Orchestrator for one session.
func NewOrchestrator(workspace Workspace, executor Executor, session m.Session) Orchestrator {
	return &orchestrator{
		workspace:   workspace,
		executor:    executor,
		command:     session.Command,
		timeout:     session.Timeout,
		retryBudget: max(session.RetryBudget, 0),
	}
}

func (to *orchestrator) TestMutation(ctx context.Context, mutation m.Mutation) (m.Result, error) {
	result, attempts, err := to.attempt(ctx, &mutation)
	if err == nil {
		result.Attempts = attempts
		return result, nil
	}

	if ctx.Err() != nil || !isInfrastructureError(err) {
		return m.Result{}, err
	}

	slog.Error("Mutation errored after exhausting retries",
		"mutation", mutation.ID, "file", mutation.Source.ShortPath, "line", mutation.Line,
		"attempts", attempts, "error", err)

	return m.Result{
		MutationID:    mutation.ID,
		Status:        m.Errored,
		ExitCode:      -1,
		StderrExcerpt: excerpt(err.Error(), stderrExcerptBytes),
		Attempts:      attempts,
	}, nil
}

func (to *orchestrator) Baseline(ctx context.Context) error {
	result, _, err := to.attempt(ctx, nil)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return &BaselineFailure{Status: m.Errored, ExitCode: -1, Err: err}
	}

	if result.Status != m.Survived {
		slog.Error("Baseline run failed", "status", result.Status, "exitCode", result.ExitCode, "stderr", result.StderrExcerpt)

		return &BaselineFailure{
			Status:        result.Status,
			ExitCode:      result.ExitCode,
			StderrExcerpt: result.StderrExcerpt,
		}
	}

	slog.Info("Baseline run passed", "duration", result.Duration)

	return nil
}

// attempt runs the pipeline up to retryBudget+1 times while it keeps failing
// with infrastructure errors. It returns the number of attempts made.
func (to *orchestrator) attempt(ctx context.Context, mutation *m.Mutation) (m.Result, int, error) {
	var lastErr error

	for attempt := 1; attempt <= to.retryBudget+1; attempt++ {
		if err := ctx.Err(); err != nil {
			return m.Result{}, attempt - 1, err
		}

		result, err := to.run(ctx, mutation)
		if err == nil {
			return result, attempt, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return m.Result{}, attempt, err
		}

		if !isInfrastructureError(err) {
			return m.Result{}, attempt, err
		}

		lastErr = err

		slog.Warn("Infrastructure failure, retrying", "mutation", mutationLabel(mutation), "attempt", attempt, "error", err)
	}

	return m.Result{}, to.retryBudget + 1, lastErr
}

func (to *orchestrator) run(ctx context.Context, mutation *m.Mutation) (m.Result, error) {
	var result m.Result

	err := to.workspace.With(ctx, mutation, func(handle *Handle) error {
		var execErr error

		result, execErr = to.executor.Execute(ctx, handle, to.command, to.timeout)

		return execErr
	})

	return result, err
}

func mutationLabel(mutation *m.Mutation) string {
	if mutation == nil {
		return "baseline"
	}

	return mutation.ID
}
