package domain

import (
	"context"
	"strings"
	"time"

	"mutiny.dev/pkg/mutiny/internal/adapter"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

const stderrExcerptBytes = 1 << 10

// Executor runs the test command inside an acquired workspace and turns the
// outcome into a verdict.
type Executor interface {
	// Execute returns an *ExecutionError when the command cannot be launched
	// and the context error when the run was cancelled.
	Execute(ctx context.Context, handle *Handle, command []string, timeout time.Duration) (m.Result, error)
}

type executor struct {
	adapter.TestRunnerAdapter
}

// NewExecutor creates a new Executor instance.
func NewExecutor(runner adapter.TestRunnerAdapter) Executor {
	return &executor{TestRunnerAdapter: runner}
}

func (e *executor) Execute(ctx context.Context, handle *Handle, command []string, timeout time.Duration) (m.Result, error) {
	outcome, err := e.Run(ctx, string(handle.Dir), command, timeout)
	if err != nil {
		return m.Result{}, &ExecutionError{Command: command, Err: err}
	}

	if outcome.Canceled {
		if err := ctx.Err(); err != nil {
			return m.Result{}, err
		}

		return m.Result{}, context.Canceled
	}

	result := m.Result{
		Status:        classify(outcome),
		ExitCode:      outcome.ExitCode,
		Duration:      outcome.Duration,
		StderrExcerpt: excerpt(outcome.Stderr, stderrExcerptBytes),
	}

	if handle.Mutation != nil {
		result.MutationID = handle.Mutation.ID
	}

	return result, nil
}

// classify maps a finished run to a verdict. A timeout wins over any exit
// code the killed process reported.
func classify(outcome adapter.RunOutcome) m.TestStatus {
	switch {
	case outcome.TimedOut:
		return m.Timeout
	case outcome.ExitCode == 0:
		return m.Survived
	default:
		return m.Killed
	}
}

// excerpt keeps the tail of s, trimmed to whole UTF-8 sequences.
func excerpt(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) > limit {
		s = s[len(s)-limit:]
	}

	return strings.ToValidUTF8(s, "")
}
