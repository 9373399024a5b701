package domain

import (
	"errors"
	"fmt"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// ErrSessionIncomplete is returned when a session stopped before every
// mutation reached a verdict.
var ErrSessionIncomplete = errors.New("mutation session incomplete")

// GenerationWarning marks a file that was skipped during generation. It never
// aborts a session.
type GenerationWarning struct {
	Path   m.Path
	Reason string
	Err    error
}

func (w *GenerationWarning) Error() string {
	if w.Err != nil {
		return fmt.Sprintf("skipping %s: %s: %v", w.Path, w.Reason, w.Err)
	}

	return fmt.Sprintf("skipping %s: %s", w.Path, w.Reason)
}

func (w *GenerationWarning) Unwrap() error {
	return w.Err
}

// BaselineFailure aborts a session: the unmodified tree did not pass the test
// command, so no verdict on a mutant could be trusted.
type BaselineFailure struct {
	Status        m.TestStatus
	ExitCode      int
	StderrExcerpt string
	Err           error
}

func (b *BaselineFailure) Error() string {
	switch {
	case b.Err != nil:
		return fmt.Sprintf("baseline failure: %v", b.Err)
	case b.Status == m.Timeout:
		return "baseline failure: test command timed out on the unmodified tree"
	default:
		return fmt.Sprintf("baseline failure: test command exited %d on the unmodified tree", b.ExitCode)
	}
}

func (b *BaselineFailure) Unwrap() error {
	return b.Err
}

// WorkspaceError reports that an isolated workspace could not be built or torn
// down. It is retryable and never a verdict on the mutant.
type WorkspaceError struct {
	Op  string
	Err error
}

func (w *WorkspaceError) Error() string {
	return fmt.Sprintf("workspace %s: %v", w.Op, w.Err)
}

func (w *WorkspaceError) Unwrap() error {
	return w.Err
}

// ExecutionError reports that the test command could not be launched.
type ExecutionError struct {
	Command []string
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %v: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// isInfrastructureError reports whether err is a retryable failure unrelated
// to the mutant itself.
func isInfrastructureError(err error) bool {
	var (
		workspaceErr *WorkspaceError
		executionErr *ExecutionError
	)

	return errors.As(err, &workspaceErr) || errors.As(err, &executionErr)
}
