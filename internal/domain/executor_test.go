package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mutiny.dev/pkg/mutiny/internal/adapter"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

type stubRunner struct {
	outcome adapter.RunOutcome
	err     error

	workDir string
	command []string
	timeout time.Duration
}

func (s *stubRunner) Run(_ context.Context, workDir string, command []string, timeout time.Duration) (adapter.RunOutcome, error) {
	s.workDir = workDir
	s.command = command
	s.timeout = timeout

	return s.outcome, s.err
}

func TestExecutor_Execute(t *testing.T) {
	mutation := m.Mutation{ID: "abc"}
	handle := &Handle{Dir: "/tmp/ws", Mutation: &mutation}
	command := []string{"make", "test"}

	tests := []struct {
		name     string
		outcome  adapter.RunOutcome
		expected m.TestStatus
	}{
		{name: "passing tests survive", outcome: adapter.RunOutcome{ExitCode: 0}, expected: m.Survived},
		{name: "failing tests kill", outcome: adapter.RunOutcome{ExitCode: 2, Stderr: "FAIL\n"}, expected: m.Killed},
		{name: "signal kill", outcome: adapter.RunOutcome{ExitCode: -1}, expected: m.Killed},
		{name: "timeout wins over exit code", outcome: adapter.RunOutcome{ExitCode: 0, TimedOut: true}, expected: m.Timeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{outcome: tt.outcome}

			result, err := NewExecutor(runner).Execute(context.Background(), handle, command, 3*time.Second)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, result.Status)
			assert.Equal(t, tt.outcome.ExitCode, result.ExitCode)
			assert.Equal(t, "abc", result.MutationID)
			assert.Equal(t, strings.TrimSpace(tt.outcome.Stderr), result.StderrExcerpt)

			assert.Equal(t, "/tmp/ws", runner.workDir)
			assert.Equal(t, command, runner.command)
			assert.Equal(t, 3*time.Second, runner.timeout)
		})
	}
}

func TestExecutor_Execute_LaunchError(t *testing.T) {
	runner := &stubRunner{err: errors.New("exec: \"nope\": executable file not found")}

	_, err := NewExecutor(runner).Execute(context.Background(), &Handle{Dir: "/tmp"}, []string{"nope"}, time.Second)
	require.Error(t, err)

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, []string{"nope"}, execErr.Command)
	assert.True(t, isInfrastructureError(err))
}

func TestExecutor_Execute_Canceled(t *testing.T) {
	runner := &stubRunner{outcome: adapter.RunOutcome{Canceled: true, ExitCode: -1}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutor(runner).Execute(ctx, &Handle{Dir: "/tmp"}, []string{"true"}, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("  short\n", 16))
	assert.Equal(t, "6789", excerpt("0123456789", 4))

	// Cutting into a multi-byte rune drops the broken prefix.
	got := excerpt("aé", 1)
	assert.Empty(t, got)
}
