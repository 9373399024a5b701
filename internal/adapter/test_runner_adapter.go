package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

const (
	defaultExcerptBytes = 4 << 10
	defaultWaitDelay    = 2 * time.Second
)

// RunOutcome describes how one invocation of the test command ended.
type RunOutcome struct {
	// ExitCode is the process exit status; -1 when it was ended by a signal.
	ExitCode int
	Duration time.Duration
	// TimedOut is set when the hard timeout fired and the process tree was killed.
	TimedOut bool
	// Canceled is set when ctx ended the run before the command finished.
	Canceled bool
	Stdout   string
	Stderr   string
}

// TestRunnerAdapter abstracts test execution for mutation testing.
type TestRunnerAdapter interface {
	// Run executes command in workDir and enforces timeout by killing the
	// whole process tree. The returned error is reserved for failures to
	// launch the command; test failures are reported through the exit code.
	Run(ctx context.Context, workDir string, command []string, timeout time.Duration) (RunOutcome, error)
}

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct {
	excerptBytes int
	waitDelay    time.Duration
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{
		excerptBytes: defaultExcerptBytes,
		waitDelay:    defaultWaitDelay,
	}
}

// Run starts command in its own process group and waits for it, the timeout,
// or ctx, whichever comes first.
func (a *LocalTestRunnerAdapter) Run(ctx context.Context, workDir string, command []string, timeout time.Duration) (RunOutcome, error) {
	if len(command) == 0 {
		return RunOutcome{}, errors.New("empty test command")
	}

	// #nosec G204 - the test command is the operator-supplied oracle
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.WaitDelay = a.waitDelay

	stdout := newTailBuffer(a.excerptBytes)
	stderr := newTailBuffer(a.excerptBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	setProcessGroup(cmd)

	start := time.Now()

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to start test command", "command", command, "workDir", workDir, "error", err)
		return RunOutcome{}, fmt.Errorf("start %s: %w", command[0], err)
	}

	done := make(chan error, 1)

	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var (
		outcome RunOutcome
		waitErr error
	)

	select {
	case waitErr = <-done:
	case <-timer.C:
		outcome.TimedOut = true

		slog.Debug("Test command timed out, killing process group", "pid", cmd.Process.Pid, "timeout", timeout)
		killProcessGroup(cmd)

		waitErr = <-done
	case <-ctx.Done():
		outcome.Canceled = true

		slog.Debug("Test command cancelled, killing process group", "pid", cmd.Process.Pid)
		killProcessGroup(cmd)

		waitErr = <-done
	}

	// Reap background children the command left behind in its group.
	killProcessGroup(cmd)

	outcome.Duration = time.Since(start)
	outcome.ExitCode = exitCode(cmd, waitErr)
	outcome.Stdout = stdout.String()
	outcome.Stderr = stderr.String()

	return outcome, nil
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if waitErr == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}

	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}

	return -1
}

// tailBuffer keeps only the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{max: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= t.max {
		t.buf = append(t.buf[:0], p[len(p)-t.max:]...)
		return n, nil
	}

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}

	return n, nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
