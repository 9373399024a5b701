package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// SimpleUI implements UI using cobra Command's output streams.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayEstimation prints the estimation results or error.
func (s *SimpleUI) DisplayEstimation(ctx context.Context, mutations []m.Mutation, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		s.printf("estimation error: %v\n", err)
		return err
	}

	s.printf("\n%s", renderEstimationTable(mutations))

	return nil
}

// DisplayWarning prints a non-fatal problem to stderr.
func (s *SimpleUI) DisplayWarning(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	_, _ = fmt.Fprintf(s.cmd.ErrOrStderr(), "warning: %s\n", message)
}

// DisplayConcurrencyInfo shows concurrency settings.
func (s *SimpleUI) DisplayConcurrencyInfo(ctx context.Context, threads int, total int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Running %d mutations with %d worker(s)\n", total, threads)
}

// DisplayCompletedTestInfo shows info about the mutation test completion.
func (s *SimpleUI) DisplayCompletedTestInfo(ctx context.Context, mutation m.Mutation, result m.Result, completed int, total int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("[%d/%d] %s %s:%d (%s) -> %s\n",
		completed, total, shortID(mutation.ID), mutation.Source.ShortPath, mutation.Line, mutation.Kind,
		formatTestStatus(result.Status))
}

// DisplayReport prints the final console summary.
func (s *SimpleUI) DisplayReport(ctx context.Context, report m.Report, top int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderReport(report, top))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
