package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mutiny.dev/pkg/mutiny/internal/adapter"
	"mutiny.dev/pkg/mutiny/internal/controller"
	m "mutiny.dev/pkg/mutiny/internal/model"
	pkg "mutiny.dev/pkg/mutiny/pkg"
)

// EstimateArgs contains the arguments for listing mutations without running them.
type EstimateArgs struct {
	Root       m.Path
	Extensions []string
	Exclude    []string
	Operators  []m.OperatorKind
	Threads    int
}

// TestArgs contains the arguments for running a mutation session.
type TestArgs struct {
	Session m.Session
	// Reports is the directory the report and session snapshot are written to.
	Reports m.Path
	// Top limits hotspots and survivors in the console summary.
	Top int
}

// ViewArgs contains the arguments for displaying a saved report.
type ViewArgs struct {
	Reports m.Path
	Top     int
}

// Workflow defines the interface for the mutation testing workflow.
type Workflow interface {
	Estimate(ctx context.Context, args EstimateArgs) error
	// Test runs a full session. A report is saved for whatever completed, even
	// when the baseline fails or the session is cancelled; those cases return
	// a *BaselineFailure or an error wrapping ErrSessionIncomplete.
	Test(ctx context.Context, args TestArgs) error
	View(ctx context.Context, args ViewArgs) error
}

// SchedulerFactory builds the execution pipeline for one session.
type SchedulerFactory func(session m.Session, sessionID string) Scheduler

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Mutagen

	newScheduler SchedulerFactory
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	testAdapter adapter.TestRunnerAdapter,
	ui controller.UI,
	mutagen Mutagen,
) Workflow {
	return NewWorkflowWithScheduler(fsAdapter, reportStore, ui, mutagen,
		func(session m.Session, sessionID string) Scheduler {
			workspace := NewWorkspace(fsAdapter, session, sessionID)
			orchestrator := NewOrchestrator(workspace, NewExecutor(testAdapter), session)

			return NewScheduler(orchestrator)
		})
}

// NewWorkflowWithScheduler creates a Workflow whose execution pipeline comes
// from newScheduler.
func NewWorkflowWithScheduler(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	mutagen Mutagen,
	newScheduler SchedulerFactory,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
		Mutagen:         mutagen,
		newScheduler:    newScheduler,
	}
}

func (w *workflow) Estimate(ctx context.Context, args EstimateArgs) error {
	if err := w.Start(ctx, controller.WithEstimateMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}
	defer w.Close(ctx)

	mutations, err := w.generate(ctx, args.Root, args.Extensions, args.Exclude, args.Operators, args.Threads)
	if err != nil {
		_ = w.DisplayEstimation(ctx, nil, err)
		return err
	}

	return w.DisplayEstimation(ctx, mutations, nil)
}

func (w *workflow) generate(ctx context.Context, root m.Path, extensions, exclude []string, kinds []m.OperatorKind, threads int) ([]m.Mutation, error) {
	sources, err := w.Get(ctx, root, extensions, exclude...)
	if err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}

	mutations, warnings, err := w.GenerateAll(ctx, sources, threads, kinds...)
	if err != nil {
		return nil, fmt.Errorf("generate mutations: %w", err)
	}

	for _, warning := range warnings {
		w.DisplayWarning(ctx, warning.Error())
	}

	slog.Info("Generated mutations", "sources", len(sources), "mutations", len(mutations), "skipped", len(warnings))

	return mutations, nil
}

func (w *workflow) Test(ctx context.Context, args TestArgs) error {
	session, err := NormalizeSession(args.Session)
	if err != nil {
		return err
	}

	sessionID := uuid.NewString()[:12]
	logger := slog.With("session", sessionID)
	started := time.Now()

	logger.Info("Starting mutation session", "root", session.Root, "command", session.Command,
		"parallelism", session.Parallelism, "timeout", session.Timeout)

	mutations, err := w.generate(ctx, session.Root, session.Extensions, session.Exclude, session.Operators, session.Parallelism)
	if err != nil {
		report := BuildReport(ReportInput{
			SessionID:    sessionID,
			Elapsed:      time.Since(started),
			AbortReason:  abortReason(err),
			HotspotLimit: DefaultHotspotLimit,
		})

		if _, saveErr := w.saveReport(context.WithoutCancel(ctx), logger, args.Reports, session, report); saveErr != nil {
			return errors.Join(err, saveErr)
		}

		return err
	}

	journal, err := pkg.NewFileSpill[m.Result]("")
	if err != nil {
		return fmt.Errorf("create result journal: %w", err)
	}

	defer func() {
		if err := journal.Remove(); err != nil {
			logger.Warn("Failed to remove result journal", "path", journal.Path(), "error", err)
		}
	}()

	runErr := w.execute(ctx, session, sessionID, mutations, journal)

	// The summary is written even after an interrupt.
	finishCtx := context.WithoutCancel(ctx)

	results, err := resultsFromSpill(journal)
	if err != nil {
		return fmt.Errorf("read result journal: %w", err)
	}

	report := BuildReport(ReportInput{
		SessionID:             sessionID,
		Mutations:             mutations,
		Results:               results,
		TimeoutCountsAsKilled: session.TimeoutCountsAsKilled,
		Elapsed:               time.Since(started),
		AbortReason:           abortReason(runErr),
		HotspotLimit:          DefaultHotspotLimit,
	})

	_, saveErr := w.saveReport(finishCtx, logger, args.Reports, session, report)

	if err := w.DisplayReport(finishCtx, report, args.Top); err != nil {
		logger.Warn("Failed to display report", "error", err)
	}

	if runErr != nil {
		return runErr
	}

	return saveErr
}

func (w *workflow) saveReport(ctx context.Context, logger *slog.Logger, dir m.Path, session m.Session, report m.Report) (m.Path, error) {
	path, err := w.SaveReport(ctx, dir, session, report)
	if err != nil {
		logger.Error("Failed to save report", "dir", dir, "error", err)
		return "", fmt.Errorf("save report: %w", err)
	}

	logger.Info("Saved report", "path", path, "complete", report.Complete, "score", report.Summary.MutationScore)

	return path, nil
}

func (w *workflow) execute(ctx context.Context, session m.Session, sessionID string, mutations []m.Mutation, journal pkg.FileSpill[m.Result]) error {
	if err := w.Start(ctx, controller.WithTestMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}
	defer w.Close(ctx)

	w.DisplayConcurrencyInfo(ctx, session.Parallelism, len(mutations))

	completed := 0

	return w.newScheduler(session, sessionID).Run(ctx, mutations, session.Parallelism,
		func(mutation m.Mutation, result m.Result) error {
			if err := journal.Append(result); err != nil {
				return fmt.Errorf("record result for %s: %w", mutation.ID, err)
			}

			completed++
			w.DisplayCompletedTestInfo(ctx, mutation, result, completed, len(mutations))

			return nil
		})
}

func abortReason(err error) string {
	if err == nil {
		return ""
	}

	var baseline *BaselineFailure
	if errors.As(err, &baseline) {
		return baseline.Error()
	}

	if errors.Is(err, context.Canceled) {
		return "interrupted"
	}

	return err.Error()
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return fmt.Errorf("start UI: %w", err)
	}
	defer w.Close(ctx)

	report, err := w.LoadReport(ctx, args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	return w.DisplayReport(ctx, report, args.Top)
}
