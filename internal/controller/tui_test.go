package controller

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

func TestTUI_DisplayEstimation(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	require.NoError(t, tui.Start(context.Background(), WithEstimateMode()))
	require.NoError(t, tui.DisplayEstimation(context.Background(), estimationFixture(), nil))
	tui.Close(context.Background())

	output := buf.String()
	assert.Contains(t, output, "Mutiny Mutation Estimate")
	assert.Contains(t, output, "mutations across")
	assert.Contains(t, output, "TOTAL FILES 2")
}

func TestTUI_DisplayReport(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	require.NoError(t, tui.DisplayReport(context.Background(), reportFixture(), 5))

	output := buf.String()
	assert.Contains(t, output, "Mutiny Test Results")
	assert.Contains(t, output, "Mutation score: 50.00%")
}

func TestTUI_DisplayWarning_NotLive(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	tui.DisplayWarning(context.Background(), "skipping blob.c")
	assert.Contains(t, buf.String(), "warning: skipping blob.c")
}

func TestTUI_TestModeLifecycle(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)
	ctx := context.Background()

	require.NoError(t, tui.Start(ctx, WithTestMode()))
	require.NoError(t, tui.Start(ctx, WithTestMode()))

	tui.DisplayConcurrencyInfo(ctx, 2, 2)
	tui.DisplayCompletedTestInfo(ctx,
		m.Mutation{ID: "abcdef0123456789", Source: m.File{ShortPath: "a.c"}, Line: 3, Kind: m.OperatorArithmetic},
		m.Result{Status: m.Killed}, 1, 2)
	tui.DisplayWarning(ctx, "slow test command")

	tui.Close(ctx)
	tui.Close(ctx)

	assert.Contains(t, buf.String(), "Mutiny Mutation Testing")
}

func TestExecutionModel_Update(t *testing.T) {
	model := newExecutionModel()
	assert.Zero(t, model.percent())

	updated, cmd := model.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	assert.Nil(t, cmd)

	model = updated.(executionModel)
	assert.Equal(t, maxProgressWidth, model.progressBar.Width)

	updated, _ = model.Update(tea.WindowSizeMsg{Width: 5, Height: 40})
	model = updated.(executionModel)
	assert.Equal(t, 10, model.progressBar.Width)

	updated, _ = model.Update(concurrencyMsg{threads: 4, total: 4})
	model = updated.(executionModel)

	updated, _ = model.Update(completedMutationMsg{
		id:        "abcdef01",
		location:  "src/a.c:12",
		kind:      m.OperatorRelational,
		status:    m.Survived,
		completed: 1,
		total:     4,
	})
	model = updated.(executionModel)

	updated, _ = model.Update(warningMsg{message: "skipping blob.c"})
	model = updated.(executionModel)

	assert.InDelta(t, 0.25, model.percent(), 0.0001)
	assert.Equal(t, 4, model.threads)

	view := model.View()
	assert.Contains(t, view, "Mutiny Mutation Testing")
	assert.Contains(t, view, "survived 1")
	assert.Contains(t, view, "killed 0")
	assert.Contains(t, view, "src/a.c:12")
	assert.Contains(t, view, "warning: skipping blob.c")
}
