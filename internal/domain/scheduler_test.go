package domain_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mutiny.dev/pkg/mutiny/internal/domain"
	"mutiny.dev/pkg/mutiny/internal/domain/mocks"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

func newMutations(n int) []m.Mutation {
	mutations := make([]m.Mutation, 0, n)
	for i := range n {
		mutations = append(mutations, m.Mutation{ID: fmt.Sprintf("m%d", i), Line: i + 1})
	}

	return mutations
}

func killAll(_ context.Context, mutation m.Mutation) (m.Result, error) {
	return m.Result{MutationID: mutation.ID, Status: m.Killed, ExitCode: 1, Attempts: 1}, nil
}

func TestScheduler_Run_AllResultsDelivered(t *testing.T) {
	orch := mocks.NewMockOrchestrator(t)
	orch.On("Baseline", mock.Anything).Return(nil).Once()
	orch.On("TestMutation", mock.Anything, mock.Anything).Return(killAll).Times(10)

	mutations := newMutations(10)

	var (
		inFlight atomic.Int32
		seen     []string
	)

	err := domain.NewScheduler(orch).Run(context.Background(), mutations, 3, func(mutation m.Mutation, result m.Result) error {
		assert.Equal(t, int32(1), inFlight.Add(1), "handler calls must not overlap")
		defer inFlight.Add(-1)

		assert.Equal(t, mutation.ID, result.MutationID)
		seen = append(seen, mutation.ID)

		return nil
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(mutations))
	for _, mutation := range mutations {
		ids = append(ids, mutation.ID)
	}

	assert.ElementsMatch(t, ids, seen)
}

func TestScheduler_Run_BaselineFailureRunsNothing(t *testing.T) {
	orch := mocks.NewMockOrchestrator(t)
	failure := &domain.BaselineFailure{Status: m.Killed, ExitCode: 2}
	orch.On("Baseline", mock.Anything).Return(failure).Once()

	called := false
	err := domain.NewScheduler(orch).Run(context.Background(), newMutations(5), 2, func(m.Mutation, m.Result) error {
		called = true
		return nil
	})

	var baseline *domain.BaselineFailure
	require.True(t, errors.As(err, &baseline))
	assert.Equal(t, 2, baseline.ExitCode)
	assert.False(t, errors.Is(err, domain.ErrSessionIncomplete))
	assert.False(t, called)
	orch.AssertNotCalled(t, "TestMutation", mock.Anything, mock.Anything)
}

func TestScheduler_Run_NoMutations(t *testing.T) {
	orch := mocks.NewMockOrchestrator(t)
	orch.On("Baseline", mock.Anything).Return(nil).Once()

	err := domain.NewScheduler(orch).Run(context.Background(), nil, 4, func(m.Mutation, m.Result) error {
		t.Fatal("handler must not be called")
		return nil
	})
	require.NoError(t, err)
}

func TestScheduler_Run_Cancelled(t *testing.T) {
	orch := mocks.NewMockOrchestrator(t)
	orch.On("Baseline", mock.Anything).Return(nil).Once()
	orch.On("TestMutation", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, mutation m.Mutation) (m.Result, error) {
			if mutation.ID == "m0" || mutation.ID == "m1" {
				return killAll(ctx, mutation)
			}

			<-ctx.Done()

			return m.Result{}, ctx.Err()
		}).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := 0
	err := domain.NewScheduler(orch).Run(ctx, newMutations(20), 2, func(m.Mutation, m.Result) error {
		delivered++
		if delivered == 2 {
			cancel()
		}

		return nil
	})

	require.ErrorIs(t, err, domain.ErrSessionIncomplete)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, delivered)
}

func TestScheduler_Run_CancelledBeforeBaseline(t *testing.T) {
	orch := mocks.NewMockOrchestrator(t)
	orch.On("Baseline", mock.Anything).Return(context.Canceled).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := domain.NewScheduler(orch).Run(ctx, newMutations(3), 2, func(m.Mutation, m.Result) error {
		return nil
	})

	require.ErrorIs(t, err, domain.ErrSessionIncomplete)
	orch.AssertNotCalled(t, "TestMutation", mock.Anything, mock.Anything)
}

func TestScheduler_Run_HandlerErrorStopsSession(t *testing.T) {
	orch := mocks.NewMockOrchestrator(t)
	orch.On("Baseline", mock.Anything).Return(nil).Once()
	orch.On("TestMutation", mock.Anything, mock.Anything).Return(killAll).Maybe()

	diskFull := errors.New("disk full")

	err := domain.NewScheduler(orch).Run(context.Background(), newMutations(50), 2, func(m.Mutation, m.Result) error {
		return diskFull
	})

	require.ErrorIs(t, err, domain.ErrSessionIncomplete)
	require.ErrorIs(t, err, diskFull)
}

func TestScheduler_Run_WorkerError(t *testing.T) {
	orch := mocks.NewMockOrchestrator(t)
	orch.On("Baseline", mock.Anything).Return(nil).Once()

	boom := errors.New("boom")
	orch.On("TestMutation", mock.Anything, mock.Anything).Return(m.Result{}, boom).Maybe()

	err := domain.NewScheduler(orch).Run(context.Background(), newMutations(4), 2, func(m.Mutation, m.Result) error {
		return nil
	})

	require.ErrorIs(t, err, domain.ErrSessionIncomplete)
	require.ErrorIs(t, err, boom)
}
