package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/glance/internal/tasks"
)

func TestOptimisticTaskUpdate_RevertsOnFailure(t *testing.T) {
	s := seeded()
	remoteErr := errors.New("API Error: 500")

	var sawDuringCall string
	var reverted error

	err := s.OptimisticTaskUpdate(context.Background(), "l1", "t1", tasks.StatusPatch(tasks.StatusCompleted),
		func(ctx context.Context) error {
			task, _ := s.Task("l1", "t1")
			sawDuringCall = task.Status
			return remoteErr
		},
		func(err error) { reverted = err },
	)

	require.ErrorIs(t, err, remoteErr)
	assert.Equal(t, tasks.StatusCompleted, sawDuringCall, "local write must precede the remote call")
	assert.ErrorIs(t, reverted, remoteErr)

	task, _ := s.Task("l1", "t1")
	assert.Equal(t, tasks.StatusNeedsAction, task.Status)
}

func TestOptimisticTaskUpdate_KeepsOnSuccess(t *testing.T) {
	s := seeded()

	err := s.OptimisticTaskUpdate(context.Background(), "l1", "t1", tasks.StatusPatch(tasks.StatusCompleted),
		func(ctx context.Context) error { return nil },
		func(error) { t.Fatal("revert must not run on success") },
	)
	require.NoError(t, err)

	task, _ := s.Task("l1", "t1")
	assert.Equal(t, tasks.StatusCompleted, task.Status)
}

func TestOptimisticTaskUpdate_MissingTarget(t *testing.T) {
	s := seeded()

	err := s.OptimisticTaskUpdate(context.Background(), "l1", "missing", tasks.StatusPatch(tasks.StatusCompleted),
		func(ctx context.Context) error {
			t.Fatal("remote must not be called")
			return nil
		},
		nil,
	)
	assert.ErrorIs(t, err, ErrTargetMissing)
}

func TestOptimistic_Generic(t *testing.T) {
	value := 1

	err := Optimistic(context.Background(), LocalMutation[int]{
		Snapshot: func() (int, bool) { return value, true },
		Apply:    func() { value = 2 },
		Revert:   func(before int) { value = before },
	}, func(ctx context.Context) error {
		assert.Equal(t, 2, value)
		return context.Canceled
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, value)
}
