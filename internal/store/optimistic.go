package store

import (
	"context"
	"errors"

	"github.com/teemow/glance/internal/tasks"
)

// ErrTargetMissing is returned by Optimistic when Snapshot finds nothing to
// mutate. The remote call is not made.
var ErrTargetMissing = errors.New("mutation target not found")

// LocalMutation describes a reversible change to local state.
type LocalMutation[T any] struct {
	// Snapshot captures the value before the change. ok is false when the
	// target does not exist.
	Snapshot func() (before T, ok bool)

	// Apply makes the local change.
	Apply func()

	// Revert restores the captured value.
	Revert func(before T)
}

// Optimistic snapshots, applies the local change, then runs remote. When
// remote fails the snapshot is restored and remote's error is returned.
// onRevert, if set, runs after the revert.
func Optimistic[T any](ctx context.Context, m LocalMutation[T], remote func(context.Context) error, onRevert func(error)) error {
	before, ok := m.Snapshot()
	if !ok {
		return ErrTargetMissing
	}

	m.Apply()

	if err := remote(ctx); err != nil {
		m.Revert(before)
		if onRevert != nil {
			onRevert(err)
		}
		return err
	}
	return nil
}

// OptimisticTaskUpdate patches a task locally and reverts it to its previous
// value when remote fails.
func (s *Store) OptimisticTaskUpdate(ctx context.Context, listID, taskID string, patch tasks.Patch, remote func(context.Context) error, onRevert func(error)) error {
	return Optimistic(ctx, LocalMutation[tasks.Task]{
		Snapshot: func() (tasks.Task, bool) {
			return s.Task(listID, taskID)
		},
		Apply: func() {
			s.UpdateTaskLocal(listID, taskID, patch)
		},
		Revert: func(before tasks.Task) {
			s.ReplaceTask(listID, before)
		},
	}, remote, onRevert)
}
