package widgets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/teemow/glance/internal/logging"
	"github.com/teemow/glance/internal/store"
	"github.com/teemow/glance/internal/tasks"
)

var (
	// ErrEmptyTitle is returned by Add for a blank title.
	ErrEmptyTitle = errors.New("task title is empty")

	// ErrNoListSelected is returned when no list was given and none is selected.
	ErrNoListSelected = errors.New("no task list selected")

	// ErrTaskNotFound is returned by Toggle for a task that is not loaded.
	ErrTaskNotFound = errors.New("task not found")
)

// Tasks controls the task lists widget.
type Tasks struct {
	api    TasksAPI
	deps   Deps
	logger *slog.Logger

	mu       sync.Mutex
	selected string
}

// NewTasks creates the tasks controller.
func NewTasks(api TasksAPI, deps Deps) *Tasks {
	return &Tasks{
		api:    api,
		deps:   deps,
		logger: deps.logger("tasks_widget"),
	}
}

// Name implements Widget.
func (w *Tasks) Name() string { return string(store.ResourceTasks) }

// Selected returns the ID of the selected list.
func (w *Tasks) Selected() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// Load fetches the task lists, selects the first one and loads its tasks.
// A previously selected list is kept if it still exists.
func (w *Tasks) Load(ctx context.Context) (err error) {
	f, err := w.deps.begin(ctx, store.ResourceTasks)
	if err != nil {
		return err
	}
	defer func() { f.done(err) }()

	lists, err := w.api.ListTaskLists(ctx)
	if err != nil {
		w.logger.Error("failed to load task lists", logging.Err(err))
		return err
	}
	if err := w.deps.commit(f, func(tx store.Tx) { tx.SetTaskLists(lists) }); err != nil {
		return err
	}

	if len(lists) == 0 {
		return nil
	}

	listID := w.Selected()
	if !slices.ContainsFunc(lists, func(l tasks.TaskList) bool { return l.ID == listID }) {
		listID = lists[0].ID
	}

	items, err := w.api.ListTasks(ctx, listID)
	if err != nil {
		w.logger.Error("failed to load tasks", logging.ListID(listID), logging.Err(err))
		return err
	}
	return w.deps.commit(f, func(tx store.Tx) {
		tx.SetTasks(listID, items)
		w.mu.Lock()
		w.selected = listID
		w.mu.Unlock()
	})
}

// SelectList makes listID the selected list and loads its tasks unless they
// were loaded before.
func (w *Tasks) SelectList(ctx context.Context, listID string) error {
	if listID == "" {
		return ErrNoListSelected
	}

	w.mu.Lock()
	w.selected = listID
	w.mu.Unlock()

	return w.ensureLoaded(ctx, listID)
}

func (w *Tasks) ensureLoaded(ctx context.Context, listID string) (err error) {
	if _, loaded := w.deps.Store.Tasks(listID); loaded {
		return nil
	}
	f, err := w.deps.begin(ctx, store.ResourceTasks)
	if err != nil {
		return err
	}
	defer func() { f.done(err) }()

	items, err := w.api.ListTasks(ctx, listID)
	if err != nil {
		w.logger.Error("failed to load tasks for list", logging.ListID(listID), logging.Err(err))
		return err
	}
	return w.deps.commit(f, func(tx store.Tx) { tx.SetTasks(listID, items) })
}

// Toggle flips a task between needsAction and completed. The store shows the
// new status before the remote call is made and is reverted if it fails.
// An empty listID means the selected list.
func (w *Tasks) Toggle(ctx context.Context, listID, taskID string) (tasks.Task, error) {
	if err := w.deps.signedIn(); err != nil {
		return tasks.Task{}, err
	}
	listID, err := w.resolve(listID)
	if err != nil {
		return tasks.Task{}, err
	}

	current, ok := w.deps.Store.Task(listID, taskID)
	if !ok {
		return tasks.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	next := tasks.StatusCompleted
	if current.IsCompleted() {
		next = tasks.StatusNeedsAction
	}
	patch := tasks.StatusPatch(next)

	err = w.deps.Store.OptimisticTaskUpdate(ctx, listID, taskID, patch,
		func(ctx context.Context) error {
			updated, err := w.api.UpdateTask(ctx, listID, taskID, patch)
			if err != nil {
				return err
			}
			w.deps.Store.ReplaceTask(listID, *updated)
			return nil
		},
		func(err error) {
			w.deps.Metrics.RecordRollback(ctx, "toggle_task")
			w.logger.Warn("task update failed, reverted",
				logging.ListID(listID), logging.TaskID(taskID), logging.Err(err))
		},
	)
	if errors.Is(err, store.ErrTargetMissing) {
		return tasks.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if err != nil {
		return tasks.Task{}, fmt.Errorf("failed to toggle task: %w", err)
	}

	task, _ := w.deps.Store.Task(listID, taskID)
	return task, nil
}

// Add creates a task with the trimmed title and appends it to its list.
// An empty listID means the selected list.
func (w *Tasks) Add(ctx context.Context, listID, title string) (tasks.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return tasks.Task{}, ErrEmptyTitle
	}
	epoch := w.deps.Store.Epoch()
	if err := w.deps.signedIn(); err != nil {
		return tasks.Task{}, err
	}
	listID, err := w.resolve(listID)
	if err != nil {
		return tasks.Task{}, err
	}

	if err := w.ensureLoaded(ctx, listID); err != nil {
		return tasks.Task{}, err
	}

	created, err := w.api.CreateTask(ctx, listID, tasks.TaskInput{Title: title})
	if err != nil {
		w.logger.Error("failed to create task", logging.ListID(listID), logging.Err(err))
		return tasks.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	if !w.deps.Store.Commit(epoch, func(tx store.Tx) { tx.AppendTask(listID, *created) }) {
		return tasks.Task{}, errSignedOut
	}
	return *created, nil
}

// Items returns the tasks of a list. An empty listID means the selected list.
func (w *Tasks) Items(listID string) []tasks.Task {
	if listID == "" {
		listID = w.Selected()
	}
	items, _ := w.deps.Store.Tasks(listID)
	return items
}

// Pending counts the tasks of a list that still need action.
func (w *Tasks) Pending(listID string) int {
	n := 0
	for _, t := range w.Items(listID) {
		if t.Status == tasks.StatusNeedsAction {
			n++
		}
	}
	return n
}

func (w *Tasks) resolve(listID string) (string, error) {
	if listID != "" {
		return listID, nil
	}
	if selected := w.Selected(); selected != "" {
		return selected, nil
	}
	return "", ErrNoListSelected
}
