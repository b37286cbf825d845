package widgets

import (
	"context"
	"sync"

	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/drive"
	"github.com/teemow/glance/internal/store"
	"github.com/teemow/glance/internal/tasks"
)

type fakeCredentials struct {
	authenticated bool
	identity      *credential.Identity
}

func (f *fakeCredentials) Authenticated() bool            { return f.authenticated }
func (f *fakeCredentials) Identity() *credential.Identity { return f.identity }

type fakeTasksAPI struct {
	mu sync.Mutex

	lists []tasks.TaskList
	items map[string][]tasks.Task

	listErr   error
	updateErr error
	createErr error

	// createHook runs inside CreateTask before it returns.
	createHook func()

	// updateGate, when set, blocks UpdateTask until it is closed.
	updateGate    chan struct{}
	updateStarted chan struct{}

	listTasksCalls map[string]int
	created        []tasks.TaskInput
	listCalls      int
	updateCalls    int
}

func newFakeTasksAPI() *fakeTasksAPI {
	return &fakeTasksAPI{
		lists: []tasks.TaskList{{ID: "list1", Title: "My Tasks"}, {ID: "list2", Title: "Work"}},
		items: map[string][]tasks.Task{
			"list1": {
				{ID: "t1", Title: "Write report", Status: tasks.StatusNeedsAction},
				{ID: "t2", Title: "Call mom", Status: tasks.StatusNeedsAction},
			},
			"list2": {
				{ID: "w1", Title: "Review PR", Status: tasks.StatusNeedsAction},
			},
		},
		listTasksCalls: make(map[string]int),
	}
}

func (f *fakeTasksAPI) ListTaskLists(context.Context) ([]tasks.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]tasks.TaskList(nil), f.lists...), nil
}

func (f *fakeTasksAPI) ListTasks(_ context.Context, listID string) ([]tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listTasksCalls[listID]++
	return append([]tasks.Task(nil), f.items[listID]...), nil
}

func (f *fakeTasksAPI) UpdateTask(ctx context.Context, listID, taskID string, patch tasks.Patch) (*tasks.Task, error) {
	f.mu.Lock()
	f.updateCalls++
	gate, started := f.updateGate, f.updateStarted
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i, t := range f.items[listID] {
		if t.ID == taskID {
			updated := patch.Apply(t)
			f.items[listID][i] = updated
			return &updated, nil
		}
	}
	return nil, context.Canceled
}

func (f *fakeTasksAPI) CreateTask(_ context.Context, listID string, input tasks.TaskInput) (*tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, input)
	if f.createErr != nil {
		return nil, f.createErr
	}
	t := tasks.Task{ID: "new1", Title: input.Title, Status: tasks.StatusNeedsAction}
	f.items[listID] = append(f.items[listID], t)
	if f.createHook != nil {
		f.createHook()
	}
	return &t, nil
}

func (f *fakeTasksAPI) calls(listID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listTasksCalls[listID]
}

type fakeCalendarAPI struct {
	events []calendar.Event
	err    error
	before func()

	calendarID string
	windowDays int
}

func (f *fakeCalendarAPI) ListEvents(_ context.Context, calendarID string, windowDays int) ([]calendar.Event, error) {
	if f.before != nil {
		f.before()
	}
	f.calendarID, f.windowDays = calendarID, windowDays
	return f.events, f.err
}

type fakeDriveAPI struct {
	files  []drive.File
	err    error
	before func()
}

func (f *fakeDriveAPI) ListStarredFiles(context.Context) ([]drive.File, error) {
	if f.before != nil {
		f.before()
	}
	return f.files, f.err
}

func testDeps(authenticated bool) Deps {
	return Deps{
		Store: store.New(),
		Credentials: &fakeCredentials{
			authenticated: authenticated,
			identity:      &credential.Identity{ID: "u1", Email: "jane@example.com", Name: "Jane"},
		},
	}
}
