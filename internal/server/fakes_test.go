package server

import (
	"context"
	"sync"

	"github.com/teemow/glance/internal/auth"
	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/drive"
	"github.com/teemow/glance/internal/store"
	"github.com/teemow/glance/internal/tasks"
	"github.com/teemow/glance/internal/widgets"
)

type fakeAuth struct {
	mu sync.Mutex

	session    auth.Session
	ensureErr  error
	refreshErr error
	logoutErr  error

	ensureCalls  int
	refreshCalls int
	logoutCalls  int
}

func (f *fakeAuth) Session() auth.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

func (f *fakeAuth) EnsureFresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeAuth) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return f.refreshErr
}

func (f *fakeAuth) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	f.session = auth.Session{State: auth.StateUnauthenticated, Ready: true}
	return f.logoutErr
}

type fakeCredentials struct{ authenticated bool }

func (f *fakeCredentials) Authenticated() bool { return f.authenticated }
func (f *fakeCredentials) Identity() *credential.Identity {
	if !f.authenticated {
		return nil
	}
	return &credential.Identity{ID: "u1", Email: "jane@example.com", Name: "Jane"}
}

type fakeTasks struct {
	mu        sync.Mutex
	items     map[string][]tasks.Task
	updateErr error
}

func (f *fakeTasks) ListTaskLists(context.Context) ([]tasks.TaskList, error) {
	return []tasks.TaskList{{ID: "list1", Title: "My Tasks"}, {ID: "list2", Title: "Work"}}, nil
}

func (f *fakeTasks) ListTasks(_ context.Context, listID string) ([]tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tasks.Task(nil), f.items[listID]...), nil
}

func (f *fakeTasks) UpdateTask(_ context.Context, listID, taskID string, patch tasks.Patch) (*tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, t := range f.items[listID] {
		if t.ID == taskID {
			updated := patch.Apply(t)
			return &updated, nil
		}
	}
	return nil, context.Canceled
}

func (f *fakeTasks) CreateTask(_ context.Context, _ string, input tasks.TaskInput) (*tasks.Task, error) {
	return &tasks.Task{ID: "new1", Title: input.Title, Status: tasks.StatusNeedsAction}, nil
}

type fakeCalendar struct{ err error }

func (f *fakeCalendar) ListEvents(context.Context, string, int) ([]calendar.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []calendar.Event{{ID: "e1", Summary: "Standup"}}, nil
}

type fakeDrive struct{ err error }

func (f *fakeDrive) ListStarredFiles(context.Context) ([]drive.File, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []drive.File{{ID: "f1", Name: "Plan", MimeType: "application/pdf"}}, nil
}

type harness struct {
	auth     *fakeAuth
	tasks    *fakeTasks
	calendar *fakeCalendar
	drive    *fakeDrive
	store    *store.Store
	dash     *widgets.Dashboard
	server   *Server
}

func newHarness(authenticated bool) *harness {
	h := &harness{
		auth: &fakeAuth{session: auth.Session{State: auth.StateAuthenticated, Ready: true}},
		tasks: &fakeTasks{items: map[string][]tasks.Task{
			"list1": {{ID: "t1", Title: "Write report", Status: tasks.StatusNeedsAction}},
			"list2": {{ID: "w1", Title: "Review PR", Status: tasks.StatusNeedsAction}},
		}},
		calendar: &fakeCalendar{},
		drive:    &fakeDrive{},
		store:    store.New(),
	}
	if !authenticated {
		h.auth.session = auth.Session{State: auth.StateUnauthenticated, Ready: true}
	}

	deps := widgets.Deps{Store: h.store, Credentials: &fakeCredentials{authenticated: authenticated}}
	dash := widgets.NewDashboard(
		widgets.NewTasks(h.tasks, deps),
		widgets.NewCalendar(h.calendar, deps, "", 0),
		widgets.NewDrive(h.drive, deps),
		deps,
	)

	h.dash = dash

	srv, err := New(Config{Auth: h.auth, Dashboard: dash})
	if err != nil {
		panic(err)
	}
	h.server = srv
	return h
}
