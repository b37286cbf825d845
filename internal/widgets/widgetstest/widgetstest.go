// Package widgetstest provides in-memory Google backends and a ready wired
// dashboard for tests of the packages built on widgets.
package widgetstest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/drive"
	"github.com/teemow/glance/internal/google"
	"github.com/teemow/glance/internal/store"
	"github.com/teemow/glance/internal/tasks"
	"github.com/teemow/glance/internal/widgets"
)

// Credentials is a fixed sign-in state.
type Credentials struct {
	mu       sync.Mutex
	signedIn bool
	user     *credential.Identity
}

func (c *Credentials) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signedIn
}

func (c *Credentials) Identity() *credential.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.signedIn || c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// SetSignedIn changes the sign-in state.
func (c *Credentials) SetSignedIn(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signedIn = v
}

// Tasks is an in-memory Google Tasks backend.
type Tasks struct {
	mu    sync.Mutex
	lists []tasks.TaskList
	items map[string][]tasks.Task
	next  int

	// UpdateErr and CreateErr, when set, fail the matching call.
	UpdateErr error
	CreateErr error
}

func (f *Tasks) ListTaskLists(context.Context) ([]tasks.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tasks.TaskList(nil), f.lists...), nil
}

func (f *Tasks) ListTasks(_ context.Context, listID string) ([]tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, ok := f.items[listID]
	if !ok {
		return nil, &google.APIError{StatusCode: 404, Message: "Not Found"}
	}
	return append([]tasks.Task(nil), items...), nil
}

func (f *Tasks) UpdateTask(_ context.Context, listID, taskID string, patch tasks.Patch) (*tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	for i, t := range f.items[listID] {
		if t.ID == taskID {
			updated := patch.Apply(t)
			f.items[listID][i] = updated
			return &updated, nil
		}
	}
	return nil, &google.APIError{StatusCode: 404, Message: "Not Found"}
}

func (f *Tasks) CreateTask(_ context.Context, listID string, input tasks.TaskInput) (*tasks.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.next++
	t := tasks.Task{
		ID:     fmt.Sprintf("new%d", f.next),
		Title:  input.Title,
		Notes:  input.Notes,
		Status: tasks.StatusNeedsAction,
	}
	f.items[listID] = append(f.items[listID], t)
	return &t, nil
}

// Calendar is a fixed Google Calendar backend.
type Calendar struct {
	Events []calendar.Event
	Err    error
}

func (f *Calendar) ListEvents(context.Context, string, int) ([]calendar.Event, error) {
	return f.Events, f.Err
}

// Drive is a fixed Google Drive backend.
type Drive struct {
	Files []drive.File
	Err   error
}

func (f *Drive) ListStarredFiles(context.Context) ([]drive.File, error) {
	return f.Files, f.Err
}

// Fixture is a dashboard wired to the in-memory backends.
type Fixture struct {
	Credentials *Credentials
	Tasks       *Tasks
	Calendar    *Calendar
	Drive       *Drive
	Store       *store.Store
	Dashboard   *widgets.Dashboard
}

// New returns a fixture with two task lists, one event tomorrow and one
// starred file. list1 holds "Write report" (t1) and "Call mom" (t2); list2
// holds "Review PR" (w1).
func New(signedIn bool, now time.Time) *Fixture {
	f := &Fixture{
		Credentials: &Credentials{
			signedIn: signedIn,
			user:     &credential.Identity{ID: "u1", Email: "jane@example.com", Name: "Jane Doe"},
		},
		Tasks: &Tasks{
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
		},
		Calendar: &Calendar{Events: []calendar.Event{{
			ID:      "e1",
			Summary: "Team sync",
			Start:   now.Add(24 * time.Hour),
			End:     now.Add(25 * time.Hour),
			ColorID: "2",
		}}},
		Drive: &Drive{Files: []drive.File{{
			ID:           "f1",
			Name:         "Roadmap",
			MimeType:     "application/vnd.google-apps.document",
			ModifiedTime: now.Add(-3 * time.Hour),
		}}},
		Store: store.New(),
	}

	deps := widgets.Deps{Store: f.Store, Credentials: f.Credentials}
	f.Dashboard = widgets.NewDashboard(
		widgets.NewTasks(f.Tasks, deps),
		widgets.NewCalendar(f.Calendar, deps, "", 0),
		widgets.NewDrive(f.Drive, deps),
		deps,
		widgets.WithClock(func() time.Time { return now }),
	)
	return f
}
