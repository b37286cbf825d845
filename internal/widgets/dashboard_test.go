package widgets

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/drive"
	"github.com/teemow/glance/internal/store"
	"github.com/teemow/glance/internal/tasks"
)

func newTestDashboard(deps Deps, ta TasksAPI, ca CalendarAPI, da DriveAPI, now time.Time) *Dashboard {
	return NewDashboard(
		NewTasks(ta, deps),
		NewCalendar(ca, deps, "", 0),
		NewDrive(da, deps),
		deps,
		WithClock(func() time.Time { return now }),
	)
}

func TestDashboardMount_LoadsEverything(t *testing.T) {
	deps := testDeps(true)
	cal := &fakeCalendarAPI{events: []calendar.Event{{ID: "e1", Summary: "Standup"}}}
	drv := &fakeDriveAPI{files: []drive.File{{ID: "f1", Name: "Plan"}}}
	d := newTestDashboard(deps, newFakeTasksAPI(), cal, drv, time.Now())

	require.NoError(t, d.Mount(context.Background()))

	assert.Len(t, deps.Store.TaskLists(), 2)
	assert.Len(t, deps.Store.Events(), 1)
	assert.Len(t, deps.Store.StarredFiles(), 1)
	assert.Equal(t, calendar.PrimaryCalendar, cal.calendarID)
	assert.Equal(t, calendar.DefaultWindowDays, cal.windowDays)
}

func TestDashboardMount_RunsLoadsConcurrently(t *testing.T) {
	deps := testDeps(true)

	// Both fetches wait until the other has started.
	var wg sync.WaitGroup
	wg.Add(2)
	barrier := func() {
		wg.Done()
		waited := make(chan struct{})
		go func() { wg.Wait(); close(waited) }()
		select {
		case <-waited:
		case <-time.After(2 * time.Second):
		}
	}
	cal := &fakeCalendarAPI{events: []calendar.Event{{ID: "e1"}}, before: barrier}
	drv := &fakeDriveAPI{files: []drive.File{{ID: "f1"}}, before: barrier}
	d := newTestDashboard(deps, newFakeTasksAPI(), cal, drv, time.Now())

	start := time.Now()
	require.NoError(t, d.Mount(context.Background()))

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Len(t, deps.Store.Events(), 1)
	assert.Len(t, deps.Store.StarredFiles(), 1)
}

func TestDashboardMount_PartialFailure(t *testing.T) {
	deps := testDeps(true)
	driveErr := errors.New("drive unavailable")
	cal := &fakeCalendarAPI{events: []calendar.Event{{ID: "e1"}}}
	drv := &fakeDriveAPI{err: driveErr}
	d := newTestDashboard(deps, newFakeTasksAPI(), cal, drv, time.Now())

	err := d.Mount(context.Background())

	require.ErrorIs(t, err, driveErr)
	assert.Contains(t, err.Error(), "files")
	assert.Len(t, deps.Store.TaskLists(), 2)
	assert.Len(t, deps.Store.Events(), 1)
	assert.Empty(t, deps.Store.StarredFiles())
	assert.False(t, d.View().Loading.Files)
}

func TestDashboardMount_WithoutCredential(t *testing.T) {
	deps := testDeps(false)
	api := newFakeTasksAPI()
	d := newTestDashboard(deps, api, &fakeCalendarAPI{}, &fakeDriveAPI{}, time.Now())

	assert.ErrorIs(t, d.Mount(context.Background()), credential.ErrNoCredential)
	assert.Zero(t, api.listCalls)
}

func TestDashboardMount_ResetDuringMountDiscardsResults(t *testing.T) {
	deps := testDeps(true)
	reset := make(chan struct{})
	cal := &fakeCalendarAPI{
		events: []calendar.Event{{ID: "e1"}},
		before: func() { <-reset },
	}
	drv := &fakeDriveAPI{files: []drive.File{{ID: "f1"}}}
	d := newTestDashboard(deps, newFakeTasksAPI(), cal, drv, time.Now())
	drv.before = func() {
		d.Reset()
		close(reset)
	}

	err := d.Mount(context.Background())

	require.ErrorIs(t, err, credential.ErrNoCredential)
	assert.Contains(t, err.Error(), "events")
	assert.Contains(t, err.Error(), "files")
	assert.Empty(t, deps.Store.Events())
	assert.Empty(t, deps.Store.StarredFiles())
	assert.Equal(t, store.Loading{}, deps.Store.Loading())
}

func TestDashboardView(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	deps := testDeps(true)
	cal := &fakeCalendarAPI{events: []calendar.Event{
		{ID: "e1", Summary: "Standup", Start: now.Add(time.Hour), ColorID: "7"},
		{ID: "e2", Summary: "Offsite", Start: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), AllDay: true},
	}}
	drv := &fakeDriveAPI{files: []drive.File{{
		ID:           "f1",
		Name:         "Budget",
		MimeType:     "application/vnd.google-apps.spreadsheet",
		ModifiedTime: now.Add(-2 * time.Hour),
	}}}
	d := newTestDashboard(deps, newFakeTasksAPI(), cal, drv, now)
	require.NoError(t, d.Mount(context.Background()))

	v := d.View()

	assert.Equal(t, "Good morning", v.Greeting)
	require.NotNil(t, v.User)
	assert.Equal(t, "Jane", v.User.Name)
	assert.Equal(t, "list1", v.Tasks.Selected)
	assert.Equal(t, 2, v.Tasks.Pending)

	require.Len(t, v.Days, 2)
	assert.Equal(t, "Today", v.Days[0].Label)
	assert.Equal(t, "10:30", v.Days[0].Events[0].Time)
	assert.Equal(t, 1, v.Days[0].Events[0].Color)
	assert.Equal(t, "Tomorrow", v.Days[1].Label)
	assert.Equal(t, "All day", v.Days[1].Events[0].Time)

	require.Len(t, v.Files, 1)
	assert.Equal(t, drive.CategorySpreadsheet, v.Files[0].Category)
	assert.Equal(t, "2h ago", v.Files[0].ModifiedLabel)
	assert.Empty(t, v.Files[0].SizeLabel)
}

func TestDashboardReset(t *testing.T) {
	deps := testDeps(true)
	d := newTestDashboard(deps, newFakeTasksAPI(), &fakeCalendarAPI{}, &fakeDriveAPI{}, time.Now())
	require.NoError(t, d.Mount(context.Background()))

	d.Reset()

	assert.Empty(t, deps.Store.TaskLists())
	_, loaded := deps.Store.Tasks("list1")
	assert.False(t, loaded)
	assert.Empty(t, d.Tasks.Selected())
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Good morning"},
		{11, "Good morning"},
		{12, "Good afternoon"},
		{17, "Good afternoon"},
		{18, "Good evening"},
		{23, "Good evening"},
	}
	for _, tt := range tests {
		now := time.Date(2024, 1, 1, tt.hour, 59, 0, 0, time.UTC)
		assert.Equal(t, tt.want, Greeting(now), "hour %d", tt.hour)
	}
}

var (
	_ TasksAPI    = (*tasks.Client)(nil)
	_ CalendarAPI = (*calendar.Client)(nil)
	_ DriveAPI    = (*drive.Client)(nil)
)
