package widgets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/drive"
	"github.com/teemow/glance/internal/store"
)

// Dashboard composes the three widgets over one store.
type Dashboard struct {
	Tasks    *Tasks
	Calendar *Calendar
	Drive    *Drive

	deps   Deps
	logger *slog.Logger
	now    func() time.Time
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithClock sets the clock used for the greeting and relative labels.
func WithClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) { d.now = now }
}

// NewDashboard wires the widgets.
func NewDashboard(t *Tasks, c *Calendar, dr *Drive, deps Deps, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		Tasks:    t,
		Calendar: c,
		Drive:    dr,
		deps:     deps,
		logger:   deps.logger("dashboard"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the store the widgets write to.
func (d *Dashboard) Store() *store.Store { return d.deps.Store }

// Widgets returns the widgets in display order.
func (d *Dashboard) Widgets() []Widget {
	return []Widget{d.Tasks, d.Calendar, d.Drive}
}

// Mount loads every widget concurrently. A failing widget does not stop the
// others; all failures are returned joined.
func (d *Dashboard) Mount(ctx context.Context) error {
	if err := d.deps.signedIn(); err != nil {
		return err
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, w := range d.Widgets() {
		g.Go(func() error {
			if err := w.Load(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		d.logger.Warn("dashboard mounted with errors", slog.Int("failed", len(errs)))
	}
	return errors.Join(errs...)
}

// View builds the read model of the current store contents.
func (d *Dashboard) View() View {
	now := d.now()
	s := d.deps.Store

	v := View{
		Greeting: Greeting(now),
		Loading:  s.Loading(),
	}
	if d.deps.Credentials != nil {
		v.User = d.deps.Credentials.Identity()
	}

	selected := d.Tasks.Selected()
	v.Tasks = TasksView{
		Lists:    s.TaskLists(),
		Selected: selected,
		Items:    d.Tasks.Items(selected),
		Pending:  d.Tasks.Pending(selected),
	}

	for _, g := range calendar.GroupByDay(s.Events(), now) {
		day := DayView{Label: g.Label}
		for _, e := range g.Events {
			day.Events = append(day.Events, EventView{
				Event: e,
				Time:  calendar.TimeLabel(e, now.Location()),
				Color: calendar.ColorSlot(e.ColorID),
			})
		}
		v.Days = append(v.Days, day)
	}

	for _, f := range s.StarredFiles() {
		v.Files = append(v.Files, FileView{
			File:          f,
			Category:      drive.CategoryOf(f.MimeType),
			SizeLabel:     drive.FormatSize(f.Size),
			ModifiedLabel: drive.RelativeTime(f.ModifiedTime, now),
		})
	}

	return v
}

// Reset empties the store and forgets the selected list, for use after
// sign-out.
func (d *Dashboard) Reset() {
	d.deps.Store.Reset()
	d.Tasks.mu.Lock()
	d.Tasks.selected = ""
	d.Tasks.mu.Unlock()
}

var _ Credentials = (*credential.Store)(nil)
