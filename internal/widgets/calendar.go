package widgets

import (
	"context"
	"log/slog"

	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/logging"
	"github.com/teemow/glance/internal/store"
)

// Calendar controls the upcoming events widget.
type Calendar struct {
	api        CalendarAPI
	deps       Deps
	logger     *slog.Logger
	calendarID string
	windowDays int
}

// NewCalendar creates the calendar controller. Empty or non-positive values
// fall back to the primary calendar and a seven day window.
func NewCalendar(api CalendarAPI, deps Deps, calendarID string, windowDays int) *Calendar {
	if calendarID == "" {
		calendarID = calendar.PrimaryCalendar
	}
	if windowDays <= 0 {
		windowDays = calendar.DefaultWindowDays
	}
	return &Calendar{
		api:        api,
		deps:       deps,
		logger:     deps.logger("calendar_widget"),
		calendarID: calendarID,
		windowDays: windowDays,
	}
}

// Name implements Widget.
func (w *Calendar) Name() string { return string(store.ResourceEvents) }

// Load fetches the upcoming events into the store.
func (w *Calendar) Load(ctx context.Context) (err error) {
	f, err := w.deps.begin(ctx, store.ResourceEvents)
	if err != nil {
		return err
	}
	defer func() { f.done(err) }()

	events, err := w.api.ListEvents(ctx, w.calendarID, w.windowDays)
	if err != nil {
		w.logger.Error("failed to load events", logging.Err(err))
		return err
	}
	return w.deps.commit(f, func(tx store.Tx) { tx.SetEvents(events) })
}
