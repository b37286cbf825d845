package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

const dateLayout = "2006-01-02"

// Event represents a Google Calendar event as shown on the dashboard.
// All-day events start at local midnight of their date.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	ColorID     string    `json:"colorId,omitempty"`
	HTMLLink    string    `json:"htmlLink,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
	TimeZone    string    `json:"timeZone,omitempty"`
}

// toEvent converts a Google Calendar event to an Event
func toEvent(event *calendar.Event) Event {
	if event == nil {
		return Event{}
	}

	result := Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		ColorID:     event.ColorId,
		HTMLLink:    event.HtmlLink,
	}

	if event.Start != nil {
		result.Start, result.AllDay = parseEventTime(event.Start)
		result.TimeZone = event.Start.TimeZone
	}
	if event.End != nil {
		result.End, _ = parseEventTime(event.End)
	}

	return result
}

// parseEventTime returns the instant of dt and whether it is date-only.
func parseEventTime(dt *calendar.EventDateTime) (time.Time, bool) {
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t, false
		}
		return time.Time{}, false
	}
	if dt.Date != "" {
		if t, err := time.ParseInLocation(dateLayout, dt.Date, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
