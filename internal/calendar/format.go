package calendar

import (
	"strconv"
	"time"
)

// ColorSlots is the number of distinct event colors in the palette.
const ColorSlots = 6

// DayGroup is a run of events that share a day label.
type DayGroup struct {
	Label  string  `json:"label"`
	Events []Event `json:"events"`
}

// DayLabel returns "Today", "Tomorrow" or a short date such as "Mon, Jan 2"
// for the calendar day of t relative to now, in now's location.
func DayLabel(t, now time.Time) string {
	loc := now.Location()
	day := startOfDay(t.In(loc))
	today := startOfDay(now)

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return day.Format("Mon, Jan 2")
	}
}

// TimeLabel returns "All day" for date-only events, else the 24h start time.
func TimeLabel(e Event, loc *time.Location) string {
	if e.AllDay {
		return "All day"
	}
	if e.Start.IsZero() {
		return ""
	}
	return e.Start.In(loc).Format("15:04")
}

// GroupByDay groups events by DayLabel. Groups appear in order of their
// first event and events keep their relative order.
func GroupByDay(events []Event, now time.Time) []DayGroup {
	var groups []DayGroup
	index := make(map[string]int)

	for _, e := range events {
		label := DayLabel(e.Start, now)
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, DayGroup{Label: label})
		}
		groups[i].Events = append(groups[i].Events, e)
	}

	return groups
}

// ColorSlot maps a Google color ID to a palette slot in [0, ColorSlots).
// Missing or unparsable IDs use slot 0.
func ColorSlot(colorID string) int {
	n, err := strconv.Atoi(colorID)
	if err != nil || n < 0 {
		return 0
	}
	return n % ColorSlots
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
