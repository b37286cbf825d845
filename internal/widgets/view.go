package widgets

import (
	"time"

	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/drive"
	"github.com/teemow/glance/internal/store"
	"github.com/teemow/glance/internal/tasks"
)

// View is what the dashboard shows, ready for rendering or serialization.
type View struct {
	Greeting string               `json:"greeting"`
	User     *credential.Identity `json:"user,omitempty"`
	Loading  store.Loading        `json:"loading"`
	Tasks    TasksView            `json:"tasks"`
	Days     []DayView            `json:"days"`
	Files    []FileView           `json:"files"`
}

// TasksView is the tasks widget state.
type TasksView struct {
	Lists    []tasks.TaskList `json:"lists"`
	Selected string           `json:"selected"`
	Items    []tasks.Task     `json:"items"`
	Pending  int              `json:"pending"`
}

// DayView is one day of upcoming events.
type DayView struct {
	Label  string      `json:"label"`
	Events []EventView `json:"events"`
}

// EventView is an event with its display labels.
type EventView struct {
	calendar.Event
	Time  string `json:"time"`
	Color int    `json:"color"`
}

// FileView is a starred file with its display labels.
type FileView struct {
	drive.File
	Category      drive.Category `json:"category"`
	SizeLabel     string         `json:"sizeLabel,omitempty"`
	ModifiedLabel string         `json:"modifiedLabel"`
}

// Greeting returns the salutation for the hour of now.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
