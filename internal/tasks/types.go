package tasks

import (
	"time"

	tasks "google.golang.org/api/tasks/v1"
)

// Task status values used by the Google Tasks API.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// TaskList represents a Google Tasks task list
type TaskList struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Updated time.Time `json:"updated,omitempty"`
}

// Task represents a Google Tasks task
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	Status    string    `json:"status"` // "needsAction" or "completed"
	Due       time.Time `json:"due,omitempty"`
	Completed time.Time `json:"completed,omitempty"`
	Parent    string    `json:"parent,omitempty"`
	Position  string    `json:"position,omitempty"`
}

// IsCompleted reports whether the task is marked completed.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// TaskInput represents the input for creating a task
type TaskInput struct {
	Title string
	Notes string
	Due   time.Time
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Title  *string
	Notes  *string
	Status *string
	Due    *time.Time
}

// StatusPatch returns a Patch that only sets the status.
func StatusPatch(status string) Patch {
	return Patch{Status: &status}
}

// IsEmpty reports whether the patch sets no field.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Notes == nil && p.Status == nil && p.Due == nil
}

// Apply returns t with the set fields of p applied. All other fields are
// unchanged.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Due != nil {
		t.Due = *p.Due
	}
	return t
}

// toAPI builds the PATCH body. Fields set to their zero value are sent
// explicitly so they clear on the server.
func (p Patch) toAPI() *tasks.Task {
	body := &tasks.Task{}

	if p.Title != nil {
		body.Title = *p.Title
		if *p.Title == "" {
			body.ForceSendFields = append(body.ForceSendFields, "Title")
		}
	}
	if p.Notes != nil {
		body.Notes = *p.Notes
		if *p.Notes == "" {
			body.ForceSendFields = append(body.ForceSendFields, "Notes")
		}
	}
	if p.Status != nil {
		body.Status = *p.Status
		if *p.Status == StatusNeedsAction {
			// Reopening a task requires clearing its completion timestamp.
			body.NullFields = append(body.NullFields, "Completed")
		}
	}
	if p.Due != nil {
		if p.Due.IsZero() {
			body.NullFields = append(body.NullFields, "Due")
		} else {
			body.Due = p.Due.UTC().Format(time.RFC3339)
		}
	}

	return body
}

// toTaskList converts a Google Tasks TaskList to our TaskList type
func toTaskList(tl *tasks.TaskList) TaskList {
	if tl == nil {
		return TaskList{}
	}

	result := TaskList{
		ID:    tl.Id,
		Title: tl.Title,
	}

	if tl.Updated != "" {
		if t, err := time.Parse(time.RFC3339, tl.Updated); err == nil {
			result.Updated = t
		}
	}

	return result
}

// toTask converts a Google Tasks Task to our Task type
func toTask(t *tasks.Task) Task {
	if t == nil {
		return Task{}
	}

	result := Task{
		ID:       t.Id,
		Title:    t.Title,
		Notes:    t.Notes,
		Status:   t.Status,
		Parent:   t.Parent,
		Position: t.Position,
	}

	if t.Due != "" {
		if due, err := time.Parse(time.RFC3339, t.Due); err == nil {
			result.Due = due
		}
	}

	if t.Completed != nil && *t.Completed != "" {
		if completed, err := time.Parse(time.RFC3339, *t.Completed); err == nil {
			result.Completed = completed
		}
	}

	return result
}
