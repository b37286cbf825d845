package store

import (
	"slices"
	"sync"

	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/drive"
	"github.com/teemow/glance/internal/tasks"
)

// Resource identifies one loading flag.
type Resource string

const (
	ResourceTasks  Resource = "tasks"
	ResourceEvents Resource = "events"
	ResourceFiles  Resource = "files"
)

// Loading reports which resources have a fetch in flight.
type Loading struct {
	Tasks  bool `json:"tasks"`
	Events bool `json:"events"`
	Files  bool `json:"files"`
}

// Store is the application data container. The zero value is not usable;
// call New.
type Store struct {
	mu sync.RWMutex

	taskLists []tasks.TaskList
	tasks     map[string][]tasks.Task
	events    []calendar.Event
	files     []drive.File

	// loading counts the fetches in flight per resource.
	loading map[Resource]int
	// epoch is bumped by Reset.
	epoch uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		tasks:   make(map[string][]tasks.Task),
		loading: make(map[Resource]int),
	}
}

// Tx writes to a store whose lock is already held. It is only valid inside
// the func passed to Commit.
type Tx struct {
	s *Store
}

// SetTaskLists replaces the task lists.
func (tx Tx) SetTaskLists(lists []tasks.TaskList) { tx.s.taskLists = slices.Clone(lists) }

// SetTasks replaces the tasks of one list.
func (tx Tx) SetTasks(listID string, items []tasks.Task) { tx.s.tasks[listID] = slices.Clone(items) }

// SetEvents replaces the calendar events.
func (tx Tx) SetEvents(events []calendar.Event) { tx.s.events = slices.Clone(events) }

// SetStarredFiles replaces the starred files.
func (tx Tx) SetStarredFiles(files []drive.File) { tx.s.files = slices.Clone(files) }

// AppendTask adds a task to the end of a list's collection.
func (tx Tx) AppendTask(listID string, task tasks.Task) {
	items := tx.s.tasks[listID]
	updated := make([]tasks.Task, 0, len(items)+1)
	updated = append(updated, items...)
	tx.s.tasks[listID] = append(updated, task)
}

func (s *Store) write(fn func(Tx)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(Tx{s: s})
}

// Epoch returns the number of Resets so far. Read it before a fetch and pass
// it to Commit.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Commit runs fn under the write lock unless Reset was called after epoch was
// read. It reports whether fn ran.
func (s *Store) Commit(epoch uint64, fn func(Tx)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	fn(Tx{s: s})
	return true
}

// SetTaskLists replaces the task lists.
func (s *Store) SetTaskLists(lists []tasks.TaskList) {
	s.write(func(tx Tx) { tx.SetTaskLists(lists) })
}

// TaskLists returns a copy of the task lists.
func (s *Store) TaskLists() []tasks.TaskList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.taskLists)
}

// SetTasks replaces the tasks of one list.
func (s *Store) SetTasks(listID string, items []tasks.Task) {
	s.write(func(tx Tx) { tx.SetTasks(listID, items) })
}

// Tasks returns a copy of the tasks of one list and whether the list has
// been loaded at all.
func (s *Store) Tasks(listID string) ([]tasks.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.tasks[listID]
	return slices.Clone(items), ok
}

// Task returns one task of one list.
func (s *Store) Task(listID, taskID string) (tasks.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks[listID] {
		if t.ID == taskID {
			return t, true
		}
	}
	return tasks.Task{}, false
}

// UpdateTaskLocal applies patch to one task of one list and reports whether
// the task was found. An unknown list or task is a no-op.
func (s *Store) UpdateTaskLocal(listID, taskID string, patch tasks.Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.tasks[listID]
	if !ok {
		return false
	}
	i := slices.IndexFunc(items, func(t tasks.Task) bool { return t.ID == taskID })
	if i < 0 {
		return false
	}

	// Copy on write so slices handed out earlier never change underneath.
	updated := slices.Clone(items)
	updated[i] = patch.Apply(updated[i])
	s.tasks[listID] = updated
	return true
}

// ReplaceTask overwrites one task by ID. An unknown list or task is a no-op.
func (s *Store) ReplaceTask(listID string, task tasks.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.tasks[listID]
	i := slices.IndexFunc(items, func(t tasks.Task) bool { return t.ID == task.ID })
	if i < 0 {
		return false
	}

	updated := slices.Clone(items)
	updated[i] = task
	s.tasks[listID] = updated
	return true
}

// AppendTask adds a task to the end of a list's collection.
func (s *Store) AppendTask(listID string, task tasks.Task) {
	s.write(func(tx Tx) { tx.AppendTask(listID, task) })
}

// SetEvents replaces the calendar events.
func (s *Store) SetEvents(events []calendar.Event) {
	s.write(func(tx Tx) { tx.SetEvents(events) })
}

// Events returns a copy of the calendar events.
func (s *Store) Events() []calendar.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// SetStarredFiles replaces the starred files.
func (s *Store) SetStarredFiles(files []drive.File) {
	s.write(func(tx Tx) { tx.SetStarredFiles(files) })
}

// StarredFiles returns a copy of the starred files.
func (s *Store) StarredFiles() []drive.File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.files)
}

// BeginLoad marks one more fetch of r as in flight. The returned func ends
// it; the flag stays raised until every fetch has ended. Ends of fetches
// begun before a Reset are ignored.
func (s *Store) BeginLoad(r Resource) (end func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading[r]++
	epoch := s.epoch

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.epoch == epoch && s.loading[r] > 0 {
				s.loading[r]--
			}
		})
	}
}

// IsLoading reports whether a fetch of r is in flight.
func (s *Store) IsLoading(r Resource) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[r] > 0
}

// Loading returns all loading flags.
func (s *Store) Loading() Loading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Loading{
		Tasks:  s.loading[ResourceTasks] > 0,
		Events: s.loading[ResourceEvents] > 0,
		Files:  s.loading[ResourceFiles] > 0,
	}
}

// Reset drops all collections and flags, e.g. after logout. Commits of
// fetches that started earlier are discarded.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.taskLists = nil
	s.tasks = make(map[string][]tasks.Task)
	s.events = nil
	s.files = nil
	s.loading = make(map[Resource]int)
}
