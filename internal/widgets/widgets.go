package widgets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/drive"
	"github.com/teemow/glance/internal/instrumentation"
	"github.com/teemow/glance/internal/logging"
	"github.com/teemow/glance/internal/store"
	"github.com/teemow/glance/internal/tasks"
)

// TasksAPI is the subset of *tasks.Client the controllers use.
type TasksAPI interface {
	ListTaskLists(ctx context.Context) ([]tasks.TaskList, error)
	ListTasks(ctx context.Context, taskListID string) ([]tasks.Task, error)
	UpdateTask(ctx context.Context, taskListID, taskID string, patch tasks.Patch) (*tasks.Task, error)
	CreateTask(ctx context.Context, taskListID string, input tasks.TaskInput) (*tasks.Task, error)
}

// CalendarAPI is the subset of *calendar.Client the controllers use.
type CalendarAPI interface {
	ListEvents(ctx context.Context, calendarID string, windowDays int) ([]calendar.Event, error)
}

// DriveAPI is the subset of *drive.Client the controllers use.
type DriveAPI interface {
	ListStarredFiles(ctx context.Context) ([]drive.File, error)
}

// Credentials reports whether a user is signed in. *credential.Store
// implements it.
type Credentials interface {
	Authenticated() bool
	Identity() *credential.Identity
}

// Widget is a controller that can be mounted.
type Widget interface {
	Name() string
	Load(ctx context.Context) error
}

// Deps are the collaborators shared by all controllers.
type Deps struct {
	Store       *store.Store
	Credentials Credentials
	Logger      *slog.Logger
	Metrics     *instrumentation.Metrics
}

func (d Deps) logger(component string) *slog.Logger {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return logging.WithComponent(logger, component)
}

// errSignedOut is returned by a load whose results were discarded because
// the user signed out while it ran.
var errSignedOut = fmt.Errorf("signed out during load: %w", credential.ErrNoCredential)

// fetch is one load in flight.
type fetch struct {
	epoch uint64
	done  func(error)
}

// begin checks sign-in, raises the loading flag of r and returns the fetch.
// Call done with the load error in a defer and write results with commit.
func (d Deps) begin(ctx context.Context, r store.Resource) (*fetch, error) {
	// Read before the sign-in check: a logout after the check resets the
	// store and so invalidates this epoch.
	epoch := d.Store.Epoch()
	if err := d.signedIn(); err != nil {
		return nil, err
	}
	return &fetch{epoch: epoch, done: d.track(ctx, r)}, nil
}

// commit writes the results of f unless the store was reset since it began.
func (d Deps) commit(f *fetch, fn func(store.Tx)) error {
	if !d.Store.Commit(f.epoch, fn) {
		return errSignedOut
	}
	return nil
}

// track raises the loading flag of r and returns a func that lowers it and
// records the load.
func (d Deps) track(ctx context.Context, r store.Resource) func(error) {
	start := time.Now()
	end := d.Store.BeginLoad(r)
	return func(err error) {
		end()
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
		}
		d.Metrics.RecordWidgetLoad(ctx, string(r), status, time.Since(start))
	}
}

func (d Deps) signedIn() error {
	if d.Credentials == nil || !d.Credentials.Authenticated() {
		return credential.ErrNoCredential
	}
	return nil
}
