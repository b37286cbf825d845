package widgets

import (
	"context"
	"log/slog"

	"github.com/teemow/glance/internal/logging"
	"github.com/teemow/glance/internal/store"
)

// Drive controls the starred files widget.
type Drive struct {
	api    DriveAPI
	deps   Deps
	logger *slog.Logger
}

// NewDrive creates the drive controller.
func NewDrive(api DriveAPI, deps Deps) *Drive {
	return &Drive{api: api, deps: deps, logger: deps.logger("drive_widget")}
}

// Name implements Widget.
func (w *Drive) Name() string { return string(store.ResourceFiles) }

// Load fetches the starred files into the store.
func (w *Drive) Load(ctx context.Context) (err error) {
	f, err := w.deps.begin(ctx, store.ResourceFiles)
	if err != nil {
		return err
	}
	defer func() { f.done(err) }()

	files, err := w.api.ListStarredFiles(ctx)
	if err != nil {
		w.logger.Error("failed to load starred files", logging.Err(err))
		return err
	}
	return w.deps.commit(f, func(tx store.Tx) { tx.SetStarredFiles(files) })
}
