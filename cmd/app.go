package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/glance/internal/auth"
	"github.com/teemow/glance/internal/calendar"
	"github.com/teemow/glance/internal/config"
	"github.com/teemow/glance/internal/credential"
	"github.com/teemow/glance/internal/drive"
	"github.com/teemow/glance/internal/google"
	"github.com/teemow/glance/internal/instrumentation"
	"github.com/teemow/glance/internal/logging"
	"github.com/teemow/glance/internal/store"
	"github.com/teemow/glance/internal/tasks"
	"github.com/teemow/glance/internal/widgets"
)

// app holds everything a command needs, wired from the configuration.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	provider  *instrumentation.Provider
	metrics   *instrumentation.Metrics
	audit     *instrumentation.AuditLogger
	creds     *credential.Store
	auth      *auth.Orchestrator
	dashboard *widgets.Dashboard

	closers []io.Closer
}

type appOptions struct {
	// exportMetrics keeps the configured metrics exporter. One-shot
	// commands have nobody scraping them and export nothing.
	exportMetrics bool
}

func newApp(ctx context.Context, cmd *cobra.Command, opts appOptions) (a *app, err error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	a = &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.close(ctx)
		}
	}()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if !opts.exportMetrics && instrConfig.MetricsExporter == instrumentation.ExporterPrometheus {
		instrConfig.MetricsExporter = instrumentation.ExporterNone
	}
	a.provider, err = instrumentation.NewProvider(ctx, instrConfig, instrumentation.WithProviderLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	if a.provider.Enabled() {
		a.metrics = a.provider.Metrics()
		a.audit = instrumentation.NewAuditLogger(logger, instrConfig.AuditLogging)
	}

	persister, closer, err := newPersister(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	a.creds, err = credential.NewStore(ctx, persister, credential.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	tasksClient, err := tasks.NewClient(ctx, a.creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks client: %w", err)
	}
	calendarClient, err := calendar.NewClient(ctx, a.creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	driveClient, err := drive.NewClient(ctx, a.creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	deps := widgets.Deps{
		Store:       store.New(),
		Credentials: a.creds,
		Logger:      logger,
		Metrics:     a.metrics,
	}
	a.dashboard = widgets.NewDashboard(
		widgets.NewTasks(tasksClient.WithMetrics(a.metrics), deps),
		widgets.NewCalendar(calendarClient.WithMetrics(a.metrics), deps, cfg.Calendar.ID, cfg.Calendar.WindowDays),
		widgets.NewDrive(driveClient.WithMetrics(a.metrics), deps),
		deps,
	)

	a.auth = auth.New(a.creds, google.NewIdentityClient().WithMetrics(a.metrics), a.tokenClientLoader(),
		auth.WithLogger(logger),
		auth.WithMetrics(a.metrics),
		auth.WithAuditLogger(a.audit),
		auth.WithLogoutHook(a.dashboard.Reset),
	)

	return a, nil
}

// tokenClientLoader builds the OAuth client on Initialize, so commands
// that never talk to the provider work without a client id.
func (a *app) tokenClientLoader() auth.Loader {
	g := a.cfg.Google
	return func(context.Context) (auth.TokenClient, error) {
		client, err := google.NewTokenClient(google.TokenClientConfig{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			CallbackAddr: g.CallbackAddr,
			Logger:       a.logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// signedIn initializes the orchestrator and refreshes a credential that is
// about to expire. A valid credential is usable even when the token client
// cannot be built.
func (a *app) signedIn(ctx context.Context) error {
	initErr := a.auth.Initialize(ctx)
	if !a.creds.Authenticated() {
		return errNotSignedIn
	}
	if a.creds.IsValid() {
		return nil
	}
	if initErr != nil {
		return initErr
	}
	return a.auth.EnsureFresh(ctx)
}

func (a *app) close(ctx context.Context) {
	if a.provider != nil {
		if err := a.provider.Shutdown(ctx); err != nil {
			a.logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close credential storage", logging.Err(err))
		}
	}
}

var errNotSignedIn = errors.New("not signed in, run `glance login` first")

// newPersister returns the credential backend selected in cfg, wrapped with
// encryption when a key is configured. The closer is nil for backends
// without a connection.
func newPersister(ctx context.Context, cfg config.StorageConfig) (credential.Persister, io.Closer, error) {
	var (
		p      credential.Persister
		closer io.Closer
	)

	switch cfg.Type {
	case config.StorageMemory:
		p = credential.NewMemoryPersister()
	case config.StorageFile:
		fp, err := credential.NewFilePersister(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create file storage: %w", err)
		}
		p = fp
	case config.StorageSQLite:
		sp, err := credential.NewSQLitePersister(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		p, closer = sp, sp
	case config.StorageRedis:
		rp, err := credential.NewRedisPersister(ctx, credential.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect redis storage: %w", err)
		}
		p, closer = rp, rp
	default:
		return nil, nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}

	if cfg.EncryptionKey == "" {
		return p, closer, nil
	}

	key, err := credential.KeyFromBase64(cfg.EncryptionKey)
	if err == nil {
		var c *credential.Cipher
		if c, err = credential.NewCipher(key); err == nil {
			return credential.NewEncryptedPersister(p, c), closer, nil
		}
	}
	if closer != nil {
		_ = closer.Close()
	}
	return nil, nil, fmt.Errorf("invalid storage encryption key: %w", err)
}
