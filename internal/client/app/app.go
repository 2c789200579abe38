// Package app wires the terminal client: configuration, tab scoped storage,
// the session store, the backend client and the bubbletea program.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/aussiebroadwan/leavedesk/internal/client/domain"
	"github.com/aussiebroadwan/leavedesk/internal/client/flow"
	"github.com/aussiebroadwan/leavedesk/internal/client/guard"
	"github.com/aussiebroadwan/leavedesk/internal/client/session"
	"github.com/aussiebroadwan/leavedesk/internal/client/storage"
	"github.com/aussiebroadwan/leavedesk/internal/client/storage/drivers/redis"
	"github.com/aussiebroadwan/leavedesk/internal/client/storage/drivers/sqlite"
	"github.com/aussiebroadwan/leavedesk/internal/client/ui"
	"github.com/aussiebroadwan/leavedesk/pkg/authsdk"
	"github.com/aussiebroadwan/leavedesk/pkg/idx"
	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the terminal client with all its dependencies.
type Application struct {
	cfg     Config
	logger  *slog.Logger
	logFile io.Closer

	store  storage.Storage
	bucket *storage.Bucket
	pinned bool

	client       *authsdk.Client
	sessions     *session.Store
	housekeeping *HousekeepingService
}

// New creates an Application logging to cfg.LogFile.
func New(ctx context.Context, cfg Config) (*Application, error) {
	f, err := slogx.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slogx.New(slogx.Config{
		Service: "leavedesk",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  f,
	})

	app, err := NewWithLogger(ctx, cfg, logger)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	app.logFile = f
	return app, nil
}

// NewWithLogger creates an Application and restores any session left in
// the tab scope.
func NewWithLogger(ctx context.Context, cfg Config, logger *slog.Logger) (*Application, error) {
	app := &Application{cfg: cfg, logger: logger}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.store = store

	scope, err := idx.ParseOrNew(cfg.TabID)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("invalid tab id %q: %w", cfg.TabID, err)
	}
	app.pinned = strings.TrimSpace(cfg.TabID) != ""
	app.bucket = storage.NewBucket(store, scope.String())
	logger.Info("storage ready", "driver", cfg.Storage, "scope", scope, "pinned", app.pinned)

	if sweeper, ok := store.(storage.Sweeper); ok {
		app.housekeeping = NewHousekeepingService(sweeper, logger, cfg.HousekeepingInterval, cfg.TabTTL)
	}

	app.sessions = session.New(app.bucket, logger)
	if sess, ok := app.sessions.Restore(ctx); ok {
		logger.Info("session restored", "employee_id", sess.Identity.EmployeeID, "role", sess.Identity.Role())
	}

	app.client = authsdk.NewClient(cfg.APIURL)
	app.client.HTTPClient.Timeout = cfg.HTTPTimeout
	app.client.Endpoints = cfg.Endpoints()

	return app, nil
}

func openStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	switch cfg.Storage {
	case StorageMemory:
		return storage.NewMemory(), nil

	case StorageRedis:
		s, err := redis.Dial(ctx, cfg.RedisAddr, cfg.TabTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return s, nil

	case StorageSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBFile), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create state dir: %w", err)
		}
		s, err := sqlite.NewStore(cfg.DBFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := s.ApplyMigrations(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage)
	}
}

// Client is the backend client.
func (app *Application) Client() *authsdk.Client { return app.client }

// Sessions is the session store of this tab.
func (app *Application) Sessions() *session.Store { return app.sessions }

// StartPath is the home of a restored session, or the login view.
func (app *Application) StartPath() string {
	if sess, ok := app.sessions.Current(); ok {
		return guard.HomeFor(sess.Identity.Role())
	}
	return guard.PathLogin
}

// Model builds the root bubbletea model.
func (app *Application) Model(ctx context.Context) *ui.Navigator {
	return ui.NewNavigator(ctx, ui.Deps{
		Backend:      app.client,
		Sessions:     app.sessions,
		Guard:        guard.New(nil),
		Slot:         flow.NewChallengeSlot(app.cfg.ChallengeTTL),
		ResendWindow: app.cfg.ResendWindow,
		Logger:       app.logger,
	}, app.StartPath())
}

// Run shows the terminal UI and runs housekeeping until the user quits or
// ctx is cancelled. opts are passed to the bubbletea program.
func (app *Application) Run(ctx context.Context, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	program := tea.NewProgram(app.Model(gctx), opts...)

	// Listeners run inside Commit and Clear, which views call from the
	// event loop, so the send must not block it.
	app.sessions.Subscribe(func(*domain.Session) {
		go program.Send(ui.RecheckMsg{})
	})

	if app.housekeeping != nil {
		g.Go(func() error {
			return app.housekeeping.Run(gctx)
		})
	}

	g.Go(func() error {
		defer cancel()
		app.logger.Info("client starting", "api_url", app.cfg.APIURL, "version", BuildVersion)
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal ui failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		program.Quit()
		return nil
	})

	return g.Wait()
}

// Close releases storage and the log file. A scope that was not pinned
// dies with the process, the way a closed tab loses its session storage.
func (app *Application) Close() error {
	var errs []error
	if !app.pinned {
		if err := app.bucket.Purge(context.Background(), session.KeyToken, session.KeyUser); err != nil {
			errs = append(errs, fmt.Errorf("purge scope: %w", err))
		}
	}
	if err := app.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	app.logger.Info("client stopped")
	if app.logFile != nil {
		if err := app.logFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
