package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	httpapi "github.com/aussiebroadwan/leavedesk/internal/devserver/http"
	"github.com/aussiebroadwan/leavedesk/internal/devserver/service"
	"github.com/aussiebroadwan/leavedesk/pkg/cryptox"
	"github.com/aussiebroadwan/leavedesk/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the dev backend with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	authService         *service.AuthService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application logging to stdout.
func New(cfg Config) (*Application, error) {
	return NewWithLogger(cfg, slogx.New(slogx.Config{
		Service: "leavedesk-devserver",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}), nil)
}

// NewWithLogger creates an Application. A nil notifier logs codes.
func NewWithLogger(cfg Config, logger *slog.Logger, notifier service.Notifier) (*Application, error) {
	app := &Application{cfg: cfg, logger: logger}

	pepper := ""
	if cfg.PepperFile != "" {
		p, err := cryptox.LoadOrGeneratePepper(cfg.PepperFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load pepper: %w", err)
		}
		pepper = p
	}

	records := service.DefaultUsers()
	if cfg.UsersFile != "" {
		r, err := service.LoadUsersFile(cfg.UsersFile)
		if err != nil {
			return nil, err
		}
		records = r
	}
	users, err := service.NewUserDirectory(cryptox.NewHasher(pepper), records)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	logger.Info("user directory loaded", "users", len(records), "fixture", cfg.UsersFile)

	signer, verifier, err := InitKeys(cfg.Issuer, logger)
	if err != nil {
		return nil, err
	}

	if notifier == nil {
		notifier = service.LogNotifier{Logger: logger}
	}

	app.authService = &service.AuthService{
		Users:        users,
		Challenges:   service.NewChallengeStore(),
		Notifier:     notifier,
		Signer:       signer,
		Issuer:       cfg.Issuer,
		ChallengeTTL: cfg.ChallengeTTL,
		SessionTTL:   cfg.SessionTTL,
	}
	if cfg.FixedOTP {
		app.authService.FixedCode = FixedOTPCode
		logger.Warn("fixed otp enabled", "code", FixedOTPCode)
	}

	app.housekeepingService = service.NewHousekeepingService(app.authService, logger, cfg.HousekeepingInterval)

	app.router = httpapi.NewRouter(verifier, BuildVersion, logger)
	app.router.AuthService = app.authService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return app, nil
}

// Handler returns the HTTP handler with all routes and middleware.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves HTTP and runs housekeeping until ctx is cancelled or the server
// fails, then shuts down gracefully.
func (app *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.housekeepingService.Run(gctx)
	})

	g.Go(func() error {
		app.logger.Info("devserver starting", "port", app.cfg.Port, "version", BuildVersion)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return app.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully stops the HTTP server.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down devserver...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	app.logger.Info("devserver stopped")
	return nil
}
