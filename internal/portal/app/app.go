package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/findit/internal/portal/http"
	"github.com/aussiebroadwan/findit/internal/portal/domain"
	"github.com/aussiebroadwan/findit/internal/portal/service"
	"github.com/aussiebroadwan/findit/internal/portal/store"
	"github.com/aussiebroadwan/findit/internal/portal/store/drivers/postgres"
	"github.com/aussiebroadwan/findit/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/findit/pkg/cryptox"
	"github.com/aussiebroadwan/findit/pkg/httpx"
	"github.com/aussiebroadwan/findit/pkg/slogx"
)

const (
	// BuildVersion is overridden at build time via -ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the portal service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db   store.Store
	keys *SessionKeys

	audit       *service.AuditLog
	guard       *service.LockoutGuard
	credentials *service.CredentialService
	sessions    *service.SessionIssuer
	identities  *service.IdentityService
	content     *service.ContentService

	server *http.Server
	router *httpapi.Router
}

func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "findit-portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := initSentry(cfg.SentryDSN, cfg.Env, BuildVersion); err != nil {
		app.logger.Error("failed to initialise sentry", "error", err)
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := httpx.SetTrustedProxies(app.cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keys, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.keys = keys

	app.initServices()

	if err := app.bootstrapAdmin(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Run serves until SIGINT/SIGTERM or a server error.
func (app *Application) Run() error {
	app.logger.Info("portal starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")
	defer flushSentry()

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal stopped")
	return nil
}

func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(context.Background(), app.cfg.DatabaseURL, postgres.Config{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		})
	default:
		db, err = sqlite.NewStore("file:" + app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initServices() {
	app.audit = &service.AuditLog{Store: app.db, Report: reportAuditFailure}
	app.guard = &service.LockoutGuard{
		Store: app.db,
		Policy: domain.LockoutPolicy{
			MaxFailures: app.cfg.LockoutMaxFailures,
			Duration:    app.cfg.LockoutDuration,
		},
	}
	app.credentials = &service.CredentialService{Store: app.db, Guard: app.guard, Audit: app.audit}
	app.sessions = &service.SessionIssuer{
		Signer: app.keys.Signer,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	}
	app.identities = &service.IdentityService{Store: app.db, Guard: app.guard, Audit: app.audit}
	app.content = &service.ContentService{Store: app.db, Audit: app.audit}
}

// bootstrapAdmin creates the configured staff identity on first start.
func (app *Application) bootstrapAdmin(ctx context.Context) error {
	if app.cfg.BootstrapHandle == "" || app.cfg.BootstrapEmail == "" || app.cfg.BootstrapPassword == "" {
		return nil
	}

	created, err := app.identities.Bootstrap(ctx, service.RegisterRequest{
		Handle:      app.cfg.BootstrapHandle,
		Email:       app.cfg.BootstrapEmail,
		Password:    app.cfg.BootstrapPassword,
		DisplayName: "Administrator",
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin identity: %w", err)
	}
	if created {
		app.logger.Info("bootstrap admin identity created", "handle", app.cfg.BootstrapHandle)
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keys.KeySet,
		app.keys.Verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Credentials = app.credentials
	router.Sessions = app.sessions
	router.Identities = app.identities
	router.Content = app.content
	router.Audit = app.audit
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
