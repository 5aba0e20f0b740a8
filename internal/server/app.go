// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/urbannest/internal/dbx"
	"github.com/dmitrijs2005/urbannest/internal/logging"
	"github.com/dmitrijs2005/urbannest/internal/server/cache"
	"github.com/dmitrijs2005/urbannest/internal/server/config"
	"github.com/dmitrijs2005/urbannest/internal/server/httpapi"
	"github.com/dmitrijs2005/urbannest/internal/server/objectstore"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/urbannest/internal/server/services"
	"github.com/dmitrijs2005/urbannest/internal/validation"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *cache.Redis
	server *httpapi.Server
}

// NewApp opens the database, applies migrations and builds every service.
// Redis is optional: without RedisAddr rate limiting is off.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := dbx.Open(ctx, dbx.DriverPostgres, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := objectstore.New(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	deps := httpapi.Deps{
		DB:     db,
		Log:    logger,
		Config: c,
	}

	if c.RedisAddr != "" {
		r, err := cache.NewRedis(ctx, c.RedisAddr)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		app.redis = r
		deps.Limiter = r
	}

	if ls, ok := store.(*objectstore.LocalStore); ok {
		deps.UploadDir = ls.Root()
	}

	v := validation.New()
	deps.Users = services.NewUserService(db, rm, v, logger, c)
	deps.Properties = services.NewPropertyService(db, rm, v)
	deps.Enquiries = services.NewEnquiryService(db, rm, v)
	deps.Uploads = services.NewUploadService(store, logger)

	app.server = httpapi.NewServer(c.EndpointAddrHTTP, logger, httpapi.NewRouter(deps))

	return app, nil
}

// Run serves HTTP until SIGINT/SIGTERM or ctx cancellation, then releases
// the database and Redis connections.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "rate_limit", app.redis != nil)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server failed", "err", err)
	}

	app.close(context.Background())
	return err
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "err", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "err", err)
	}
	app.logger.Info(ctx, "Stopped")
}
