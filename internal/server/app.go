// Package server wires configuration, storage, the token cache, services and
// the HTTP API into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/httpapi"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
	"github.com/dmitrijs2005/taskboard/internal/server/storage"
	"github.com/dmitrijs2005/taskboard/internal/server/storage/memory"
	"github.com/dmitrijs2005/taskboard/internal/server/storage/sqlstore"
	"github.com/dmitrijs2005/taskboard/internal/server/tokencache"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSON(os.Stdout, c.LogLevel))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	app := &App{config: c, logger: logger.With("module", "app")}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store, db, err := app.openStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if db != nil {
		app.closers = append(app.closers, db.Close)
		registry.MustRegister(collectors.NewDBStatsCollector(db, c.Driver))
	}

	cache := app.tokenCache(ctx, logger)

	svc := services.New(services.Deps{Store: store, Cache: cache, Logger: logger})

	metrics, err := httpapi.NewMetrics(registry)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("metrics init error: %w", err)
	}
	app.handler = httpapi.NewRouter(svc, logger, metrics, c.DefaultPageLimit)

	return app, nil
}

func (app *App) openStore(ctx context.Context) (storage.AppDatabase, *sql.DB, error) {
	switch app.config.Driver {
	case config.DriverMemory:
		app.logger.Info(ctx, "Using in-memory storage")
		return memory.New(), nil, nil
	case config.DriverPostgres:
		return sqlstore.Open(ctx, repomanager.Postgres, app.config.DatabaseDSN, app.logger)
	case config.DriverSQLite:
		return sqlstore.Open(ctx, repomanager.SQLite, app.config.DatabaseDSN, app.logger)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", app.config.Driver)
	}
}

// tokenCache picks Redis when an address is configured, the in-process cache
// when only a TTL is, and nothing otherwise.
func (app *App) tokenCache(ctx context.Context, logger logging.Logger) tokencache.Cache {
	c := app.config
	switch {
	case c.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddr, DB: c.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			app.logger.Warn(ctx, "redis unreachable, token lookups will hit storage", "address", c.RedisAddr, "error", err)
		}
		app.closers = append(app.closers, client.Close)
		return tokencache.NewRedis(client, c.TokenCacheTTL, logger)
	case c.TokenCacheTTL > 0:
		return tokencache.NewMemory(c.TokenCacheTTL)
	default:
		return nil
	}
}

// Handler exposes the HTTP API.
func (app *App) Handler() http.Handler {
	return app.handler
}

// Close releases the database pool and the Redis client.
func (app *App) Close() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		errs = append(errs, app.closers[i]())
	}
	app.closers = nil
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then shuts the server down gracefully and releases resources.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	srv := &http.Server{
		Addr:         app.config.HTTPAddr,
		Handler:      app.handler,
		ReadTimeout:  app.config.ReadTimeout,
		WriteTimeout: app.config.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr, "driver", app.config.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		return errors.Join(err, app.Close())
	}

	app.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	return errors.Join(err, app.Close())
}
