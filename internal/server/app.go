// Package server wires and runs the social media server: it opens the
// database, applies migrations, builds the domain services and runs the HTTP
// API next to the gRPC health endpoint until the context is cancelled or a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/socialmedia/internal/logging"
	"github.com/dmitrijs2005/socialmedia/internal/server/config"
	"github.com/dmitrijs2005/socialmedia/internal/server/httpapi"
	"github.com/dmitrijs2005/socialmedia/internal/server/metrics"
	"github.com/dmitrijs2005/socialmedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/socialmedia/internal/server/services"

	gs "github.com/dmitrijs2005/socialmedia/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
	grpcServer *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	db, err := repomanager.Open(ctx, c.DatabaseDSN, repomanager.PoolOptions{
		MaxOpenConns: c.MaxOpenConns,
		MaxIdleConns: c.MaxIdleConns,
		PingTimeout:  c.StorageTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, repomanager.NewPostgresRepositoryManager(c.StorageTimeout))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	as := services.NewAccountService(db, rm)
	ms := services.NewMessageService(db, rm, as, c)

	m := metrics.New()

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: httpapi.NewServer(c.HTTPAddr, logger, as, ms, db, m, c.ShutdownTimeout),
		grpcServer: gs.NewHealthServer(c.GRPCHealthAddr, logger),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// run starts a server and cancels the whole app if it fails.
func (app *App) run(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error, errs chan<- error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		errs <- fmt.Errorf("%s: %w", name, err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives or one of
// the servers fails. It returns the first server error, if any, after both
// servers have stopped and the database is closed.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	errs := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.run(ctx, cancelFunc, "http", app.httpServer.Run, errs)
	}()
	go func() {
		defer wg.Done()
		app.run(ctx, cancelFunc, "grpc", app.grpcServer.Run, errs)
	}()

	wg.Wait()
	close(errs)

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	if z, ok := app.logger.(*logging.ZapLogger); ok {
		_ = z.Sync()
	}

	app.logger.Info(ctx, "App stopped")

	return <-errs
}
