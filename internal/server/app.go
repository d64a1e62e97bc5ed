// Package server wires the blog backend together: configuration, the primary
// store, the credential manager, the spreadsheet mirror, and the HTTP and
// gRPC health endpoints.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/blogmirror/internal/logging"
	"github.com/dmitrijs2005/blogmirror/internal/mirror"
	"github.com/dmitrijs2005/blogmirror/internal/server/auth"
	"github.com/dmitrijs2005/blogmirror/internal/server/config"
	"github.com/dmitrijs2005/blogmirror/internal/server/export"
	gs "github.com/dmitrijs2005/blogmirror/internal/server/grpc"
	"github.com/dmitrijs2005/blogmirror/internal/server/httpapi"
	"github.com/dmitrijs2005/blogmirror/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogmirror/internal/server/services"
)

const storeCheckInterval = 30 * time.Second

var openPostgres = repomanager.OpenPostgres

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	health   *gs.Health
	recorder *mirror.Recorder
	users    *services.UserService
	posts    *services.PostService
	comments *services.CommentService
	exporter *export.Exporter
}

// NewApp opens the primary store (PostgreSQL, or process memory when the DSN
// is empty), applies migrations and opens the mirror workbook.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger,
		health: gs.NewHealth(gs.ComponentStore, gs.ComponentMirror),
	}

	var store services.Store
	if cfg.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN, using in-memory store")
		store = services.NewMemoryStore()
	} else {
		db, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repos := repomanager.NewPostgresRepositoryManager()
		if err := repos.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		store = services.NewSQLStore(db, repos)
	}

	sink, err := mirror.OpenExcelSink(cfg.MirrorPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("mirror init error: %w", err)
	}

	app.recorder = mirror.NewRecorder(sink, logger, mirror.WithStatusReporter(app.health))

	creds := auth.NewManager(cfg)
	app.users = services.NewUserService(store, creds, app.recorder, logger)
	app.posts = services.NewPostService(store, logger)
	app.comments = services.NewCommentService(store, app.recorder, logger)
	app.exporter = export.NewExporter(cfg, app.recorder, logger)

	return app, nil
}

func (app *App) Users() *services.UserService { return app.users }

func (app *App) Exporter() *export.Exporter { return app.exporter }

func (app *App) Recorder() *mirror.Recorder { return app.recorder }

func (app *App) Health() *gs.Health { return app.health }

// Close releases the primary store connection pool.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// watchStore pings the primary store and reports the outcome until ctx is done.
func (app *App) watchStore(ctx context.Context, interval time.Duration) {
	if app.db == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := app.db.PingContext(ctx)
			if err != nil && ctx.Err() == nil {
				app.logger.Error(ctx, "primary store ping failed", "error", err)
			}
			app.health.Report(gs.ComponentStore, err == nil)
		}
	}
}

// Run serves HTTP and gRPC until a signal arrives, ctx is cancelled or one of
// the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, httpapi.Services{
		Users:    app.users,
		Posts:    app.posts,
		Comments: app.comments,
	}, app.health, app.logger)
	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.health, app.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Run(ctx)
	})
	g.Go(func() error {
		return grpcServer.Run(ctx)
	})
	g.Go(func() error {
		app.watchStore(ctx, storeCheckInterval)
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error(ctx, "server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
