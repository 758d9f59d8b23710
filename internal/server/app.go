// Package server initializes and runs the application: configuration,
// logging, database, migrations, services and the HTTP server, with
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mkravets/paperjobs/internal/logging"
	"github.com/mkravets/paperjobs/internal/server/config"
	"github.com/mkravets/paperjobs/internal/server/repositories/repomanager"
	"github.com/mkravets/paperjobs/internal/server/security"
	"github.com/mkravets/paperjobs/internal/server/services"
	"github.com/mkravets/paperjobs/internal/server/web"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// App owns the wired application graph.
type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *web.Server
}

// NewApp builds the application: opens the database, runs migrations and
// wires services, handlers and the router.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("template error: %w", err)
	}

	handlers := web.NewHandlers(
		services.NewUserService(db, rm, logger),
		services.NewJobService(db, rm, cfg, logger),
		security.NewCSRFGuard(cfg.Production),
		cfg, renderer, logger, db,
	)

	gate := web.NewRequestGate(cfg.NonceCSPEnabled, logger)
	router := web.NewRouter(handlers, gate)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		server: web.NewServer(cfg.EndpointAddr, router, logger),
	}, nil
}

func (app *App) initSignalHandler(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancel()
	}()
}

// Run serves until an OS signal arrives, then shuts down and closes the
// database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Info(ctx, "starting app", "addr", app.config.EndpointAddr)
	app.initSignalHandler(cancel)

	err := app.server.Run(ctx)

	if closeErr := app.db.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}
