package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaibs3/ncnews/internal/config"
	"github.com/shaibs3/ncnews/internal/handlers"
	"github.com/shaibs3/ncnews/internal/news"
	"github.com/shaibs3/ncnews/internal/router"
	"github.com/shaibs3/ncnews/internal/store"
	"github.com/shaibs3/ncnews/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// App represents the main application
type App struct {
	config    *config.Config
	logger    *zap.Logger
	telemetry *telemetry.Telemetry
	provider  store.DbProvider
	server    *http.Server
	errCh     chan error
}

func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	tel, err := telemetry.NewTelemetry(logger)
	if err != nil {
		return nil, err
	}

	// Use the factory to create the DB provider
	factory := store.NewDbProviderFactory(logger, tel)
	configJSON := cfg.DBConfig
	if configJSON == "" {
		configJSON = config.DefaultDBConfig
	}
	dbProvider, err := factory.CreateProvider(configJSON)
	if err != nil {
		return nil, err
	}

	svc := news.NewService(dbProvider, logger)
	limiter := rate.NewLimiter(rate.Limit(cfg.RPSLimit), cfg.RPSBurst)

	handlerList := []router.Handler{
		handlers.NewAPIHandler(),
		handlers.NewArticleHandler(svc),
		handlers.NewCommentHandler(svc),
		handlers.NewTopicHandler(svc),
		handlers.NewUserHandler(svc),
	}

	appRouter := router.NewRouter(limiter, tel, logger, handlerList)
	server := appRouter.CreateServer(":" + cfg.Port)

	return &App{
		config:    cfg,
		logger:    logger,
		telemetry: tel,
		provider:  dbProvider,
		server:    server,
		errCh:     make(chan error, 1),
	}, nil
}

// Handler exposes the application's HTTP handler.
func (app *App) Handler() http.Handler {
	return app.server.Handler
}

func (app *App) start() {
	app.logger.Info("starting server", zap.String("port", app.config.Port))

	go func() {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.errCh <- err
		}
	}()
}

// stop shuts the server down, then releases the store and telemetry.
func (app *App) stop() error {
	app.logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server forced to shutdown", zap.Error(err))
		errs = append(errs, err)
	}
	if err := app.provider.Close(); err != nil {
		app.logger.Error("failed to close database provider", zap.Error(err))
		errs = append(errs, err)
	}
	if err := app.telemetry.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		app.logger.Info("server exited gracefully")
	}
	return errors.Join(errs...)
}

// Run starts the application and waits for shutdown signals
func (app *App) Run() error {
	app.start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-app.errCh:
		app.logger.Error("server failed", zap.Error(err))
		return errors.Join(err, app.stop())
	}
	return app.stop()
}
