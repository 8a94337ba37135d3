// Package app wires configuration, logging, the dataset store and the HTTP
// transport into a runnable service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wastesense/internal/config"
	"wastesense/internal/dataset"
	apierrors "wastesense/internal/errors"
	"wastesense/internal/infrastructure"
	"wastesense/internal/middleware"
	"wastesense/internal/services"
	httptransport "wastesense/internal/transport/http"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// Application holds all service dependencies
type Application struct {
	config  *config.Config
	logger  *slog.Logger
	store   *dataset.Store
	service *services.InsightService
	router  chi.Router
	server  *http.Server
}

// New creates a fully wired application from the loaded configuration.
func New(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	store := dataset.NewStore()
	service := services.NewInsightService(store, logger)

	app := &Application{
		config:  cfg,
		logger:  logger,
		store:   store,
		service: service,
	}
	app.router = app.buildRouter()
	app.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return app, nil
}

// Router exposes the HTTP handler, primarily for tests.
func (app *Application) Router() http.Handler {
	return app.router
}

func (app *Application) buildRouter() chi.Router {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewHTTPMetrics(registry)

	errorHandler := apierrors.NewErrorHandler(app.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metrics.Handler)
	r.Use(middleware.StructuredLogger(app.logger))
	r.Use(middleware.Recoverer(app.logger))

	if app.config.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: app.config.Security.AllowedOrigins,
		}))
	}
	if app.config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			app.config.Security.RateLimit.RPS,
			app.config.Security.RateLimit.Burst,
			app.logger,
		)
		r.Use(limiter.Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", httptransport.NewHealthHandler(app.service, Version).Routes())
		r.Mount("/upload", httptransport.NewUploadHandler(app.service, app.logger, errorHandler, app.config.Upload.MaxBytes).Routes())
		r.Mount("/risk", httptransport.NewRiskHandler(app.service, app.logger, errorHandler).Routes())
		r.Mount("/alerts", httptransport.NewAlertsHandler(app.service, app.logger, errorHandler).Routes())
		r.Mount("/analysis", httptransport.NewAnalysisHandler(app.service, app.logger, errorHandler).Routes())
		r.Mount("/inventory", httptransport.NewInventoryHandler(app.service, app.logger, errorHandler).Routes())
		r.Mount("/model", httptransport.NewModelHandler(app.service, app.logger, errorHandler).Routes())
		r.Mount("/root-cause", httptransport.NewRootCauseHandler(app.service, app.logger, errorHandler).Routes())
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}

// Run starts the HTTP server and blocks until shutdown completes.
func (app *Application) Run() error {
	shutdownErr := make(chan error, 1)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit

		app.logger.Info("shutting down server", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()
		shutdownErr <- app.server.Shutdown(ctx)
	}()

	app.logger.Info("starting server",
		slog.String("addr", app.server.Addr),
		slog.String("version", Version),
	)

	if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	app.logger.Info("server stopped")
	return nil
}
