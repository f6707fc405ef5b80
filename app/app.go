// Package app assembles the application: database, event bus, message
// router, modules, and the HTTP surfaces.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"

	"github.com/oh-hell-club/kachuful-bot/app/modules/game"
	"github.com/oh-hell-club/kachuful-bot/app/modules/history"
	"github.com/oh-hell-club/kachuful-bot/config"
	"github.com/oh-hell-club/kachuful-bot/internal/eventbus"
	"github.com/oh-hell-club/kachuful-bot/internal/httpmw"
	appmetrics "github.com/oh-hell-club/kachuful-bot/internal/metrics"
)

const (
	// TestEnvironmentFlag is the env var checked to skip Prometheus router
	// metrics in tests, where a shared registry would collide across cases.
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// App holds the application's wired components.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *bun.DB
	Bus           *eventbus.Bus
	MessageRouter *message.Router
	GameModule    *game.Module
	HistoryModule *history.Module

	registry      *prometheus.Registry
	tracer        trace.Tracer
	httpServer    *http.Server
	metricsServer *http.Server
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bus := eventbus.NewGoChannelBus(logger)

	messageRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}
	messageRouter.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue
	if !inTestEnv {
		metricsBuilder := metrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder.AddPrometheusRouterMetrics(messageRouter)
	}

	tracer := noop.NewTracerProvider().Tracer("kachuful-bot")

	gameMetrics := appmetrics.NewGameMetrics(registry)
	historyMetrics := appmetrics.NewHistoryMetrics(registry)

	gameModule, err := game.NewGameModule(ctx, logger, bus, gameMetrics, tracer, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize game module: %w", err)
	}

	historyModule, err := history.NewHistoryModule(ctx, logger, bus, messageRouter, historyMetrics, tracer, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history module: %w", err)
	}

	a := &App{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Bus:           bus,
		MessageRouter: messageRouter,
		GameModule:    gameModule,
		HistoryModule: historyModule,
		registry:      registry,
		tracer:        tracer,
	}

	a.httpServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           a.buildHTTPHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.Observability.MetricsAddress != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		a.metricsServer = &http.Server{
			Addr:              cfg.Observability.MetricsAddress,
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

// buildHTTPHandler assembles the API router with logging and rate limiting.
func (a *App) buildHTTPHandler() http.Handler {
	limiter := httpmw.NewIPRateLimiter(
		rate.Limit(a.Config.HTTP.RateLimitPerSecond),
		a.Config.HTTP.RateLimitBurst,
	)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(httpmw.RequestLogger(a.Logger))
	r.Use(limiter.Middleware)

	r.Get("/healthz", a.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		a.GameModule.RegisterRoutes(r)
		a.HistoryModule.RegisterRoutes(r)
	})

	return r
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := a.DB.PingContext(r.Context()); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Run starts the message router and HTTP servers and blocks until the
// context is canceled or a server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	go func() {
		if err := a.MessageRouter.Run(ctx); err != nil {
			errCh <- fmt.Errorf("message router stopped: %w", err)
		}
	}()

	select {
	case <-a.MessageRouter.Running():
	case <-ctx.Done():
		return ctx.Err()
	}

	go func() {
		a.Logger.Info("HTTP server listening", slog.String("address", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server stopped: %w", err)
		}
	}()

	if a.metricsServer != nil {
		go func() {
			a.Logger.Info("Metrics server listening", slog.String("address", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server stopped: %w", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

// Close shuts the application down in reverse dependency order.
func (a *App) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if a.MessageRouter != nil {
		if err := a.MessageRouter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("message router close: %w", err))
		}
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus close: %w", err))
		}
	}

	if a.GameModule != nil {
		if err := a.GameModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.HistoryModule != nil {
		if err := a.HistoryModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(errs...)
}
