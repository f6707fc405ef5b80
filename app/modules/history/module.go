// Package history wires the history module: the archive store, the event
// consumer that feeds it, and the HTTP surface over it.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	historyservice "github.com/oh-hell-club/kachuful-bot/app/modules/history/application"
	historyhandlers "github.com/oh-hell-club/kachuful-bot/app/modules/history/infrastructure/handlers"
	historydb "github.com/oh-hell-club/kachuful-bot/app/modules/history/infrastructure/repositories"
	historyrouter "github.com/oh-hell-club/kachuful-bot/app/modules/history/infrastructure/router"
	"github.com/oh-hell-club/kachuful-bot/internal/eventbus"
	"github.com/oh-hell-club/kachuful-bot/internal/metrics"
)

// Module represents the history module.
type Module struct {
	HistoryService historyservice.Service
	handlers       *historyhandlers.HistoryHandlers
	logger         *slog.Logger
}

// NewHistoryModule creates and initializes a new history module, registering
// its event consumer on the shared message router.
func NewHistoryModule(
	ctx context.Context,
	logger *slog.Logger,
	bus eventbus.EventBus,
	router *message.Router,
	historyMetrics metrics.HistoryMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) (*Module, error) {
	logger.InfoContext(ctx, "history.NewHistoryModule initializing")

	repo := historydb.NewRepository(db)
	service := historyservice.NewHistoryService(repo, logger, historyMetrics, tracer, db)
	handlers := historyhandlers.NewHistoryHandlers(service, logger, tracer)

	moduleRouter := historyrouter.NewHistoryRouter(logger, router, bus)
	if err := moduleRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure history router: %w", err)
	}

	return &Module{
		HistoryService: service,
		handlers:       handlers,
		logger:         logger,
	}, nil
}

// RegisterRoutes mounts the module's HTTP endpoints on the given router.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.handlers.RegisterRoutes(r)
}

// Close shuts down the history module.
func (m *Module) Close() error {
	m.logger.Info("History module stopped")
	return nil
}
