// Package game wires the game module: domain rules, state persistence, the
// application service, and the HTTP surface.
package game

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	gameservice "github.com/oh-hell-club/kachuful-bot/app/modules/game/application"
	gamehandlers "github.com/oh-hell-club/kachuful-bot/app/modules/game/infrastructure/handlers"
	gamedb "github.com/oh-hell-club/kachuful-bot/app/modules/game/infrastructure/repositories"
	"github.com/oh-hell-club/kachuful-bot/internal/eventbus"
	"github.com/oh-hell-club/kachuful-bot/internal/metrics"
)

// Module represents the game module.
type Module struct {
	GameService gameservice.Service
	handlers    *gamehandlers.GameHandlers
	logger      *slog.Logger
}

// NewGameModule creates and initializes a new game module.
func NewGameModule(
	ctx context.Context,
	logger *slog.Logger,
	bus eventbus.EventBus,
	gameMetrics metrics.GameMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) (*Module, error) {
	logger.InfoContext(ctx, "game.NewGameModule initializing")

	repo := gamedb.NewRepository(db)
	service := gameservice.NewGameService(repo, bus, logger, gameMetrics, tracer, db)
	handlers := gamehandlers.NewGameHandlers(service, logger, tracer)

	return &Module{
		GameService: service,
		handlers:    handlers,
		logger:      logger,
	}, nil
}

// RegisterRoutes mounts the module's HTTP endpoints on the given router.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.handlers.RegisterRoutes(r)
}

// Close shuts down the game module.
func (m *Module) Close() error {
	m.logger.Info("Game module stopped")
	return nil
}
