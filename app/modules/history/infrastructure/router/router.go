package historyrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"

	historyhandlers "github.com/oh-hell-club/kachuful-bot/app/modules/history/infrastructure/handlers"
	"github.com/oh-hell-club/kachuful-bot/internal/eventbus"
	"github.com/oh-hell-club/kachuful-bot/internal/events"
)

// HistoryRouter handles Watermill handler registration for history events.
type HistoryRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
}

// NewHistoryRouter creates a new HistoryRouter.
func NewHistoryRouter(logger *slog.Logger, router *message.Router, subscriber eventbus.EventBus) *HistoryRouter {
	return &HistoryRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
	}
}

// Configure sets up the router with handlers.
func (r *HistoryRouter) Configure(_ context.Context, handlers *historyhandlers.HistoryHandlers) error {
	r.logger.Info("Registering history module handlers",
		slog.String("game_completed_topic", events.GameCompletedV1),
	)

	r.router.AddNoPublisherHandler(
		"history.game_completed",
		events.GameCompletedV1,
		r.subscriber.Subscriber(),
		handlers.HandleGameCompleted,
	)

	r.logger.Info("History module handlers registered successfully")
	return nil
}
