package historyhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	historyservice "github.com/oh-hell-club/kachuful-bot/app/modules/history/application"
	"github.com/oh-hell-club/kachuful-bot/internal/attr"
)

// HistoryHandlers exposes the game archive over HTTP and consumes game
// completion events.
type HistoryHandlers struct {
	service historyservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewHistoryHandlers creates a new HistoryHandlers instance.
func NewHistoryHandlers(service historyservice.Service, logger *slog.Logger, tracer trace.Tracer) *HistoryHandlers {
	return &HistoryHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// RegisterRoutes mounts the history endpoints on the given router.
func (h *HistoryHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.HandleListGames)
		r.Delete("/", h.HandleClearHistory)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", h.HandleGetGame)
			r.Get("/chart.png", h.HandleScoreChart)
			r.Get("/scoreboard.xlsx", h.HandleScoreboardExport)
		})
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *HistoryHandlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func (h *HistoryHandlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, historyservice.ErrNotFound) {
		h.respondJSON(w, http.StatusNotFound, errorResponse{Error: "game not found in history"})
		return
	}

	h.logger.ErrorContext(r.Context(), "History operation failed",
		attr.ExtractCorrelationID(r.Context()),
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// gameIDFromURL parses the gameID path parameter.
func (h *HistoryHandlers) gameIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	gameID, err := uuid.Parse(chi.URLParam(r, "gameID"))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid game id"})
		return uuid.Nil, false
	}
	return gameID, true
}
