package gamehandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	gameservice "github.com/oh-hell-club/kachuful-bot/app/modules/game/application"
	gamedb "github.com/oh-hell-club/kachuful-bot/app/modules/game/infrastructure/repositories"
	"github.com/oh-hell-club/kachuful-bot/internal/attr"
)

// GameHandlers exposes the game lifecycle over HTTP.
type GameHandlers struct {
	service gameservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewGameHandlers creates a new GameHandlers instance.
func NewGameHandlers(service gameservice.Service, logger *slog.Logger, tracer trace.Tracer) *GameHandlers {
	return &GameHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// RegisterRoutes mounts the game endpoints on the given router.
func (h *GameHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/", h.HandleInitGame)
		r.Get("/", h.HandleGetGame)
		r.Delete("/", h.HandleResetGame)

		r.Put("/bids", h.HandleSubmitBids)
		r.Put("/results", h.HandleSubmitResults)

		r.Post("/advance", h.HandleNextRound)
		r.Post("/end", h.HandleEndGame)
		r.Post("/continue", h.HandleContinueGame)

		r.Get("/round", h.HandleGetCurrentRound)
		r.Get("/leader", h.HandleGetLeader)
		r.Get("/standings", h.HandleGetStandings)
		r.Get("/stats", h.HandleGetStatistics)
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *GameHandlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondFailure maps a handled service failure onto an HTTP status: rule
// violations carry a validation code and map to 422, sequencing and no-op
// guards map to 409.
func (h *GameHandlers) respondFailure(w http.ResponseWriter, failure *gameservice.GameFailure) {
	status := http.StatusConflict
	if failure.Code != "" {
		status = http.StatusUnprocessableEntity
	}
	h.respondJSON(w, status, errorResponse{Error: failure.Reason, Code: string(failure.Code)})
}

func (h *GameHandlers) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Game operation failed",
		attr.ExtractCorrelationID(r.Context()),
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// respondQueryError maps query errors: a missing game is 404, everything else
// is a server fault.
func (h *GameHandlers) respondQueryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gamedb.ErrNotFound) {
		h.respondJSON(w, http.StatusNotFound, errorResponse{Error: "no active game"})
		return
	}
	h.respondServiceError(w, r, err)
}

func (h *GameHandlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
