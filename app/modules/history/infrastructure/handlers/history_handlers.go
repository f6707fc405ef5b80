package historyhandlers

import (
	"fmt"
	"net/http"
	"strconv"
)

// defaultListLimit caps the list response when the client does not ask for a
// size. limit=0 requests the full archive.
const defaultListLimit = 10

// HandleListGames returns archived games, most recent first. An optional
// limit query parameter overrides the default result size.
func (h *HistoryHandlers) HandleListGames(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	records, err := h.service.ListGames(r.Context(), limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, records)
}

// HandleClearHistory wipes the archive.
func (h *HistoryHandlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearHistory(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetGame returns one archived game.
func (h *HistoryHandlers) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok := h.gameIDFromURL(w, r)
	if !ok {
		return
	}

	record, err := h.service.GetGame(r.Context(), gameID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, record)
}

// HandleScoreChart streams the score progression chart as a PNG.
func (h *HistoryHandlers) HandleScoreChart(w http.ResponseWriter, r *http.Request) {
	gameID, ok := h.gameIDFromURL(w, r)
	if !ok {
		return
	}

	png, err := h.service.RenderScoreChart(r.Context(), gameID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// HandleScoreboardExport streams the scoreboard workbook as an xlsx download.
func (h *HistoryHandlers) HandleScoreboardExport(w http.ResponseWriter, r *http.Request) {
	gameID, ok := h.gameIDFromURL(w, r)
	if !ok {
		return
	}

	data, err := h.service.ExportScoreboard(r.Context(), gameID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "scoreboard-"+gameID.String()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
