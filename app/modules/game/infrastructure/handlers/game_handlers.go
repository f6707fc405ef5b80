package gamehandlers

import (
	"net/http"

	"github.com/google/uuid"

	gameservice "github.com/oh-hell-club/kachuful-bot/app/modules/game/application"
	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
)

type initGameRequest struct {
	Players  []string                  `json:"players"`
	Settings gameservice.SettingsPatch `json:"settings"`
}

type bidEntry struct {
	PlayerID  uuid.UUID `json:"player_id"`
	Predicted int       `json:"predicted"`
}

type submitBidsRequest struct {
	Bids []bidEntry `json:"bids"`
}

type resultEntry struct {
	PlayerID uuid.UUID `json:"player_id"`
	Actual   int       `json:"actual"`
}

type submitResultsRequest struct {
	Results []resultEntry `json:"results"`
}

type continueGameRequest struct {
	ExtraRounds int `json:"extra_rounds"`
}

// roundView is the denormalized current-round payload the scorekeeping UI
// renders from: everything needed to collect bids and results without
// re-deriving rules client-side.
type roundView struct {
	Number             int                      `json:"number"`
	Phase              gametypes.RoundStatus    `json:"phase"`
	CardsDealt         int                      `json:"cards_dealt"`
	TrumpSuit          gametypes.TrumpSuit      `json:"trump_suit"`
	TrumpSymbol        string                   `json:"trump_symbol"`
	DealerIndex        int                      `json:"dealer_index"`
	BiddingOrder       []int                    `json:"bidding_order"`
	ForbiddenDealerBid *int                     `json:"forbidden_dealer_bid,omitempty"`
	Bids               []gametypes.PlayerBid    `json:"bids,omitempty"`
	Results            []gametypes.PlayerResult `json:"results,omitempty"`
	Scores             []gametypes.PlayerScore  `json:"scores,omitempty"`
}

func buildRoundView(state *gametypes.GameState, round *gametypes.Round) roundView {
	cardsDealt := gametypes.CardsDealt(state.CurrentRound, state.Settings)
	trump := gametypes.TrumpForRound(state.CurrentRound, state.Settings, state.Seed())

	view := roundView{
		Number:       state.CurrentRound,
		Phase:        state.RoundPhase(state.CurrentRound),
		CardsDealt:   cardsDealt,
		TrumpSuit:    trump,
		TrumpSymbol:  gametypes.SuitSymbol(trump),
		DealerIndex:  state.DealerIndex,
		BiddingOrder: gametypes.BiddingOrder(state.DealerIndex, len(state.Players)),
	}

	if round != nil {
		view.CardsDealt = round.CardsDealt
		view.TrumpSuit = round.TrumpSuit
		view.TrumpSymbol = gametypes.SuitSymbol(round.TrumpSuit)
		view.DealerIndex = round.DealerIndex
		view.BiddingOrder = gametypes.BiddingOrder(round.DealerIndex, len(state.Players))
		view.Bids = round.Bids
		view.Results = round.Results
		view.Scores = round.Scores
	}

	if state.Settings.DealerRestriction && len(view.Bids) > 0 {
		if forbidden, ok := gametypes.ForbiddenDealerBid(view.Bids, view.DealerIndex, view.CardsDealt); ok {
			view.ForbiddenDealerBid = &forbidden
		}
	}

	return view
}

// HandleInitGame starts a new game, replacing any active one.
func (h *GameHandlers) HandleInitGame(w http.ResponseWriter, r *http.Request) {
	var req initGameRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.InitGame(r.Context(), req.Players, req.Settings)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: (*result.Failure).Reason})
		return
	}

	h.respondJSON(w, http.StatusCreated, *result.Success)
}

// HandleGetGame returns the full active game aggregate.
func (h *GameHandlers) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.GetGame(r.Context())
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, state)
}

// HandleResetGame discards the active game.
func (h *GameHandlers) HandleResetGame(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ResetGame(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.respondFailure(w, *result.Failure)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmitBids records the bid set for the current round.
func (h *GameHandlers) HandleSubmitBids(w http.ResponseWriter, r *http.Request) {
	var req submitBidsRequest
	if !h.decode(w, r, &req) {
		return
	}

	bids := make([]gametypes.PlayerBid, 0, len(req.Bids))
	for _, b := range req.Bids {
		bids = append(bids, gametypes.PlayerBid{PlayerID: b.PlayerID, Predicted: b.Predicted})
	}

	result, err := h.service.SubmitBids(r.Context(), bids)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.respondFailure(w, *result.Failure)
		return
	}

	h.respondJSON(w, http.StatusOK, *result.Success)
}

// HandleSubmitResults records actual trick counts and scores the round.
func (h *GameHandlers) HandleSubmitResults(w http.ResponseWriter, r *http.Request) {
	var req submitResultsRequest
	if !h.decode(w, r, &req) {
		return
	}

	submitted := make([]gametypes.PlayerResult, 0, len(req.Results))
	for _, entry := range req.Results {
		submitted = append(submitted, gametypes.PlayerResult{PlayerID: entry.PlayerID, Actual: entry.Actual})
	}

	result, err := h.service.SubmitResults(r.Context(), submitted)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.respondFailure(w, *result.Failure)
		return
	}

	h.respondJSON(w, http.StatusOK, *result.Success)
}

// HandleNextRound advances play to the next round.
func (h *GameHandlers) HandleNextRound(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.NextRound(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.respondFailure(w, *result.Failure)
		return
	}
	h.respondJSON(w, http.StatusOK, *result.Success)
}

// HandleEndGame force-completes the game early.
func (h *GameHandlers) HandleEndGame(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.EndGame(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.respondFailure(w, *result.Failure)
		return
	}
	h.respondJSON(w, http.StatusOK, *result.Success)
}

// HandleContinueGame extends a completed game with extra rounds.
func (h *GameHandlers) HandleContinueGame(w http.ResponseWriter, r *http.Request) {
	var req continueGameRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.ContinueGame(r.Context(), req.ExtraRounds)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if result.IsFailure() {
		h.respondFailure(w, *result.Failure)
		return
	}
	h.respondJSON(w, http.StatusOK, *result.Success)
}

// HandleGetCurrentRound returns the denormalized current-round view.
func (h *GameHandlers) HandleGetCurrentRound(w http.ResponseWriter, r *http.Request) {
	state, round, err := h.service.GetCurrentRound(r.Context())
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, buildRoundView(state, round))
}

// HandleGetLeader returns the current score leader.
func (h *GameHandlers) HandleGetLeader(w http.ResponseWriter, r *http.Request) {
	leader, err := h.service.GetLeader(r.Context())
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, leader)
}

// HandleGetStandings returns the ranked standings view.
func (h *GameHandlers) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.service.GetStandings(r.Context())
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, standings)
}

// HandleGetStatistics returns the aggregate game statistics.
func (h *GameHandlers) HandleGetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStatistics(r.Context())
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, stats)
}
