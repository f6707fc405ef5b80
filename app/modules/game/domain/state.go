package gametypes

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrBidsNotSubmitted is returned when results arrive for a round that
	// has no recorded bids.
	ErrBidsNotSubmitted = errors.New("no bids recorded for the current round")
	// ErrRoundAlreadyScored guards against applying results (and therefore
	// cumulative scores and statistics) twice for the same round.
	ErrRoundAlreadyScored = errors.New("results already submitted for the current round")
)

// NewGame creates an in-progress game with freshly seated players. Names are
// assigned seats in input order; the first round's dealer is seat 0.
func NewGame(gameID uuid.UUID, playerNames []string, settings GameSettings, now time.Time) *GameState {
	players := make([]Player, 0, len(playerNames))
	for i, name := range playerNames {
		players = append(players, Player{
			ID:       uuid.New(),
			Name:     name,
			Position: i,
		})
	}

	return &GameState{
		GameID:       gameID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Status:       GameStatusInProgress,
		Settings:     settings,
		Players:      players,
		CurrentRound: 1,
		DealerIndex:  DealerIndexForRound(1, len(players), 0),
		Rounds:       nil,
	}
}

// Seed returns the stable per-game seed used for deterministic random trump
// selection.
func (g *GameState) Seed() uint64 {
	h := fnv.New64a()
	h.Write(g.GameID[:])
	return h.Sum64()
}

// SubmitBids validates and records the bid set for the current round,
// creating or overwriting the round entry. Overwriting supports editing bids
// before results are entered.
func (g *GameState) SubmitBids(bids []PlayerBid, now time.Time) ValidationResult {
	cardsDealt := CardsDealt(g.CurrentRound, g.Settings)

	if vr := ValidateBids(bids, cardsDealt, g.DealerIndex, g.Settings.DealerRestriction); !vr.Valid {
		return vr
	}

	round := Round{
		Number:      g.CurrentRound,
		Status:      RoundStatusPlaying,
		CardsDealt:  cardsDealt,
		TrumpSuit:   TrumpForRound(g.CurrentRound, g.Settings, g.Seed()),
		DealerIndex: g.DealerIndex,
		Bids:        bids,
	}

	roundIndex := g.CurrentRound - 1
	if roundIndex < len(g.Rounds) {
		g.Rounds[roundIndex] = round
	} else {
		g.Rounds = append(g.Rounds, round)
	}

	g.UpdatedAt = now
	return ValidResult()
}

// SubmitResults validates trick conservation, computes round and cumulative
// scores, and updates player statistics. Predicted counts and match flags are
// derived from the recorded bids, never from the submitted results. Must be
// applied exactly once per round; a second submission is rejected.
func (g *GameState) SubmitResults(submitted []PlayerResult, now time.Time) (ValidationResult, error) {
	roundIndex := g.CurrentRound - 1
	if roundIndex < 0 || roundIndex >= len(g.Rounds) || len(g.Rounds[roundIndex].Bids) == 0 {
		return ValidationResult{}, ErrBidsNotSubmitted
	}

	round := &g.Rounds[roundIndex]
	if round.Status == RoundStatusCompleted {
		return ValidationResult{}, ErrRoundAlreadyScored
	}

	actualByPlayer := make(map[uuid.UUID]int, len(submitted))
	for _, r := range submitted {
		actualByPlayer[r.PlayerID] = r.Actual
	}

	tricks := make([]int, 0, len(g.Players))
	for _, p := range g.Players {
		actual, ok := actualByPlayer[p.ID]
		if !ok {
			return ValidationResult{}, fmt.Errorf("no result submitted for player %s", p.ID)
		}
		tricks = append(tricks, actual)
	}

	if vr := ValidateTricksTotal(tricks, round.CardsDealt); !vr.Valid {
		return vr, nil
	}

	predictedByPlayer := make(map[uuid.UUID]int, len(round.Bids))
	for _, b := range round.Bids {
		predictedByPlayer[b.PlayerID] = b.Predicted
	}

	resultsInSeatOrder := make([]PlayerResult, 0, len(g.Players))
	scores := make([]PlayerScore, 0, len(g.Players))

	for i := range g.Players {
		player := &g.Players[i]
		actual := actualByPlayer[player.ID]
		predicted := predictedByPlayer[player.ID]

		result := PlayerResult{
			PlayerID:  player.ID,
			Predicted: predicted,
			Actual:    actual,
			Matched:   predicted == actual,
		}

		roundScore := CalculateScore(predicted, actual, g.Settings.ScoringVariant)
		cumulative := player.TotalScore + roundScore

		resultsInSeatOrder = append(resultsInSeatOrder, result)
		scores = append(scores, PlayerScore{
			PlayerID:        player.ID,
			RoundScore:      roundScore,
			CumulativeScore: cumulative,
		})

		player.TotalScore = cumulative
		applyResultToStats(&player.Stats, result, roundScore)
	}

	round.Results = resultsInSeatOrder
	round.Scores = scores
	round.Status = RoundStatusCompleted

	g.UpdatedAt = now
	return ValidResult(), nil
}

// applyResultToStats folds one completed round into a player's running
// statistics. The running average is an incremental mean.
func applyResultToStats(stats *PlayerStats, result PlayerResult, roundScore int) {
	stats.RoundsPlayed++

	if result.Matched {
		stats.SuccessfulBids++
		if result.Predicted == 0 {
			stats.ZeroBidsWon++
		}
	} else {
		stats.FailedBids++
	}

	stats.TotalTricksWon += result.Actual
	if roundScore > stats.MaxRoundScore {
		stats.MaxRoundScore = roundScore
	}

	n := float64(stats.RoundsPlayed)
	stats.AverageScore = (stats.AverageScore*(n-1) + float64(roundScore)) / n
}

// AdvanceRound moves to the next round. The dealer seat is always re-derived
// from the round number, so a game extended after completion keeps a
// consistent rotation.
func (g *GameState) AdvanceRound(now time.Time) {
	g.CurrentRound++
	g.DealerIndex = DealerIndexForRound(g.CurrentRound, len(g.Players), 0)

	if IsGameComplete(g.CurrentRound, g.Settings.TotalRounds) {
		g.Status = GameStatusCompleted
	} else {
		g.Status = GameStatusInProgress
	}

	g.UpdatedAt = now
}

// End force-completes the game regardless of round progress.
func (g *GameState) End(now time.Time) {
	g.Status = GameStatusCompleted
	g.UpdatedAt = now
}

// Extend adds rounds to the game and resumes play after a completion.
func (g *GameState) Extend(extraRounds int, now time.Time) {
	g.Settings.TotalRounds += extraRounds
	g.Status = GameStatusInProgress
	g.UpdatedAt = now
}

// CurrentRoundEntry returns the round entry for the current round number, or
// nil when bids have not been submitted yet.
func (g *GameState) CurrentRoundEntry() *Round {
	roundIndex := g.CurrentRound - 1
	if roundIndex < 0 || roundIndex >= len(g.Rounds) {
		return nil
	}
	return &g.Rounds[roundIndex]
}

// RoundPhase reports the conceptual lifecycle phase of a 1-indexed round:
// pending (not reached), bidding (current, collecting bids), playing (bids
// recorded), or completed (scored).
func (g *GameState) RoundPhase(roundNumber int) RoundStatus {
	roundIndex := roundNumber - 1
	if roundIndex < 0 || roundIndex >= len(g.Rounds) {
		if roundNumber == g.CurrentRound && g.Status == GameStatusInProgress {
			return RoundStatusBidding
		}
		return RoundStatusPending
	}

	round := g.Rounds[roundIndex]
	if round.Status == RoundStatusCompleted {
		return RoundStatusCompleted
	}
	return RoundStatusPlaying
}

// Leader returns the player with the strictly highest total score. Ties
// resolve to the first player in seat order; with equal scores the leader is
// implementation-defined.
func (g *GameState) Leader() *Player {
	if len(g.Players) == 0 {
		return nil
	}

	leader := &g.Players[0]
	for i := 1; i < len(g.Players); i++ {
		if g.Players[i].TotalScore > leader.TotalScore {
			leader = &g.Players[i]
		}
	}
	return leader
}

// PlayerByID returns the player with the given ID, or nil.
func (g *GameState) PlayerByID(id uuid.UUID) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// Standings returns players ranked by final score, highest first. Equal
// scores keep seat order and receive distinct consecutive ranks.
func (g *GameState) Standings() []Standing {
	ranked := make([]Player, len(g.Players))
	copy(ranked, g.Players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	standings := make([]Standing, 0, len(ranked))
	for i, p := range ranked {
		standings = append(standings, Standing{
			Rank:       i + 1,
			PlayerID:   p.ID,
			Name:       p.Name,
			FinalScore: p.TotalScore,
			Accuracy:   bidAccuracyPercent(p.Stats),
		})
	}
	return standings
}

// bidAccuracyPercent is the rounded percentage of successful bids.
func bidAccuracyPercent(stats PlayerStats) int {
	if stats.RoundsPlayed == 0 {
		return 0
	}
	return int(math.Round(float64(stats.SuccessfulBids) / float64(stats.RoundsPlayed) * 100))
}

// Statistics computes the aggregate game statistics view.
func (g *GameState) Statistics() GameStatistics {
	stats := GameStatistics{}

	completed := 0
	for _, r := range g.Rounds {
		if r.Status == RoundStatusCompleted {
			completed++
		}
	}
	stats.TotalRoundsPlayed = completed

	if leader := g.Leader(); leader != nil {
		stats.CurrentLeader = leader.ID
	}

	totalBids, successfulBids, totalScore := 0, 0, 0
	bestAccuracy := -1.0
	for _, p := range g.Players {
		totalBids += p.Stats.RoundsPlayed
		successfulBids += p.Stats.SuccessfulBids
		totalScore += p.TotalScore

		if p.Stats.RoundsPlayed > 0 {
			accuracy := float64(p.Stats.SuccessfulBids) / float64(p.Stats.RoundsPlayed)
			if accuracy > bestAccuracy {
				bestAccuracy = accuracy
				stats.MostAccuratePlayer = p.ID
			}
		}
	}

	if totalBids > 0 {
		stats.BidAccuracyRate = float64(successfulBids) / float64(totalBids)
	}
	if completed > 0 {
		stats.AverageScorePerRound = float64(totalScore) / float64(completed*max(len(g.Players), 1))
	}

	for _, r := range g.Rounds {
		for _, s := range r.Scores {
			if s.RoundScore > stats.HighestRoundScore.Score {
				stats.HighestRoundScore = HighestRoundScore{
					PlayerID: s.PlayerID,
					Round:    r.Number,
					Score:    s.RoundScore,
				}
			}
		}
	}

	return stats
}
