// Package historytypes defines the archived-game record built from a
// completed game snapshot.
package historytypes

import (
	"sort"
	"time"

	"github.com/google/uuid"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
)

// PlayerSummary is one player's final line in an archived game, ranked by
// final score.
type PlayerSummary struct {
	PlayerID   uuid.UUID `json:"player_id"`
	Name       string    `json:"name"`
	FinalScore int       `json:"final_score"`
	Accuracy   int       `json:"accuracy"`
	Rank       int       `json:"rank"`
}

// GameRecord is the immutable archive entry for one completed game. Rounds
// are kept verbatim so charts and exports can be rebuilt later.
type GameRecord struct {
	GameID         uuid.UUID                `json:"game_id"`
	CompletedAt    time.Time                `json:"completed_at"`
	ScoringVariant gametypes.ScoringVariant `json:"scoring_variant"`
	TotalRounds    int                      `json:"total_rounds"`
	WinnerID       uuid.UUID                `json:"winner_id"`
	WinnerName     string                   `json:"winner_name"`
	WinnerScore    int                      `json:"winner_score"`
	Players        []PlayerSummary          `json:"players"`
	Rounds         []gametypes.Round        `json:"rounds"`
}

// BuildRecord derives an archive record from a completed game snapshot.
// Players are ordered by final score, highest first; equal scores keep seat
// order and get distinct consecutive ranks.
func BuildRecord(snapshot gametypes.GameState, completedAt time.Time) GameRecord {
	summaries := make([]PlayerSummary, 0, len(snapshot.Players))
	for _, standing := range snapshot.Standings() {
		summaries = append(summaries, PlayerSummary{
			PlayerID:   standing.PlayerID,
			Name:       standing.Name,
			FinalScore: standing.FinalScore,
			Accuracy:   standing.Accuracy,
			Rank:       standing.Rank,
		})
	}

	record := GameRecord{
		GameID:         snapshot.GameID,
		CompletedAt:    completedAt,
		ScoringVariant: snapshot.Settings.ScoringVariant,
		TotalRounds:    snapshot.Settings.TotalRounds,
		Players:        summaries,
		Rounds:         completedRounds(snapshot.Rounds),
	}

	if len(summaries) > 0 {
		record.WinnerID = summaries[0].PlayerID
		record.WinnerName = summaries[0].Name
		record.WinnerScore = summaries[0].FinalScore
	}

	return record
}

// completedRounds keeps only scored rounds, in round-number order. A game
// ended early may carry a trailing round with bids but no results.
func completedRounds(rounds []gametypes.Round) []gametypes.Round {
	kept := make([]gametypes.Round, 0, len(rounds))
	for _, r := range rounds {
		if r.Status == gametypes.RoundStatusCompleted {
			kept = append(kept, r)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Number < kept[j].Number })
	return kept
}
