// Package gametypes holds the Kachuful game aggregate and the pure rules
// engine that operates on it. Everything in this package is deterministic,
// side-effect free, and safe to serialize as a whole snapshot.
package gametypes

import (
	"time"

	"github.com/google/uuid"
)

// GameStatus represents the lifecycle state of a game.
type GameStatus string

const (
	GameStatusSetup      GameStatus = "setup"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusCompleted  GameStatus = "completed"
)

// ScoringVariant selects one of the four point-award formulas.
type ScoringVariant string

const (
	// ScoringStandard awards 10 + predicted on a match, 0 otherwise.
	ScoringStandard ScoringVariant = "standard"
	// ScoringHighIncentive awards (predicted+1)*10 + predicted on a match and
	// penalizes misses with -|predicted-actual|.
	ScoringHighIncentive ScoringVariant = "high_incentive"
	// ScoringMediumIncentive awards 10 * predicted on a match, 0 otherwise.
	ScoringMediumIncentive ScoringVariant = "medium_incentive"
	// ScoringPointPerTrick awards one point per trick taken plus a 10 point
	// bonus on a match.
	ScoringPointPerTrick ScoringVariant = "point_per_trick"
)

// TrumpSuit is the suit with elevated precedence for a round.
type TrumpSuit string

const (
	TrumpSpades   TrumpSuit = "spades"
	TrumpDiamonds TrumpSuit = "diamonds"
	TrumpClubs    TrumpSuit = "clubs"
	TrumpHearts   TrumpSuit = "hearts"
	TrumpNone     TrumpSuit = "none"
)

// RoundPattern controls how the cards-dealt count progresses across rounds.
type RoundPattern string

const (
	// RoundPatternDownUp descends to one card at the midpoint and climbs back.
	RoundPatternDownUp RoundPattern = "down_up"
	// RoundPatternDownOnly descends monotonically, floored at one card.
	RoundPatternDownOnly RoundPattern = "down_only"
)

// TrumpPattern controls how the trump suit is chosen per round.
type TrumpPattern string

const (
	TrumpPatternRotating TrumpPattern = "rotating"
	TrumpPatternFixed    TrumpPattern = "fixed"
	TrumpPatternRandom   TrumpPattern = "random"
)

// RoundStatus represents the lifecycle of a single round.
type RoundStatus string

const (
	RoundStatusPending   RoundStatus = "pending"
	RoundStatusBidding   RoundStatus = "bidding"
	RoundStatusPlaying   RoundStatus = "playing"
	RoundStatusCompleted RoundStatus = "completed"
)

// GameSettings is the rule configuration fixed at game start. TotalRounds is
// the one field that may grow afterwards, via ContinueGame.
type GameSettings struct {
	ScoringVariant    ScoringVariant `json:"scoring_variant"`
	StartingCards     int            `json:"starting_cards"`
	TotalRounds       int            `json:"total_rounds"`
	RoundPattern      RoundPattern   `json:"round_pattern"`
	TrumpPattern      TrumpPattern   `json:"trump_pattern"`
	DealerRestriction bool           `json:"dealer_restriction"`
}

// DefaultSettings returns the classic 13-round, 7-card configuration.
func DefaultSettings() GameSettings {
	return GameSettings{
		ScoringVariant:    ScoringStandard,
		StartingCards:     7,
		TotalRounds:       13,
		RoundPattern:      RoundPatternDownUp,
		TrumpPattern:      TrumpPatternRotating,
		DealerRestriction: true,
	}
}

// PlayerStats tracks per-player running statistics, updated once per
// completed round.
type PlayerStats struct {
	RoundsPlayed   int     `json:"rounds_played"`
	SuccessfulBids int     `json:"successful_bids"`
	FailedBids     int     `json:"failed_bids"`
	TotalTricksWon int     `json:"total_tricks_won"`
	ZeroBidsWon    int     `json:"zero_bids_won"`
	MaxRoundScore  int     `json:"max_round_score"`
	AverageScore   float64 `json:"average_score"`
}

// Player is a seated participant. Position is the 0-indexed seat and is
// fixed for the lifetime of the game.
type Player struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Position   int         `json:"position"`
	TotalScore int         `json:"total_score"`
	Stats      PlayerStats `json:"stats"`
}

// PlayerBid is a player's trick prediction for a round.
type PlayerBid struct {
	PlayerID  uuid.UUID `json:"player_id"`
	Predicted int       `json:"predicted"`
}

// PlayerResult records the tricks a player actually won in a round.
// Predicted and Matched are derived from the recorded bid when results are
// applied; submitted values are not trusted.
type PlayerResult struct {
	PlayerID  uuid.UUID `json:"player_id"`
	Predicted int       `json:"predicted"`
	Actual    int       `json:"actual"`
	Matched   bool      `json:"matched"`
}

// PlayerScore is the computed outcome of a round for one player.
type PlayerScore struct {
	PlayerID        uuid.UUID `json:"player_id"`
	RoundScore      int       `json:"round_score"`
	CumulativeScore int       `json:"cumulative_score"`
}

// Round is one deal of the game. Number is 1-indexed and always equals its
// position in GameState.Rounds plus one.
type Round struct {
	Number      int            `json:"number"`
	Status      RoundStatus    `json:"status"`
	CardsDealt  int            `json:"cards_dealt"`
	TrumpSuit   TrumpSuit      `json:"trump_suit"`
	DealerIndex int            `json:"dealer_index"`
	Bids        []PlayerBid    `json:"bids"`
	Results     []PlayerResult `json:"results"`
	Scores      []PlayerScore  `json:"scores"`
}

// GameState is the aggregate root. It exclusively owns its players and
// rounds; snapshots round-trip losslessly through JSON.
type GameState struct {
	GameID       uuid.UUID    `json:"game_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Status       GameStatus   `json:"status"`
	Settings     GameSettings `json:"settings"`
	Players      []Player     `json:"players"`
	CurrentRound int          `json:"current_round"`
	DealerIndex  int          `json:"dealer_index"`
	Rounds       []Round      `json:"rounds"`
}

// Standing is a ranked final-results row.
type Standing struct {
	Rank       int       `json:"rank"`
	PlayerID   uuid.UUID `json:"player_id"`
	Name       string    `json:"name"`
	FinalScore int       `json:"final_score"`
	Accuracy   int       `json:"accuracy"`
}

// HighestRoundScore identifies the single best round performance of a game.
type HighestRoundScore struct {
	PlayerID uuid.UUID `json:"player_id"`
	Round    int       `json:"round"`
	Score    int       `json:"score"`
}

// GameStatistics is a computed, read-only view over the aggregate.
type GameStatistics struct {
	TotalRoundsPlayed    int               `json:"total_rounds_played"`
	CurrentLeader        uuid.UUID         `json:"current_leader"`
	MostAccuratePlayer   uuid.UUID         `json:"most_accurate_player"`
	HighestRoundScore    HighestRoundScore `json:"highest_round_score"`
	BidAccuracyRate      float64           `json:"bid_accuracy_rate"`
	AverageScorePerRound float64           `json:"average_score_per_round"`
}
