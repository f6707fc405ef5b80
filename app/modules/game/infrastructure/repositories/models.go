package gamedb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
)

// Game is the persisted form of the active game aggregate. The whole
// snapshot is written on every mutation; players and rounds ride along as
// jsonb so the aggregate round-trips losslessly in one row.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`

	ID           uuid.UUID              `bun:"id,pk,type:uuid"`
	Status       gametypes.GameStatus   `bun:"status,notnull"`
	Settings     gametypes.GameSettings `bun:"settings,type:jsonb,notnull"`
	Players      []gametypes.Player     `bun:"players,type:jsonb,notnull"`
	CurrentRound int                    `bun:"current_round,notnull"`
	DealerIndex  int                    `bun:"dealer_index,notnull"`
	Rounds       []gametypes.Round      `bun:"rounds,type:jsonb"`
	CreatedAt    time.Time              `bun:"created_at,notnull"`
	UpdatedAt    time.Time              `bun:"updated_at,notnull"`
}

// FromDomain converts an aggregate into its persisted form.
func FromDomain(state *gametypes.GameState) *Game {
	return &Game{
		ID:           state.GameID,
		Status:       state.Status,
		Settings:     state.Settings,
		Players:      state.Players,
		CurrentRound: state.CurrentRound,
		DealerIndex:  state.DealerIndex,
		Rounds:       state.Rounds,
		CreatedAt:    state.CreatedAt,
		UpdatedAt:    state.UpdatedAt,
	}
}

// ToDomain reconstructs the aggregate from its persisted form.
func (g *Game) ToDomain() *gametypes.GameState {
	return &gametypes.GameState{
		GameID:       g.ID,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
		Status:       g.Status,
		Settings:     g.Settings,
		Players:      g.Players,
		CurrentRound: g.CurrentRound,
		DealerIndex:  g.DealerIndex,
		Rounds:       g.Rounds,
	}
}
