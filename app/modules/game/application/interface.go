package gameservice

import (
	"context"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
)

// Service defines the contract for game lifecycle operations.
type Service interface {
	InitGame(ctx context.Context, playerNames []string, patch SettingsPatch) (GameOperationResult, error)
	SubmitBids(ctx context.Context, bids []gametypes.PlayerBid) (GameOperationResult, error)
	SubmitResults(ctx context.Context, submitted []gametypes.PlayerResult) (GameOperationResult, error)
	NextRound(ctx context.Context) (GameOperationResult, error)
	EndGame(ctx context.Context) (GameOperationResult, error)
	ContinueGame(ctx context.Context, extraRounds int) (GameOperationResult, error)
	ResetGame(ctx context.Context) (GameOperationResult, error)

	GetGame(ctx context.Context) (*gametypes.GameState, error)
	GetCurrentRound(ctx context.Context) (*gametypes.GameState, *gametypes.Round, error)
	GetLeader(ctx context.Context) (*gametypes.Player, error)
	GetStandings(ctx context.Context) ([]gametypes.Standing, error)
	GetStatistics(ctx context.Context) (*gametypes.GameStatistics, error)
}
