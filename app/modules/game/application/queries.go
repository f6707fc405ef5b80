package gameservice

import (
	"context"
	"fmt"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	gamedb "github.com/oh-hell-club/kachuful-bot/app/modules/game/infrastructure/repositories"
)

// ErrNoActiveGame is returned by queries when nothing is stored.
var ErrNoActiveGame = gamedb.ErrNotFound

// GetGame returns the active game aggregate.
func (s *GameService) GetGame(ctx context.Context) (*gametypes.GameState, error) {
	game, err := s.repo.GetActive(ctx, nil)
	if err != nil {
		if err == gamedb.ErrNotFound {
			return nil, ErrNoActiveGame
		}
		return nil, fmt.Errorf("failed to load active game: %w", err)
	}
	return game.ToDomain(), nil
}

// GetCurrentRound returns the active game together with its current round
// entry. The round is nil while bids are still being collected.
func (s *GameService) GetCurrentRound(ctx context.Context) (*gametypes.GameState, *gametypes.Round, error) {
	state, err := s.GetGame(ctx)
	if err != nil {
		return nil, nil, err
	}
	return state, state.CurrentRoundEntry(), nil
}

// GetLeader returns the current score leader.
func (s *GameService) GetLeader(ctx context.Context) (*gametypes.Player, error) {
	state, err := s.GetGame(ctx)
	if err != nil {
		return nil, err
	}
	return state.Leader(), nil
}

// GetStandings returns the ranked final standings view.
func (s *GameService) GetStandings(ctx context.Context) ([]gametypes.Standing, error) {
	state, err := s.GetGame(ctx)
	if err != nil {
		return nil, err
	}
	return state.Standings(), nil
}

// GetStatistics returns the aggregate per-game statistics view.
func (s *GameService) GetStatistics(ctx context.Context) (*gametypes.GameStatistics, error) {
	state, err := s.GetGame(ctx)
	if err != nil {
		return nil, err
	}
	stats := state.Statistics()
	return &stats, nil
}
