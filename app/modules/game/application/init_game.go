package gameservice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	"github.com/oh-hell-club/kachuful-bot/internal/attr"
	"github.com/oh-hell-club/kachuful-bot/internal/results"
)

// InitGame starts a fresh game for the given players, replacing any game
// already in progress. Player names must be non-empty and unique; settings
// not present in the patch fall back to the defaults.
func (s *GameService) InitGame(ctx context.Context, playerNames []string, patch SettingsPatch) (GameOperationResult, error) {
	return withTelemetry(s, ctx, "InitGame", func(ctx context.Context) (GameOperationResult, error) {
		names := make([]string, 0, len(playerNames))
		seen := make(map[string]struct{}, len(playerNames))
		for _, name := range playerNames {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: "player names must be non-empty"}), nil
			}
			key := strings.ToLower(trimmed)
			if _, dup := seen[key]; dup {
				return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: "player names must be unique"}), nil
			}
			seen[key] = struct{}{}
			names = append(names, trimmed)
		}
		if len(names) < 2 {
			return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: "at least two players are required"}), nil
		}

		settings := patch.Apply(gametypes.DefaultSettings())
		if settings.TotalRounds < 1 {
			return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: "total rounds must be at least 1"}), nil
		}
		if settings.StartingCards < 1 {
			return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: "starting cards must be at least 1"}), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (GameOperationResult, error) {
			state := gametypes.NewGame(uuid.New(), names, settings, s.now())

			// Single active game per deployment: starting a new one replaces
			// whatever was there.
			if err := s.repo.DeleteAll(ctx, db); err != nil {
				return GameOperationResult{}, err
			}
			if err := s.saveSnapshot(ctx, db, state); err != nil {
				return GameOperationResult{}, err
			}

			s.logger.InfoContext(ctx, "Game initialized",
				attr.ExtractCorrelationID(ctx),
				attr.String("game_id", state.GameID.String()),
				attr.Int("player_count", len(state.Players)),
				attr.String("scoring_variant", string(state.Settings.ScoringVariant)),
				attr.Int("total_rounds", state.Settings.TotalRounds),
			)
			return results.SuccessResult[*gametypes.GameState, *GameFailure](state), nil
		})
	})
}
