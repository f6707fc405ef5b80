package gameservice

import (
	"context"

	"github.com/uptrace/bun"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	"github.com/oh-hell-club/kachuful-bot/internal/attr"
	"github.com/oh-hell-club/kachuful-bot/internal/results"
)

// SubmitResults records actual trick counts for the current round, scoring it
// and folding the outcome into cumulative totals and player statistics.
// Out-of-order calls (no bids yet, round already scored) and trick totals
// that break conservation come back as handled failures.
func (s *GameService) SubmitResults(ctx context.Context, submitted []gametypes.PlayerResult) (GameOperationResult, error) {
	return withTelemetry(s, ctx, "SubmitResults", func(ctx context.Context) (GameOperationResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (GameOperationResult, error) {
			state, failure, err := s.loadActive(ctx, db)
			if err != nil {
				return GameOperationResult{}, err
			}
			if failure != nil {
				return results.FailureResult[*gametypes.GameState](failure), nil
			}

			if state.Status != gametypes.GameStatusInProgress {
				return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: "game is not in progress"}), nil
			}

			validation, err := state.SubmitResults(submitted, s.now())
			if err != nil {
				// Sequencing violations and incomplete result sets are handled
				// outcomes, not infrastructure errors.
				return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: err.Error()}), nil
			}
			if !validation.Valid {
				s.metrics.RecordValidationFailure(ctx, string(validation.Code))
				return results.FailureResult[*gametypes.GameState](&GameFailure{
					Reason: validation.Message,
					Code:   validation.Code,
				}), nil
			}

			if err := s.saveSnapshot(ctx, db, state); err != nil {
				return GameOperationResult{}, err
			}

			s.metrics.RecordRoundCompleted(ctx, string(state.Settings.ScoringVariant))
			s.logger.InfoContext(ctx, "Round scored",
				attr.ExtractCorrelationID(ctx),
				attr.String("game_id", state.GameID.String()),
				attr.Int("round", state.CurrentRound),
			)
			return results.SuccessResult[*gametypes.GameState, *GameFailure](state), nil
		})
	})
}
