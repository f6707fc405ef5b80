package gameservice

import (
	"context"

	"github.com/uptrace/bun"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	"github.com/oh-hell-club/kachuful-bot/internal/attr"
	"github.com/oh-hell-club/kachuful-bot/internal/results"
)

// SubmitBids records the predictions for the current round. A rejected bid
// set leaves the stored game untouched and comes back as a handled failure
// carrying the validation code.
func (s *GameService) SubmitBids(ctx context.Context, bids []gametypes.PlayerBid) (GameOperationResult, error) {
	return withTelemetry(s, ctx, "SubmitBids", func(ctx context.Context) (GameOperationResult, error) {
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

			validation := state.SubmitBids(bids, s.now())
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

			s.logger.InfoContext(ctx, "Bids recorded",
				attr.ExtractCorrelationID(ctx),
				attr.String("game_id", state.GameID.String()),
				attr.Int("round", state.CurrentRound),
			)
			return results.SuccessResult[*gametypes.GameState, *GameFailure](state), nil
		})
	})
}
