package gameservice

import (
	"context"

	"github.com/uptrace/bun"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	"github.com/oh-hell-club/kachuful-bot/internal/attr"
	"github.com/oh-hell-club/kachuful-bot/internal/events"
	"github.com/oh-hell-club/kachuful-bot/internal/results"
)

// NextRound advances play to the next round, completing the game when the
// round counter passes the configured total.
func (s *GameService) NextRound(ctx context.Context) (GameOperationResult, error) {
	return withTelemetry(s, ctx, "NextRound", func(ctx context.Context) (GameOperationResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (GameOperationResult, error) {
			state, failure, err := s.loadActive(ctx, db)
			if err != nil {
				return GameOperationResult{}, err
			}
			if failure != nil {
				return results.FailureResult[*gametypes.GameState](failure), nil
			}

			if state.Status == gametypes.GameStatusCompleted {
				return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: "game is already completed"}), nil
			}

			state.AdvanceRound(s.now())

			if err := s.saveSnapshot(ctx, db, state); err != nil {
				return GameOperationResult{}, err
			}

			if state.Status == gametypes.GameStatusCompleted {
				s.announceCompletion(ctx, state)
			}

			s.logger.InfoContext(ctx, "Advanced to next round",
				attr.ExtractCorrelationID(ctx),
				attr.String("game_id", state.GameID.String()),
				attr.Int("round", state.CurrentRound),
				attr.String("status", string(state.Status)),
			)
			return results.SuccessResult[*gametypes.GameState, *GameFailure](state), nil
		})
	})
}

// EndGame force-completes the game early. Already-completed games are a
// guarded no-op.
func (s *GameService) EndGame(ctx context.Context) (GameOperationResult, error) {
	return withTelemetry(s, ctx, "EndGame", func(ctx context.Context) (GameOperationResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (GameOperationResult, error) {
			state, failure, err := s.loadActive(ctx, db)
			if err != nil {
				return GameOperationResult{}, err
			}
			if failure != nil {
				return results.FailureResult[*gametypes.GameState](failure), nil
			}

			if state.Status == gametypes.GameStatusCompleted {
				return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: "game is already completed"}), nil
			}

			state.End(s.now())

			if err := s.saveSnapshot(ctx, db, state); err != nil {
				return GameOperationResult{}, err
			}

			s.announceCompletion(ctx, state)

			s.logger.InfoContext(ctx, "Game ended early",
				attr.ExtractCorrelationID(ctx),
				attr.String("game_id", state.GameID.String()),
				attr.Int("round", state.CurrentRound),
			)
			return results.SuccessResult[*gametypes.GameState, *GameFailure](state), nil
		})
	})
}

// ContinueGame extends a completed game by extraRounds and resumes play.
func (s *GameService) ContinueGame(ctx context.Context, extraRounds int) (GameOperationResult, error) {
	return withTelemetry(s, ctx, "ContinueGame", func(ctx context.Context) (GameOperationResult, error) {
		if extraRounds < 1 {
			return results.FailureResult[*gametypes.GameState](&GameFailure{Reason: "additional rounds must be at least 1"}), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (GameOperationResult, error) {
			state, failure, err := s.loadActive(ctx, db)
			if err != nil {
				return GameOperationResult{}, err
			}
			if failure != nil {
				return results.FailureResult[*gametypes.GameState](failure), nil
			}

			state.Extend(extraRounds, s.now())

			if err := s.saveSnapshot(ctx, db, state); err != nil {
				return GameOperationResult{}, err
			}

			s.logger.InfoContext(ctx, "Game extended",
				attr.ExtractCorrelationID(ctx),
				attr.String("game_id", state.GameID.String()),
				attr.Int("extra_rounds", extraRounds),
				attr.Int("total_rounds", state.Settings.TotalRounds),
			)
			return results.SuccessResult[*gametypes.GameState, *GameFailure](state), nil
		})
	})
}

// ResetGame discards the active game, if any. Resetting with nothing stored
// still succeeds.
func (s *GameService) ResetGame(ctx context.Context) (GameOperationResult, error) {
	return withTelemetry(s, ctx, "ResetGame", func(ctx context.Context) (GameOperationResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (GameOperationResult, error) {
			if err := s.repo.DeleteAll(ctx, db); err != nil {
				return GameOperationResult{}, err
			}

			s.logger.InfoContext(ctx, "Game state reset", attr.ExtractCorrelationID(ctx))

			var cleared *gametypes.GameState
			return results.SuccessResult[*gametypes.GameState, *GameFailure](cleared), nil
		})
	})
}

// announceCompletion publishes the completion event with a detached snapshot.
// Publication failures are logged and swallowed; the snapshot is already
// persisted and the archive can be rebuilt from it.
func (s *GameService) announceCompletion(ctx context.Context, state *gametypes.GameState) {
	s.metrics.RecordGameCompleted(ctx, string(state.Settings.ScoringVariant))

	if s.eventBus == nil {
		return
	}

	payload := events.GameCompletedPayloadV1{
		GameID:      state.GameID,
		CompletedAt: state.UpdatedAt,
		Snapshot:    *state,
	}

	if err := s.eventBus.Publish(ctx, events.GameCompletedV1, payload); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish game completion",
			attr.ExtractCorrelationID(ctx),
			attr.String("game_id", state.GameID.String()),
			attr.Error(err),
		)
	}
}
