package historyservice

import (
	"context"

	"github.com/uptrace/bun"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	historytypes "github.com/oh-hell-club/kachuful-bot/app/modules/history/domain"
	historydb "github.com/oh-hell-club/kachuful-bot/app/modules/history/infrastructure/repositories"
	"github.com/oh-hell-club/kachuful-bot/internal/attr"
	"github.com/oh-hell-club/kachuful-bot/internal/events"
	"github.com/oh-hell-club/kachuful-bot/internal/results"
)

// ArchiveGame appends a completed game to the archive. Delivery of the
// completion event is at-least-once, so re-archiving an already stored game
// succeeds and reports a duplicate instead of writing twice.
func (s *HistoryService) ArchiveGame(ctx context.Context, payload events.GameCompletedPayloadV1) (ArchiveOperationResult, error) {
	return withTelemetry(s, ctx, "ArchiveGame", func(ctx context.Context) (ArchiveOperationResult, error) {
		if payload.Snapshot.Status != gametypes.GameStatusCompleted {
			return results.FailureResult[ArchiveOutcome](ArchiveFailure{Reason: "snapshot is not a completed game"}), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (ArchiveOperationResult, error) {
			record := historytypes.BuildRecord(payload.Snapshot, payload.CompletedAt)

			inserted, err := s.repo.Insert(ctx, db, historydb.FromDomain(record))
			if err != nil {
				return ArchiveOperationResult{}, err
			}

			if !inserted {
				s.metrics.RecordDuplicateArchive(ctx)
				s.logger.InfoContext(ctx, "Game already archived, skipping",
					attr.ExtractCorrelationID(ctx),
					attr.String("game_id", record.GameID.String()),
				)
				return results.SuccessResult[ArchiveOutcome, ArchiveFailure](ArchiveOutcome{Record: record, Duplicate: true}), nil
			}

			s.metrics.RecordGameArchived(ctx)
			s.logger.InfoContext(ctx, "Game archived",
				attr.ExtractCorrelationID(ctx),
				attr.String("game_id", record.GameID.String()),
				attr.String("winner", record.WinnerName),
				attr.Int("rounds", len(record.Rounds)),
			)
			return results.SuccessResult[ArchiveOutcome, ArchiveFailure](ArchiveOutcome{Record: record}), nil
		})
	})
}
