package historydb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	historytypes "github.com/oh-hell-club/kachuful-bot/app/modules/history/domain"
)

// HistoryEntry is the persistence model for an archived game. The game ID is
// the primary key, which makes archiving idempotent at the storage layer.
type HistoryEntry struct {
	bun.BaseModel `bun:"table:game_history,alias:gh"`

	GameID         uuid.UUID                    `bun:"game_id,pk,type:uuid"`
	CompletedAt    time.Time                    `bun:"completed_at,notnull"`
	ScoringVariant string                       `bun:"scoring_variant,notnull"`
	TotalRounds    int                          `bun:"total_rounds,notnull"`
	WinnerID       uuid.UUID                    `bun:"winner_id,type:uuid"`
	WinnerName     string                       `bun:"winner_name"`
	WinnerScore    int                          `bun:"winner_score"`
	Players        []historytypes.PlayerSummary `bun:"players,type:jsonb"`
	Rounds         []gametypes.Round            `bun:"rounds,type:jsonb"`
	CreatedAt      time.Time                    `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// FromDomain converts an archive record into its persistence model.
func FromDomain(record historytypes.GameRecord) *HistoryEntry {
	return &HistoryEntry{
		GameID:         record.GameID,
		CompletedAt:    record.CompletedAt,
		ScoringVariant: string(record.ScoringVariant),
		TotalRounds:    record.TotalRounds,
		WinnerID:       record.WinnerID,
		WinnerName:     record.WinnerName,
		WinnerScore:    record.WinnerScore,
		Players:        record.Players,
		Rounds:         record.Rounds,
	}
}

// ToDomain converts a persistence model back into the archive record.
func (e *HistoryEntry) ToDomain() historytypes.GameRecord {
	return historytypes.GameRecord{
		GameID:         e.GameID,
		CompletedAt:    e.CompletedAt,
		ScoringVariant: gametypes.ScoringVariant(e.ScoringVariant),
		TotalRounds:    e.TotalRounds,
		WinnerID:       e.WinnerID,
		WinnerName:     e.WinnerName,
		WinnerScore:    e.WinnerScore,
		Players:        e.Players,
		Rounds:         e.Rounds,
	}
}
