package historyservice

import (
	"context"

	"github.com/google/uuid"

	historytypes "github.com/oh-hell-club/kachuful-bot/app/modules/history/domain"
	"github.com/oh-hell-club/kachuful-bot/internal/events"
	"github.com/oh-hell-club/kachuful-bot/internal/results"
)

// ArchiveOutcome is the success payload of ArchiveGame. Duplicate reports
// that the game was already archived and nothing was written.
type ArchiveOutcome struct {
	Record    historytypes.GameRecord
	Duplicate bool
}

// ArchiveFailure is the handled-failure payload for archive operations.
type ArchiveFailure struct {
	Reason string `json:"reason"`
}

// ArchiveOperationResult is the outcome envelope for ArchiveGame.
type ArchiveOperationResult = results.OperationResult[ArchiveOutcome, ArchiveFailure]

// Service defines the contract for the game archive.
type Service interface {
	ArchiveGame(ctx context.Context, payload events.GameCompletedPayloadV1) (ArchiveOperationResult, error)
	ListGames(ctx context.Context, limit int) ([]historytypes.GameRecord, error)
	GetGame(ctx context.Context, gameID uuid.UUID) (*historytypes.GameRecord, error)
	ClearHistory(ctx context.Context) error
	RenderScoreChart(ctx context.Context, gameID uuid.UUID) ([]byte, error)
	ExportScoreboard(ctx context.Context, gameID uuid.UUID) ([]byte, error)
}
