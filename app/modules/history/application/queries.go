package historyservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	historytypes "github.com/oh-hell-club/kachuful-bot/app/modules/history/domain"
	historydb "github.com/oh-hell-club/kachuful-bot/app/modules/history/infrastructure/repositories"
	"github.com/oh-hell-club/kachuful-bot/internal/attr"
)

// ErrNotFound is returned when the requested game is not in the archive.
var ErrNotFound = historydb.ErrNotFound

// ListGames returns archived games, most recently completed first. A limit
// of 0 returns everything.
func (s *HistoryService) ListGames(ctx context.Context, limit int) ([]historytypes.GameRecord, error) {
	entries, err := s.repo.List(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived games: %w", err)
	}

	records := make([]historytypes.GameRecord, 0, len(entries))
	for i := range entries {
		records = append(records, entries[i].ToDomain())
	}
	return records, nil
}

// GetGame returns one archived game.
func (s *HistoryService) GetGame(ctx context.Context, gameID uuid.UUID) (*historytypes.GameRecord, error) {
	entry, err := s.repo.GetByGameID(ctx, nil, gameID)
	if err != nil {
		if err == historydb.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get archived game: %w", err)
	}

	record := entry.ToDomain()
	return &record, nil
}

// ClearHistory removes every archived game.
func (s *HistoryService) ClearHistory(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx, nil); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	s.logger.InfoContext(ctx, "History cleared", attr.ExtractCorrelationID(ctx))
	return nil
}
