package historydb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for archived-game persistence. The db
// parameter allows operations to join an ambient transaction; nil falls back
// to the repository's default handle.
type Repository interface {
	Insert(ctx context.Context, db bun.IDB, entry *HistoryEntry) (bool, error)
	List(ctx context.Context, db bun.IDB, limit int) ([]HistoryEntry, error)
	GetByGameID(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*HistoryEntry, error)
	DeleteAll(ctx context.Context, db bun.IDB) error
}
