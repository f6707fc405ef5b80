package historydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when no archive entry exists for the requested game.
var ErrNotFound = errors.New("history entry not found")

// Impl is the bun-backed archive repository.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new history repository with a default database handle.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the explicit handle when provided, so callers can run
// inside a transaction, and falls back to the default otherwise.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.db
}

// Insert archives a completed game. Re-archiving the same game is a no-op;
// the return value reports whether a row was actually written.
func (r *Impl) Insert(ctx context.Context, db bun.IDB, entry *HistoryEntry) (bool, error) {
	res, err := r.resolveDB(db).NewInsert().
		Model(entry).
		On("CONFLICT (game_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to insert history entry: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return affected > 0, nil
}

// List returns archive entries, most recently completed first. A limit of 0
// returns everything.
func (r *Impl) List(ctx context.Context, db bun.IDB, limit int) ([]HistoryEntry, error) {
	var entries []HistoryEntry

	query := r.resolveDB(db).NewSelect().
		Model(&entries).
		OrderExpr("completed_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}
	return entries, nil
}

// GetByGameID returns the archive entry for one game.
func (r *Impl) GetByGameID(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*HistoryEntry, error) {
	entry := new(HistoryEntry)

	err := r.resolveDB(db).NewSelect().
		Model(entry).
		Where("game_id = ?", gameID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}
	return entry, nil
}

// DeleteAll clears the archive.
func (r *Impl) DeleteAll(ctx context.Context, db bun.IDB) error {
	_, err := r.resolveDB(db).NewDelete().
		Model((*HistoryEntry)(nil)).
		Where("TRUE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
