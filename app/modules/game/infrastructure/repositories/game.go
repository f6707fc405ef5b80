package gamedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when there is no active game.
var ErrNotFound = errors.New("no active game found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetActive retrieves the active game. The store holds at most one row; if
// an old row was left behind, the newest snapshot wins.
func (r *Impl) GetActive(ctx context.Context, db bun.IDB) (*Game, error) {
	db = r.resolveDB(db)
	game := new(Game)
	err := db.NewSelect().
		Model(game).
		OrderExpr("updated_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active game: %w", err)
	}
	return game, nil
}

// Save upserts the whole game snapshot.
func (r *Impl) Save(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(game).
		On("CONFLICT (id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("settings = EXCLUDED.settings").
		Set("players = EXCLUDED.players").
		Set("current_round = EXCLUDED.current_round").
		Set("dealer_index = EXCLUDED.dealer_index").
		Set("rounds = EXCLUDED.rounds").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save game snapshot %s: %w", game.ID, err)
	}
	return nil
}

// Delete removes a game by ID.
func (r *Impl) Delete(ctx context.Context, db bun.IDB, gameID uuid.UUID) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*Game)(nil)).
		Where("id = ?", gameID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}
	return nil
}

// DeleteAll clears the active-game store.
func (r *Impl) DeleteAll(ctx context.Context, db bun.IDB) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*Game)(nil)).
		Where("TRUE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear active game store: %w", err)
	}
	return nil
}
