package gamedb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for active-game persistence. The store
// holds at most one game; Save replaces the whole snapshot.
type Repository interface {
	// GetActive retrieves the active game snapshot.
	GetActive(ctx context.Context, db bun.IDB) (*Game, error)

	// Save upserts the whole game snapshot.
	Save(ctx context.Context, db bun.IDB, game *Game) error

	// Delete removes a game by ID.
	Delete(ctx context.Context, db bun.IDB, gameID uuid.UUID) error

	// DeleteAll clears the active-game store.
	DeleteAll(ctx context.Context, db bun.IDB) error
}
