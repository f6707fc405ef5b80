package gamemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating games table...")

		if _, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS games (
				id UUID PRIMARY KEY,
				status VARCHAR(20) NOT NULL,
				settings JSONB NOT NULL,
				players JSONB NOT NULL,
				current_round INTEGER NOT NULL,
				dealer_index INTEGER NOT NULL,
				rounds JSONB,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_games_updated_at ON games(updated_at);
		`); err != nil {
			return fmt.Errorf("failed to create games table: %w", err)
		}

		fmt.Println("Games table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping games table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS games;`); err != nil {
			return fmt.Errorf("failed to drop games table: %w", err)
		}

		return nil
	})
}
