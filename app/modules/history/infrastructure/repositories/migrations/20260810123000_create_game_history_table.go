package historymigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating game_history table...")

		if _, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS game_history (
				game_id UUID PRIMARY KEY,
				completed_at TIMESTAMPTZ NOT NULL,
				scoring_variant VARCHAR(32) NOT NULL,
				total_rounds INTEGER NOT NULL,
				winner_id UUID,
				winner_name VARCHAR(255),
				winner_score INTEGER NOT NULL DEFAULT 0,
				players JSONB NOT NULL,
				rounds JSONB,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_game_history_completed_at ON game_history(completed_at);
		`); err != nil {
			return fmt.Errorf("failed to create game_history table: %w", err)
		}

		fmt.Println("Game history table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping game_history table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS game_history;`); err != nil {
			return fmt.Errorf("failed to drop game_history table: %w", err)
		}

		return nil
	})
}
