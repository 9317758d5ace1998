package database

import (
	"context"
	"fmt"
)

const moviesTableSQL = `
	CREATE TABLE IF NOT EXISTS movies (
		id %s,
		title VARCHAR(250) UNIQUE NOT NULL,
		year INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		rating %s NOT NULL DEFAULT 0,
		review VARCHAR(250),
		img_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

const moviesRatingIndexSQL = `CREATE INDEX IF NOT EXISTS idx_movies_rating ON movies (rating, id)`

func RunMigrations(ctx context.Context, db *DB) error {
	idColumn, floatType := "INTEGER PRIMARY KEY AUTOINCREMENT", "REAL"
	if db.Dialect == Postgres {
		idColumn, floatType = "SERIAL PRIMARY KEY", "DOUBLE PRECISION"
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(moviesTableSQL, idColumn, floatType)); err != nil {
		return fmt.Errorf("failed to run movies migration: %w", err)
	}

	if _, err := db.ExecContext(ctx, moviesRatingIndexSQL); err != nil {
		return fmt.Errorf("failed to create rating index: %w", err)
	}

	return nil
}
