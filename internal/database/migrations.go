package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations must stay sorted by version; applied steps are never edited.
var migrations = []migration{
	{1, "create events", `
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    uuid TEXT NOT NULL UNIQUE,

    -- hash of the caller's API key
    owner TEXT NOT NULL,

    title TEXT NOT NULL CHECK (length(title) > 0),

    -- Tishri=1 ... Elul=12, Adar II=13
    hebrew_year INTEGER NOT NULL CHECK (hebrew_year >= 1),
    hebrew_month INTEGER NOT NULL CHECK (hebrew_month BETWEEN 1 AND 13),
    hebrew_day INTEGER NOT NULL CHECK (hebrew_day BETWEEN 1 AND 30),

    -- YYYY-MM-DD the Hebrew date fell on when saved
    gregorian_date TEXT NOT NULL,

    notes TEXT,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (owner, title, hebrew_year, hebrew_month, hebrew_day)
);
`},
	{2, "index events by owner", `
CREATE INDEX IF NOT EXISTS idx_events_owner
    ON events(owner, id);

CREATE INDEX IF NOT EXISTS idx_events_owner_hebrew
    ON events(owner, hebrew_month, hebrew_day);
`},
}

func latestVersion() int {
	return migrations[len(migrations)-1].version
}

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// Migrate applies every migration newer than the recorded schema version in
// one transaction and returns how many ran.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	applied := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, createMigrationsTable); err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}

		current, err := tx.schemaVersion(ctx)
		if err != nil {
			return err
		}

		for _, m := range migrations {
			if m.version <= current {
				continue
			}
			db.logger.Info("applying migration",
				slog.Int("version", m.version),
				slog.String("name", m.name),
			)
			if _, err := tx.ExecContext(ctx, m.sql); err != nil {
				return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
				m.version, m.name,
			); err != nil {
				return fmt.Errorf("record migration %d: %w", m.version, err)
			}
			applied++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	db.logger.Info("schema up to date",
		slog.Int("applied", applied),
		slog.Int("version", latestVersion()),
	)
	return applied, nil
}

// SchemaVersion returns the highest applied migration, or 0 for a fresh
// database.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		"SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'",
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}

func (tx *Tx) schemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}
