package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999",
	} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const eventColumns = `
	id, uuid, owner, title,
	hebrew_year, hebrew_month, hebrew_day,
	gregorian_date, notes,
	created_at, updated_at`

func scanEvent(row rowScanner) (*Event, error) {
	var e Event
	var notes, createdAt, updatedAt sql.NullString

	if err := row.Scan(
		&e.ID, &e.UUID, &e.Owner, &e.Title,
		&e.HebrewYear, &e.HebrewMonth, &e.HebrewDay,
		&e.GregorianDate, &notes,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	e.Notes = NullString(notes)
	if t := parseTimestamp(createdAt); t != nil {
		e.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAt); t != nil {
		e.UpdatedAt = *t
	}
	return &e, nil
}

// =============================================================================
// Event Queries
// =============================================================================

// CreateEvent inserts a saved date and fills in its ID, UUID and
// timestamps. It returns ErrDuplicate if the owner already saved the same
// title on the same Hebrew date.
func (db *DB) CreateEvent(ctx context.Context, e *Event) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		return tx.CreateEvent(ctx, e)
	})
}

// CreateEvent inserts a saved date inside the transaction.
func (tx *Tx) CreateEvent(ctx context.Context, e *Event) error {
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}

	var notes sql.NullString
	if e.Notes != nil {
		notes = sql.NullString{String: *e.Notes, Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO events (
			uuid, owner, title,
			hebrew_year, hebrew_month, hebrew_day,
			gregorian_date, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.UUID, e.Owner, e.Title,
		e.HebrewYear, e.HebrewMonth, e.HebrewDay,
		e.GregorianDate, notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get event id: %w", err)
	}
	e.ID = id

	var createdAt, updatedAt sql.NullString
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM events WHERE id = ?", id,
	).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("read event timestamps: %w", err)
	}
	if t := parseTimestamp(createdAt); t != nil {
		e.CreatedAt = *t
	}
	if t := parseTimestamp(updatedAt); t != nil {
		e.UpdatedAt = *t
	}
	return nil
}

// GetEvent retrieves one of owner's saved dates by its public ID.
// Returns ErrNotFound if no such event belongs to owner.
func (db *DB) GetEvent(ctx context.Context, owner, id string) (*Event, error) {
	row := db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE owner = ? AND uuid = ?",
		owner, id,
	)

	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query event: %w", err)
	}
	return e, nil
}

// ListEvents returns owner's saved dates, oldest first.
// Returns an empty slice if the owner has none.
func (db *DB) ListEvents(ctx context.Context, owner string, limit, offset int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE owner = ? ORDER BY id LIMIT ? OFFSET ?",
		owner, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// CountEvents returns how many dates owner has saved and when the latest
// was added.
func (db *DB) CountEvents(ctx context.Context, owner string) (*EventStats, error) {
	var stats EventStats
	var lastAdded sql.NullString

	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*), MAX(created_at) FROM events WHERE owner = ?", owner,
	).Scan(&stats.Total, &lastAdded)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	stats.LastAdded = parseTimestamp(lastAdded)
	return &stats, nil
}

// DeleteEvent removes one of owner's saved dates.
// Returns ErrNotFound if no such event belongs to owner.
func (db *DB) DeleteEvent(ctx context.Context, owner, id string) error {
	result, err := db.ExecContext(ctx,
		"DELETE FROM events WHERE owner = ? AND uuid = ?", owner, id,
	)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}
