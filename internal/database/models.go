package database

import (
	"database/sql"
	"time"
)

// Event is a named Hebrew date saved by an owner.
type Event struct {
	ID            int64     `json:"-"`
	UUID          string    `json:"id"`
	Owner         string    `json:"-"`
	Title         string    `json:"title"`
	HebrewYear    int       `json:"hebrew_year"`
	HebrewMonth   int       `json:"hebrew_month"`
	HebrewDay     int       `json:"hebrew_day"`
	GregorianDate string    `json:"gregorian_date"` // YYYY-MM-DD
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EventStats summarizes an owner's saved dates.
type EventStats struct {
	Total     int        `json:"total"`
	LastAdded *time.Time `json:"last_added,omitempty"`
}

// NullString converts a nullable column to a *string.
func NullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
