// Package database stores saved Hebrew dates in SQLite.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB is the saved-date store.
type DB struct {
	*sql.DB
	logger *slog.Logger
	path   string
}

// Config controls how the store is opened.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration
}

// DefaultConfig returns settings for a single-writer SQLite file.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// dsn appends the driver pragmas to the file path. WAL is skipped for
// in-memory databases, which do not support it.
func (c Config) dsn() string {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	if c.Path != MemoryPath {
		q.Set("_journal_mode", "WAL")
	}
	if c.BusyTimeout > 0 {
		q.Set("_busy_timeout", fmt.Sprint(c.BusyTimeout.Milliseconds()))
	}
	return c.Path + "?" + q.Encode()
}

// Open connects to the SQLite file at cfg.Path, creating its directory if
// needed. A nil logger falls back to slog.Default.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}

	if cfg.Path != MemoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database opened",
		slog.String("path", cfg.Path),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return &DB{DB: sqlDB, logger: logger, path: cfg.Path}, nil
}

// Close releases the connection pool.
func (db *DB) Close() error {
	db.logger.Info("database closed", slog.String("path", db.path))
	return db.DB.Close()
}

// Health reports whether the store can answer a query and has its schema.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if version < latestVersion() {
		return fmt.Errorf("schema at version %d, want %d", version, latestVersion())
	}
	return nil
}

// =============================================================================
// Transactions
// =============================================================================

// Tx is a store transaction. Event writes are available on both DB and Tx
// so callers can batch them.
type Tx struct {
	*sql.Tx
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx}, nil
}

// WithTx commits when fn returns nil and rolls back otherwise, including
// when fn panics.
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNotFound means no saved date matched.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means the owner already saved this title on this date.
	ErrDuplicate = errors.New("duplicate record")
)

// IsNotFound matches ErrNotFound and sql.ErrNoRows.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return true
	}
	return false
}
