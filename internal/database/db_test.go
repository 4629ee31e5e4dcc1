package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Path:            MemoryPath,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// newEvent returns a valid event for 14 Adar II 5784.
func newEvent(owner, title string) *Event {
	return &Event{
		Owner:         owner,
		Title:         title,
		HebrewYear:    5784,
		HebrewMonth:   13,
		HebrewDay:     14,
		GregorianDate: "2024-03-24",
	}
}

func strPtr(s string) *string {
	return &s
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Migrations ran in testDB; running again should be a no-op
	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

func TestSchemaVersion(t *testing.T) {
	ctx := context.Background()

	db, err := Open(DefaultConfig(MemoryPath), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if v, err := db.SchemaVersion(ctx); err != nil || v != 0 {
		t.Fatalf("SchemaVersion() before migrate = %d, %v; want 0", v, err)
	}
	if err := db.Health(ctx); err == nil {
		t.Error("Health() on unmigrated database should fail")
	}

	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != len(migrations) {
		t.Errorf("Migrate() count = %d, want %d", count, len(migrations))
	}
	if v, _ := db.SchemaVersion(ctx); v != latestVersion() {
		t.Errorf("SchemaVersion() = %d, want %d", v, latestVersion())
	}

	var name string
	if err := db.QueryRowContext(ctx, "SELECT name FROM schema_migrations WHERE version = 1").Scan(&name); err != nil {
		t.Fatalf("read migration name: %v", err)
	}
	if name != "create events" {
		t.Errorf("migration 1 name = %q", name)
	}
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("WithTx() swallowed the panic")
			}
		}()
		db.WithTx(ctx, func(tx *Tx) error {
			if err := tx.CreateEvent(ctx, newEvent("owner-a", "Purim")); err != nil {
				t.Fatalf("CreateEvent() error = %v", err)
			}
			panic("boom")
		})
	}()

	stats, err := db.CountEvents(ctx, "owner-a")
	if err != nil {
		t.Fatalf("CountEvents() error = %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("Total = %d after panic, want 0", stats.Total)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	sentinel := errors.New("stop")

	err := db.WithTx(ctx, func(tx *Tx) error {
		if err := tx.CreateEvent(ctx, newEvent("owner-a", "Purim")); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithTx() error = %v, want %v", err, sentinel)
	}

	stats, _ := db.CountEvents(ctx, "owner-a")
	if stats.Total != 0 {
		t.Errorf("Total = %d after rollback, want 0", stats.Total)
	}
}

func TestConfigDSN(t *testing.T) {
	file := DefaultConfig("data/hebcal.db").dsn()
	for _, want := range []string{"data/hebcal.db?", "_journal_mode=WAL", "_busy_timeout=5000", "_foreign_keys=on"} {
		if !strings.Contains(file, want) {
			t.Errorf("dsn %q missing %q", file, want)
		}
	}
	if mem := DefaultConfig(MemoryPath).dsn(); strings.Contains(mem, "WAL") {
		t.Errorf("in-memory dsn %q should not request WAL", mem)
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/nested/hebcal.db"

	db, err := Open(DefaultConfig(path), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(dir + "/nested"); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

// -----------------------------------------------------------------
// Event tests
// -----------------------------------------------------------------

func TestCreateEvent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	e := newEvent("owner-a", "Purim")
	e.Notes = strPtr("Megillah at 7")
	if err := db.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	if e.ID == 0 {
		t.Error("CreateEvent() did not set ID")
	}
	if e.UUID == "" {
		t.Error("CreateEvent() did not set UUID")
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreateEvent() did not set CreatedAt")
	}
}

func TestCreateEvent_Duplicate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.CreateEvent(ctx, newEvent("owner-a", "Purim")); err != nil {
		t.Fatalf("first CreateEvent() error = %v", err)
	}

	err := db.CreateEvent(ctx, newEvent("owner-a", "Purim"))
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("second CreateEvent() error = %v, want ErrDuplicate", err)
	}

	// Another owner may save the same date
	if err := db.CreateEvent(ctx, newEvent("owner-b", "Purim")); err != nil {
		t.Errorf("CreateEvent() for other owner error = %v", err)
	}
}

func TestCreateEvent_RejectsBadMonth(t *testing.T) {
	db := testDB(t)

	e := newEvent("owner-a", "Nowhere")
	e.HebrewMonth = 14
	if err := db.CreateEvent(context.Background(), e); err == nil {
		t.Error("CreateEvent() with month 14 succeeded, want error")
	}
}

func TestGetEvent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	e := newEvent("owner-a", "Purim")
	e.Notes = strPtr("Megillah at 7")
	if err := db.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	got, err := db.GetEvent(ctx, "owner-a", e.UUID)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}

	if got.Title != "Purim" {
		t.Errorf("Title = %q, want %q", got.Title, "Purim")
	}
	if got.HebrewYear != 5784 || got.HebrewMonth != 13 || got.HebrewDay != 14 {
		t.Errorf("Hebrew date = %d-%d-%d, want 5784-13-14", got.HebrewYear, got.HebrewMonth, got.HebrewDay)
	}
	if got.GregorianDate != "2024-03-24" {
		t.Errorf("GregorianDate = %q, want %q", got.GregorianDate, "2024-03-24")
	}
	if got.Notes == nil || *got.Notes != "Megillah at 7" {
		t.Errorf("Notes = %v, want %q", got.Notes, "Megillah at 7")
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	e := newEvent("owner-a", "Purim")
	if err := db.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	tests := []struct {
		name  string
		owner string
		id    string
	}{
		{"unknown id", "owner-a", "00000000-0000-0000-0000-000000000000"},
		{"other owner", "owner-b", e.UUID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.GetEvent(ctx, tt.owner, tt.id)
			if !IsNotFound(err) {
				t.Errorf("GetEvent() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestListEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, title := range []string{"Purim", "Birthday", "Yahrzeit"} {
		if err := db.CreateEvent(ctx, newEvent("owner-a", title)); err != nil {
			t.Fatalf("CreateEvent(%q) error = %v", title, err)
		}
	}
	if err := db.CreateEvent(ctx, newEvent("owner-b", "Other")); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	events, err := db.ListEvents(ctx, "owner-a", 10, 0)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("ListEvents() returned %d events, want 3", len(events))
	}
	if events[0].Title != "Purim" {
		t.Errorf("first event = %q, want %q", events[0].Title, "Purim")
	}

	page, err := db.ListEvents(ctx, "owner-a", 2, 2)
	if err != nil {
		t.Fatalf("ListEvents() page error = %v", err)
	}
	if len(page) != 1 || page[0].Title != "Yahrzeit" {
		t.Errorf("ListEvents(limit 2, offset 2) = %v, want [Yahrzeit]", page)
	}

	empty, err := db.ListEvents(ctx, "nobody", 10, 0)
	if err != nil {
		t.Fatalf("ListEvents() empty error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListEvents(nobody) = %v, want empty slice", empty)
	}
}

func TestCountEvents(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	stats, err := db.CountEvents(ctx, "owner-a")
	if err != nil {
		t.Fatalf("CountEvents() error = %v", err)
	}
	if stats.Total != 0 || stats.LastAdded != nil {
		t.Errorf("CountEvents(empty) = %+v, want zero", stats)
	}

	for _, title := range []string{"Purim", "Birthday"} {
		if err := db.CreateEvent(ctx, newEvent("owner-a", title)); err != nil {
			t.Fatalf("CreateEvent(%q) error = %v", title, err)
		}
	}

	stats, err = db.CountEvents(ctx, "owner-a")
	if err != nil {
		t.Fatalf("CountEvents() error = %v", err)
	}
	if stats.Total != 2 {
		t.Errorf("Total = %d, want 2", stats.Total)
	}
	if stats.LastAdded == nil {
		t.Error("LastAdded = nil, want timestamp")
	}
}

func TestDeleteEvent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	e := newEvent("owner-a", "Purim")
	if err := db.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	// Other owners cannot delete it
	if err := db.DeleteEvent(ctx, "owner-b", e.UUID); !IsNotFound(err) {
		t.Errorf("DeleteEvent(other owner) error = %v, want ErrNotFound", err)
	}

	if err := db.DeleteEvent(ctx, "owner-a", e.UUID); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if _, err := db.GetEvent(ctx, "owner-a", e.UUID); !IsNotFound(err) {
		t.Errorf("GetEvent() after delete error = %v, want ErrNotFound", err)
	}
	if err := db.DeleteEvent(ctx, "owner-a", e.UUID); !IsNotFound(err) {
		t.Errorf("second DeleteEvent() error = %v, want ErrNotFound", err)
	}
}

// -----------------------------------------------------------------
// Transaction tests
// -----------------------------------------------------------------

func TestWithTx(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (uuid, owner, title, hebrew_year, hebrew_month, hebrew_day, gregorian_date)
			VALUES ('tx-1', 'owner-a', 'Rosh Hashanah', 5785, 1, 1, '2024-10-03')
		`)
		return err
	})
	if err != nil {
		t.Fatalf("WithTx() success case error = %v", err)
	}

	if _, err := db.GetEvent(ctx, "owner-a", "tx-1"); err != nil {
		t.Errorf("event not created: %v", err)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO events (uuid, owner, title, hebrew_year, hebrew_month, hebrew_day, gregorian_date)
			VALUES ('tx-2', 'owner-a', 'Rosh Hashanah', 5785, 1, 1, '2024-10-03')
		`); err != nil {
			return err
		}
		// Force error to trigger rollback
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Fatalf("WithTx() rollback case error = %v, want ErrNotFound", err)
	}

	if _, err := db.GetEvent(ctx, "owner-a", "tx-2"); err != ErrNotFound {
		t.Errorf("event should not exist after rollback, got error: %v", err)
	}
}
