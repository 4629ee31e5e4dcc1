package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/config"
	"github.com/zapponejosh/hebcal-api/internal/database"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{MinYear: 5000, MaxYear: 6000, NewYearCacheSize: 64}
}

func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.DefaultConfig(filepath.Join(t.TempDir(), "test.db")), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Migrate(context.Background())
	require.NoError(t, err)
	return db
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newImporter(skipDuplicates bool) *importer {
	return &importer{
		conv: calendar.NewConverter(16),
		cfg:  testConfig(),
		opts: importOptions{owner: "owner-a", skipDuplicates: skipDuplicates},
		log:  testLogger(),
	}
}

func importAll(t *testing.T, db *database.DB, imp *importer, entries []importEntry) (ImportStats, error) {
	t.Helper()

	var stats ImportStats
	err := db.WithTx(context.Background(), func(tx *database.Tx) error {
		return imp.importEntries(context.Background(), tx, entries, &stats)
	})
	return stats, err
}

func TestReadFile_YAML(t *testing.T) {
	path := writeFile(t, "dates.yaml", `
events:
  - title: Yahrzeit
    hebrew: {year: 5760, month: 2, day: 30}
  - title: Wedding
    date: 2015-06-21
    notes: Sunday evening
`)

	entries, err := readFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, &hebrewEntry{Year: 5760, Month: 2, Day: 30}, entries[0].Hebrew)
	assert.Equal(t, "2015-06-21", entries[1].Date)
	assert.Equal(t, "Sunday evening", entries[1].Notes)
	assert.NoError(t, validateEntries(entries))
}

func TestReadFile_JSON(t *testing.T) {
	path := writeFile(t, "dates.json", `{"events": [{"title": "Purim", "hebrew": {"year": 5784, "month": 13, "day": 14}}]}`)

	entries, err := readFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Purim", entries[0].Title)
}

func TestReadFile_Errors(t *testing.T) {
	_, err := readFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = readFile(writeFile(t, "bad.json", `{"events": [`))
	assert.Error(t, err)
}

func TestValidateEntries(t *testing.T) {
	err := validateEntries([]importEntry{
		{Title: "ok", Date: "2024-03-24"},
		{Title: "", Date: "2024-03-24"},
		{Title: "both", Date: "2024-03-24", Hebrew: &hebrewEntry{Year: 5784, Month: 1, Day: 1}},
		{Title: "neither"},
		{Title: "bad month", Hebrew: &hebrewEntry{Year: 5784, Month: 14, Day: 1}},
	})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "entry 1 ")
	for _, want := range []string{"entry 2 ", "entry 3 ", "entry 4 ", "entry 5 "} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestImportEntries(t *testing.T) {
	db := testDB(t)

	stats, err := importAll(t, db, newImporter(false), []importEntry{
		{Title: "Purim", Hebrew: &hebrewEntry{Year: 5784, Month: 13, Day: 14}},
		{Title: "Wedding", Date: "2025-03-13", Notes: "evening"},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Imported: 2, FromHebrew: 1, FromGregorian: 1}, stats)

	events, err := db.ListEvents(context.Background(), "owner-a", 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	byTitle := map[string]database.Event{}
	for _, e := range events {
		byTitle[e.Title] = e
	}
	assert.Equal(t, "2024-03-24", byTitle["Purim"].GregorianDate)

	wedding := byTitle["Wedding"]
	assert.Equal(t, []int{5785, 6, 13}, []int{wedding.HebrewYear, wedding.HebrewMonth, wedding.HebrewDay})
	require.NotNil(t, wedding.Notes)
	assert.Equal(t, "evening", *wedding.Notes)
}

func TestImportEntries_RollsBackOnInvalidDate(t *testing.T) {
	db := testDB(t)

	_, err := importAll(t, db, newImporter(false), []importEntry{
		{Title: "fine", Hebrew: &hebrewEntry{Year: 5784, Month: 1, Day: 1}},
		{Title: "no adar II", Hebrew: &hebrewEntry{Year: 5785, Month: 13, Day: 1}},
	})
	require.ErrorIs(t, err, calendar.ErrInvalidMonth)
	assert.Contains(t, err.Error(), `entry 2 ("no adar II")`)

	stats, err := db.CountEvents(context.Background(), "owner-a")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestImportEntries_YearWindow(t *testing.T) {
	db := testDB(t)

	_, err := importAll(t, db, newImporter(false), []importEntry{
		{Title: "ancient", Hebrew: &hebrewEntry{Year: 4000, Month: 1, Day: 1}},
	})
	assert.ErrorIs(t, err, calendar.ErrCalendarRange)
}

func TestImportEntries_Duplicates(t *testing.T) {
	db := testDB(t)
	entries := []importEntry{{Title: "Purim", Hebrew: &hebrewEntry{Year: 5784, Month: 13, Day: 14}}}

	_, err := importAll(t, db, newImporter(false), entries)
	require.NoError(t, err)

	_, err = importAll(t, db, newImporter(false), entries)
	assert.ErrorIs(t, err, database.ErrDuplicate)

	stats, err := importAll(t, db, newImporter(true), append(entries,
		importEntry{Title: "Pesach", Hebrew: &hebrewEntry{Year: 5784, Month: 7, Day: 15}},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.Imported)

	count, err := db.CountEvents(context.Background(), "owner-a")
	require.NoError(t, err)
	assert.Equal(t, 2, count.Total)
}

func TestRun(t *testing.T) {
	path := writeFile(t, "dates.yaml", `
events:
  - title: Chanukah
    hebrew: {year: 5785, month: 3, day: 25}
`)
	dbPath := filepath.Join(t.TempDir(), "run.db")

	err := run(testConfig(), path, dbPath, importOptions{owner: "default"}, testLogger())
	require.NoError(t, err)

	db, err := database.Open(database.DefaultConfig(dbPath), testLogger())
	require.NoError(t, err)
	defer db.Close()

	events, err := db.ListEvents(context.Background(), "default", 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "2024-12-26", events[0].GregorianDate)
}
