// Command import loads saved Hebrew dates from a JSON or YAML file into the
// SQLite database.
//
// Usage:
//
//	go run ./cmd/import -file dates.yaml -db data/hebcal.db -key $API_KEY
//
// The file lists entries the same way POST /api/v1/events accepts them:
//
//	events:
//	  - title: Grandfather's yahrzeit
//	    hebrew: {year: 5760, month: 2, day: 30}
//	  - title: Wedding
//	    date: 2015-06-21
//	    notes: Sunday evening
//
// This tool:
// 1. Parses and validates the file
// 2. Creates/opens the SQLite database and runs migrations
// 3. Converts every entry to both calendars
// 4. Imports all entries in a single transaction
//
// Entries are saved for the owner of -key, the same owner the API uses for
// that key. Without -skip-duplicates, importing a file twice fails on the
// first duplicate and nothing is written.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/hebcal-api/internal/api"
	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/config"
	"github.com/zapponejosh/hebcal-api/internal/database"
	"github.com/zapponejosh/hebcal-api/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Parse command line flags
	filePath := flag.String("file", "", "Path to a JSON or YAML file of saved dates")
	dbPath := flag.String("db", cfg.DatabasePath, "Path to SQLite database")
	apiKey := flag.String("key", cfg.APIKey, "API key whose owner receives the dates")
	skipDuplicates := flag.Bool("skip-duplicates", false, "Skip entries that are already saved")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(os.Stdout, level, "text")

	if *filePath == "" {
		log.Error("missing -file")
		os.Exit(2)
	}

	opts := importOptions{
		owner:          api.OwnerForKey(*apiKey),
		skipDuplicates: *skipDuplicates,
	}
	if err := run(cfg, *filePath, *dbPath, opts, log); err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("import complete")
}

func run(cfg *config.Config, filePath, dbPath string, opts importOptions, log *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and validate the file
	// =========================================================================
	log.Info("reading file", slog.String("path", filePath))

	entries, err := readFile(filePath)
	if err != nil {
		return err
	}
	if err := validateEntries(entries); err != nil {
		return err
	}
	log.Info("parsed file", slog.Int("entries", len(entries)))

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import entries in a transaction
	// =========================================================================
	log.Info("starting import", slog.String("owner", opts.owner))

	imp := importer{
		conv: calendar.NewConverter(cfg.NewYearCacheSize),
		cfg:  cfg,
		opts: opts,
		log:  log,
	}
	var stats ImportStats
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		return imp.importEntries(ctx, tx, entries, &stats)
	})
	if err != nil {
		return fmt.Errorf("import data: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	total, err := db.CountEvents(ctx, opts.owner)
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}

	elapsed := time.Since(startTime)

	log.Info("import verified",
		slog.Int("saved_for_owner", total.Total),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Entries imported:    %d\n", stats.Imported)
	fmt.Printf("From Hebrew dates:   %d\n", stats.FromHebrew)
	fmt.Printf("From Gregorian:      %d\n", stats.FromGregorian)
	fmt.Printf("Duplicates skipped:  %d\n", stats.Duplicates)
	fmt.Printf("Saved for owner:     %d\n", total.Total)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// =============================================================================
// File format
// =============================================================================

type importFile struct {
	Events []importEntry `json:"events" yaml:"events"`
}

type importEntry struct {
	Title  string       `json:"title" yaml:"title" validate:"required,max=200"`
	Date   string       `json:"date,omitempty" yaml:"date,omitempty" validate:"required_without=Hebrew,excluded_with=Hebrew,omitempty,datetime=2006-01-02"`
	Hebrew *hebrewEntry `json:"hebrew,omitempty" yaml:"hebrew,omitempty" validate:"required_without=Date,omitempty"`
	Notes  string       `json:"notes,omitempty" yaml:"notes,omitempty" validate:"max=2000"`
}

type hebrewEntry struct {
	Year  int `json:"year" yaml:"year" validate:"required,gte=1"`
	Month int `json:"month" yaml:"month" validate:"required,gte=1,lte=13"`
	Day   int `json:"day" yaml:"day" validate:"required,gte=1,lte=30"`
}

// readFile parses YAML for .yaml and .yml files and JSON otherwise.
func readFile(path string) ([]importEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var f importFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return f.Events, nil
}

// validateEntries checks the shape of every entry before the database is
// touched. Calendar validity is checked during the import.
func validateEntries(entries []importEntry) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	var errs []error
	for i, e := range entries {
		if err := validate.Struct(e); err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%q): %w", i+1, e.Title, err))
		}
	}
	return errors.Join(errs...)
}

// =============================================================================
// Import
// =============================================================================

// ImportStats tracks import statistics.
type ImportStats struct {
	Imported      int
	FromHebrew    int
	FromGregorian int
	Duplicates    int
}

type importOptions struct {
	owner          string
	skipDuplicates bool
}

type importer struct {
	conv *calendar.Converter
	cfg  *config.Config
	opts importOptions
	log  *slog.Logger
}

// importEntries converts and inserts every entry inside tx.
func (imp *importer) importEntries(ctx context.Context, tx *database.Tx, entries []importEntry, stats *ImportStats) error {
	for i, entry := range entries {
		event, err := imp.toEvent(entry)
		if err != nil {
			return fmt.Errorf("entry %d (%q): %w", i+1, entry.Title, err)
		}

		if err := tx.CreateEvent(ctx, event); err != nil {
			if errors.Is(err, database.ErrDuplicate) && imp.opts.skipDuplicates {
				stats.Duplicates++
				imp.log.Debug("skipped duplicate", slog.String("title", event.Title))
				continue
			}
			return fmt.Errorf("entry %d (%q): %w", i+1, entry.Title, err)
		}

		stats.Imported++
		if entry.Hebrew != nil {
			stats.FromHebrew++
		} else {
			stats.FromGregorian++
		}

		// Progress logging every 50 entries
		if (i+1)%50 == 0 {
			imp.log.Debug("import progress",
				slog.Int("entry", i+1),
				slog.Int("total", len(entries)),
			)
		}
	}

	return nil
}

// toEvent resolves an entry to both calendars.
func (imp *importer) toEvent(entry importEntry) (*database.Event, error) {
	var hd calendar.HebrewDate
	var g calendar.GregorianDate
	var err error
	if entry.Hebrew != nil {
		hd = calendar.HebrewDate{Year: entry.Hebrew.Year, Month: entry.Hebrew.Month, Day: entry.Hebrew.Day}
		if g, err = imp.conv.ToGregorian(hd); err != nil {
			return nil, err
		}
	} else {
		if g, err = calendar.ParseGregorian(entry.Date); err != nil {
			return nil, err
		}
		if hd, err = imp.conv.ToHebrew(g); err != nil {
			return nil, err
		}
	}
	if !imp.cfg.YearInRange(hd.Year) {
		return nil, fmt.Errorf("%w: year %d is outside %d-%d",
			calendar.ErrCalendarRange, hd.Year, imp.cfg.MinYear, imp.cfg.MaxYear)
	}

	event := &database.Event{
		Owner:         imp.opts.owner,
		Title:         strings.TrimSpace(entry.Title),
		HebrewYear:    hd.Year,
		HebrewMonth:   hd.Month,
		HebrewDay:     hd.Day,
		GregorianDate: g.String(),
	}
	if entry.Notes != "" {
		notes := entry.Notes
		event.Notes = &notes
	}
	return event, nil
}
