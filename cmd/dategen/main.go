package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/display"
)

// This script prints the Hebrew date of every day in a Gregorian year as
// CSV, for comparing the engine against other calendar implementations.

func main() {
	year := flag.Int("year", 2025, "Gregorian year to generate dates for")
	locale := flag.String("locale", display.LocaleEnglish, "Locale for month names")
	flag.Parse()

	if err := run(*year, *locale); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type genDate struct {
	gregorian calendar.GregorianDate
	hebrew    calendar.HebrewDate
	monthName string
}

func run(year int, locale string) error {
	conv := calendar.Default()

	fmt.Printf("=== Hebrew Date Generator for %d ===\n\n", year)

	// ==========================================================================
	// Key dates: every new year and every first of Nisan inside the year
	// ==========================================================================
	fmt.Println("Key Dates:")
	first, err := conv.ToHebrew(calendar.GregorianDate{Year: year, Month: time.January, Day: 1})
	if err != nil {
		return err
	}
	for hy := first.Year; hy <= first.Year+1; hy++ {
		for _, key := range []struct {
			label string
			date  calendar.HebrewDate
		}{
			{"Rosh Hashanah", calendar.HebrewDate{Year: hy, Month: calendar.Tishri, Day: 1}},
			{"1 Nisan", calendar.HebrewDate{Year: hy, Month: calendar.Nisan, Day: 1}},
		} {
			g, err := conv.ToGregorian(key.date)
			if err != nil {
				return err
			}
			if g.Year != year {
				continue
			}
			kind, err := conv.YearKind(hy)
			if err != nil {
				return err
			}
			fmt.Printf("  %-15s %s  (%d, %s)\n", key.label+":", g, hy, kind)
		}
	}
	fmt.Println()

	// ==========================================================================
	// Every day of the year
	// ==========================================================================
	var dates []genDate
	start := calendar.GregorianDate{Year: year, Month: time.January, Day: 1}.Fixed()
	end := calendar.GregorianDate{Year: year, Month: time.December, Day: 31}.Fixed()
	for rd := start; rd <= end; rd++ {
		hd, err := conv.FromFixed(rd)
		if err != nil {
			return err
		}
		name, err := display.MonthName(locale, hd.Year, hd.Month, false)
		if err != nil {
			return err
		}
		dates = append(dates, genDate{calendar.GregorianFromFixed(rd), hd, name})
	}

	// ==========================================================================
	// Summary by Hebrew month
	// ==========================================================================
	type monthCount struct {
		label string
		count int
	}
	var months []monthCount
	for _, d := range dates {
		label := fmt.Sprintf("%s %d", d.monthName, d.hebrew.Year)
		if n := len(months); n > 0 && months[n-1].label == label {
			months[n-1].count++
			continue
		}
		months = append(months, monthCount{label, 1})
	}

	fmt.Println("Days by Hebrew month:")
	for _, m := range months {
		fmt.Printf("  %-18s %d days\n", m.label+":", m.count)
	}
	fmt.Printf("  %-18s %d days\n", "TOTAL:", len(dates))
	fmt.Println()

	fmt.Println("=== All Dates ===")
	w := csv.NewWriter(os.Stdout)
	if err := w.Write([]string{"gregorian", "hebrew_year", "hebrew_month", "hebrew_day", "month_name"}); err != nil {
		return err
	}
	for _, d := range dates {
		if err := w.Write([]string{
			d.gregorian.String(),
			strconv.Itoa(d.hebrew.Year),
			strconv.Itoa(d.hebrew.Month),
			strconv.Itoa(d.hebrew.Day),
			d.monthName,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
