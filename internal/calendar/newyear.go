package calendar

import (
	"fmt"
	"time"
)

const (
	// HebrewEpoch is the R.D. day number of Tishri 1, AM 1.
	HebrewEpoch = -1373427

	// elapsedDayOffset converts elapsed day numbers (molad days) to R.D.
	// It is a multiple of 7, so both numberings agree on the weekday.
	elapsedDayOffset = 1373428

	// Postponement thresholds, in parts since 6 pm.
	moladNoon  = 18 * PartsPerHour     // noon of the molad day
	gatarad    = 9*PartsPerHour + 204  // Tuesday 9h 204p, common years
	betutakpat = 15*PartsPerHour + 589 // Monday 15h 589p, after a leap year
)

// checkYear rejects Hebrew years before the epoch.
func checkYear(year int) error {
	if year < 1 {
		return fmt.Errorf("%w: hebrew year %d", ErrCalendarRange, year)
	}
	return nil
}

// NewYear returns the R.D. day number of Tishri 1 (Rosh Hashanah) of the
// Hebrew year.
func (c *Converter) NewYear(year int) (int, error) {
	if err := checkYear(year); err != nil {
		return 0, err
	}
	return c.newYear(year), nil
}

// newYear consults the memo before computing. year must be >= 1.
func (c *Converter) newYear(year int) int {
	if c.cache == nil {
		return newYearFixed(year)
	}
	if rd, ok := c.cache.Get(year); ok {
		c.hits.Add(1)
		return rd
	}
	c.misses.Add(1)
	rd := newYearFixed(year)
	c.cache.Add(year, rd)
	return rd
}

// newYearFixed applies the postponement rules (dehiyot) to the molad of
// Tishri.
//
// At most one of the first three rules applies, moving the day forward by
// one. Rosh Hashanah may then never fall on Sunday, Wednesday or Friday,
// which moves it one more day. GaTaRaD therefore lands on Thursday.
func newYearFixed(year int) int {
	molad := MoladOfTishri(year)
	day := molad.Day()
	parts := molad.PartsOfDay()
	weekday := molad.Weekday()

	switch {
	case parts >= moladNoon:
		day++
	case weekday == time.Tuesday && parts >= gatarad && !IsLeapYear(year):
		day++
	case weekday == time.Monday && parts >= betutakpat && IsLeapYear(year-1):
		day++
	}

	switch time.Weekday(mod(day, 7)) {
	case time.Sunday, time.Wednesday, time.Friday:
		day++
	}

	return day - elapsedDayOffset
}

// YearLength returns the number of days in the Hebrew year.
func (c *Converter) YearLength(year int) (int, error) {
	if err := checkYear(year); err != nil {
		return 0, err
	}
	length := c.newYear(year+1) - c.newYear(year)
	if _, ok := kindFromLength(length, IsLeapYear(year)); !ok {
		return 0, fmt.Errorf("%w: year %d has %d days (leap=%t)",
			ErrInternalConsistency, year, length, IsLeapYear(year))
	}
	return length, nil
}

// YearKind classifies the year as deficient, regular or complete.
func (c *Converter) YearKind(year int) (YearKind, error) {
	length, err := c.YearLength(year)
	if err != nil {
		return 0, err
	}
	kind, _ := kindFromLength(length, IsLeapYear(year))
	return kind, nil
}
