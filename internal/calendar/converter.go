package calendar

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of new-year results the default converter
// memoizes. A few thousand entries cover every year a caller is likely to
// touch.
const DefaultCacheSize = 4096

// Mean Hebrew year length as a ratio (35975351/98496 days), used to
// estimate the year of an R.D. day number before correcting exactly.
const (
	meanYearNumerator   = 35975351
	meanYearDenominator = 98496
)

// Converter converts between Hebrew and Gregorian dates.
//
// A Converter is safe for concurrent use. It optionally memoizes the day
// number of Tishri 1 per Hebrew year in a bounded LRU; without a cache
// every call computes from the molad directly, with identical results.
type Converter struct {
	cache  *lru.Cache[int, int]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewConverter creates a converter whose new-year memo holds up to
// cacheSize years. A cacheSize of zero or less disables memoization.
func NewConverter(cacheSize int) *Converter {
	c := &Converter{}
	if cacheSize <= 0 {
		return c
	}
	cache, err := lru.New[int, int](cacheSize)
	if err != nil {
		// Fall back to direct computation.
		return c
	}
	c.cache = cache
	return c
}

// CacheStats reports memo hits and misses since the converter was created.
func (c *Converter) CacheStats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Cached reports whether the converter memoizes new-year results.
func (c *Converter) Cached() bool {
	return c.cache != nil
}

// ToHebrew converts a Gregorian date to the Hebrew date of the same day.
func (c *Converter) ToHebrew(g GregorianDate) (HebrewDate, error) {
	if err := g.Validate(); err != nil {
		return HebrewDate{}, err
	}
	h, err := c.FromFixed(g.Fixed())
	if err != nil {
		return HebrewDate{}, fmt.Errorf("convert %s: %w", g, err)
	}
	return h, nil
}

// FromFixed converts an R.D. day number to a Hebrew date.
func (c *Converter) FromFixed(rd int) (HebrewDate, error) {
	if rd < HebrewEpoch {
		return HebrewDate{}, fmt.Errorf("%w: day %d is before Tishri 1, AM 1", ErrCalendarRange, rd)
	}

	// The estimate never overshoots, so only forward correction is needed.
	year := int(int64(rd-HebrewEpoch) * meanYearDenominator / meanYearNumerator)
	if year < 1 {
		year = 1
	}
	for c.newYear(year+1) <= rd {
		year++
	}

	lengths, err := c.monthLengths(year)
	if err != nil {
		return HebrewDate{}, err
	}

	offset := rd - c.newYear(year)
	for _, month := range monthOrder(year) {
		if offset < lengths[month-1] {
			return HebrewDate{Year: year, Month: month, Day: offset + 1}, nil
		}
		offset -= lengths[month-1]
	}
	return HebrewDate{}, fmt.Errorf("%w: day %d lies past the end of year %d", ErrInternalConsistency, rd, year)
}

// ToGregorian converts a Hebrew date to the Gregorian date of the same day.
func (c *Converter) ToGregorian(h HebrewDate) (GregorianDate, error) {
	rd, err := c.Fixed(h)
	if err != nil {
		return GregorianDate{}, err
	}
	return GregorianFromFixed(rd), nil
}

// Fixed returns the R.D. day number of a Hebrew date.
func (c *Converter) Fixed(h HebrewDate) (int, error) {
	if err := c.Validate(h); err != nil {
		return 0, err
	}
	lengths, err := c.monthLengths(h.Year)
	if err != nil {
		return 0, err
	}

	rd := c.newYear(h.Year)
	for _, month := range monthOrder(h.Year) {
		if month == h.Month {
			break
		}
		rd += lengths[month-1]
	}
	return rd + h.Day - 1, nil
}

// Validate checks that the date exists. A month that cannot occur in the
// year yields an error matching both ErrInvalidDate and ErrInvalidMonth.
func (c *Converter) Validate(h HebrewDate) error {
	if err := checkYear(h.Year); err != nil {
		return err
	}
	if err := validMonth(h.Year, h.Month); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	length, err := c.MonthLength(h.Year, h.Month)
	if err != nil {
		return err
	}
	if h.Day < 1 || h.Day > length {
		return fmt.Errorf("%w: month %d of year %d has %d days, got day %d",
			ErrInvalidDate, h.Month, h.Year, length, h.Day)
	}
	return nil
}
