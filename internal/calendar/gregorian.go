package calendar

import (
	"fmt"
	"time"
)

// GregorianDate is a civil date in the proleptic Gregorian calendar.
// Years use astronomical numbering: year 0 is 1 BCE.
type GregorianDate struct {
	Year  int
	Month time.Month
	Day   int
}

// FromTime returns the civil date of t in t's own location.
func FromTime(t time.Time) GregorianDate {
	y, m, d := t.Date()
	return GregorianDate{Year: y, Month: m, Day: d}
}

// ParseGregorian parses a date string in YYYY-MM-DD format.
func ParseGregorian(s string) (GregorianDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return GregorianDate{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

// Time returns midnight UTC of the date.
func (g GregorianDate) Time() time.Time {
	return time.Date(g.Year, g.Month, g.Day, 0, 0, 0, 0, time.UTC)
}

// String formats the date as YYYY-MM-DD.
func (g GregorianDate) String() string {
	if g.Year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -g.Year, int(g.Month), g.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", g.Year, int(g.Month), g.Day)
}

// Validate checks the month and day against the Gregorian calendar.
func (g GregorianDate) Validate() error {
	if g.Month < time.January || g.Month > time.December {
		return fmt.Errorf("%w: gregorian month %d", ErrInvalidDate, int(g.Month))
	}
	if g.Day < 1 || g.Day > DaysInGregorianMonth(g.Year, g.Month) {
		return fmt.Errorf("%w: %s has no day %d", ErrInvalidDate, g.Month, g.Day)
	}
	return nil
}

// Fixed returns the R.D. day number of the date. The date is assumed valid.
func (g GregorianDate) Fixed() int {
	y := g.Year - 1
	m := int(g.Month)

	days := 365*y + floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400)
	days += (367*m - 362) / 12
	if m > 2 {
		if IsGregorianLeapYear(g.Year) {
			days--
		} else {
			days -= 2
		}
	}
	return days + g.Day
}

// Weekday returns the day of the week of the date.
func (g GregorianDate) Weekday() time.Weekday {
	return WeekdayOf(g.Fixed())
}

// GregorianFromFixed converts an R.D. day number back to a civil date.
func GregorianFromFixed(rd int) GregorianDate {
	year := gregorianYearFromFixed(rd)
	priorDays := rd - GregorianDate{Year: year, Month: time.January, Day: 1}.Fixed()

	correction := 0
	if rd >= (GregorianDate{Year: year, Month: time.March, Day: 1}).Fixed() {
		if IsGregorianLeapYear(year) {
			correction = 1
		} else {
			correction = 2
		}
	}

	month := time.Month((12*(priorDays+correction) + 373) / 367)
	day := rd - GregorianDate{Year: year, Month: month, Day: 1}.Fixed() + 1
	return GregorianDate{Year: year, Month: month, Day: day}
}

// gregorianYearFromFixed splits the day count into 400-, 100-, 4- and
// 1-year cycles.
func gregorianYearFromFixed(rd int) int {
	d0 := rd - 1
	n400 := floorDiv(d0, 146097)
	d1 := mod(d0, 146097)
	n100 := d1 / 36524
	d2 := d1 % 36524
	n4 := d2 / 1461
	d3 := d2 % 1461
	n1 := d3 / 365

	year := 400*n400 + 100*n100 + 4*n4 + n1
	if n100 == 4 || n1 == 4 {
		return year
	}
	return year + 1
}

// IsGregorianLeapYear reports whether February of year has 29 days.
func IsGregorianLeapYear(year int) bool {
	return mod(year, 4) == 0 && (mod(year, 100) != 0 || mod(year, 400) == 0)
}

// DaysInGregorianMonth returns the number of days in a Gregorian month.
func DaysInGregorianMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsGregorianLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

// WeekdayOf returns the day of the week of an R.D. day number.
// R.D. 0 is a Sunday.
func WeekdayOf(rd int) time.Weekday {
	return time.Weekday(mod(rd, 7))
}
