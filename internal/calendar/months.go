package calendar

import (
	"fmt"
	"slices"
)

// YearKind classifies a Hebrew year by how many days Cheshvan and Kislev
// receive.
type YearKind int

const (
	// Deficient years (353 or 383 days) give Cheshvan and Kislev 29 days.
	Deficient YearKind = iota + 1
	// Regular years (354 or 384 days) give Cheshvan 29 and Kislev 30.
	Regular
	// Complete years (355 or 385 days) give both months 30 days.
	Complete
)

// String returns the lower-case name of the kind.
func (k YearKind) String() string {
	switch k {
	case Deficient:
		return "deficient"
	case Regular:
		return "regular"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("YearKind(%d)", int(k))
}

// kindFromLength maps a year length to its kind, checking it against the
// leap flag.
func kindFromLength(length int, leap bool) (YearKind, bool) {
	if leap {
		length -= 30
	}
	switch length {
	case 353:
		return Deficient, true
	case 354:
		return Regular, true
	case 355:
		return Complete, true
	}
	return 0, false
}

// Month lengths indexed by month number - 1. Leap tables carry a 30-day
// Adar I and a 29-day Adar II.
var (
	commonDeficient = []int{30, 29, 29, 29, 30, 29, 30, 29, 30, 29, 30, 29}
	commonRegular   = []int{30, 29, 30, 29, 30, 29, 30, 29, 30, 29, 30, 29}
	commonComplete  = []int{30, 30, 30, 29, 30, 29, 30, 29, 30, 29, 30, 29}
	leapDeficient   = []int{30, 29, 29, 29, 30, 30, 30, 29, 30, 29, 30, 29, 29}
	leapRegular     = []int{30, 29, 30, 29, 30, 30, 30, 29, 30, 29, 30, 29, 29}
	leapComplete    = []int{30, 30, 30, 29, 30, 30, 30, 29, 30, 29, 30, 29, 29}
)

// Chronological month order within a year.
var (
	commonOrder = []int{Tishri, Cheshvan, Kislev, Tevet, Shevat, Adar, Nisan, Iyar, Sivan, Tammuz, Av, Elul}
	leapOrder   = []int{Tishri, Cheshvan, Kislev, Tevet, Shevat, Adar, AdarII, Nisan, Iyar, Sivan, Tammuz, Av, Elul}
)

// MonthLengths returns the month lengths for a year of the given kind,
// indexed by month number - 1 (AdarII at index 12 in leap years).
func MonthLengths(kind YearKind, leap bool) []int {
	return slices.Clone(monthLengthTable(kind, leap))
}

func monthLengthTable(kind YearKind, leap bool) []int {
	switch {
	case kind == Deficient && leap:
		return leapDeficient
	case kind == Regular && leap:
		return leapRegular
	case kind == Complete && leap:
		return leapComplete
	case kind == Deficient:
		return commonDeficient
	case kind == Regular:
		return commonRegular
	case kind == Complete:
		return commonComplete
	}
	return nil
}

// MonthOrder returns the month numbers of the year in chronological order.
func MonthOrder(year int) []int {
	return slices.Clone(monthOrder(year))
}

func monthOrder(year int) []int {
	if IsLeapYear(year) {
		return leapOrder
	}
	return commonOrder
}

// validMonth checks that month can exist in year.
func validMonth(year, month int) error {
	if month < Tishri || month > AdarII {
		return fmt.Errorf("%w: %d is not a month number", ErrInvalidMonth, month)
	}
	if month == AdarII && !IsLeapYear(year) {
		return fmt.Errorf("%w: year %d is not a leap year and has no Adar II", ErrInvalidMonth, year)
	}
	return nil
}

// MonthLength returns the number of days in the month of the year.
func (c *Converter) MonthLength(year, month int) (int, error) {
	if err := checkYear(year); err != nil {
		return 0, err
	}
	if err := validMonth(year, month); err != nil {
		return 0, err
	}
	lengths, err := c.monthLengths(year)
	if err != nil {
		return 0, err
	}
	return lengths[month-1], nil
}

// monthLengths returns the shared length table for the year. Callers must
// not modify it.
func (c *Converter) monthLengths(year int) ([]int, error) {
	kind, err := c.YearKind(year)
	if err != nil {
		return nil, err
	}
	return monthLengthTable(kind, IsLeapYear(year)), nil
}
