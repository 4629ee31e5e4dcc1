package calendar

import "fmt"

// HebrewDate is a date in the arithmetic Hebrew calendar. Month numbers
// start at Tishri (see the month constants); AdarII is valid only in leap
// years.
type HebrewDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String formats the date as year-month-day with zero padding, e.g.
// "5784-01-01".
func (h HebrewDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", h.Year, h.Month, h.Day)
}

// Before reports whether h comes strictly before other.
//
// Months are compared in chronological order, so AdarII sorts between Adar
// and Nisan.
func (h HebrewDate) Before(other HebrewDate) bool {
	if h.Year != other.Year {
		return h.Year < other.Year
	}
	if h.Month != other.Month {
		return monthPosition(h.Month) < monthPosition(other.Month)
	}
	return h.Day < other.Day
}

// monthPosition returns a sort key for month numbers in chronological
// order within a year.
func monthPosition(month int) int {
	switch {
	case month <= Adar:
		return month * 2
	case month == AdarII:
		return Adar*2 + 1
	default:
		return month * 2
	}
}
