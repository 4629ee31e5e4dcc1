package calendar

import "errors"

// Errors returned by the calendar engine. They are always wrapped with
// detail about the offending input; compare with errors.Is.
var (
	// ErrInvalidDate is returned when a day or month is out of range for
	// the year it is paired with.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidMonth is returned for a month number that cannot exist in
	// the given year (outside 1..13, or 13 in a common year).
	ErrInvalidMonth = errors.New("invalid month")

	// ErrCalendarRange is returned for dates before the Hebrew epoch
	// (Tishri 1, AM 1) and for Hebrew years below 1.
	ErrCalendarRange = errors.New("date outside supported calendar range")

	// ErrInternalConsistency signals a year length outside the six legal
	// values. It means the molad or postponement arithmetic is broken and
	// is never expected in correct operation.
	ErrInternalConsistency = errors.New("calendar internal consistency violation")
)
