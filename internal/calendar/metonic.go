// Package calendar implements the arithmetic Hebrew calendar and its
// conversion to and from the proleptic Gregorian calendar.
//
// All computations use exact integer arithmetic: the molad is counted in
// "parts" (1/1080 of an hour) and days are counted as R.D. (Rata Die) day
// numbers, where R.D. 1 is Monday, January 1, 1 CE (Gregorian).
package calendar

// Month numbers, counted from Tishri as the first month of the civil year.
// AdarII exists only in leap years and falls between Adar (Adar I) and
// Nisan.
const (
	Tishri   = 1
	Cheshvan = 2
	Kislev   = 3
	Tevet    = 4
	Shevat   = 5
	Adar     = 6 // Adar I in leap years
	Nisan    = 7
	Iyar     = 8
	Sivan    = 9
	Tammuz   = 10
	Av       = 11
	Elul     = 12
	AdarII   = 13
)

// IsLeapYear reports whether the Hebrew year has 13 months.
//
// Seven years in every 19-year (Metonic) cycle are leap years: positions
// 3, 6, 8, 11, 14, 17 and 19 of the cycle. Position 19 is year mod 19 == 0.
func IsLeapYear(year int) bool {
	switch mod(year, 19) {
	case 0, 3, 6, 8, 11, 14, 17:
		return true
	}
	return false
}

// MonthsInYear returns 13 for leap years and 12 otherwise.
func MonthsInYear(year int) int {
	if IsLeapYear(year) {
		return 13
	}
	return 12
}

// monthsElapsed returns the number of lunar months from the epoch molad
// to the molad of Tishri of the given year:
// (year-1)*12 plus one for every leap year strictly before year.
func monthsElapsed(year int) int64 {
	cycles := floorDiv(year-1, 19)
	pos := mod(year-1, 19)
	leapBefore := (7*pos + 1) / 19
	return int64(cycles)*235 + int64(pos)*12 + int64(leapBefore)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns a modulo b with the sign of b.
func mod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
