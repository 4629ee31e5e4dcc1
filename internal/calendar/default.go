package calendar

// defaultConverter backs the package-level functions. Its memo is shared
// process-wide.
var defaultConverter = NewConverter(DefaultCacheSize)

// Default returns the process-wide converter.
func Default() *Converter {
	return defaultConverter
}

// GregorianToHebrew converts a Gregorian date using the default converter.
func GregorianToHebrew(g GregorianDate) (HebrewDate, error) {
	return defaultConverter.ToHebrew(g)
}

// HebrewToGregorian converts a Hebrew year, month and day using the
// default converter.
func HebrewToGregorian(year, month, day int) (GregorianDate, error) {
	return defaultConverter.ToGregorian(HebrewDate{Year: year, Month: month, Day: day})
}

// NewYear returns the R.D. day number of Tishri 1 of the year.
func NewYear(year int) (int, error) {
	return defaultConverter.NewYear(year)
}

// YearLength returns the number of days in the Hebrew year.
func YearLength(year int) (int, error) {
	return defaultConverter.YearLength(year)
}

// MonthLength returns the number of days in a month of the Hebrew year.
func MonthLength(year, month int) (int, error) {
	return defaultConverter.MonthLength(year, month)
}
