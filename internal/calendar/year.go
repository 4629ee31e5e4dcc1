package calendar

import "time"

// YearInfo summarizes a Hebrew year.
type YearInfo struct {
	Year         int
	Leap         bool
	Length       int
	Kind         YearKind
	MonthLengths []int // indexed by month number - 1
	NewYear      GregorianDate
	Molad        Molad
}

// Describe returns the calendar structure of the Hebrew year.
func (c *Converter) Describe(year int) (YearInfo, error) {
	kind, err := c.YearKind(year)
	if err != nil {
		return YearInfo{}, err
	}
	length, err := c.YearLength(year)
	if err != nil {
		return YearInfo{}, err
	}
	leap := IsLeapYear(year)

	return YearInfo{
		Year:         year,
		Leap:         leap,
		Length:       length,
		Kind:         kind,
		MonthLengths: MonthLengths(kind, leap),
		NewYear:      GregorianFromFixed(c.newYear(year)),
		Molad:        MoladOfTishri(year),
	}, nil
}

// MonthDay is one day of a MonthView.
type MonthDay struct {
	Day       int
	Gregorian GregorianDate
	Weekday   time.Weekday
}

// MonthView lays out a Hebrew month for display in a week grid.
type MonthView struct {
	Year   int
	Month  int
	Length int
	// Leading is the number of empty cells before day 1 in a week row
	// that begins on the requested first day of the week.
	Leading int
	Days    []MonthDay
}

// MonthView returns every day of the month with its Gregorian equivalent.
func (c *Converter) MonthView(year, month int, firstDayOfWeek time.Weekday) (MonthView, error) {
	first, err := c.Fixed(HebrewDate{Year: year, Month: month, Day: 1})
	if err != nil {
		return MonthView{}, err
	}
	length, err := c.MonthLength(year, month)
	if err != nil {
		return MonthView{}, err
	}

	view := MonthView{
		Year:    year,
		Month:   month,
		Length:  length,
		Leading: mod(int(WeekdayOf(first))-int(firstDayOfWeek), 7),
		Days:    make([]MonthDay, 0, length),
	}
	for day := 1; day <= length; day++ {
		rd := first + day - 1
		view.Days = append(view.Days, MonthDay{
			Day:       day,
			Gregorian: GregorianFromFixed(rd),
			Weekday:   WeekdayOf(rd),
		})
	}
	return view, nil
}
