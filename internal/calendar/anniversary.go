package calendar

import "fmt"

// Anniversary returns the date on which h recurs in the Hebrew year.
//
// Rules, for dates that do not exist unchanged in the target year:
//   - Adar II falls back to Adar in a common year.
//   - Adar of a common year moves to Adar II in a leap year.
//   - Day 30 of a month that has only 29 days in the target year moves to
//     the first day of the following month (30 Cheshvan becomes 1 Kislev,
//     30 Kislev becomes 1 Tevet, 30 Adar I becomes 1 Nisan).
func (c *Converter) Anniversary(h HebrewDate, year int) (HebrewDate, error) {
	if err := c.Validate(h); err != nil {
		return HebrewDate{}, err
	}
	if err := checkYear(year); err != nil {
		return HebrewDate{}, err
	}

	month := h.Month
	switch {
	case month == AdarII && !IsLeapYear(year):
		month = Adar
	case month == Adar && !IsLeapYear(h.Year) && IsLeapYear(year):
		month = AdarII
	}

	length, err := c.MonthLength(year, month)
	if err != nil {
		return HebrewDate{}, err
	}
	if h.Day <= length {
		return HebrewDate{Year: year, Month: month, Day: h.Day}, nil
	}

	order := monthOrder(year)
	for i, m := range order {
		if m == month && i+1 < len(order) {
			return HebrewDate{Year: year, Month: order[i+1], Day: 1}, nil
		}
	}
	// Elul always has 29 days, so day 30 never reaches the end of the year.
	return HebrewDate{}, fmt.Errorf("%w: no anniversary of %s in %d", ErrInternalConsistency, h, year)
}

// NextAnniversary returns the first anniversary of h that falls on or after
// the Gregorian date from, together with its Gregorian date. The original
// date itself counts as its own first anniversary.
func (c *Converter) NextAnniversary(h HebrewDate, from GregorianDate) (HebrewDate, GregorianDate, error) {
	if err := c.Validate(h); err != nil {
		return HebrewDate{}, GregorianDate{}, err
	}
	today, err := c.ToHebrew(from)
	if err != nil {
		return HebrewDate{}, GregorianDate{}, err
	}

	year := max(today.Year, h.Year)
	fromDay := from.Fixed()
	for {
		next, err := c.Anniversary(h, year)
		if err != nil {
			return HebrewDate{}, GregorianDate{}, err
		}
		rd, err := c.Fixed(next)
		if err != nil {
			return HebrewDate{}, GregorianDate{}, err
		}
		if rd >= fromDay {
			return next, GregorianFromFixed(rd), nil
		}
		year++
	}
}
