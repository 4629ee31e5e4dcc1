// Package display renders Hebrew dates as text for people to read.
//
// Patterns use single-letter tokens in the style of PHP's date():
//
//	j  day of month          d  day of month, two digits
//	S  English ordinal suffix of the day (st, nd, rd, th)
//	M  month name            F  month name
//	n  month number          m  month number, two digits
//	Y  year
//	l  weekday name          D  short weekday name
//	G  Gregorian date as d/m/Y
//	\  escapes the next character
//
// Any other character, including all Hebrew text, is copied as is, so the
// Hebrew pattern "j בM Y" renders "1 בתשרי 5784".
package display

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/gematria"
)

// Default patterns per locale.
const (
	PatternHebrew  = "j בM Y"
	PatternEnglish = "j M Y"
)

// ErrUnsupportedLocale is returned for locale codes without name tables.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// NumeralStyle selects how a number is written.
type NumeralStyle int

const (
	// Digits writes Arabic numerals: 5784.
	Digits NumeralStyle = iota
	// Gematria writes a Hebrew numeral: ה׳תשפד׳.
	Gematria
	// Traditional writes the conventional short form: תשפ״ד.
	Traditional
)

// ParseNumeralStyle accepts "digits", "gematria" and "traditional". The
// empty string means Digits.
func ParseNumeralStyle(s string) (NumeralStyle, error) {
	switch s {
	case "", "digits":
		return Digits, nil
	case "gematria":
		return Gematria, nil
	case "traditional":
		return Traditional, nil
	}
	return Digits, fmt.Errorf("unknown numeral style %q", s)
}

// String returns the name accepted by ParseNumeralStyle.
func (s NumeralStyle) String() string {
	switch s {
	case Gematria:
		return "gematria"
	case Traditional:
		return "traditional"
	}
	return "digits"
}

// Style controls how numbers and names are rendered.
type Style struct {
	Year      NumeralStyle
	Day       NumeralStyle
	Ashkenazi bool // Ashkenazi month names for the English locale
}

// Formatter renders Hebrew dates. It is safe for concurrent use.
type Formatter struct {
	conv *calendar.Converter
}

// NewFormatter creates a formatter that resolves weekdays and Gregorian
// equivalents with conv. A nil conv uses the default converter.
func NewFormatter(conv *calendar.Converter) *Formatter {
	if conv == nil {
		conv = calendar.Default()
	}
	return &Formatter{conv: conv}
}

// DefaultPattern returns the display pattern used for the locale.
func DefaultPattern(locale string) string {
	if locale == LocaleHebrew {
		return PatternHebrew
	}
	return PatternEnglish
}

// FormatHebrewDate formats the date with the default formatter and style.
func FormatHebrewDate(date calendar.HebrewDate, locale, pattern string) (string, error) {
	return NewFormatter(nil).Format(date, locale, pattern, Style{})
}

// Format renders date according to pattern. The date must be valid.
func (f *Formatter) Format(date calendar.HebrewDate, locale, pattern string, style Style) (string, error) {
	if err := checkLocale(locale); err != nil {
		return "", err
	}
	rd, err := f.conv.Fixed(date)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' {
			if i+1 < len(runes) {
				i++
				b.WriteRune(runes[i])
			}
			continue
		}

		var part string
		switch r {
		case 'j':
			part, err = number(date.Day, style.Day)
		case 'd':
			part = fmt.Sprintf("%02d", date.Day)
		case 'S':
			part = strings.TrimPrefix(humanize.Ordinal(date.Day), strconv.Itoa(date.Day))
		case 'M', 'F':
			part, err = MonthName(locale, date.Year, date.Month, style.Ashkenazi)
		case 'n':
			part = strconv.Itoa(date.Month)
		case 'm':
			part = fmt.Sprintf("%02d", date.Month)
		case 'Y':
			part, err = number(date.Year, style.Year)
		case 'l':
			part, err = WeekdayName(locale, calendar.WeekdayOf(rd))
		case 'D':
			part, err = WeekdayShortName(locale, calendar.WeekdayOf(rd))
		case 'G':
			g := calendar.GregorianFromFixed(rd)
			part = fmt.Sprintf("%02d/%02d/%d", g.Day, int(g.Month), g.Year)
		default:
			b.WriteRune(r)
			continue
		}
		if err != nil {
			return "", err
		}
		b.WriteString(part)
	}
	return b.String(), nil
}

func number(n int, style NumeralStyle) (string, error) {
	switch style {
	case Gematria:
		return gematria.Numeral(n)
	case Traditional:
		return gematria.Traditional(n)
	}
	return strconv.Itoa(n), nil
}
