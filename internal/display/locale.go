package display

import (
	"fmt"
	"slices"
	"time"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
)

// Supported locale codes.
const (
	LocaleHebrew  = "he"
	LocaleEnglish = "en"
)

// Locales returns the supported locale codes.
func Locales() []string {
	return []string{LocaleHebrew, LocaleEnglish}
}

// IsSupportedLocale reports whether the locale has name tables.
func IsSupportedLocale(locale string) bool {
	return slices.Contains(Locales(), locale)
}

func checkLocale(locale string) error {
	if !IsSupportedLocale(locale) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	return nil
}

// names holds the static name tables of one locale.
type names struct {
	months        [14]string // indexed by month number; Adar is the common-year name
	adarI         string
	weekdays      [7]string
	weekdaysShort [7]string
}

var hebrewNames = names{
	months: [14]string{
		calendar.Tishri:   "תשרי",
		calendar.Cheshvan: "חשון",
		calendar.Kislev:   "כסלו",
		calendar.Tevet:    "טבת",
		calendar.Shevat:   "שבט",
		calendar.Adar:     "אדר",
		calendar.Nisan:    "ניסן",
		calendar.Iyar:     "אייר",
		calendar.Sivan:    "סיון",
		calendar.Tammuz:   "תמוז",
		calendar.Av:       "אב",
		calendar.Elul:     "אלול",
		calendar.AdarII:   "אדר ב׳",
	},
	adarI:         "אדר א׳",
	weekdays:      [7]string{"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת"},
	weekdaysShort: [7]string{"א׳", "ב׳", "ג׳", "ד׳", "ה׳", "ו׳", "ש׳"},
}

var englishNames = names{
	months: [14]string{
		calendar.Tishri:   "Tishri",
		calendar.Cheshvan: "Cheshvan",
		calendar.Kislev:   "Kislev",
		calendar.Tevet:    "Tevet",
		calendar.Shevat:   "Shevat",
		calendar.Adar:     "Adar",
		calendar.Nisan:    "Nissan",
		calendar.Iyar:     "Iyar",
		calendar.Sivan:    "Sivan",
		calendar.Tammuz:   "Tammuz",
		calendar.Av:       "Av",
		calendar.Elul:     "Elul",
		calendar.AdarII:   "Adar II",
	},
	adarI:         "Adar I",
	weekdays:      [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	weekdaysShort: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
}

// ashkenaziMonths replaces the English month names when Ashkenazi
// pronunciation is requested.
var ashkenaziMonths = [14]string{
	calendar.Tishri:   "Tishrei",
	calendar.Cheshvan: "Cheshvan",
	calendar.Kislev:   "Kislev",
	calendar.Tevet:    "Teves",
	calendar.Shevat:   "Shvat",
	calendar.Adar:     "Adar",
	calendar.Nisan:    "Nissan",
	calendar.Iyar:     "Iyar",
	calendar.Sivan:    "Sivan",
	calendar.Tammuz:   "Tammuz",
	calendar.Av:       "Av",
	calendar.Elul:     "Elul",
	calendar.AdarII:   "Adar II",
}

func namesFor(locale string) (names, error) {
	switch locale {
	case LocaleHebrew:
		return hebrewNames, nil
	case LocaleEnglish:
		return englishNames, nil
	}
	return names{}, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
}

// MonthName returns the name of the month in the Hebrew year. In leap years
// month 6 is Adar I; in common years it is plain Adar.
func MonthName(locale string, year, month int, ashkenazi bool) (string, error) {
	n, err := namesFor(locale)
	if err != nil {
		return "", err
	}
	if month < calendar.Tishri || month > calendar.AdarII {
		return "", fmt.Errorf("%w: %d is not a month number", calendar.ErrInvalidMonth, month)
	}
	if month == calendar.Adar && calendar.IsLeapYear(year) {
		return n.adarI, nil
	}
	if ashkenazi && locale == LocaleEnglish {
		return ashkenaziMonths[month], nil
	}
	return n.months[month], nil
}

// MonthNames returns the month names of the year in chronological order.
func MonthNames(locale string, year int, ashkenazi bool) ([]string, error) {
	order := calendar.MonthOrder(year)
	out := make([]string, 0, len(order))
	for _, month := range order {
		name, err := MonthName(locale, year, month, ashkenazi)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// WeekdayName returns the full name of the weekday.
func WeekdayName(locale string, day time.Weekday) (string, error) {
	n, err := namesFor(locale)
	if err != nil {
		return "", err
	}
	return n.weekdays[day], nil
}

// WeekdayShortName returns the abbreviated weekday name used for calendar
// column headings.
func WeekdayShortName(locale string, day time.Weekday) (string, error) {
	n, err := namesFor(locale)
	if err != nil {
		return "", err
	}
	return n.weekdaysShort[day], nil
}
