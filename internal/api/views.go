package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/database"
	"github.com/zapponejosh/hebcal-api/internal/display"
	"github.com/zapponejosh/hebcal-api/internal/gematria"
)

// displayOptions is how a response renders Hebrew dates.
type displayOptions struct {
	locale  string
	pattern string
	style   display.Style
}

// parseDisplayOptions reads locale, pattern, year_style, day_style and
// ashkenazi from the query, falling back to the configured defaults.
func (h *Handlers) parseDisplayOptions(r *http.Request) (displayOptions, error) {
	q := r.URL.Query()

	opts := displayOptions{
		locale: h.cfg.DefaultLocale,
		style: display.Style{
			Ashkenazi: h.cfg.AshkenaziPronunciation,
		},
	}
	if h.cfg.ShowYearInGematria {
		opts.style.Year = display.Gematria
	}
	if h.cfg.ShowDayInHebrew {
		opts.style.Day = display.Gematria
	}

	if locale := q.Get("locale"); locale != "" {
		if !display.IsSupportedLocale(locale) {
			return opts, fmt.Errorf("%w: %q", display.ErrUnsupportedLocale, locale)
		}
		opts.locale = locale
	}

	// The configured pattern belongs to the default locale.
	opts.pattern = display.DefaultPattern(opts.locale)
	if opts.locale == h.cfg.DefaultLocale {
		opts.pattern = h.cfg.DisplayFormat
	}
	if pattern := q.Get("pattern"); pattern != "" {
		opts.pattern = pattern
	}

	if s := q.Get("year_style"); s != "" {
		style, err := display.ParseNumeralStyle(s)
		if err != nil {
			return opts, err
		}
		opts.style.Year = style
	}
	if s := q.Get("day_style"); s != "" {
		style, err := display.ParseNumeralStyle(s)
		if err != nil {
			return opts, err
		}
		opts.style.Day = style
	}
	if s := q.Get("ashkenazi"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return opts, fmt.Errorf("invalid ashkenazi flag %q", s)
		}
		opts.style.Ashkenazi = v
	}

	return opts, nil
}

// DateView is a single day in both calendars.
type DateView struct {
	Gregorian string              `json:"gregorian"`
	Hebrew    calendar.HebrewDate `json:"hebrew"`
	MonthName string              `json:"month_name"`
	Weekday   string              `json:"weekday"`
	LeapYear  bool                `json:"leap_year"`
	Display   string              `json:"display"`
}

func (h *Handlers) dateView(g calendar.GregorianDate, hd calendar.HebrewDate, opts displayOptions) (DateView, error) {
	monthName, err := display.MonthName(opts.locale, hd.Year, hd.Month, opts.style.Ashkenazi)
	if err != nil {
		return DateView{}, err
	}
	weekday, err := display.WeekdayName(opts.locale, g.Weekday())
	if err != nil {
		return DateView{}, err
	}
	text, err := h.formatter.Format(hd, opts.locale, opts.pattern, opts.style)
	if err != nil {
		return DateView{}, err
	}

	return DateView{
		Gregorian: g.String(),
		Hebrew:    hd,
		MonthName: monthName,
		Weekday:   weekday,
		LeapYear:  calendar.IsLeapYear(hd.Year),
		Display:   text,
	}, nil
}

// GematriaView is a number written as a Hebrew numeral.
type GematriaView struct {
	Number      int    `json:"number"`
	Numeral     string `json:"numeral"`
	Letters     string `json:"letters"`
	Traditional string `json:"traditional"`
}

func gematriaView(n int) (GematriaView, error) {
	numeral, err := gematria.Numeral(n)
	if err != nil {
		return GematriaView{}, err
	}
	letters, err := gematria.Letters(n)
	if err != nil {
		return GematriaView{}, err
	}
	traditional, err := gematria.Traditional(n)
	if err != nil {
		return GematriaView{}, err
	}
	return GematriaView{
		Number:      n,
		Numeral:     numeral,
		Letters:     letters,
		Traditional: traditional,
	}, nil
}

// MonthSummary is one month of a YearView.
type MonthSummary struct {
	Month  int    `json:"month"`
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// MoladView is the mean conjunction of Tishri.
type MoladView struct {
	Weekday  string `json:"weekday"`
	Hours    int    `json:"hours"`
	Minutes  int    `json:"minutes"`
	Chalakim int    `json:"chalakim"`
}

// YearView describes a Hebrew year.
type YearView struct {
	Year         int            `json:"year"`
	Numeral      string         `json:"numeral"`
	Leap         bool           `json:"leap"`
	Length       int            `json:"length"`
	Kind         string         `json:"kind"`
	Months       []MonthSummary `json:"months"` // chronological
	RoshHashanah string         `json:"rosh_hashanah"`
	Weekday      string         `json:"weekday"`
	Molad        MoladView      `json:"molad"`
}

func yearView(info calendar.YearInfo, locale string, ashkenazi bool) (YearView, error) {
	numeral, err := gematria.Traditional(info.Year)
	if err != nil {
		return YearView{}, err
	}
	weekday, err := display.WeekdayName(locale, info.NewYear.Weekday())
	if err != nil {
		return YearView{}, err
	}
	moladDay, err := display.WeekdayName(locale, info.Molad.Weekday())
	if err != nil {
		return YearView{}, err
	}

	view := YearView{
		Year:         info.Year,
		Numeral:      numeral,
		Leap:         info.Leap,
		Length:       info.Length,
		Kind:         info.Kind.String(),
		RoshHashanah: info.NewYear.String(),
		Weekday:      weekday,
		Molad: MoladView{
			Weekday:  moladDay,
			Hours:    info.Molad.Hours(),
			Minutes:  info.Molad.Minutes(),
			Chalakim: info.Molad.Chalakim(),
		},
	}
	for _, month := range calendar.MonthOrder(info.Year) {
		name, err := display.MonthName(locale, info.Year, month, ashkenazi)
		if err != nil {
			return YearView{}, err
		}
		view.Months = append(view.Months, MonthSummary{
			Month:  month,
			Name:   name,
			Length: info.MonthLengths[month-1],
		})
	}
	return view, nil
}

// MonthDayView is one cell of a MonthGridView.
type MonthDayView struct {
	Day       int    `json:"day"`
	Label     string `json:"label"` // day number in the requested style
	Gregorian string `json:"gregorian"`
	Weekday   string `json:"weekday"`
}

// MonthGridView lays out a Hebrew month for a calendar widget.
type MonthGridView struct {
	Year           int            `json:"year"`
	Month          int            `json:"month"`
	Name           string         `json:"name"`
	Length         int            `json:"length"`
	FirstDayOfWeek int            `json:"first_day_of_week"`
	Leading        int            `json:"leading"`
	WeekdayNames   []string       `json:"weekday_names"` // short, starting at first_day_of_week
	Days           []MonthDayView `json:"days"`
}

func monthGridView(mv calendar.MonthView, first time.Weekday, opts displayOptions) (MonthGridView, error) {
	name, err := display.MonthName(opts.locale, mv.Year, mv.Month, opts.style.Ashkenazi)
	if err != nil {
		return MonthGridView{}, err
	}

	view := MonthGridView{
		Year:           mv.Year,
		Month:          mv.Month,
		Name:           name,
		Length:         mv.Length,
		FirstDayOfWeek: int(first),
		Leading:        mv.Leading,
		Days:           make([]MonthDayView, 0, len(mv.Days)),
	}
	for i := 0; i < 7; i++ {
		short, err := display.WeekdayShortName(opts.locale, time.Weekday((int(first)+i)%7))
		if err != nil {
			return MonthGridView{}, err
		}
		view.WeekdayNames = append(view.WeekdayNames, short)
	}
	for _, d := range mv.Days {
		label, err := dayLabel(d.Day, opts.style.Day)
		if err != nil {
			return MonthGridView{}, err
		}
		weekday, err := display.WeekdayName(opts.locale, d.Weekday)
		if err != nil {
			return MonthGridView{}, err
		}
		view.Days = append(view.Days, MonthDayView{
			Day:       d.Day,
			Label:     label,
			Gregorian: d.Gregorian.String(),
			Weekday:   weekday,
		})
	}
	return view, nil
}

func dayLabel(day int, style display.NumeralStyle) (string, error) {
	switch style {
	case display.Gematria:
		return gematria.Numeral(day)
	case display.Traditional:
		return gematria.Traditional(day)
	}
	return strconv.Itoa(day), nil
}

// AnniversaryView is the next recurrence of a saved date.
type AnniversaryView struct {
	Hebrew    calendar.HebrewDate `json:"hebrew"`
	Gregorian string              `json:"gregorian"`
	Display   string              `json:"display"`
	Relative  string              `json:"relative"` // e.g. "3 weeks from now"
}

// EventView is a saved date with its next anniversary.
type EventView struct {
	database.Event
	Display         string           `json:"display"`
	NextAnniversary *AnniversaryView `json:"next_anniversary,omitempty"`
}

func (h *Handlers) eventView(e database.Event, opts displayOptions) (EventView, error) {
	hd := calendar.HebrewDate{Year: e.HebrewYear, Month: e.HebrewMonth, Day: e.HebrewDay}

	text, err := h.formatter.Format(hd, opts.locale, opts.pattern, opts.style)
	if err != nil {
		return EventView{}, err
	}
	view := EventView{Event: e, Display: text}

	now := h.now()
	next, g, err := h.conv.NextAnniversary(hd, calendar.FromTime(now))
	if err != nil {
		return EventView{}, err
	}
	// Beyond the configured window there is nothing useful to show.
	if !h.cfg.YearInRange(next.Year) {
		return view, nil
	}
	nextText, err := h.formatter.Format(next, opts.locale, opts.pattern, opts.style)
	if err != nil {
		return EventView{}, err
	}

	relative := "today"
	if today := calendar.FromTime(now); g != today {
		relative = humanize.RelTime(g.Time(), now, "ago", "from now")
	}
	view.NextAnniversary = &AnniversaryView{
		Hebrew:    next,
		Gregorian: g.String(),
		Display:   nextText,
		Relative:  relative,
	}
	return view, nil
}
