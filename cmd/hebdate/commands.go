package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/display"
	"github.com/zapponejosh/hebcal-api/internal/gematria"
)

// =============================================================================
// Conversions
// =============================================================================

func (a *app) toHebrewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "to-hebrew [YYYY-MM-DD]",
		Short: "Convert a Gregorian date (default today) to the Hebrew calendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := calendar.FromTime(a.now())
			if len(args) == 1 {
				var err error
				if g, err = calendar.ParseGregorian(args[0]); err != nil {
					return err
				}
			}

			hd, err := a.conv.ToHebrew(g)
			if err != nil {
				return err
			}
			a.log.Debug("converted to hebrew", slog.String("gregorian", g.String()), slog.String("hebrew", hd.String()))

			res, err := a.dateResult(g, hd)
			if err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Display)
				return err
			})
		},
	}
}

func (a *app) toGregorianCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "to-gregorian YEAR MONTH DAY",
		Short: "Convert a Hebrew date to the Gregorian calendar",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hd, err := parseHebrewDate(args)
			if err != nil {
				return err
			}

			g, err := a.conv.ToGregorian(hd)
			if err != nil {
				return err
			}
			a.log.Debug("converted to gregorian", slog.String("hebrew", hd.String()), slog.String("gregorian", g.String()))

			res, err := a.dateResult(g, hd)
			if err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s %s\n", res.Gregorian, res.Weekday)
				return err
			})
		},
	}
}

func (a *app) dateResult(g calendar.GregorianDate, hd calendar.HebrewDate) (dateResult, error) {
	monthName, err := display.MonthName(a.locale, hd.Year, hd.Month, a.ashkenazi)
	if err != nil {
		return dateResult{}, err
	}
	weekday, err := display.WeekdayName(a.locale, g.Weekday())
	if err != nil {
		return dateResult{}, err
	}
	text, err := a.format(hd)
	if err != nil {
		return dateResult{}, err
	}
	return dateResult{
		Gregorian: g.String(),
		Hebrew:    hd,
		MonthName: monthName,
		Weekday:   weekday,
		LeapYear:  calendar.IsLeapYear(hd.Year),
		Display:   text,
	}, nil
}

// =============================================================================
// Numerals
// =============================================================================

func (a *app) gematriaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gematria NUMBER",
		Short: "Write a positive number as a Hebrew numeral",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("number", args[0])
			if err != nil {
				return err
			}

			res := gematriaResult{Number: n}
			if res.Numeral, err = gematria.Numeral(n); err != nil {
				return err
			}
			if res.Letters, err = gematria.Letters(n); err != nil {
				return err
			}
			if res.Traditional, err = gematria.Traditional(n); err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s\t%s\n", res.Numeral, res.Traditional)
				return err
			})
		},
	}
}

// =============================================================================
// Years and months
// =============================================================================

func (a *app) yearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "year YEAR",
		Short: "Describe the structure of a Hebrew year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseInt("year", args[0])
			if err != nil {
				return err
			}

			res, err := a.yearResult(year)
			if err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) error {
				leap := "common"
				if res.Leap {
					leap = "leap"
				}
				fmt.Fprintf(w, "%d (%s): %s, %s, %d days\n", res.Year, res.Numeral, leap, res.Kind, res.Length)
				fmt.Fprintf(w, "Rosh Hashanah: %s\n", res.RoshHashanah)
				fmt.Fprintf(w, "Molad: %s %dh %dm %dp\n\n",
					res.Molad.Weekday, res.Molad.Hours, res.Molad.Minutes, res.Molad.Chalakim)

				tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "#\tMONTH\tDAYS\tSTARTS")
				for _, m := range res.Months {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", m.Month, m.Name, m.Length, m.Start)
				}
				return tw.Flush()
			})
		},
	}
}

func (a *app) yearResult(year int) (yearResult, error) {
	info, err := a.conv.Describe(year)
	if err != nil {
		return yearResult{}, err
	}
	numeral, err := gematria.HebrewYear(year)
	if err != nil {
		return yearResult{}, err
	}
	moladDay, err := display.WeekdayName(a.locale, info.Molad.Weekday())
	if err != nil {
		return yearResult{}, err
	}

	res := yearResult{
		Year:         year,
		Numeral:      numeral,
		Leap:         info.Leap,
		Length:       info.Length,
		Kind:         info.Kind.String(),
		RoshHashanah: info.NewYear.String(),
		Molad: moladResult{
			Weekday:  moladDay,
			Hours:    info.Molad.Hours(),
			Minutes:  info.Molad.Minutes(),
			Chalakim: info.Molad.Chalakim(),
		},
	}
	for _, month := range calendar.MonthOrder(year) {
		name, err := display.MonthName(a.locale, year, month, a.ashkenazi)
		if err != nil {
			return yearResult{}, err
		}
		start, err := a.conv.ToGregorian(calendar.HebrewDate{Year: year, Month: month, Day: 1})
		if err != nil {
			return yearResult{}, err
		}
		res.Months = append(res.Months, monthResult{
			Month:  month,
			Name:   name,
			Length: info.MonthLengths[month-1],
			Start:  start.String(),
		})
	}
	return res, nil
}

func (a *app) monthCmd() *cobra.Command {
	var firstDay string

	cmd := &cobra.Command{
		Use:   "month YEAR MONTH",
		Short: "Print a Hebrew month as a week grid",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseInt("year", args[0])
			if err != nil {
				return err
			}
			month, err := parseInt("month", args[1])
			if err != nil {
				return err
			}
			first := a.cfg.FirstDayOfWeek
			if firstDay != "" {
				if first, err = parseFirstDay(firstDay); err != nil {
					return err
				}
			}

			res, err := a.gridResult(year, month, first)
			if err != nil {
				return err
			}
			return a.render(res, func(w io.Writer) error {
				return writeGrid(w, res)
			})
		},
	}
	cmd.Flags().StringVar(&firstDay, "first-day", "", "first day of the week: sunday or monday (default from config)")
	return cmd
}

func (a *app) gridResult(year, month int, first time.Weekday) (gridResult, error) {
	mv, err := a.conv.MonthView(year, month, first)
	if err != nil {
		return gridResult{}, err
	}
	name, err := display.MonthName(a.locale, year, month, a.ashkenazi)
	if err != nil {
		return gridResult{}, err
	}

	res := gridResult{
		Year:    year,
		Month:   month,
		Name:    name,
		Length:  mv.Length,
		Leading: mv.Leading,
		Days:    make([]dayResult, 0, len(mv.Days)),
	}
	for i := 0; i < 7; i++ {
		short, err := display.WeekdayShortName(a.locale, time.Weekday((int(first)+i)%7))
		if err != nil {
			return gridResult{}, err
		}
		res.WeekdayNames = append(res.WeekdayNames, short)
	}

	dayStyle := a.style().Day
	for _, d := range mv.Days {
		label := strconv.Itoa(d.Day)
		if dayStyle == display.Gematria {
			if label, err = gematria.Numeral(d.Day); err != nil {
				return gridResult{}, err
			}
		}
		weekday, err := display.WeekdayName(a.locale, d.Weekday)
		if err != nil {
			return gridResult{}, err
		}
		res.Days = append(res.Days, dayResult{
			Day:       d.Day,
			Label:     label,
			Gregorian: d.Gregorian.String(),
			Weekday:   weekday,
		})
	}
	return res, nil
}

func writeGrid(w io.Writer, res gridResult) error {
	fmt.Fprintf(w, "%s %d\n", res.Name, res.Year)

	cells := make([]string, 0, res.Leading+len(res.Days))
	for i := 0; i < res.Leading; i++ {
		cells = append(cells, "")
	}
	for _, d := range res.Days {
		cells = append(cells, d.Label)
	}

	tw := tabwriter.NewWriter(w, 4, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(res.WeekdayNames, "\t")+"\t")
	for start := 0; start < len(cells); start += 7 {
		end := min(start+7, len(cells))
		fmt.Fprintln(tw, strings.Join(cells[start:end], "\t")+"\t")
	}
	return tw.Flush()
}

// =============================================================================
// Anniversaries
// =============================================================================

func (a *app) nextCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "next YEAR MONTH DAY",
		Short: "Find the next anniversary of a Hebrew date",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			hd, err := parseHebrewDate(args)
			if err != nil {
				return err
			}

			now := a.now()
			origin := calendar.FromTime(now)
			if from != "" {
				if origin, err = calendar.ParseGregorian(from); err != nil {
					return err
				}
			}

			next, g, err := a.conv.NextAnniversary(hd, origin)
			if err != nil {
				return err
			}
			text, err := a.format(next)
			if err != nil {
				return err
			}

			relative := "today"
			if today := calendar.FromTime(now); g != today {
				relative = humanize.RelTime(g.Time(), now, "ago", "from now")
			}
			a.log.Debug("next anniversary",
				slog.String("original", hd.String()),
				slog.String("next", next.String()),
				slog.String("gregorian", g.String()),
			)

			res := anniversaryResult{
				Original:  hd,
				Hebrew:    next,
				Gregorian: g.String(),
				Display:   text,
				Relative:  relative,
			}
			return a.render(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s (%s, %s)\n", res.Display, res.Gregorian, res.Relative)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "search from this Gregorian date instead of today (YYYY-MM-DD)")
	return cmd
}

// =============================================================================
// Argument parsing
// =============================================================================

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer", name, s)
	}
	return n, nil
}

func parseHebrewDate(args []string) (calendar.HebrewDate, error) {
	var hd calendar.HebrewDate
	var err error
	if hd.Year, err = parseInt("year", args[0]); err != nil {
		return hd, err
	}
	if hd.Month, err = parseInt("month", args[1]); err != nil {
		return hd, err
	}
	if hd.Day, err = parseInt("day", args[2]); err != nil {
		return hd, err
	}
	return hd, nil
}

func parseFirstDay(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "sunday", "sun", "0":
		return time.Sunday, nil
	case "monday", "mon", "1":
		return time.Monday, nil
	}
	return time.Sunday, fmt.Errorf("invalid first day %q: must be sunday or monday", s)
}
