package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/config"
	"github.com/zapponejosh/hebcal-api/internal/display"
	"github.com/zapponejosh/hebcal-api/internal/logger"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// app holds the state shared by every subcommand.
type app struct {
	cfg       *config.Config
	out       io.Writer
	now       func() time.Time
	conv      *calendar.Converter
	formatter *display.Formatter
	log       *slog.Logger

	locale      string
	pattern     string
	gematria    bool
	gematriaSet bool
	ashkenazi   bool
	output      string
	logLevel    string
}

func newRootCmd(cfg *config.Config, out, errOut io.Writer, now func() time.Time) *cobra.Command {
	conv := calendar.NewConverter(cfg.NewYearCacheSize)
	a := &app{
		cfg:       cfg,
		out:       out,
		now:       now,
		conv:      conv,
		formatter: display.NewFormatter(conv),
		log:       logger.New(errOut, "warn", "text"),
	}

	root := &cobra.Command{
		Use:   "hebdate",
		Short: "Convert between Hebrew and Gregorian dates",
		Long: `hebdate converts dates between the Gregorian and arithmetic Hebrew
calendars, describes Hebrew years and months, and finds the next
anniversary of a Hebrew date.

Hebrew months are numbered from Tishri (1) to Elul (12); Adar II is 13.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logger.New(errOut, a.logLevel, "text")
			a.gematriaSet = cmd.Flags().Changed("gematria")
			return a.checkFlags()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.locale, "locale", cfg.DefaultLocale, "display locale (he, en)")
	pf.StringVar(&a.pattern, "pattern", "", "display pattern (default is the locale's pattern)")
	pf.BoolVar(&a.gematria, "gematria", false, "write years and days as Hebrew numerals")
	pf.BoolVar(&a.ashkenazi, "ashkenazi", cfg.AshkenaziPronunciation, "use Ashkenazi month names in English")
	pf.StringVarP(&a.output, "output", "o", outputText, "output format: text, json or yaml")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level for stderr (debug, info, warn, error)")

	root.AddCommand(
		a.toHebrewCmd(),
		a.toGregorianCmd(),
		a.gematriaCmd(),
		a.yearCmd(),
		a.monthCmd(),
		a.nextCmd(),
	)
	return root
}

func (a *app) checkFlags() error {
	if !display.IsSupportedLocale(a.locale) {
		return fmt.Errorf("%w: %q", display.ErrUnsupportedLocale, a.locale)
	}
	switch a.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", a.output)
	}
	return nil
}

// displayPattern returns --pattern, or the configured pattern when the
// locale is the configured one, or the locale's default pattern.
func (a *app) displayPattern() string {
	if a.pattern != "" {
		return a.pattern
	}
	if a.locale == a.cfg.DefaultLocale && a.cfg.DisplayFormat != "" {
		return a.cfg.DisplayFormat
	}
	return display.DefaultPattern(a.locale)
}

// style applies --gematria to both the year and the day. Without the flag
// the configured numeral settings are used.
func (a *app) style() display.Style {
	s := display.Style{Ashkenazi: a.ashkenazi}
	year, day := a.cfg.ShowYearInGematria, a.cfg.ShowDayInHebrew
	if a.gematriaSet {
		year, day = a.gematria, a.gematria
	}
	if year {
		s.Year = display.Gematria
	}
	if day {
		s.Day = display.Gematria
	}
	return s
}

func (a *app) format(hd calendar.HebrewDate) (string, error) {
	return a.formatter.Format(hd, a.locale, a.displayPattern(), a.style())
}
