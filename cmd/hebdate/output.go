package main

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
)

// render writes v as JSON or YAML, or calls text for the text format.
func (a *app) render(v any, text func(w io.Writer) error) error {
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return text(a.out)
}

// dateResult is one day in both calendars.
type dateResult struct {
	Gregorian string              `json:"gregorian" yaml:"gregorian"`
	Hebrew    calendar.HebrewDate `json:"hebrew" yaml:"hebrew"`
	MonthName string              `json:"month_name" yaml:"month_name"`
	Weekday   string              `json:"weekday" yaml:"weekday"`
	LeapYear  bool                `json:"leap_year" yaml:"leap_year"`
	Display   string              `json:"display" yaml:"display"`
}

type gematriaResult struct {
	Number      int    `json:"number" yaml:"number"`
	Numeral     string `json:"numeral" yaml:"numeral"`
	Letters     string `json:"letters" yaml:"letters"`
	Traditional string `json:"traditional" yaml:"traditional"`
}

type moladResult struct {
	Weekday  string `json:"weekday" yaml:"weekday"`
	Hours    int    `json:"hours" yaml:"hours"`
	Minutes  int    `json:"minutes" yaml:"minutes"`
	Chalakim int    `json:"chalakim" yaml:"chalakim"`
}

type monthResult struct {
	Month  int    `json:"month" yaml:"month"`
	Name   string `json:"name" yaml:"name"`
	Length int    `json:"length" yaml:"length"`
	Start  string `json:"start" yaml:"start"`
}

type yearResult struct {
	Year         int           `json:"year" yaml:"year"`
	Numeral      string        `json:"numeral" yaml:"numeral"`
	Leap         bool          `json:"leap" yaml:"leap"`
	Length       int           `json:"length" yaml:"length"`
	Kind         string        `json:"kind" yaml:"kind"`
	RoshHashanah string        `json:"rosh_hashanah" yaml:"rosh_hashanah"`
	Molad        moladResult   `json:"molad" yaml:"molad"`
	Months       []monthResult `json:"months" yaml:"months"`
}

type dayResult struct {
	Day       int    `json:"day" yaml:"day"`
	Label     string `json:"label" yaml:"label"`
	Gregorian string `json:"gregorian" yaml:"gregorian"`
	Weekday   string `json:"weekday" yaml:"weekday"`
}

type gridResult struct {
	Year         int         `json:"year" yaml:"year"`
	Month        int         `json:"month" yaml:"month"`
	Name         string      `json:"name" yaml:"name"`
	Length       int         `json:"length" yaml:"length"`
	Leading      int         `json:"leading" yaml:"leading"`
	WeekdayNames []string    `json:"weekday_names" yaml:"weekday_names"`
	Days         []dayResult `json:"days" yaml:"days"`
}

type anniversaryResult struct {
	Original  calendar.HebrewDate `json:"original" yaml:"original"`
	Hebrew    calendar.HebrewDate `json:"hebrew" yaml:"hebrew"`
	Gregorian string              `json:"gregorian" yaml:"gregorian"`
	Display   string              `json:"display" yaml:"display"`
	Relative  string              `json:"relative" yaml:"relative"`
}
