// Package gematria renders integers as traditional Hebrew numerals.
package gematria

import (
	"errors"
	"fmt"
	"strings"
)

// Punctuation marks used in numerals.
const (
	Geresh    = "׳" // U+05F3, marks a single letter or a thousands group
	Gershayim = "״" // U+05F4, placed before the last letter of a word numeral
)

// ErrInvalidNumeral is returned for numbers that have no Hebrew numeral.
var ErrInvalidNumeral = errors.New("invalid numeral")

type symbol struct {
	value   int
	letters string
}

// symbols is ordered largest first and applied greedily. 15 and 16 are
// written ט+ו and ט+ז rather than י+ה and י+ו, which spell divine names;
// 17 to 19 are listed so the greedy pass never splits them across 16.
var symbols = []symbol{
	{400, "ת"},
	{300, "ש"},
	{200, "ר"},
	{100, "ק"},
	{90, "צ"},
	{80, "פ"},
	{70, "ע"},
	{60, "ס"},
	{50, "נ"},
	{40, "מ"},
	{30, "ל"},
	{20, "כ"},
	{19, "יט"},
	{18, "יח"},
	{17, "יז"},
	{16, "טז"},
	{15, "טו"},
	{10, "י"},
	{9, "ט"},
	{8, "ח"},
	{7, "ז"},
	{6, "ו"},
	{5, "ה"},
	{4, "ד"},
	{3, "ג"},
	{2, "ב"},
	{1, "א"},
}

// group renders 0 < n < 1000 as bare letters; hundreds above 400 repeat ת.
func group(n int) string {
	var b strings.Builder
	for _, s := range symbols {
		for n >= s.value {
			b.WriteString(s.letters)
			n -= s.value
		}
	}
	return b.String()
}

func checkPositive(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d is not a positive integer", ErrInvalidNumeral, n)
	}
	return nil
}

// Numeral returns n as a Hebrew numeral. Each group of letters ends with
// a geresh; thousands form their own group in front.
//
//	Numeral(1)    == "א׳"
//	Numeral(15)   == "טו׳"
//	Numeral(5784) == "ה׳תשפד׳"
func Numeral(n int) (string, error) {
	if err := checkPositive(n); err != nil {
		return "", err
	}

	var b strings.Builder
	if thousands := n / 1000; thousands > 0 {
		b.WriteString(group(thousands))
		b.WriteString(Geresh)
	}
	if rest := n % 1000; rest > 0 {
		b.WriteString(group(rest))
		b.WriteString(Geresh)
	}
	return b.String(), nil
}

// Letters returns the letters of the numeral with no punctuation. The
// thousands group, if any, comes first.
func Letters(n int) (string, error) {
	if err := checkPositive(n); err != nil {
		return "", err
	}
	letters := ""
	if thousands := n / 1000; thousands > 0 {
		letters = group(thousands)
	}
	if rest := n % 1000; rest > 0 {
		letters += group(rest)
	}
	return letters, nil
}

// Traditional returns the conventional spelling used for years and dates:
// thousands are omitted, a single letter takes a geresh and longer numerals
// take gershayim before their last letter.
//
//	Traditional(5784) == "תשפ״ד"
//	Traditional(15)   == "ט״ו"
//	Traditional(5)    == "ה׳"
//
// Exact multiples of 1000 keep their thousands group, so Traditional(5000)
// is "ה׳".
func Traditional(n int) (string, error) {
	if err := checkPositive(n); err != nil {
		return "", err
	}
	rest := n % 1000
	if rest == 0 {
		rest = n / 1000
	}
	return punctuate(group(rest)), nil
}

func punctuate(letters string) string {
	runes := []rune(letters)
	if len(runes) == 1 {
		return letters + Geresh
	}
	last := len(runes) - 1
	return string(runes[:last]) + Gershayim + string(runes[last])
}

// HebrewYear renders a Hebrew calendar year with Numeral.
func HebrewYear(year int) (string, error) {
	return Numeral(year)
}
