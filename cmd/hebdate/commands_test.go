package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/hebcal-api/internal/calendar"
	"github.com/zapponejosh/hebcal-api/internal/config"
	"github.com/zapponejosh/hebcal-api/internal/display"
)

// 14 Adar II 5784
var fixedNow = time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		DefaultLocale:    display.LocaleHebrew,
		DisplayFormat:    display.PatternHebrew,
		FirstDayOfWeek:   time.Sunday,
		MinYear:          5000,
		MaxYear:          6000,
		NewYearCacheSize: 64,
	}
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(cfg, &out, &errOut, func() time.Time { return fixedNow })
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	out, err := execute(t, testConfig(), args...)
	require.NoError(t, err)
	return out
}

func TestToHebrew(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"english", []string{"to-hebrew", "2024-03-24", "--locale", "en"}, "14 Adar II 5784\n"},
		{"defaults to today", []string{"to-hebrew", "--locale", "en"}, "14 Adar II 5784\n"},
		{"hebrew", []string{"to-hebrew", "2023-09-16"}, "1 בתשרי 5784\n"},
		{"gematria", []string{"to-hebrew", "2023-09-16", "--gematria"}, "א׳ בתשרי ה׳תשפד׳\n"},
		{"ashkenazi", []string{"to-hebrew", "2024-01-20", "--locale", "en", "--ashkenazi"}, "10 Shvat 5784\n"},
		{"pattern", []string{"to-hebrew", "2024-12-26", "--locale", "en", "--pattern", "l, jS M Y"}, "Thursday, 25th Kislev 5785\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, tt.args...))
		})
	}
}

func TestToHebrew_InvalidDate(t *testing.T) {
	_, err := execute(t, testConfig(), "to-hebrew", "2025-02-30")
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)
}

func TestToHebrew_ConfiguredGematria(t *testing.T) {
	cfg := testConfig()
	cfg.ShowYearInGematria = true

	out, err := execute(t, cfg, "to-hebrew", "2023-09-16")
	require.NoError(t, err)
	assert.Equal(t, "1 בתשרי ה׳תשפד׳\n", out)

	// The flag overrides the configuration in both directions.
	out, err = execute(t, cfg, "to-hebrew", "2023-09-16", "--gematria=false")
	require.NoError(t, err)
	assert.Equal(t, "1 בתשרי 5784\n", out)
}

func TestToGregorian(t *testing.T) {
	out := run(t, "to-gregorian", "5784", "13", "14", "--locale", "en")
	assert.Equal(t, "2024-03-24 Sunday\n", out)
}

func TestToGregorian_JSON(t *testing.T) {
	out := run(t, "to-gregorian", "5785", "3", "25", "--locale", "en", "-o", "json")

	var res dateResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "2024-12-26", res.Gregorian)
	assert.Equal(t, calendar.HebrewDate{Year: 5785, Month: 3, Day: 25}, res.Hebrew)
	assert.Equal(t, "Kislev", res.MonthName)
	assert.Equal(t, "Thursday", res.Weekday)
	assert.False(t, res.LeapYear)
}

func TestToGregorian_Errors(t *testing.T) {
	_, err := execute(t, testConfig(), "to-gregorian", "5785", "13", "1")
	assert.ErrorIs(t, err, calendar.ErrInvalidMonth)

	_, err = execute(t, testConfig(), "to-gregorian", "5784", "2", "30")
	assert.ErrorIs(t, err, calendar.ErrInvalidDate)

	_, err = execute(t, testConfig(), "to-gregorian", "5784", "adar", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid month")

	_, err = execute(t, testConfig(), "to-gregorian", "5784", "1")
	assert.Error(t, err)
}

func TestGematria(t *testing.T) {
	assert.Equal(t, "ה׳תשפד׳\tתשפ״ד\n", run(t, "gematria", "5784"))
}

func TestGematria_YAML(t *testing.T) {
	out := run(t, "gematria", "15", "-o", "yaml")

	var res gematriaResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, 15, res.Number)
	assert.Equal(t, "ט״ו", res.Traditional)
	assert.Contains(t, out, "traditional: ט״ו")
}

func TestGematria_Invalid(t *testing.T) {
	_, err := execute(t, testConfig(), "gematria", "0")
	assert.Error(t, err)
}

func TestYear_JSON(t *testing.T) {
	out := run(t, "year", "5784", "--locale", "en", "-o", "json")

	var res yearResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 5784, res.Year)
	assert.Equal(t, "ה׳תשפד׳", res.Numeral)
	assert.True(t, res.Leap)
	assert.Equal(t, 383, res.Length)
	assert.Equal(t, "deficient", res.Kind)
	assert.Equal(t, "2023-09-16", res.RoshHashanah)
	assert.Equal(t, moladResult{Weekday: "Friday", Hours: 11, Minutes: 49, Chalakim: 0}, res.Molad)

	require.Len(t, res.Months, 13)
	assert.Equal(t, "Tishri", res.Months[0].Name)
	assert.Equal(t, "Adar I", res.Months[5].Name)
	assert.Equal(t, "Adar II", res.Months[6].Name)
	assert.Equal(t, 13, res.Months[6].Month)
	assert.Equal(t, "2024-03-11", res.Months[6].Start)
	assert.Equal(t, "Elul", res.Months[12].Name)

	total := 0
	for _, m := range res.Months {
		total += m.Length
	}
	assert.Equal(t, res.Length, total)
}

func TestYear_Text(t *testing.T) {
	out := run(t, "year", "5783", "--locale", "en")

	assert.Contains(t, out, "5783 (ה׳תשפג׳): common, complete, 355 days")
	assert.Contains(t, out, "Rosh Hashanah: 2022-09-26")
	assert.Contains(t, out, "Cheshvan")
	assert.NotContains(t, out, "Adar II")
}

func TestMonth_Grid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		leading int
		first   string
	}{
		{"sunday start", []string{}, 2, "Sun"},
		{"monday start", []string{"--first-day", "monday"}, 1, "Mon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"month", "5784", "7", "--locale", "en", "-o", "json"}, tt.args...)
			out := run(t, args...)

			var res gridResult
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			assert.Equal(t, "Nissan", res.Name)
			assert.Equal(t, 30, res.Length)
			assert.Equal(t, tt.leading, res.Leading)
			assert.Equal(t, tt.first, res.WeekdayNames[0])
			require.Len(t, res.Days, 30)
			assert.Equal(t, "2024-04-09", res.Days[0].Gregorian)
			assert.Equal(t, "Tuesday", res.Days[0].Weekday)
		})
	}
}

func TestMonth_ConfiguredFirstDay(t *testing.T) {
	cfg := testConfig()
	cfg.FirstDayOfWeek = time.Monday

	out, err := execute(t, cfg, "month", "5784", "7", "--locale", "en", "-o", "json")
	require.NoError(t, err)

	var res gridResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.Leading)
}

func TestMonth_Text(t *testing.T) {
	out := run(t, "month", "5784", "7", "--locale", "en")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, "Nissan 5784", lines[0])
	assert.True(t, strings.HasPrefix(strings.TrimSpace(lines[1]), "Sun"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[2]), "5"), "first week ends on the 5th: %q", lines[2])
}

func TestMonth_GematriaLabels(t *testing.T) {
	out := run(t, "month", "5784", "7", "--gematria", "-o", "json")

	var res gridResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "טו׳", res.Days[14].Label)
}

func TestMonth_Errors(t *testing.T) {
	_, err := execute(t, testConfig(), "month", "5785", "13")
	assert.ErrorIs(t, err, calendar.ErrInvalidMonth)

	_, err = execute(t, testConfig(), "month", "5784", "7", "--first-day", "friday")
	assert.Error(t, err)
}

func TestNext(t *testing.T) {
	t.Run("today", func(t *testing.T) {
		out := run(t, "next", "5784", "13", "14", "--locale", "en")
		assert.Equal(t, "14 Adar II 5784 (2024-03-24, today)\n", out)
	})

	t.Run("common year adar moves to adar II", func(t *testing.T) {
		out := run(t, "next", "5783", "6", "14", "-o", "json")

		var res anniversaryResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, calendar.HebrewDate{Year: 5784, Month: 13, Day: 14}, res.Hebrew)
		assert.Equal(t, "today", res.Relative)
	})

	t.Run("future", func(t *testing.T) {
		out := run(t, "next", "5785", "1", "1", "-o", "json")

		var res anniversaryResult
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, "2024-10-03", res.Gregorian)
		assert.True(t, strings.HasSuffix(res.Relative, "from now"), res.Relative)
	})

	t.Run("from", func(t *testing.T) {
		out := run(t, "next", "5783", "2", "30", "--from", "2023-09-16", "-o", "yaml")

		var res anniversaryResult
		require.NoError(t, yaml.Unmarshal([]byte(out), &res))
		// 5784 has a 29-day Cheshvan.
		assert.Equal(t, calendar.HebrewDate{Year: 5784, Month: 3, Day: 1}, res.Hebrew)
	})
}

func TestRoot_FlagErrors(t *testing.T) {
	_, err := execute(t, testConfig(), "to-hebrew", "--locale", "fr")
	assert.ErrorIs(t, err, display.ErrUnsupportedLocale)

	_, err = execute(t, testConfig(), "to-hebrew", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
