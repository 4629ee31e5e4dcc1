package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGregorianFixed_MatchesTime(t *testing.T) {
	// R.D. 738779 is 2023-09-16.
	assert.Equal(t, 738779, GregorianDate{2023, time.September, 16}.Fixed())
	assert.Equal(t, 1, GregorianDate{1, time.January, 1}.Fixed())

	start := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	startRD := FromTime(start).Fixed()
	for i := 0; i < 200*366; i += 7 {
		day := start.AddDate(0, 0, i)
		assert.Equal(t, startRD+i, FromTime(day).Fixed(), "fixed(%s)", day.Format("2006-01-02"))
	}
}

func TestGregorianFromFixed_RoundTrip(t *testing.T) {
	for rd := HebrewEpoch - 1000; rd < 1_200_000; rd += 13 {
		g := GregorianFromFixed(rd)
		require.NoError(t, g.Validate(), "rd %d -> %s", rd, g)
		if g.Fixed() != rd {
			t.Fatalf("GregorianFromFixed(%d) = %s, which maps back to %d", rd, g, g.Fixed())
		}
	}
}

func TestGregorianDate_Weekday(t *testing.T) {
	assert.Equal(t, time.Saturday, GregorianDate{2023, time.September, 16}.Weekday())
	assert.Equal(t, time.Monday, GregorianDate{1, time.January, 1}.Weekday())
	assert.Equal(t, time.Monday, WeekdayOf(HebrewEpoch))
}

func TestGregorianDate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		date    GregorianDate
		wantErr bool
	}{
		{"ordinary", GregorianDate{2024, time.March, 31}, false},
		{"leap day", GregorianDate{2024, time.February, 29}, false},
		{"leap day in common year", GregorianDate{2023, time.February, 29}, true},
		{"century common year", GregorianDate{1900, time.February, 29}, true},
		{"quadricentennial leap", GregorianDate{2000, time.February, 29}, false},
		{"day zero", GregorianDate{2024, time.March, 0}, true},
		{"april 31", GregorianDate{2024, time.April, 31}, true},
		{"month 13", GregorianDate{2024, 13, 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.date.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseGregorian(t *testing.T) {
	g, err := ParseGregorian("2023-09-16")
	require.NoError(t, err)
	assert.Equal(t, GregorianDate{2023, time.September, 16}, g)
	assert.Equal(t, "2023-09-16", g.String())

	_, err = ParseGregorian("16/09/2023")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGregorianDate_String(t *testing.T) {
	assert.Equal(t, "-3760-09-07", GregorianDate{-3760, time.September, 7}.String())
	assert.Equal(t, "0001-01-01", GregorianDate{1, time.January, 1}.String())
}

func TestGregorianDate_Time(t *testing.T) {
	g := GregorianDate{2024, time.April, 23}
	assert.Equal(t, time.Date(2024, time.April, 23, 0, 0, 0, 0, time.UTC), g.Time())
	assert.Equal(t, g, FromTime(g.Time()))
}
