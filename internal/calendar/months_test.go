package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthLength_FixedMonths(t *testing.T) {
	for _, year := range []int{5783, 5784, 5785, 5786} {
		for _, month := range []int{Tishri, Shevat, Nisan, Sivan, Av} {
			length, err := MonthLength(year, month)
			require.NoError(t, err)
			assert.Equal(t, 30, length, "month %d of %d", month, year)
		}
		for _, month := range []int{Tevet, Iyar, Tammuz, Elul} {
			length, err := MonthLength(year, month)
			require.NoError(t, err)
			assert.Equal(t, 29, length, "month %d of %d", month, year)
		}
	}
}

func TestMonthLength_Adar(t *testing.T) {
	adarI, err := MonthLength(5784, Adar)
	require.NoError(t, err)
	assert.Equal(t, 30, adarI)

	adarII, err := MonthLength(5784, AdarII)
	require.NoError(t, err)
	assert.Equal(t, 29, adarII)

	adar, err := MonthLength(5785, Adar)
	require.NoError(t, err)
	assert.Equal(t, 29, adar)
}

func TestMonthLength_AdarIIInCommonYear(t *testing.T) {
	_, err := MonthLength(5785, AdarII)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestMonthLength_OutOfRange(t *testing.T) {
	for _, month := range []int{0, -1, 14} {
		_, err := MonthLength(5784, month)
		assert.ErrorIs(t, err, ErrInvalidMonth, "month %d", month)
	}

	_, err := MonthLength(0, Tishri)
	assert.ErrorIs(t, err, ErrCalendarRange)
}

func TestMonthLength_VariableMonths(t *testing.T) {
	tests := []struct {
		year     int
		cheshvan int
		kislev   int
	}{
		{5784, 29, 29}, // deficient
		{5786, 29, 30}, // regular
		{5785, 30, 30}, // complete
	}
	for _, tt := range tests {
		cheshvan, err := MonthLength(tt.year, Cheshvan)
		require.NoError(t, err)
		kislev, err := MonthLength(tt.year, Kislev)
		require.NoError(t, err)
		assert.Equal(t, tt.cheshvan, cheshvan, "Cheshvan %d", tt.year)
		assert.Equal(t, tt.kislev, kislev, "Kislev %d", tt.year)
	}
}

func TestMonthLength_SumsToYearLength(t *testing.T) {
	c := NewConverter(DefaultCacheSize)
	for year := 1; year <= 7000; year++ {
		sum := 0
		for _, month := range MonthOrder(year) {
			length, err := c.MonthLength(year, month)
			require.NoError(t, err)
			sum += length
		}
		yearLength, err := c.YearLength(year)
		require.NoError(t, err)
		if sum != yearLength {
			t.Fatalf("year %d: months sum to %d, year has %d days", year, sum, yearLength)
		}
	}
}

func TestMonthLengths_Tables(t *testing.T) {
	for _, kind := range []YearKind{Deficient, Regular, Complete} {
		common := MonthLengths(kind, false)
		leap := MonthLengths(kind, true)
		assert.Len(t, common, 12)
		assert.Len(t, leap, 13)
		assert.Equal(t, sum(common)+30, sum(leap), "kind %s", kind)
	}

	// Callers get a copy.
	lengths := MonthLengths(Regular, false)
	lengths[0] = 1
	assert.Equal(t, 30, MonthLengths(Regular, false)[0])
}

func TestMonthOrder(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, MonthOrder(5785))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 13, 7, 8, 9, 10, 11, 12}, MonthOrder(5784))
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
