package gematria

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumeral_KnownValues(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "א׳"},
		{9, "ט׳"},
		{10, "י׳"},
		{11, "יא׳"},
		{15, "טו׳"},
		{16, "טז׳"},
		{17, "יז׳"},
		{19, "יט׳"},
		{20, "כ׳"},
		{30, "ל׳"},
		{115, "קטו׳"},
		{116, "קטז׳"},
		{499, "תצט׳"},
		{500, "תק׳"},
		{999, "תתקצט׳"},
		{1000, "א׳"},
		{5000, "ה׳"},
		{5015, "ה׳טו׳"},
		{5784, "ה׳תשפד׳"},
	}
	for _, tt := range tests {
		got, err := Numeral(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Numeral(%d)", tt.n)
	}
}

func TestNumeral_AvoidsDivineNames(t *testing.T) {
	for n := 1; n < 10000; n++ {
		got, err := Numeral(n)
		require.NoError(t, err)
		for _, group := range strings.Split(got, Geresh) {
			if strings.HasSuffix(group, "יה") || strings.HasSuffix(group, "יו") {
				t.Fatalf("Numeral(%d) = %q ends a group with a divine name", n, got)
			}
		}
	}
}

func TestNumeral_Invalid(t *testing.T) {
	for _, n := range []int{0, -1, -5784} {
		_, err := Numeral(n)
		assert.ErrorIs(t, err, ErrInvalidNumeral, "Numeral(%d)", n)
	}
}

func TestLetters(t *testing.T) {
	got, err := Letters(5784)
	require.NoError(t, err)
	assert.Equal(t, "התשפד", got)

	got, err = Letters(16)
	require.NoError(t, err)
	assert.Equal(t, "טז", got)

	_, err = Letters(0)
	assert.ErrorIs(t, err, ErrInvalidNumeral)
}

func TestTraditional(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{5784, "תשפ״ד"},
		{5785, "תשפ״ה"},
		{5, "ה׳"},
		{15, "ט״ו"},
		{16, "ט״ז"},
		{30, "ל׳"},
		{5000, "ה׳"},
		{5700, "ת״ש"},
	}
	for _, tt := range tests {
		got, err := Traditional(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Traditional(%d)", tt.n)
	}

	_, err := Traditional(-3)
	assert.ErrorIs(t, err, ErrInvalidNumeral)
}

func TestHebrewYear(t *testing.T) {
	got, err := HebrewYear(5784)
	require.NoError(t, err)
	assert.Equal(t, "ה׳תשפד׳", got)
}
