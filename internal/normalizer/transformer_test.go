package normalizer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripLeadingZeros(t *testing.T) {
	assert.Equal(t, "123", StripLeadingZeros("00123"))
	assert.Equal(t, "123", StripLeadingZeros(" 0123 "))
	assert.Equal(t, "A01", StripLeadingZeros("A01"))
	assert.Equal(t, "", StripLeadingZeros("000"))
}

func TestTokenExtraction(t *testing.T) {
	assert.Equal(t, "1101", FirstDigits("1101 APL Bandung"))
	assert.Equal(t, "", FirstDigits("no digits"))
	assert.Equal(t, "bandung", LastWord("1101 APL Bandung"))
	assert.Equal(t, "", LastWord("   "))
}

func TestStripCityPrefix(t *testing.T) {
	assert.Equal(t, "Bandung", StripCityPrefix("Kota Bandung"))
	assert.Equal(t, "Bandung", StripCityPrefix("KOTA  Bandung"))
	assert.Equal(t, "Kotabaru", StripCityPrefix("Kotabaru"))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,000", "1000"},
		{"Rp 1,250,000.50", "1250000.5"},
		{"-15", "-15"},
		{"", "0"},
		{"  ", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := ParseAmount("1.2.3")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-03-15", "2024-03-15 10:22:01", "2024/03/15", "03/15/2024"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := ParseDate("15 March")
	assert.Error(t, err)
}

func TestParseDayFirstDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"05-03-2024", "5-3-2024", "05/03/2024", "05.03.2024"} {
		got, err := ParseDayFirstDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	// 45356 is 2024-03-05 as a spreadsheet serial.
	got, err := ParseDayFirstDate("45356")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = ParseDayFirstDate("")
	assert.Error(t, err)
	_, err = ParseDayFirstDate("2024-13-45")
	assert.Error(t, err)
}

func TestParseFixedDate(t *testing.T) {
	got, err := ParseFixedDate("2006-01-02", " 2024-03-15 ")
	require.NoError(t, err)
	assert.Equal(t, 15, got.Day())

	_, err = ParseFixedDate("2006-01-02", "15-03-2024")
	assert.Error(t, err)
}
