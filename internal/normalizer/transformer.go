// =============================================================================
// Sales Sync - Value Transformations
// =============================================================================
//
// This module holds the small, pure value transformations the source
// normalizers are built from. Each one is deterministic and side-effect free
// so normalizers stay easy to test row by row.
//
// TRANSFORMATION TYPES:
//   - Code cleanup      : StripLeadingZeros
//   - Numeric cleanup   : ParseAmount
//   - Token extraction  : FirstDigits, LastWord
//   - Date parsing      : ParseDate, ParseDayFirstDate
//   - Text cleanup      : StripCityPrefix
//
// =============================================================================

package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	digitsRe     = regexp.MustCompile(`\d+`)
	nonNumericRe = regexp.MustCompile(`[^0-9.\-]`)
	cityPrefixRe = regexp.MustCompile(`(?i)^kota\s+`)
)

// =============================================================================
// STRING TRANSFORMATIONS
// =============================================================================

// StripLeadingZeros removes every leading '0' from a code.
//
// EXAMPLE:
//   Input: "00123"
//   Output: "123"
func StripLeadingZeros(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "0")
}

// FirstDigits returns the first run of digits in s, or "" if there is none.
//
// EXAMPLE:
//   Input: "1101 APL Bandung"
//   Output: "1101"
func FirstDigits(s string) string {
	return digitsRe.FindString(s)
}

// LastWord returns the last whitespace-separated token of s, lowercased.
//
// EXAMPLE:
//   Input: "1101 APL Bandung"
//   Output: "bandung"
func LastWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}

// StripCityPrefix drops a leading "Kota " (any case) from a city name.
func StripCityPrefix(s string) string {
	return cityPrefixRe.ReplaceAllString(strings.TrimSpace(s), "")
}

// =============================================================================
// NUMERIC TRANSFORMATIONS
// =============================================================================

// ParseAmount parses a currency or quantity string. Thousands separators and
// every character other than digits, '.' and '-' are removed first. An empty
// result is zero.
//
// EXAMPLE:
//   Input: "Rp 1,250,000.50"
//   Output: 1250000.5
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := nonNumericRe.ReplaceAllString(strings.ReplaceAll(s, ",", ""), "")
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// =============================================================================
// DATE TRANSFORMATIONS
// =============================================================================

// isoLayouts are tried in order by ParseDate.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// ParseDate parses an ISO-style date, falling back to month-first slashes.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseDayFirstDate parses DD-MM-YYYY (also with '/' or '.'). Spreadsheet
// serial numbers are accepted for cells stored as real dates.
func ParseDayFirstDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range []string{"02-01-2006", "2-1-2006", "02/01/2006", "2/1/2006", "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return truncateDay(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid day-first date %q", s)
}

// ParseFixedDate parses s with exactly one layout.
func ParseFixedDate(layout, s string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want layout %s", s, layout)
	}
	return truncateDay(t), nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
