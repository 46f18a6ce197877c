package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// parsePrice converts a bill price like "5,00" or "-12,5" to a decimal.
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space
	s = strings.Replace(s, ",", ".", 1)
	if s == "" || s == "-" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// parseCount converts an integer amount column.
func parseCount(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// buildTimestamp combines the statement year with a "D.M." date and an
// optional "HH:MM:SS" time. A missing date gives the zero time.
func buildTimestamp(year int, date, clock string) (time.Time, error) {
	if date == "" {
		return time.Time{}, nil
	}
	parts := strings.Split(strings.TrimSuffix(strings.TrimSpace(date), "."), ".")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid date %q", date)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day in %q: %w", date, err)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month in %q: %w", date, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date %q out of range", date)
	}

	var h, m, sec int
	if clock != "" {
		if _, err := fmt.Sscanf(clock, "%d:%d:%d", &h, &m, &sec); err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
		}
	}
	return time.Date(year, time.Month(month), day, h, m, sec, 0, time.UTC), nil
}
