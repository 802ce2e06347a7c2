package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseTime parses a stored timestamp. Accepts RFC3339, the sqlite
// CURRENT_TIMESTAMP format, and bare dates.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if returnTime, err := time.Parse(layout, str); err == nil {
			return returnTime.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

// FormatTime renders a timestamp for storage. RFC3339 in UTC keeps
// lexicographic and chronological order aligned, which the (portfolio, as_of)
// snapshot key relies on.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseDecimal parses a stored decimal column value.
func ParseDecimal(str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse decimal: %w", err)
	}
	return d, nil
}
