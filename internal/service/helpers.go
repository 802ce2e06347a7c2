package service

import (
	"fmt"
	"time"
)

// parseEventTime parses a request-supplied event timestamp, accepting RFC3339
// or a bare date. An empty string yields the fallback.
func parseEventTime(str string, fallback time.Time) (time.Time, error) {
	if str == "" {
		return fallback.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		t, err = time.Parse("2006-01-02", str)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp: %s", str)
		}
	}
	return t.UTC(), nil
}
