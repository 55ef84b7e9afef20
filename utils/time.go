package utils

import (
	"fmt"
	"time"
)

// Timestamps are stored as RFC3339 UTC strings; expiry comparisons always
// happen on parsed time.Time values.

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatTime formats a time for storage.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ParseTime parses a stored timestamp.
func ParseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unsupported time format %q: %w", value, err)
	}
	return t, nil
}
