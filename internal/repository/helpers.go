package repository

import (
	"time"
)

// timeLayout is how timestamps are stored.
const timeLayout = time.RFC3339

// formatTime converts t to its stored UTC form.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp, returning the zero time on failure.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
