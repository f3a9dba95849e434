package util

import (
	"fmt"
	"time"
)

// FormatClock renders elapsed seconds as m:ss, the way the dashboard
// timer displays it. Example: 75 -> "1:15".
func FormatClock(seconds int64) string {
	mins := seconds / 60
	secs := seconds % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatHours renders an hour total with one decimal. Example:
// 1.2499 -> "1.2h".
func FormatHours(hours float64) string {
	return fmt.Sprintf("%.1fh", hours)
}

// FormatDateISO formats an RFC3339 timestamp string to ISO date format
// (2006-01-02). Returns the original string if parsing fails.
func FormatDateISO(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

// ParseTimeRFC3339 parses an RFC3339 timestamp string to time.Time.
// Returns zero time if parsing fails.
func ParseTimeRFC3339(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
