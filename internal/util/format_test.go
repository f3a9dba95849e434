package util

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0:00"},
		{15, "0:15"},
		{60, "1:00"},
		{75, "1:15"},
		{3599, "59:59"},
		{3600, "60:00"},
		{5415, "90:15"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0.0h"},
		{0.25, "0.2h"},
		{1.2499, "1.2h"},
		{12.35, "12.3h"},
	}
	for _, tt := range tests {
		if got := FormatHours(tt.hours); got != tt.want {
			t.Errorf("FormatHours(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestFormatDateISO(t *testing.T) {
	if got := FormatDateISO("2025-03-10T09:30:00Z"); got != "2025-03-10" {
		t.Errorf("FormatDateISO() = %q, want 2025-03-10", got)
	}
	// Unparseable input passes through untouched.
	if got := FormatDateISO("not a date"); got != "not a date" {
		t.Errorf("FormatDateISO() = %q, want passthrough", got)
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	want := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	if got := ParseTimeRFC3339("2025-03-10T09:30:00Z"); !got.Equal(want) {
		t.Errorf("ParseTimeRFC3339() = %v, want %v", got, want)
	}
	if got := ParseTimeRFC3339("garbage"); !got.IsZero() {
		t.Errorf("ParseTimeRFC3339(garbage) = %v, want zero", got)
	}
}
