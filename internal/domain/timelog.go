package domain

import "time"

// TimeLog is the persisted record of one building/debugging/learning
// interval. It is created open (EndedAt nil) when the timer starts and
// closed exactly once by the stop-timer reconciliation. An open record
// with no active timer is an abandoned session; `buildlog cleanup`
// closes those.
type TimeLog struct {
	ID        string
	ProjectID string
	UserID    string
	Kind      Kind
	StartedAt time.Time
	EndedAt   *time.Time
	// DurationMinutes keeps sub-minute precision: a 15-second session
	// is 0.25 minutes, not 0.
	DurationMinutes *float64
	Notes           string
	CreatedAt       time.Time
}

// Open reports whether the record has not been closed yet.
func (t *TimeLog) Open() bool {
	return t.EndedAt == nil
}
