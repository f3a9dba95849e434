package domain

import "time"

// Attempt is one tried approach inside a debug log.
type Attempt struct {
	Attempt   string    `json:"attempt"`
	Timestamp time.Time `json:"timestamp"`
}

// DebugLog captures a debugging investigation on a project: what went
// wrong, what was tried, and the current hypothesis. The 60-minute
// debugging nudge prompts the operator to write one of these.
type DebugLog struct {
	ID               string
	ProjectID        string
	UserID           string
	ErrorDescription string
	Attempts         []Attempt
	Hypothesis       string
	Solution         string
	TimeSpentMinutes *float64
	CreatedAt        time.Time
}
