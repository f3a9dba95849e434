package domain

import "time"

// LearningLog records ad-hoc learning time outside project work:
// courses, docs, videos. Entries are either closed from a learning
// timer session or entered manually after the fact.
type LearningLog struct {
	ID              string
	UserID          string
	Topic           string
	Description     string
	Sources         []string
	OtherSource     string
	StartedAt       time.Time
	EndedAt         *time.Time
	DurationMinutes float64
	IsManual        bool
	CreatedAt       time.Time
}
