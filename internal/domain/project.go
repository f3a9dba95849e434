package domain

import "time"

// Project statuses follow the lifecycle of a small solo project:
// planning -> building/debugging/testing -> complete, with paused as a
// side exit that frees up the operator's attention.
const (
	StatusPlanning  = "planning"
	StatusBuilding  = "building"
	StatusDebugging = "debugging"
	StatusTesting   = "testing"
	StatusComplete  = "complete"
	StatusPaused    = "paused"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Project is a registered piece of work. BuildingHours and DebuggingHours
// are monotonically non-decreasing running totals; only the stop-timer
// reconciliation adds to them, one closed time log at a time.
type Project struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Status      string
	Priority    string

	BuildingHours  float64
	DebuggingHours float64
	Progress       int

	// PRD fields captured by the project wizard. All optional.
	ProblemStatement string
	TargetUser       string
	MVPScope         []string
	OutOfScope       string
	Platform         string
	EstimatedHours   float64
	PRDMarkdown      string
	StuckSince       string
	NextAction       string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// ValidStatus reports whether s is one of the known project statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPlanning, StatusBuilding, StatusDebugging, StatusTesting, StatusComplete, StatusPaused:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Active reports whether the project still competes for attention.
func (p *Project) Active() bool {
	return p.Status != StatusComplete && p.Status != StatusPaused
}

// TrackedHours is the total time logged against the project.
func (p *Project) TrackedHours() float64 {
	return p.BuildingHours + p.DebuggingHours
}
