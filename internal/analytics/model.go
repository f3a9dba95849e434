package analytics

// Summary contains aggregate metrics for the dashboard overview.
type Summary struct {
	TotalProjects  int
	ActiveProjects int

	TotalHours     float64
	BuildingHours  float64
	DebuggingHours float64
	BuildingRatio  float64
	DebuggingRatio float64

	// CompletionRate is completed projects over all projects, 0..1.
	CompletionRate     float64
	CompletedThisMonth int

	AvgDebugTimeMinutes float64
	DebugLogCount       int
}

// Insight is a single piece of advice derived from the summary.
type Insight struct {
	Severity string
	Message  string
}

const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)
