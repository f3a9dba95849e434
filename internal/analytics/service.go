package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emiliopalmerini/buildlog/internal/ports"
	"github.com/emiliopalmerini/buildlog/internal/timer"
)

// Service computes dashboard analytics from the stored projects and
// debug logs. All aggregation happens in memory; the data set is a
// single person's projects, not a fleet.
type Service struct {
	projects  ports.ProjectRepository
	debugLogs ports.DebugLogRepository
	clock     timer.Clock
	logger    *slog.Logger
}

// NewService creates a new analytics service.
func NewService(projects ports.ProjectRepository, debugLogs ports.DebugLogRepository, clock timer.Clock, logger *slog.Logger) *Service {
	return &Service{
		projects:  projects,
		debugLogs: debugLogs,
		clock:     clock,
		logger:    logger,
	}
}

// Summarize returns aggregate metrics across all of the user's projects.
func (s *Service) Summarize(ctx context.Context, userID string) (Summary, error) {
	var sum Summary

	projects, err := s.projects.List(ctx, userID)
	if err != nil {
		return sum, fmt.Errorf("list projects: %w", err)
	}

	now := s.clock.Now()
	completed := 0
	for _, p := range projects {
		sum.TotalProjects++
		if p.Active() {
			sum.ActiveProjects++
		}
		sum.BuildingHours += p.BuildingHours
		sum.DebuggingHours += p.DebuggingHours
		if p.CompletedAt != nil {
			completed++
			if p.CompletedAt.Year() == now.Year() && p.CompletedAt.Month() == now.Month() {
				sum.CompletedThisMonth++
			}
		}
	}

	sum.TotalHours = sum.BuildingHours + sum.DebuggingHours
	if sum.TotalHours > 0 {
		sum.BuildingRatio = sum.BuildingHours / sum.TotalHours
		sum.DebuggingRatio = sum.DebuggingHours / sum.TotalHours
	}
	if sum.TotalProjects > 0 {
		sum.CompletionRate = float64(completed) / float64(sum.TotalProjects)
	}

	logs, err := s.debugLogs.ListByUser(ctx, userID)
	if err != nil {
		return sum, fmt.Errorf("list debug logs: %w", err)
	}
	var debugMinutes float64
	var timed int
	for _, l := range logs {
		sum.DebugLogCount++
		if l.TimeSpentMinutes != nil {
			debugMinutes += *l.TimeSpentMinutes
			timed++
		}
	}
	if timed > 0 {
		sum.AvgDebugTimeMinutes = debugMinutes / float64(timed)
	}

	s.logger.Debug("computed analytics summary",
		"projects", sum.TotalProjects,
		"total_hours", sum.TotalHours,
	)
	return sum, nil
}

// Insights derives advice from a summary. The debugging-share warning
// mirrors the timer nudges: too much time spent debugging relative to
// building is the signal to step back.
func Insights(sum Summary) []Insight {
	var out []Insight

	if sum.TotalHours > 0 && sum.DebuggingRatio > 0.6 {
		out = append(out, Insight{
			Severity: SeverityWarning,
			Message: fmt.Sprintf("%.0f%% of tracked time is debugging. Consider simplifying scope or asking for help.",
				sum.DebuggingRatio*100),
		})
	}
	if sum.TotalProjects > 0 && sum.ActiveProjects > 3 {
		out = append(out, Insight{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d projects are active at once. Pausing some may help the rest finish.", sum.ActiveProjects),
		})
	}
	if sum.CompletedThisMonth > 0 {
		out = append(out, Insight{
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("%d project(s) completed this month.", sum.CompletedThisMonth),
		})
	}
	return out
}
