package web

import (
	"net/http"

	"github.com/emiliopalmerini/buildlog/internal/analytics"
)

type summaryResponse struct {
	TotalProjects  int `json:"total_projects"`
	ActiveProjects int `json:"active_projects"`

	TotalHours     float64 `json:"total_hours"`
	BuildingHours  float64 `json:"building_hours"`
	DebuggingHours float64 `json:"debugging_hours"`
	BuildingRatio  float64 `json:"building_ratio"`
	DebuggingRatio float64 `json:"debugging_ratio"`

	CompletionRate     float64 `json:"completion_rate"`
	CompletedThisMonth int     `json:"completed_this_month"`

	AvgDebugTimeMinutes float64 `json:"avg_debug_time_minutes"`
	DebugLogCount       int     `json:"debug_log_count"`
}

type insightResponse struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func toSummaryResponse(sum analytics.Summary) summaryResponse {
	return summaryResponse{
		TotalProjects:       sum.TotalProjects,
		ActiveProjects:      sum.ActiveProjects,
		TotalHours:          sum.TotalHours,
		BuildingHours:       sum.BuildingHours,
		DebuggingHours:      sum.DebuggingHours,
		BuildingRatio:       sum.BuildingRatio,
		DebuggingRatio:      sum.DebuggingRatio,
		CompletionRate:      sum.CompletionRate,
		CompletedThisMonth:  sum.CompletedThisMonth,
		AvgDebugTimeMinutes: sum.AvgDebugTimeMinutes,
		DebugLogCount:       sum.DebugLogCount,
	}
}

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.analytics.Summarize(r.Context(), s.userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(sum))
}

func (s *Server) handleAnalyticsInsights(w http.ResponseWriter, r *http.Request) {
	sum, err := s.analytics.Summarize(r.Context(), s.userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	insights := analytics.Insights(sum)
	out := make([]insightResponse, 0, len(insights))
	for _, in := range insights {
		out = append(out, insightResponse{Severity: in.Severity, Message: in.Message})
	}
	writeJSON(w, http.StatusOK, out)
}
