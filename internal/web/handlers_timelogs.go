package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

type timeLogResponse struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	Kind            string     `json:"kind"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes *float64   `json:"duration_minutes,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Open            bool       `json:"open"`
}

func toTimeLogResponse(t *domain.TimeLog) timeLogResponse {
	return timeLogResponse{
		ID:              t.ID,
		ProjectID:       t.ProjectID,
		Kind:            string(t.Kind),
		StartedAt:       t.StartedAt,
		EndedAt:         t.EndedAt,
		DurationMinutes: t.DurationMinutes,
		Notes:           t.Notes,
		Open:            t.Open(),
	}
}

func (s *Server) handleListTimeLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := s.timeLogRepo.ListByUser(r.Context(), s.userID, limit)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	out := make([]timeLogResponse, 0, len(logs))
	for _, t := range logs {
		out = append(out, toTimeLogResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProjectTimeLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.timeLogRepo.ListByProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	out := make([]timeLogResponse, 0, len(logs))
	for _, t := range logs {
		out = append(out, toTimeLogResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}
