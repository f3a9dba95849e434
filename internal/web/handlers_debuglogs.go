package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

type attemptPayload struct {
	Attempt   string    `json:"attempt"`
	Timestamp time.Time `json:"timestamp"`
}

type debugLogRequest struct {
	ProjectID        string           `json:"project_id"`
	ErrorDescription string           `json:"error_description"`
	Attempts         []attemptPayload `json:"attempts"`
	Hypothesis       string           `json:"hypothesis"`
	Solution         string           `json:"solution"`
	TimeSpentMinutes *float64         `json:"time_spent_minutes"`
}

type debugLogResponse struct {
	ID               string           `json:"id"`
	ProjectID        string           `json:"project_id"`
	ErrorDescription string           `json:"error_description"`
	Attempts         []attemptPayload `json:"attempts"`
	Hypothesis       string           `json:"hypothesis"`
	Solution         string           `json:"solution"`
	TimeSpentMinutes *float64         `json:"time_spent_minutes,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

func toAttempts(in []attemptPayload) []domain.Attempt {
	out := make([]domain.Attempt, 0, len(in))
	for _, a := range in {
		out = append(out, domain.Attempt{Attempt: a.Attempt, Timestamp: a.Timestamp})
	}
	return out
}

func toDebugLogResponse(d *domain.DebugLog) debugLogResponse {
	attempts := make([]attemptPayload, 0, len(d.Attempts))
	for _, a := range d.Attempts {
		attempts = append(attempts, attemptPayload{Attempt: a.Attempt, Timestamp: a.Timestamp})
	}
	return debugLogResponse{
		ID:               d.ID,
		ProjectID:        d.ProjectID,
		ErrorDescription: d.ErrorDescription,
		Attempts:         attempts,
		Hypothesis:       d.Hypothesis,
		Solution:         d.Solution,
		TimeSpentMinutes: d.TimeSpentMinutes,
		CreatedAt:        d.CreatedAt,
	}
}

func (s *Server) handleListDebugLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.debugLogRepo.ListByUser(r.Context(), s.userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	out := make([]debugLogResponse, 0, len(logs))
	for _, d := range logs {
		out = append(out, toDebugLogResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProjectDebugLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.debugLogRepo.ListByProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	out := make([]debugLogResponse, 0, len(logs))
	for _, d := range logs {
		out = append(out, toDebugLogResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDebugLog(w http.ResponseWriter, r *http.Request) {
	var req debugLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	if strings.TrimSpace(req.ErrorDescription) == "" {
		writeError(w, http.StatusBadRequest, "error_description is required")
		return
	}

	log := &domain.DebugLog{
		ProjectID:        req.ProjectID,
		UserID:           s.userID,
		ErrorDescription: req.ErrorDescription,
		Attempts:         toAttempts(req.Attempts),
		Hypothesis:       req.Hypothesis,
		Solution:         req.Solution,
		TimeSpentMinutes: req.TimeSpentMinutes,
	}
	if err := s.debugLogRepo.Create(r.Context(), log); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDebugLogResponse(log))
}

func (s *Server) handleGetDebugLog(w http.ResponseWriter, r *http.Request) {
	log, err := s.debugLogRepo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebugLogResponse(log))
}

func (s *Server) handleUpdateDebugLog(w http.ResponseWriter, r *http.Request) {
	log, err := s.debugLogRepo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	var req debugLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.ErrorDescription = req.ErrorDescription
	log.Attempts = toAttempts(req.Attempts)
	log.Hypothesis = req.Hypothesis
	log.Solution = req.Solution
	log.TimeSpentMinutes = req.TimeSpentMinutes

	if err := s.debugLogRepo.Update(r.Context(), log); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebugLogResponse(log))
}

func (s *Server) handleDeleteDebugLog(w http.ResponseWriter, r *http.Request) {
	if err := s.debugLogRepo.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
