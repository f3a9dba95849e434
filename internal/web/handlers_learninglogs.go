package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

type learningLogRequest struct {
	Topic           string   `json:"topic"`
	Description     string   `json:"description"`
	Sources         []string `json:"sources"`
	OtherSource     string   `json:"other_source"`
	StartedAt       string   `json:"started_at"`
	DurationMinutes float64  `json:"duration_minutes"`
}

type learningLogResponse struct {
	ID              string     `json:"id"`
	Topic           string     `json:"topic"`
	Description     string     `json:"description"`
	Sources         []string   `json:"sources"`
	OtherSource     string     `json:"other_source,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes float64    `json:"duration_minutes"`
	IsManual        bool       `json:"is_manual"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toLearningLogResponse(l *domain.LearningLog) learningLogResponse {
	sources := l.Sources
	if sources == nil {
		sources = []string{}
	}
	return learningLogResponse{
		ID:              l.ID,
		Topic:           l.Topic,
		Description:     l.Description,
		Sources:         sources,
		OtherSource:     l.OtherSource,
		StartedAt:       l.StartedAt,
		EndedAt:         l.EndedAt,
		DurationMinutes: l.DurationMinutes,
		IsManual:        l.IsManual,
		CreatedAt:       l.CreatedAt,
	}
}

func (s *Server) handleListLearningLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := s.learningLogRepo.ListByUser(r.Context(), s.userID, limit)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	out := make([]learningLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toLearningLogResponse(l))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateLearningLog records a manual after-the-fact entry. Timed
// learning goes through the timer instead.
func (s *Server) handleCreateLearningLog(w http.ResponseWriter, r *http.Request) {
	var req learningLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.DurationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "duration_minutes must be positive")
		return
	}

	startedAt := time.Now().UTC()
	if req.StartedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "started_at must be RFC3339")
			return
		}
		startedAt = parsed
	}

	log := &domain.LearningLog{
		UserID:          s.userID,
		Topic:           req.Topic,
		Description:     req.Description,
		Sources:         req.Sources,
		OtherSource:     req.OtherSource,
		StartedAt:       startedAt,
		DurationMinutes: req.DurationMinutes,
		IsManual:        true,
	}
	if err := s.learningLogRepo.Create(r.Context(), log); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLearningLogResponse(log))
}

func (s *Server) handleDeleteLearningLog(w http.ResponseWriter, r *http.Request) {
	if err := s.learningLogRepo.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
