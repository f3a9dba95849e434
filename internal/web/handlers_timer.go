package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/emiliopalmerini/buildlog/internal/domain"
	"github.com/emiliopalmerini/buildlog/internal/timer"
)

type timerStartRequest struct {
	ProjectID string `json:"project_id"`
	Kind      string `json:"kind"`
}

type nudgeResponse struct {
	Effect           string `json:"effect"`
	ThresholdSeconds int64  `json:"threshold_seconds"`
	Message          string `json:"message"`
}

type timerStateResponse struct {
	Running        bool   `json:"running"`
	ProjectID      string `json:"project_id,omitempty"`
	Kind           string `json:"kind,omitempty"`
	StartedAt      string `json:"started_at,omitempty"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	ExtendedMode   bool   `json:"extended_mode,omitempty"`
}

type timerTickResponse struct {
	ElapsedSeconds int64          `json:"elapsed_seconds"`
	Stopped        bool           `json:"stopped"`
	Nudge          *nudgeResponse `json:"nudge,omitempty"`
	// StopError is set when a cutoff nudge tried to stop the session
	// and reconciliation failed. The session survives; stopping again
	// is safe.
	StopError string `json:"stop_error,omitempty"`
}

func toNudgeResponse(n timer.Nudge) *nudgeResponse {
	if n.Effect == timer.EffectNone {
		return nil
	}
	return &nudgeResponse{
		Effect:           n.Effect.String(),
		ThresholdSeconds: int64(n.Threshold.Seconds()),
		Message:          n.Message,
	}
}

func (s *Server) timerState() timerStateResponse {
	session := s.machine.Active()
	if session == nil {
		return timerStateResponse{Running: false}
	}
	return timerStateResponse{
		Running:        true,
		ProjectID:      session.ProjectID,
		Kind:           string(session.Kind),
		StartedAt:      session.StartedAt.Format(time.RFC3339),
		ElapsedSeconds: session.ElapsedSeconds,
		ExtendedMode:   session.ExtendedMode,
	}
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req timerStartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The project must exist before any time is logged against it.
	if kind != domain.KindLearning {
		if _, err := s.projectRepo.GetByID(r.Context(), req.ProjectID); err != nil {
			writeRepoError(w, err)
			return
		}
	}

	if err := s.machine.Start(r.Context(), req.ProjectID, kind); err != nil {
		switch {
		case errors.Is(err, timer.ErrAlreadyRunning):
			writeError(w, http.StatusConflict, "a timer is already running")
		default:
			var storageErr *timer.StorageError
			if errors.As(err, &storageErr) {
				writeError(w, http.StatusBadGateway, err.Error())
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, s.timerState())
}

// handleTimerTick advances the nudge policy. The UI calls this once a
// second; elapsed time is wall-clock derived, so missed ticks only
// delay nudges, they never lose time.
func (s *Server) handleTimerTick(w http.ResponseWriter, r *http.Request) {
	result, err := s.machine.Tick(r.Context())
	if errors.Is(err, timer.ErrNotRunning) {
		writeError(w, http.StatusConflict, "no timer is running")
		return
	}

	resp := timerTickResponse{
		ElapsedSeconds: result.ElapsedSeconds,
		Stopped:        result.Stopped,
		Nudge:          toNudgeResponse(result.Nudge),
	}
	if err != nil {
		// Forced stop failed; report the nudge and the failure together.
		resp.StopError = err.Error()
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	err := s.machine.Stop(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"stopped": true})
	case errors.Is(err, timer.ErrNotRunning):
		writeError(w, http.StatusConflict, "no timer is running")
	case errors.Is(err, timer.ErrStopInFlight):
		writeError(w, http.StatusConflict, "a stop is already in progress")
	default:
		// The session is preserved; no elapsed time was lost.
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":             err.Error(),
			"session_preserved": true,
			"message":           "stop failed, elapsed time is preserved; retry is safe",
		})
	}
}

func (s *Server) handleTimerExtend(w http.ResponseWriter, r *http.Request) {
	if err := s.machine.ContinueExtended(); err != nil {
		writeError(w, http.StatusConflict, "no timer is running")
		return
	}
	writeJSON(w, http.StatusOK, s.timerState())
}

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.timerState())
}
