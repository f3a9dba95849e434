package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Progress    int    `json:"progress"`

	ProblemStatement string   `json:"problem_statement"`
	TargetUser       string   `json:"target_user"`
	MVPScope         []string `json:"mvp_scope"`
	OutOfScope       string   `json:"out_of_scope"`
	Platform         string   `json:"platform"`
	EstimatedHours   float64  `json:"estimated_hours"`
	PRDMarkdown      string   `json:"prd_markdown"`
	StuckSince       string   `json:"stuck_since"`
	NextAction       string   `json:"next_action"`
}

type projectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Progress    int    `json:"progress"`

	BuildingHours  float64 `json:"building_hours"`
	DebuggingHours float64 `json:"debugging_hours"`
	TrackedHours   float64 `json:"tracked_hours"`

	ProblemStatement string   `json:"problem_statement"`
	TargetUser       string   `json:"target_user"`
	MVPScope         []string `json:"mvp_scope"`
	OutOfScope       string   `json:"out_of_scope"`
	Platform         string   `json:"platform"`
	EstimatedHours   float64  `json:"estimated_hours"`
	PRDMarkdown      string   `json:"prd_markdown"`
	StuckSince       string   `json:"stuck_since"`
	NextAction       string   `json:"next_action"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	scope := p.MVPScope
	if scope == nil {
		scope = []string{}
	}
	return projectResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Status:           p.Status,
		Priority:         p.Priority,
		Progress:         p.Progress,
		BuildingHours:    p.BuildingHours,
		DebuggingHours:   p.DebuggingHours,
		TrackedHours:     p.TrackedHours(),
		ProblemStatement: p.ProblemStatement,
		TargetUser:       p.TargetUser,
		MVPScope:         scope,
		OutOfScope:       p.OutOfScope,
		Platform:         p.Platform,
		EstimatedHours:   p.EstimatedHours,
		PRDMarkdown:      p.PRDMarkdown,
		StuckSince:       p.StuckSince,
		NextAction:       p.NextAction,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		CompletedAt:      p.CompletedAt,
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projectRepo.List(r.Context(), s.userID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Status == "" {
		req.Status = domain.StatusPlanning
	}
	if !domain.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", req.Status))
		return
	}
	if req.Priority == "" {
		req.Priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(req.Priority) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid priority %q", req.Priority))
		return
	}

	project := &domain.Project{
		UserID:           s.userID,
		Name:             req.Name,
		Description:      req.Description,
		Status:           req.Status,
		Priority:         req.Priority,
		Progress:         req.Progress,
		ProblemStatement: req.ProblemStatement,
		TargetUser:       req.TargetUser,
		MVPScope:         req.MVPScope,
		OutOfScope:       req.OutOfScope,
		Platform:         req.Platform,
		EstimatedHours:   req.EstimatedHours,
		PRDMarkdown:      req.PRDMarkdown,
		StuckSince:       req.StuckSince,
		NextAction:       req.NextAction,
	}
	if err := s.projectRepo.Create(r.Context(), project); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projectRepo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projectRepo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !domain.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", req.Status))
		return
	}
	if !domain.ValidPriority(req.Priority) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid priority %q", req.Priority))
		return
	}

	// Hour totals are deliberately not updatable here; only the
	// stop-timer reconciliation touches them.
	wasComplete := project.Status == domain.StatusComplete
	project.Name = req.Name
	project.Description = req.Description
	project.Status = req.Status
	project.Priority = req.Priority
	project.Progress = req.Progress
	project.ProblemStatement = req.ProblemStatement
	project.TargetUser = req.TargetUser
	project.MVPScope = req.MVPScope
	project.OutOfScope = req.OutOfScope
	project.Platform = req.Platform
	project.EstimatedHours = req.EstimatedHours
	project.PRDMarkdown = req.PRDMarkdown
	project.StuckSince = req.StuckSince
	project.NextAction = req.NextAction

	if project.Status == domain.StatusComplete && !wasComplete {
		now := time.Now().UTC()
		project.CompletedAt = &now
	}
	if project.Status != domain.StatusComplete {
		project.CompletedAt = nil
	}

	if err := s.projectRepo.Update(r.Context(), project); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projectRepo.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProjectPRD renders the project's PRD as HTML. Projects without
// stored markdown get one synthesized from the wizard fields.
func (s *Server) handleProjectPRD(w http.ResponseWriter, r *http.Request) {
	project, err := s.projectRepo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}

	md := project.PRDMarkdown
	if md == "" {
		md = buildPRDMarkdown(project)
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("render prd: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func buildPRDMarkdown(p *domain.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	if p.ProblemStatement != "" {
		fmt.Fprintf(&b, "## Problem\n\n%s\n\n", p.ProblemStatement)
	}
	if p.TargetUser != "" {
		fmt.Fprintf(&b, "## Target user\n\n%s\n\n", p.TargetUser)
	}
	if len(p.MVPScope) > 0 {
		b.WriteString("## MVP scope\n\n")
		for _, item := range p.MVPScope {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("\n")
	}
	if p.OutOfScope != "" {
		fmt.Fprintf(&b, "## Out of scope\n\n%s\n\n", p.OutOfScope)
	}
	if p.Platform != "" {
		fmt.Fprintf(&b, "## Platform\n\n%s\n\n", p.Platform)
	}
	if p.EstimatedHours > 0 {
		fmt.Fprintf(&b, "## Estimate\n\n%.1f hours\n", p.EstimatedHours)
	}
	return b.String()
}
