package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emiliopalmerini/buildlog/internal/analytics"
	"github.com/emiliopalmerini/buildlog/internal/ports"
	"github.com/emiliopalmerini/buildlog/internal/timer"
)

// Server is the JSON API in front of the timer engine and the stores.
// It is single-user: every request is scoped to the configured userID.
type Server struct {
	router *http.ServeMux
	port   int
	userID string
	logger *slog.Logger

	machine   *timer.Machine
	analytics *analytics.Service

	projectRepo     ports.ProjectRepository
	timeLogRepo     ports.TimeLogRepository
	debugLogRepo    ports.DebugLogRepository
	learningLogRepo ports.LearningLogRepository
}

func NewServer(
	port int,
	userID string,
	machine *timer.Machine,
	analyticsSvc *analytics.Service,
	projectRepo ports.ProjectRepository,
	timeLogRepo ports.TimeLogRepository,
	debugLogRepo ports.DebugLogRepository,
	learningLogRepo ports.LearningLogRepository,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:          http.NewServeMux(),
		port:            port,
		userID:          userID,
		logger:          logger,
		machine:         machine,
		analytics:       analyticsSvc,
		projectRepo:     projectRepo,
		timeLogRepo:     timeLogRepo,
		debugLogRepo:    debugLogRepo,
		learningLogRepo: learningLogRepo,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Projects
	s.router.HandleFunc("GET /api/projects", s.handleListProjects)
	s.router.HandleFunc("POST /api/projects", s.handleCreateProject)
	s.router.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	s.router.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	s.router.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	s.router.HandleFunc("GET /api/projects/{id}/prd", s.handleProjectPRD)
	s.router.HandleFunc("GET /api/projects/{id}/timelogs", s.handleProjectTimeLogs)
	s.router.HandleFunc("GET /api/projects/{id}/debuglogs", s.handleProjectDebugLogs)

	// Timer
	s.router.HandleFunc("POST /api/timer/start", s.handleTimerStart)
	s.router.HandleFunc("POST /api/timer/tick", s.handleTimerTick)
	s.router.HandleFunc("POST /api/timer/stop", s.handleTimerStop)
	s.router.HandleFunc("POST /api/timer/extend", s.handleTimerExtend)
	s.router.HandleFunc("GET /api/timer", s.handleTimerState)

	// Time logs
	s.router.HandleFunc("GET /api/timelogs", s.handleListTimeLogs)

	// Debug logs
	s.router.HandleFunc("GET /api/debuglogs", s.handleListDebugLogs)
	s.router.HandleFunc("POST /api/debuglogs", s.handleCreateDebugLog)
	s.router.HandleFunc("GET /api/debuglogs/{id}", s.handleGetDebugLog)
	s.router.HandleFunc("PUT /api/debuglogs/{id}", s.handleUpdateDebugLog)
	s.router.HandleFunc("DELETE /api/debuglogs/{id}", s.handleDeleteDebugLog)

	// Learning logs
	s.router.HandleFunc("GET /api/learninglogs", s.handleListLearningLogs)
	s.router.HandleFunc("POST /api/learninglogs", s.handleCreateLearningLog)
	s.router.HandleFunc("DELETE /api/learninglogs/{id}", s.handleDeleteLearningLog)

	// Analytics
	s.router.HandleFunc("GET /api/analytics/summary", s.handleAnalyticsSummary)
	s.router.HandleFunc("GET /api/analytics/insights", s.handleAnalyticsInsights)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Graceful shutdown
	}
	return err
}
