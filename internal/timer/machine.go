package timer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/emiliopalmerini/buildlog/internal/domain"
	"github.com/emiliopalmerini/buildlog/internal/ports"
)

// Machine owns the single active timer session and its transition
// rules. States are Idle (session == nil) and Running; there is no
// Paused state, stopping always terminates the session.
//
// One machine serves one operator. All transitions are serialized by
// the mutex; storage round-trips happen outside the lock with a
// starting/stopping guard so ticks keep flowing and a second
// concurrent start or stop is rejected instead of racing.
type Machine struct {
	clock      Clock
	thresholds Thresholds
	userID     string
	logger     *slog.Logger

	timeLogs ports.TimeLogRepository
	projects ports.ProjectRepository
	metrics  ports.MetricsExporter

	mu       sync.Mutex
	session  *Session
	starting bool
	stopping bool
}

// TickResult is what one tick reports back to the caller.
type TickResult struct {
	ElapsedSeconds int64
	Nudge          Nudge
	// Stopped is true when a cutoff nudge auto-stopped the session
	// and reconciliation succeeded on this tick.
	Stopped bool
}

// NewMachine wires the timer engine to its collaborators.
func NewMachine(clock Clock, thresholds Thresholds, userID string, timeLogs ports.TimeLogRepository, projects ports.ProjectRepository, metrics ports.MetricsExporter, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		clock:      clock,
		thresholds: thresholds,
		userID:     userID,
		logger:     logger,
		timeLogs:   timeLogs,
		projects:   projects,
		metrics:    metrics,
	}
}

// Start opens a session for the given project and kind. Allowed only
// from Idle: the one-active-timer rule is enforced here, not in the
// UI. The open TimeLog record is created first; on storage failure the
// machine stays Idle and no session is fabricated client-side.
func (m *Machine) Start(ctx context.Context, projectID string, kind domain.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown session kind %q", kind)
	}
	// Learning time is not project work; a project is optional there.
	if projectID == "" && kind != domain.KindLearning {
		return fmt.Errorf("project id is required")
	}

	m.mu.Lock()
	if m.session != nil || m.starting || m.stopping {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.starting = true
	m.mu.Unlock()

	now := m.clock.Now()
	record := &domain.TimeLog{
		ProjectID: projectID,
		UserID:    m.userID,
		Kind:      kind,
		StartedAt: now,
		CreatedAt: now,
	}
	err := m.timeLogs.CreateOpen(ctx, record)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.starting = false
	if err != nil {
		return &StorageError{Op: "create open time log", Err: err}
	}

	m.session = &Session{
		ProjectID:       projectID,
		Kind:            kind,
		StartedAt:       now,
		PendingRecordID: record.ID,
	}
	m.logger.Info("timer started",
		"project_id", projectID,
		"kind", kind,
		"record_id", record.ID,
	)
	return nil
}

// Tick recomputes elapsed time from the wall clock and runs the nudge
// policy. A cutoff nudge invokes the same stop path as a manual stop;
// if that reconciliation fails the session survives and the caller
// gets both the nudge and the error.
func (m *Machine) Tick(ctx context.Context) (TickResult, error) {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return TickResult{}, ErrNotRunning
	}

	now := m.clock.Now()
	elapsed := m.session.elapsed(now)
	m.session.ElapsedSeconds = int64(elapsed.Seconds())
	result := TickResult{ElapsedSeconds: m.session.ElapsedSeconds}

	if m.stopping {
		// A reconciliation is in flight; don't evaluate the policy,
		// a second stop attempt must not race the first.
		m.mu.Unlock()
		return result, nil
	}

	flags, nudge := EvaluateNudge(m.session.Kind, elapsed, m.session.Flags, m.session.ExtendedMode, m.thresholds)
	m.session.Flags = flags
	result.Nudge = nudge

	if nudge.Effect == EffectNone {
		m.mu.Unlock()
		return result, nil
	}

	kind := m.session.Kind
	m.mu.Unlock()

	m.metrics.RecordNudge(ctx, kind, int64(nudge.Threshold.Seconds()))
	m.logger.Info("nudge fired",
		"kind", kind,
		"threshold_seconds", int64(nudge.Threshold.Seconds()),
		"effect", nudge.Effect.String(),
	)

	if nudge.Effect == EffectNotifyAndStop {
		if err := m.Stop(ctx); err != nil {
			return result, err
		}
		result.Stopped = true
	}
	return result, nil
}

// Stop closes the session through the reconciliation protocol. On
// success the machine returns to Idle. On failure the session is left
// fully intact - elapsed time is never discarded over a transient
// storage failure - and the caller may retry; the retry recomputes the
// duration, it does not accumulate.
func (m *Machine) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.session == nil {
		m.mu.Unlock()
		return ErrNotRunning
	}
	if m.stopping {
		m.mu.Unlock()
		return ErrStopInFlight
	}
	m.stopping = true
	snapshot := *m.session
	m.mu.Unlock()

	minutes, err := m.reconcile(ctx, snapshot)

	m.mu.Lock()
	m.stopping = false
	if err != nil {
		m.mu.Unlock()
		m.logger.Warn("stop failed, session preserved for retry",
			"record_id", snapshot.PendingRecordID,
			"error", err,
		)
		return err
	}
	m.session = nil
	m.mu.Unlock()

	m.metrics.RecordSessionClosed(ctx, snapshot.Kind, snapshot.ProjectID, minutes)
	m.logger.Info("timer stopped",
		"project_id", snapshot.ProjectID,
		"kind", snapshot.Kind,
		"duration_minutes", minutes,
	)
	return nil
}

// ContinueExtended opts the active debugging session out of the
// cutoff for its remaining lifetime. Once per session; there is no
// way back to enforced stops.
func (m *Machine) ContinueExtended() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNotRunning
	}
	m.session.ExtendedMode = true
	m.logger.Info("extended debugging enabled", "project_id", m.session.ProjectID)
	return nil
}

// Active returns a copy of the current session with elapsed time
// refreshed, or nil when Idle.
func (m *Machine) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	s.ElapsedSeconds = int64(s.elapsed(m.clock.Now()).Seconds())
	return &s
}
