package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/emiliopalmerini/buildlog/internal/adapters/otel"
	"github.com/emiliopalmerini/buildlog/internal/analytics"
	"github.com/emiliopalmerini/buildlog/internal/domain"
	"github.com/emiliopalmerini/buildlog/internal/ports"
	"github.com/emiliopalmerini/buildlog/internal/timer"
)

const testUserID = "local"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type memProjects struct {
	mu   sync.Mutex
	seq  int
	rows map[string]*domain.Project
}

func newMemProjects() *memProjects {
	return &memProjects{rows: make(map[string]*domain.Project)}
}

func (m *memProjects) Create(ctx context.Context, p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		m.seq++
		p.ID = fmt.Sprintf("proj_%03d", m.seq)
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memProjects) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProjects) List(ctx context.Context, userID string) ([]*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Project
	for _, p := range m.rows {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memProjects) Update(ctx context.Context, p *domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; !ok {
		return ports.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memProjects) AddHours(ctx context.Context, id string, kind domain.Kind, hoursDelta float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return ports.ErrNotFound
	}
	switch kind {
	case domain.KindBuilding:
		p.BuildingHours += hoursDelta
	case domain.KindDebugging:
		p.DebuggingHours += hoursDelta
	}
	return nil
}

func (m *memProjects) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ports.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memTimeLogs struct {
	mu        sync.Mutex
	seq       int
	rows      map[string]*domain.TimeLog
	failClose bool
}

func newMemTimeLogs() *memTimeLogs {
	return &memTimeLogs{rows: make(map[string]*domain.TimeLog)}
}

func (m *memTimeLogs) CreateOpen(ctx context.Context, t *domain.TimeLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t.ID = fmt.Sprintf("tl_%03d", m.seq)
	cp := *t
	m.rows[t.ID] = &cp
	return nil
}

func (m *memTimeLogs) GetByID(ctx context.Context, id string) (*domain.TimeLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTimeLogs) Close(ctx context.Context, id string, endedAt time.Time, durationMinutes float64) (*domain.TimeLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failClose {
		m.failClose = false
		return nil, fmt.Errorf("simulated close failure")
	}
	t, ok := m.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	t.EndedAt = &endedAt
	t.DurationMinutes = &durationMinutes
	cp := *t
	return &cp, nil
}

func (m *memTimeLogs) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TimeLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.TimeLog
	for _, t := range m.rows {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTimeLogs) ListByProject(ctx context.Context, projectID string) ([]*domain.TimeLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.TimeLog
	for _, t := range m.rows {
		if t.ProjectID == projectID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTimeLogs) FindOpen(ctx context.Context, userID string) ([]*domain.TimeLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.TimeLog
	for _, t := range m.rows {
		if t.EndedAt == nil {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memDebugLogs struct {
	mu   sync.Mutex
	seq  int
	rows map[string]*domain.DebugLog
}

func newMemDebugLogs() *memDebugLogs {
	return &memDebugLogs{rows: make(map[string]*domain.DebugLog)}
}

func (m *memDebugLogs) Create(ctx context.Context, d *domain.DebugLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	d.ID = fmt.Sprintf("dl_%03d", m.seq)
	d.CreatedAt = time.Now().UTC()
	cp := *d
	m.rows[d.ID] = &cp
	return nil
}

func (m *memDebugLogs) GetByID(ctx context.Context, id string) (*domain.DebugLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDebugLogs) ListByUser(ctx context.Context, userID string) ([]*domain.DebugLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.DebugLog
	for _, d := range m.rows {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memDebugLogs) ListByProject(ctx context.Context, projectID string) ([]*domain.DebugLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.DebugLog
	for _, d := range m.rows {
		if d.ProjectID == projectID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memDebugLogs) Update(ctx context.Context, d *domain.DebugLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[d.ID]; !ok {
		return ports.ErrNotFound
	}
	cp := *d
	m.rows[d.ID] = &cp
	return nil
}

func (m *memDebugLogs) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memLearningLogs struct {
	mu   sync.Mutex
	seq  int
	rows map[string]*domain.LearningLog
}

func newMemLearningLogs() *memLearningLogs {
	return &memLearningLogs{rows: make(map[string]*domain.LearningLog)}
}

func (m *memLearningLogs) Create(ctx context.Context, l *domain.LearningLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.ID = fmt.Sprintf("ll_%03d", m.seq)
	l.CreatedAt = time.Now().UTC()
	cp := *l
	m.rows[l.ID] = &cp
	return nil
}

func (m *memLearningLogs) GetByID(ctx context.Context, id string) (*domain.LearningLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memLearningLogs) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.LearningLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.LearningLog
	for _, l := range m.rows {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memLearningLogs) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type fixture struct {
	server       *httptest.Server
	clock        *fakeClock
	projects     *memProjects
	timeLogs     *memTimeLogs
	debugLogs    *memDebugLogs
	learningLogs *memLearningLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	projects := newMemProjects()
	timeLogs := newMemTimeLogs()
	debugLogs := newMemDebugLogs()
	learningLogs := newMemLearningLogs()
	logger := slog.New(slog.DiscardHandler)

	machine := timer.NewMachine(
		clock,
		timer.DefaultThresholds(),
		testUserID,
		timeLogs,
		projects,
		otel.NewNoOpExporter(),
		logger,
	)
	analyticsSvc := analytics.NewService(projects, debugLogs, clock, logger)

	srv := NewServer(0, testUserID, machine, analyticsSvc, projects, timeLogs, debugLogs, learningLogs, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &fixture{
		server:       ts,
		clock:        clock,
		projects:     projects,
		timeLogs:     timeLogs,
		debugLogs:    debugLogs,
		learningLogs: learningLogs,
	}
}

func (f *fixture) seedProject(t *testing.T, name string) *domain.Project {
	t.Helper()
	p := &domain.Project{
		UserID:   testUserID,
		Name:     name,
		Status:   domain.StatusBuilding,
		Priority: domain.PriorityMedium,
	}
	if err := f.projects.Create(context.Background(), p); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}
