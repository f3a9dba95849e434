package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

type TimeLogRepository interface {
	// CreateOpen persists a new record with no end time. The returned
	// id anchors the in-memory timer session; without it a session
	// cannot be reconciled later.
	CreateOpen(ctx context.Context, log *domain.TimeLog) error
	GetByID(ctx context.Context, id string) (*domain.TimeLog, error)
	// Close sets ended_at and duration_minutes on an open record.
	// Closing is idempotent at the storage layer: the duration is
	// overwritten, never incremented.
	Close(ctx context.Context, id string, endedAt time.Time, durationMinutes float64) (*domain.TimeLog, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TimeLog, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.TimeLog, error)
	// FindOpen returns open (abandoned or in-flight) records for a user.
	FindOpen(ctx context.Context, userID string) ([]*domain.TimeLog, error)
}
