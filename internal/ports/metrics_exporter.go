package ports

import (
	"context"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

// MetricsExporter receives timer engine events for observability.
// Implementations must be safe to call from the tick path and must not
// fail the timer on export errors.
type MetricsExporter interface {
	// RecordNudge counts a fired threshold nudge.
	RecordNudge(ctx context.Context, kind domain.Kind, thresholdSeconds int64)
	// RecordSessionClosed records a successfully reconciled session.
	RecordSessionClosed(ctx context.Context, kind domain.Kind, projectID string, durationMinutes float64)
	Close(ctx context.Context) error
}
