package otel

import (
	"context"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordNudge(ctx context.Context, kind domain.Kind, thresholdSeconds int64) {}

func (e *NoOpExporter) RecordSessionClosed(ctx context.Context, kind domain.Kind, projectID string, durationMinutes float64) {
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
