package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/emiliopalmerini/buildlog/internal/domain"
)

const (
	serviceName    = "buildlog"
	serviceVersion = "1.0.0"
)

// Exporter exports timer engine metrics to an OTEL Collector.
type Exporter struct {
	provider      *sdkmetric.MeterProvider
	meter         metric.Meter
	sessionsTotal metric.Int64Counter
	nudgesTotal   metric.Int64Counter
	durationHist  metric.Float64Histogram
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	sessionsTotal, err := meter.Int64Counter(
		"buildlog_sessions_total",
		metric.WithDescription("Total number of closed timer sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	nudgesTotal, err := meter.Int64Counter(
		"buildlog_nudges_total",
		metric.WithDescription("Total number of threshold nudges fired"),
		metric.WithUnit("{nudge}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating nudges counter: %w", err)
	}

	durationHist, err := meter.Float64Histogram(
		"buildlog_session_duration_minutes",
		metric.WithDescription("Closed session duration in minutes"),
		metric.WithUnit("min"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return &Exporter{
		provider:      provider,
		meter:         meter,
		sessionsTotal: sessionsTotal,
		nudgesTotal:   nudgesTotal,
		durationHist:  durationHist,
	}, nil
}

// RecordNudge counts a fired threshold nudge.
func (e *Exporter) RecordNudge(ctx context.Context, kind domain.Kind, thresholdSeconds int64) {
	e.nudgesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.Int64("threshold_seconds", thresholdSeconds),
	))
}

// RecordSessionClosed records a successfully reconciled session.
func (e *Exporter) RecordSessionClosed(ctx context.Context, kind domain.Kind, projectID string, durationMinutes float64) {
	opt := metric.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("project_id", projectID),
	)
	e.sessionsTotal.Add(ctx, 1, opt)
	e.durationHist.Record(ctx, durationMinutes, opt)
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
