package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// PublishMetricsMeterName is the name used for the publish metrics meter
	PublishMetricsMeterName = "github.com/sapporo-wes/yevis-cli-sub000/publish"
)

// PublishMetrics holds the OpenTelemetry instruments for publish metrics
type PublishMetrics struct {
	publishDuration    metric.Float64Histogram
	documentsPublished metric.Int64Counter
}

// NewPublishMetrics creates a new PublishMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewPublishMetrics(provider metric.MeterProvider) (*PublishMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(PublishMetricsMeterName)

	publishDuration, err := meter.Float64Histogram(
		"yevis_publish_duration_seconds",
		metric.WithDescription("Duration of publish transactions in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	documentsPublished, err := meter.Int64Counter(
		"yevis_published_documents_total",
		metric.WithDescription("Total number of registry documents committed by publishes"),
		metric.WithUnit("{document}"),
	)
	if err != nil {
		return nil, err
	}

	return &PublishMetrics{
		publishDuration:    publishDuration,
		documentsPublished: documentsPublished,
	}, nil
}

// RecordPublish records the outcome of one publish transaction: its duration,
// whether it committed, and how many documents the commit carried.
func (m *PublishMetrics) RecordPublish(ctx context.Context, repository string, duration time.Duration, documents int, success bool) {
	if m == nil || m.publishDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("repository", repository),
		attribute.Bool("success", success),
	}

	m.publishDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if success && documents > 0 {
		m.documentsPublished.Add(ctx, int64(documents), metric.WithAttributes(
			attribute.String("repository", repository),
		))
	}
}
