package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// PublishTracerName is the name used for the publish tracer
	PublishTracerName = "github.com/sapporo-wes/yevis-cli-sub000/publish"
)

// Common attribute keys for business context used across the application.
// Using shared keys ensures consistent attribute naming in traces.
const (
	AttrRepository    = attribute.Key("registry.repository")
	AttrBranch        = attribute.Key("registry.branch")
	AttrRecordCount   = attribute.Key("publish.record_count")
	AttrDocumentCount = attribute.Key("publish.document_count")
	AttrCommitSha     = attribute.Key("publish.commit_sha")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns a no-op span.
// This provides graceful degradation when tracing is disabled.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records an error on a span and sets the span status to error.
// It safely handles nil spans and nil errors.
// Note: The status description is intentionally generic so host error details
// (e.g. API responses that may quote the request URL) do not appear in trace
// status. The full error details are still available via span events.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
