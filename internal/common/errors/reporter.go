package errors

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"plugin-resilience/internal/common/logger"
)

// Reporter receives errors escalated for reporting. Reporting is best-effort:
// a failing or absent reporter never changes whether the error propagates.
type Reporter interface {
	Report(ctx context.Context, err *PluginError)
}

// LogReporter reports escalated errors through the structured logger.
type LogReporter struct {
	log logger.Logger
}

// NewLogReporter creates a reporter backed by the given logger.
func NewLogReporter(log logger.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(_ context.Context, err *PluginError) {
	r.log.Error("error escalated", err.Dump())
}

// SpanReporter annotates the caller's active OpenTelemetry span with the
// escalated error. It owns no tracer and starts no spans; when the context
// carries no recording span the report is a no-op.
type SpanReporter struct{}

// NewSpanReporter creates a span-annotating reporter.
func NewSpanReporter() *SpanReporter {
	return &SpanReporter{}
}

func (r *SpanReporter) Report(ctx context.Context, err *PluginError) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err, trace.WithAttributes(
		attribute.String("error.id", err.ID),
		attribute.String("error.kind", string(err.Kind)),
		attribute.String("error.code", string(err.Code)),
		attribute.Bool("error.recoverable", err.Recoverable),
	))
	span.SetStatus(codes.Error, string(err.Code))
}

// MultiReporter fans a report out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(ctx context.Context, err *PluginError) {
	for _, r := range m {
		r.Report(ctx, err)
	}
}
