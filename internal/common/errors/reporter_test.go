package errors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"plugin-resilience/internal/common/logger"
)

func TestSpanReporter_AnnotatesActiveSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "generate-article")
	pe := NewServiceError("llm", "model overloaded", WithCode(CodeServiceUnavailable))

	NewSpanReporter().Report(ctx, pe)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)

	recorded := ended[0]
	assert.Equal(t, codes.Error, recorded.Status().Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", recorded.Status().Description)

	require.NotEmpty(t, recorded.Events())
	event := recorded.Events()[0]
	assert.Equal(t, "exception", event.Name)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range event.Attributes {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "ServiceError", attrs["error.kind"].AsString())
	assert.Equal(t, "SERVICE_UNAVAILABLE", attrs["error.code"].AsString())
	assert.Equal(t, pe.ID, attrs["error.id"].AsString())
	assert.Equal(t, true, attrs["error.recoverable"].AsBool())
}

func TestSpanReporter_NoRecordingSpanIsNoOp(t *testing.T) {
	// Context without a span: must not panic, must not report anywhere.
	NewSpanReporter().Report(context.Background(), New("boom"))
}

func TestLogReporter_Report(t *testing.T) {
	r := NewLogReporter(logger.NewTestLogger(t))
	r.Report(context.Background(), NewConfigurationError("api_key", "missing"))
}

func TestMultiReporter_FansOutInOrder(t *testing.T) {
	first := &recordingReporter{}
	second := &recordingReporter{}
	pe := New("boom")

	MultiReporter{first, second}.Report(context.Background(), pe)

	require.Len(t, first.reported, 1)
	require.Len(t, second.reported, 1)
	assert.Same(t, pe, first.reported[0])
}
