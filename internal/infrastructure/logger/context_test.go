package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestWithContext(t *testing.T) {
	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
}

func TestFromContext_NotFound(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	l.Info("no-op logger accepts writes")
}

func TestFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotNil(t, FromContext(ctx))
}

func TestWithSessionID(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(ProductionConfig(), &buf)

	ctx, enriched := WithSessionID(context.Background(), base, "sess-42")

	assert.Equal(t, "sess-42", GetSessionID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	FromContext(ctx).Info("turn")
	assert.Contains(t, buf.String(), `"session_id":"sess-42"`)
}

func TestGetSessionID_NotFound(t *testing.T) {
	assert.Empty(t, GetSessionID(context.Background()))
}

func TestL_AddsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(ProductionConfig(), &buf)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx := WithContext(context.Background(), base)
	ctx, span := tp.Tracer("test").Start(ctx, "turn")
	defer span.End()

	L(ctx).Info("with span")

	out := buf.String()
	assert.Contains(t, out, `"trace_id":"`+span.SpanContext().TraceID().String()+`"`)
	assert.Contains(t, out, `"span_id":"`+span.SpanContext().SpanID().String()+`"`)
}

func TestL_WithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(ProductionConfig(), &buf)

	L(WithContext(context.Background(), base)).Info("plain")

	assert.NotContains(t, buf.String(), "trace_id")
}

func TestWithTraceContext_InvalidSpan(t *testing.T) {
	l := zap.NewNop()
	assert.Same(t, l, WithTraceContext(context.Background(), l))
}
