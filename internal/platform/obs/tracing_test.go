package obs

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracerProviderDisabledIsNoop(t *testing.T) {
	var buf bytes.Buffer
	tp, shutdown, err := NewTracerProvider(TracingOptions{}, &buf)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Zero(t, buf.Len())
}

func TestNewTracerProviderExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tp, shutdown, err := NewTracerProvider(TracingOptions{Enabled: true, SampleRatio: 1, ServiceVersion: "1.0.0"}, &buf)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "RefreshCoordinates")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"RefreshCoordinates"`)
	assert.Contains(t, buf.String(), serviceName)
}

func TestNewTracerProviderRejectsBadRatio(t *testing.T) {
	_, _, err := NewTracerProvider(TracingOptions{Enabled: true, SampleRatio: 1.5}, nil)
	require.Error(t, err)
}
