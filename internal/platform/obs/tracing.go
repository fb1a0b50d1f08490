package obs

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type TracingOptions struct {
	Enabled bool
	// SampleRatio is the fraction of root spans kept; children follow their parent.
	SampleRatio    float64
	ServiceVersion string
}

// NewTracerProvider returns a provider exporting finished spans as JSON to w,
// or a no-op provider when tracing is disabled. The returned shutdown flushes
// pending spans and is always safe to call.
func NewTracerProvider(opts TracingOptions, w io.Writer) (trace.TracerProvider, func(context.Context) error, error) {
	if !opts.Enabled {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}
	if opts.SampleRatio < 0 || opts.SampleRatio > 1 {
		return nil, nil, fmt.Errorf("tracing: sample ratio must be within [0,1], got %g", opts.SampleRatio)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, nil, fmt.Errorf("tracing: stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", opts.ServiceVersion),
		)),
	)
	return tp, tp.Shutdown, nil
}
