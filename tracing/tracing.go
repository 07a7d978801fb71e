// Package tracing provides OpenTelemetry spans around memo recomputations.
// It is entirely optional: tracing is only active when a [Config] is wired
// in via the WithOpenTelemetry option.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Keksclan/rawrmemo/tracing"

// Config holds the OpenTelemetry configuration used for recompute spans.
type Config struct {
	// TracerProvider supplies the Tracer used to create spans. When nil the
	// global otel.GetTracerProvider() is used.
	TracerProvider trace.TracerProvider
}

func (c *Config) tracer() trace.Tracer {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(instrumentationName)
}

// Recompute runs fn inside a span named "<name>.recompute". The key digest is
// only computed when a span is actually started. If cfg is nil fn runs
// directly.
func Recompute[V any](ctx context.Context, cfg *Config, name string, keyDigest func() string, fn func(context.Context) (V, error)) (V, error) {
	if cfg == nil {
		return fn(ctx)
	}
	ctx, span := cfg.tracer().Start(ctx, name+".recompute", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	span.SetAttributes(
		attribute.String("memo.name", name),
		attribute.String("memo.key_hash", keyDigest()),
	)

	v, err := fn(ctx)
	recordStatus(span, err)
	return v, err
}

func recordStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
