package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/pkg/viewport"
)

// Observer is a viewport.Observer that emits one span per operation.
type Observer struct {
	tracer trace.Tracer
	ctx    context.Context
}

// NewObserver creates an Observer. Spans are children of the span in ctx,
// if any.
func NewObserver(ctx context.Context, tracer trace.Tracer) *Observer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Observer{tracer: tracer, ctx: ctx}
}

// Observe implements viewport.Observer. Operations complete before they are
// reported, so the span is back-dated by the event duration.
func (o *Observer) Observe(e viewport.Event) {
	end := time.Now()
	attrs := []attribute.KeyValue{
		attribute.String("viewport.op", string(e.Op)),
		attribute.Int("viewport.index", e.Index),
		attribute.Int("viewport.len", e.Len),
	}
	if e.Port != "" {
		attrs = append(attrs, attribute.String("viewport.port", e.Port))
	}
	if e.ViewID != "" {
		attrs = append(attrs, attribute.String("viewport.view_id", e.ViewID))
	}

	_, span := o.tracer.Start(o.ctx, "viewport."+string(e.Op),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-e.Duration)),
	)
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
		if code := errors.CodeOf(e.Err); code != "" {
			span.SetAttributes(attribute.String("viewport.error_code", code))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}
