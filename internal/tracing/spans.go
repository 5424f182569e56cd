package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrProjectID  = "project.id"
	AttrSessionID  = "session.id"
	AttrSlot       = "pane.slot"
	AttrFileID     = "file.id"
	AttrOutcome    = "drop.outcome"
	AttrPersist    = "teardown.persist"
	AttrTrigger    = "teardown.trigger"
	AttrModelCount = "models.count"
)

// Span names.
const (
	SpanSessionStart    = "session.start"
	SpanSessionTeardown = "session.teardown"
	SpanDrop            = "drag.drop"
	SpanPaneClose       = "pane.close"
)

// Span events.
const (
	EventBindingsCleared = "bindings.cleared"
	EventSurfacesDropped = "surfaces.disposed"
	EventModelsCleared   = "models.cleared"
	EventPanesCleared    = "panes.cleared"
	EventFileDataCleared = "filedata.cleared"
)

// Start opens a span; a nil tracer falls back to the no-op span in ctx.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError marks span as failed. A nil err marks it OK.
func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
