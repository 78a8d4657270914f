package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names for engine operations.
const (
	SpanNewTab      = "engine.new_tab"
	SpanSplit       = "engine.split"
	SpanClosePanel  = "engine.close_panel"
	SpanCloseTab    = "engine.close_tab"
	SpanMoveToTab   = "engine.move_to_new_tab"
	SpanResolveDrop = "engine.resolve_drop"
	SpanDisconnect  = "engine.session_disconnect"
)

// Attribute keys used on engine spans.
const (
	AttrTabID       = attribute.Key("connmux.tab_id")
	AttrPanelID     = attribute.Key("connmux.panel_id")
	AttrSessionID   = attribute.Key("connmux.session_id")
	AttrOrientation = attribute.Key("connmux.orientation")
	AttrDropSource  = attribute.Key("connmux.drop_source")
	AttrDropOutcome = attribute.Key("connmux.drop_outcome")
)

// StartOp opens a span for an engine operation.
func StartOp(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndOp records the operation result and ends the span.
func EndOp(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
