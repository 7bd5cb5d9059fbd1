package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "aerodesk"

// StartTurnSpan starts a span covering one orchestrated turn.
func StartTurnSpan(ctx context.Context, conversationID, turnID, agentName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "turn",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("turn.id", turnID),
			attribute.String("agent.name", agentName),
		),
	)
}

// StartEngineSpan starts a span for the execution engine invocation.
func StartEngineSpan(ctx context.Context, agentName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "engine.run",
		trace.WithAttributes(
			attribute.String("agent.name", agentName),
		),
	)
}
