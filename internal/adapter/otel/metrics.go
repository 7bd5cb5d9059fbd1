package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "aerodesk"

// Metrics holds the turn pipeline metric instruments.
type Metrics struct {
	TurnsStarted   metric.Int64Counter
	TurnsCompleted metric.Int64Counter
	TurnsBlocked   metric.Int64Counter
	TurnsFailed    metric.Int64Counter
	Handoffs       metric.Int64Counter
	TurnDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TurnsStarted, err = meter.Int64Counter("aerodesk.turns.started",
		metric.WithDescription("Number of turns started"))
	if err != nil {
		return nil, err
	}

	m.TurnsCompleted, err = meter.Int64Counter("aerodesk.turns.completed",
		metric.WithDescription("Number of turns committed normally"))
	if err != nil {
		return nil, err
	}

	m.TurnsBlocked, err = meter.Int64Counter("aerodesk.turns.blocked",
		metric.WithDescription("Number of turns blocked by an input guardrail"))
	if err != nil {
		return nil, err
	}

	m.TurnsFailed, err = meter.Int64Counter("aerodesk.turns.failed",
		metric.WithDescription("Number of turns that failed in the engine"))
	if err != nil {
		return nil, err
	}

	m.Handoffs, err = meter.Int64Counter("aerodesk.handoffs",
		metric.WithDescription("Number of agent handoffs applied"))
	if err != nil {
		return nil, err
	}

	m.TurnDuration, err = meter.Float64Histogram("aerodesk.turn.duration_seconds",
		metric.WithDescription("Turn duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
