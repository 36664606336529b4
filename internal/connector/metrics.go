package connector

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/gabapcia/redisproxy/internal/connector"

// Command outcomes recorded on metrics and spans.
const (
	outcomeOK      = "ok"
	outcomeMiss    = "miss"
	outcomeInvalid = "invalid"
	outcomeFailure = "failure"
)

type instruments struct {
	calls      metric.Int64Counter
	duration   metric.Float64Histogram
	reconnects metric.Int64Counter
}

func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	meter := mp.Meter(instrumentationName)

	calls, err := meter.Int64Counter("redisproxy.command.calls",
		metric.WithDescription("Commands dispatched to redis, by outcome."),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("redisproxy.command.duration",
		metric.WithDescription("Latency of commands dispatched to redis."),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	reconnects, err := meter.Int64Counter("redisproxy.reconnect.attempts",
		metric.WithDescription("Reconnect attempts, by outcome."),
	)
	if err != nil {
		return nil, err
	}

	return &instruments{
		calls:      calls,
		duration:   duration,
		reconnects: reconnects,
	}, nil
}

func (m *instruments) command(ctx context.Context, endpoint, name, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("command", name),
		attribute.String("outcome", outcome),
	)

	m.calls.Add(ctx, 1, attrs)
	if !start.IsZero() {
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

func (m *instruments) reconnect(ctx context.Context, endpoint, outcome string) {
	m.reconnects.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	))
}
