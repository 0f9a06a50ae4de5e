package feed

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/tradewell/kalshi/pkg/feed"

// feedMetrics publishes feed counters through the global meter provider.
// Instrument creation failures degrade to nil instruments, which Add treats
// as no-ops.
type feedMetrics struct {
	frames          metric.Int64Counter
	messages        metric.Int64Counter
	reconnects      metric.Int64Counter
	handlerFailures metric.Int64Counter
}

func newFeedMetrics() *feedMetrics {
	meter := otel.Meter(meterName)
	m := new(feedMetrics)
	m.frames, _ = meter.Int64Counter("kalshi.feed.frames",
		metric.WithDescription("Raw frames received, including control and unrecognized frames."))
	m.messages, _ = meter.Int64Counter("kalshi.feed.messages",
		metric.WithDescription("Typed data messages delivered to the caller."))
	m.reconnects, _ = meter.Int64Counter("kalshi.feed.reconnects",
		metric.WithDescription("Successful reconnections after the initial connect."))
	m.handlerFailures, _ = meter.Int64Counter("kalshi.feed.handler_failures",
		metric.WithDescription("Handler errors and panics, isolated per message."))
	return m
}

func (m *feedMetrics) recordFrame(ctx context.Context) {
	if m.frames != nil {
		m.frames.Add(ctx, 1)
	}
}

func (m *feedMetrics) recordMessage(ctx context.Context, channel string) {
	if m.messages != nil {
		m.messages.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", channel)))
	}
}

func (m *feedMetrics) recordReconnect(ctx context.Context) {
	if m.reconnects != nil {
		m.reconnects.Add(ctx, 1)
	}
}

func (m *feedMetrics) recordHandlerFailure(ctx context.Context, channel string) {
	if m.handlerFailures != nil {
		m.handlerFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", channel)))
	}
}
