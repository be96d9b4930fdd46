package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// OrderMetrics são os instrumentos do fluxo de pedidos.
type OrderMetrics struct {
	created          metric.Int64Counter
	cancelled        metric.Int64Counter
	checkoutFailures metric.Int64Counter
	value            metric.Float64Histogram
}

func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	created, err := meter.Int64Counter("storefront.orders.created",
		metric.WithDescription("Orders placed"))
	if err != nil {
		return nil, fmt.Errorf("creating orders.created counter: %w", err)
	}
	cancelled, err := meter.Int64Counter("storefront.orders.cancelled",
		metric.WithDescription("Orders cancelled by customers or admins"))
	if err != nil {
		return nil, fmt.Errorf("creating orders.cancelled counter: %w", err)
	}
	failures, err := meter.Int64Counter("storefront.orders.checkout_failures",
		metric.WithDescription("Checkouts rolled back"))
	if err != nil {
		return nil, fmt.Errorf("creating orders.checkout_failures counter: %w", err)
	}
	value, err := meter.Float64Histogram("storefront.orders.value",
		metric.WithDescription("Order total price"))
	if err != nil {
		return nil, fmt.Errorf("creating orders.value histogram: %w", err)
	}

	return &OrderMetrics{created: created, cancelled: cancelled, checkoutFailures: failures, value: value}, nil
}

// NoopOrderMetrics descarta todas as medições.
func NoopOrderMetrics() *OrderMetrics {
	m, _ := NewOrderMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}

func (m *OrderMetrics) OrderCreated(ctx context.Context, total float64) {
	m.created.Add(ctx, 1)
	m.value.Record(ctx, total)
}

func (m *OrderMetrics) OrderCancelled(ctx context.Context, by string) {
	m.cancelled.Add(ctx, 1, metric.WithAttributes(attribute.String("cancelled_by", by)))
}

func (m *OrderMetrics) CheckoutFailed(ctx context.Context, reason string) {
	m.checkoutFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
