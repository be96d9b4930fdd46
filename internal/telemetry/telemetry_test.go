package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan_RecordsAttributesAndError(t *testing.T) {
	// Arrange
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	// Act
	_, span := StartSpan(context.Background(), tracer, "orders.create", attribute.String("user_id", "u1"))
	err := RecordError(span, errors.New("boom"))
	span.End()

	// Assert
	require.Error(t, err)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "orders.create", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("user_id", "u1"))
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
}

func TestRecordError_NilLeavesSpanUnset(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := StartSpan(context.Background(), tp.Tracer("test"), "noop")
	assert.NoError(t, RecordError(span, nil))
	span.End()

	assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
}

func TestOrderMetrics_Records(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewOrderMetrics(mp.Meter("test"))
	require.NoError(t, err)

	m.OrderCreated(ctx, 453)
	m.OrderCreated(ctx, 708)
	m.OrderCancelled(ctx, "customer")
	m.CheckoutFailed(ctx, "insufficient_stock")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	got := map[string]metricdata.Aggregation{}
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			got[metric.Name] = metric.Data
		}
	}

	created, ok := got["storefront.orders.created"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.EqualValues(t, 2, created.DataPoints[0].Value)

	value, ok := got["storefront.orders.value"].(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.EqualValues(t, 2, value.DataPoints[0].Count)
	assert.InDelta(t, 1161.0, value.DataPoints[0].Sum, 1e-9)

	assert.Contains(t, got, "storefront.orders.cancelled")
	assert.Contains(t, got, "storefront.orders.checkout_failures")
}

func TestInit_DisabledUsesNoop(t *testing.T) {
	p, err := Init(context.Background(), Config{Enabled: false})
	require.NoError(t, err)

	_, span := p.Tracer("x").Start(context.Background(), "op")
	assert.False(t, span.SpanContext().IsValid())
	assert.NoError(t, p.Shutdown(context.Background()))
}
