package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

type stubService struct {
	result ports.Result
	err    error
}

func (s stubService) AddItem(context.Context, *domain.StockItem) (ports.Result, error) {
	return s.result, s.err
}

func (s stubService) PlaceOrder(context.Context, int64, int) (ports.Result, error) {
	return s.result, s.err
}

func (s stubService) DeleteItem(context.Context, int64) (ports.Result, error) {
	return s.result, s.err
}

func (s stubService) CalculateProfit(context.Context) (decimal.Decimal, error) {
	return decimal.NewFromInt(55), s.err
}

func (s stubService) AvailableItems(context.Context, string) ([]*domain.StockItem, error) {
	return nil, s.err
}

func (s stubService) DiscontinuedItems(context.Context) ([]*domain.StockItem, error) {
	return nil, s.err
}

func (s stubService) SweepLowStock(context.Context) (int, error) {
	return 2, s.err
}

func TestService_RecordsSpansAndCounters(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	inner := stubService{result: ports.Result{Succeeded: true, Message: "ok", Outcome: ports.OutcomeOK}}
	svc := New(inner, WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test")))

	res, err := svc.PlaceOrder(context.Background(), 1, 3)
	require.NoError(t, err)
	require.True(t, res.Succeeded)
	_, err = svc.DeleteItem(context.Background(), 1)
	require.NoError(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 2)
	require.Equal(t, "StockService.PlaceOrder", ended[0].Name())
	require.Contains(t, ended[0].Attributes(), attribute.String("result.outcome", "ok"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}
	require.True(t, names["stock.service.orders_placed"])
	require.True(t, names["stock.service.items_deleted"])
}

func TestService_LogsAndPropagatesErrors(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("database unavailable")
	svc := New(stubService{err: boom}, WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))

	_, err := svc.PlaceOrder(context.Background(), 7, 1)
	require.ErrorIs(t, err, boom)
	require.Contains(t, buf.String(), "failed to place order")

	swept, err := svc.SweepLowStock(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, swept)
}

func TestService_DefaultsAreSilent(t *testing.T) {
	svc := New(stubService{result: ports.Result{Succeeded: true}})
	total, err := svc.CalculateProfit(context.Background())
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.NewFromInt(55)))
}
