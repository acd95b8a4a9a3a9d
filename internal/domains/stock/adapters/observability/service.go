package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

const tracerName = "github.com/Apurer/youstockit/internal/domains/stock/adapters/observability/service"

// Service decorates the stock service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core stock service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) AddItem(ctx context.Context, item *domain.StockItem) (ports.Result, error) {
	var id int64
	if item != nil {
		id = item.ID
	}
	ctx, span := s.tracer.Start(ctx, "StockService.AddItem", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer span.End()

	s.logInfo(ctx, "adding stock item", slog.Int64("item.id", id))
	res, err := s.inner.AddItem(ctx, item)
	if err != nil {
		return res, s.handleError(ctx, span, err, "failed to add stock item", slog.Int64("item.id", id))
	}
	s.annotate(span, res)
	s.logInfo(ctx, "add stock item finished", slog.Int64("item.id", id), slog.String("outcome", string(res.Outcome)))
	return res, nil
}

func (s *Service) PlaceOrder(ctx context.Context, id int64, buyAmount int) (ports.Result, error) {
	ctx, span := s.tracer.Start(ctx, "StockService.PlaceOrder",
		trace.WithAttributes(attribute.Int64("item.id", id), attribute.Int("order.quantity", buyAmount)))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("item.id", id), slog.Int("order.quantity", buyAmount))
	res, err := s.inner.PlaceOrder(ctx, id, buyAmount)
	if err != nil {
		return res, s.handleError(ctx, span, err, "failed to place order", slog.Int64("item.id", id))
	}
	s.annotate(span, res)
	s.metrics.recordOrder(ctx, res.Outcome)
	s.logInfo(ctx, "order processed", slog.Int64("item.id", id), slog.String("outcome", string(res.Outcome)))
	return res, nil
}

func (s *Service) DeleteItem(ctx context.Context, id int64) (ports.Result, error) {
	ctx, span := s.tracer.Start(ctx, "StockService.DeleteItem", trace.WithAttributes(attribute.Int64("item.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting stock item", slog.Int64("item.id", id))
	res, err := s.inner.DeleteItem(ctx, id)
	if err != nil {
		return res, s.handleError(ctx, span, err, "failed to delete stock item", slog.Int64("item.id", id))
	}
	s.annotate(span, res)
	if res.Succeeded {
		s.metrics.recordDeleted(ctx)
	}
	s.logInfo(ctx, "delete stock item finished", slog.Int64("item.id", id), slog.String("outcome", string(res.Outcome)))
	return res, nil
}

func (s *Service) CalculateProfit(ctx context.Context) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "StockService.CalculateProfit")
	defer span.End()

	total, err := s.inner.CalculateProfit(ctx)
	if err != nil {
		return total, s.handleError(ctx, span, err, "failed to calculate profit")
	}
	span.SetAttributes(attribute.String("profit.total", total.StringFixed(2)))
	return total, nil
}

func (s *Service) AvailableItems(ctx context.Context, category string) ([]*domain.StockItem, error) {
	ctx, span := s.tracer.Start(ctx, "StockService.AvailableItems", trace.WithAttributes(attribute.String("item.category", category)))
	defer span.End()

	items, err := s.inner.AvailableItems(ctx, category)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list available items", slog.String("item.category", category))
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

func (s *Service) DiscontinuedItems(ctx context.Context) ([]*domain.StockItem, error) {
	ctx, span := s.tracer.Start(ctx, "StockService.DiscontinuedItems")
	defer span.End()

	items, err := s.inner.DiscontinuedItems(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list discontinued items")
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))
	return items, nil
}

func (s *Service) SweepLowStock(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "StockService.SweepLowStock")
	defer span.End()

	s.logInfo(ctx, "sweeping low stock")
	swept, err := s.inner.SweepLowStock(ctx)
	span.SetAttributes(attribute.Int("items.swept", swept))
	if err != nil {
		return swept, s.handleError(ctx, span, err, "low stock sweep failed", slog.Int("items.swept", swept))
	}
	s.logInfo(ctx, "low stock sweep finished", slog.Int("items.swept", swept))
	return swept, nil
}

func (s *Service) annotate(span trace.Span, res ports.Result) {
	span.SetAttributes(
		attribute.Bool("result.succeeded", res.Succeeded),
		attribute.String("result.outcome", string(res.Outcome)),
	)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced metric.Int64Counter
	itemsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("stock.service.orders_placed", metric.WithDescription("Orders processed by outcome"))
	itemsDeleted, _ := m.Int64Counter("stock.service.items_deleted", metric.WithDescription("Stock items removed from the catalogue"))
	return serviceMetrics{ordersPlaced: ordersPlaced, itemsDeleted: itemsDeleted}
}

func (m serviceMetrics) recordOrder(ctx context.Context, outcome ports.Outcome) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.outcome", string(outcome))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.itemsDeleted != nil {
		m.itemsDeleted.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
