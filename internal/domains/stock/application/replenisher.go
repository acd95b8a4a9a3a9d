package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

const (
	DefaultMaxAttempts = 4
	DefaultRetryDelay  = 5 * time.Second
)

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Replenisher reorders stock from an item's supplier. Every outcome, including failure, is
// absorbed into item state and notifications; Replenish never reports an error.
type Replenisher struct {
	notifier    ports.Notifier
	maxAttempts int
	retryDelay  time.Duration
	sleep       Sleeper
	logger      *slog.Logger
	metrics     replenishMetrics
}

type ReplenisherOption func(*Replenisher)

// WithMaxAttempts caps gateway calls per replenishment. Values below 1 are ignored.
func WithMaxAttempts(n int) ReplenisherOption {
	return func(r *Replenisher) {
		if n >= 1 {
			r.maxAttempts = n
		}
	}
}

func WithRetryDelay(d time.Duration) ReplenisherOption {
	return func(r *Replenisher) {
		if d >= 0 {
			r.retryDelay = d
		}
	}
}

func WithSleeper(s Sleeper) ReplenisherOption {
	return func(r *Replenisher) {
		if s != nil {
			r.sleep = s
		}
	}
}

func WithLogger(logger *slog.Logger) ReplenisherOption {
	return func(r *Replenisher) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithMeter(m metric.Meter) ReplenisherOption {
	return func(r *Replenisher) {
		r.metrics = newReplenishMetrics(m)
	}
}

func NewReplenisher(notifier ports.Notifier, opts ...ReplenisherOption) *Replenisher {
	r := &Replenisher{
		notifier:    notifier,
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
		sleep:       SleepContext,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Replenish orders the item's configured order amount from its supplier.
//
// Only communication failures are retried, with a flat delay between attempts and none after
// the last one. Item-not-found and out-of-stock are authoritative answers and end the run.
func (r *Replenisher) Replenish(ctx context.Context, item *domain.StockItem) {
	if item == nil {
		return
	}
	supplier := item.Supplier
	if supplier == nil || supplier.Gateway == nil {
		r.notifyManager(ctx, fmt.Sprintf("YouStockIt cannot restock item %q with id %d because it has no supplier.", item.Name, item.ID))
		r.metrics.recordOutcome(ctx, "skipped")
		return
	}
	if item.OrderAmount == nil {
		r.notifyManager(ctx, fmt.Sprintf("YouStockIt cannot restock item %q with id %d because it has no order amount.", item.Name, item.ID))
		r.metrics.recordOutcome(ctx, "skipped")
		return
	}
	order := domain.SupplierOrder{ItemID: item.ID, Quantity: *item.OrderAmount}

	for attempt := 1; ; attempt++ {
		code, actual := r.order(ctx, supplier, order, attempt)
		switch code {
		case domain.CodeSuccess:
			item.Restock(actual)
			r.log(ctx, slog.LevelInfo, "item restocked", item, slog.Int("attempt", attempt), slog.Int("delivered", actual))
			r.metrics.recordOutcome(ctx, "restocked")
			return
		case domain.CodeOutOfStock:
			r.notifyManager(ctx, fmt.Sprintf("YouStockIt failed to restock item %q with id %d since the supplier has run out of stock.", item.Name, item.ID))
			item.Restock(actual)
			r.log(ctx, slog.LevelWarn, "supplier out of stock", item, slog.Int("attempt", attempt), slog.Int("delivered", actual))
			r.metrics.recordOutcome(ctx, "partially_restocked")
			return
		case domain.CodeItemNotFound:
			item.Discontinue()
			r.log(ctx, slog.LevelWarn, "supplier no longer stocks item, discontinuing", item, slog.Int("attempt", attempt))
			r.metrics.recordOutcome(ctx, "discontinued")
			return
		}

		if attempt >= r.maxAttempts {
			r.notifySupplier(ctx, supplier, "YouStockIt system was unable to connect to your stock server.")
			r.log(ctx, slog.LevelWarn, "supplier unreachable, giving up", item, slog.Int("attempts", attempt))
			r.metrics.recordOutcome(ctx, "unreachable")
			return
		}
		if err := r.sleep(ctx, r.retryDelay); err != nil {
			r.notifyManager(context.WithoutCancel(ctx), fmt.Sprintf("YouStockIt failed to retry ordering of stock item %q with id %d", item.Name, item.ID))
			r.log(ctx, slog.LevelError, "retry wait interrupted", item, slog.Int("attempt", attempt), slog.String("error", err.Error()))
			r.metrics.recordOutcome(ctx, "aborted")
			return
		}
	}
}

// order calls the gateway once, folding transport errors and unknown codes into a
// communication error so they are retried.
func (r *Replenisher) order(ctx context.Context, supplier *domain.Supplier, order domain.SupplierOrder, attempt int) (domain.ResponseCode, int) {
	resp, err := supplier.Gateway.Order(ctx, order)
	r.metrics.recordAttempt(ctx)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "supplier order failed",
			slog.Int64("item.id", order.ItemID), slog.Int64("supplier.id", supplier.ID),
			slog.Int("attempt", attempt), slog.String("error", err.Error()))
		return domain.CodeCommunicationError, 0
	}
	if !resp.Code.Valid() {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "supplier returned unknown response code",
			slog.Int64("item.id", order.ItemID), slog.String("code", string(resp.Code)))
		return domain.CodeCommunicationError, 0
	}
	return resp.Code, resp.ActualQuantity
}

func (r *Replenisher) notifyManager(ctx context.Context, message string) {
	if r.notifier == nil {
		r.logger.WarnContext(ctx, "no notifier configured, dropping manager notification", slog.String("message", message))
		return
	}
	if err := r.notifier.NotifyManager(ctx, message); err != nil {
		r.logger.WarnContext(ctx, "manager notification failed", slog.String("error", err.Error()))
	}
}

func (r *Replenisher) notifySupplier(ctx context.Context, supplier *domain.Supplier, message string) {
	if r.notifier == nil {
		r.logger.WarnContext(ctx, "no notifier configured, dropping supplier notification", slog.String("message", message))
		return
	}
	if err := r.notifier.NotifySupplier(ctx, supplier, message); err != nil {
		r.logger.WarnContext(ctx, "supplier notification failed", slog.Int64("supplier.id", supplier.ID), slog.String("error", err.Error()))
	}
}

func (r *Replenisher) log(ctx context.Context, level slog.Level, msg string, item *domain.StockItem, attrs ...slog.Attr) {
	attrs = append(attrs, slog.Int64("item.id", item.ID), slog.Int("item.quantity", item.HeldQuantity()))
	r.logger.LogAttrs(ctx, level, msg, attrs...)
}

type replenishMetrics struct {
	attempts metric.Int64Counter
	outcomes metric.Int64Counter
}

func newReplenishMetrics(m metric.Meter) replenishMetrics {
	if m == nil {
		return replenishMetrics{}
	}
	attempts, _ := m.Int64Counter("stock.replenishment.attempts", metric.WithDescription("Supplier order calls made while replenishing"))
	outcomes, _ := m.Int64Counter("stock.replenishment.outcomes", metric.WithDescription("Finished replenishment runs by outcome"))
	return replenishMetrics{attempts: attempts, outcomes: outcomes}
}

func (m replenishMetrics) recordAttempt(ctx context.Context) {
	if m.attempts != nil {
		m.attempts.Add(ctx, 1)
	}
}

func (m replenishMetrics) recordOutcome(ctx context.Context, outcome string) {
	if m.outcomes != nil {
		m.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}
