package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

type sentNotification struct {
	supplierID int64
	message    string
}

type fakeNotifier struct {
	mu        sync.Mutex
	manager   []string
	suppliers []sentNotification
	err       error
}

func (f *fakeNotifier) NotifyManager(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.manager = append(f.manager, message)
	return f.err
}

func (f *fakeNotifier) NotifySupplier(_ context.Context, supplier *domain.Supplier, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suppliers = append(f.suppliers, sentNotification{supplierID: supplier.ID, message: message})
	return f.err
}

// fakeClock advances virtual time instead of blocking.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
	err    error
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.err != nil {
		return c.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

type erroringGateway struct {
	calls int
	then  domain.Gateway
}

func (g *erroringGateway) Order(ctx context.Context, order domain.SupplierOrder) (domain.SupplierResponse, error) {
	g.calls++
	if g.calls == 1 {
		return domain.SupplierResponse{}, errors.New("connection reset by peer")
	}
	return g.then.Order(ctx, order)
}

// newScenarioItem builds the reference item: 50 held, threshold 20, reorders 30.
func newScenarioItem(t *testing.T, gateway domain.Gateway) *domain.StockItem {
	t.Helper()
	item, err := domain.NewStockItem(1)
	require.NoError(t, err)
	require.NoError(t, item.Rename("Espresso beans"))
	item.UpdateCategory("coffee")
	require.NoError(t, item.SetQuantity(50))
	require.NoError(t, item.SetMinimumOrderQuantity(20))
	require.NoError(t, item.SetOrderAmount(30))
	require.NoError(t, item.SetPrices(decimal.NewFromInt(4), decimal.NewFromInt(6)))
	item.AssignSupplier(&domain.Supplier{ID: 7, Name: "Roastery", Email: "orders@roastery.test", Gateway: gateway})
	return item
}
