package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	stockmemory "github.com/Apurer/youstockit/internal/domains/stock/adapters/memory"
	"github.com/Apurer/youstockit/internal/domains/stock/adapters/supplier"
	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

type serviceFixture struct {
	svc          *Service
	available    *stockmemory.Catalogue
	discontinued *stockmemory.Catalogue
	notifier     *fakeNotifier
	clock        *fakeClock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		available:    stockmemory.NewCatalogue(),
		discontinued: stockmemory.NewCatalogue(),
		notifier:     &fakeNotifier{},
		clock:        newFakeClock(),
	}
	orders := NewOrderer(NewReplenisher(f.notifier, WithSleeper(f.clock.Sleep)))
	f.svc = NewService(orders, f.available, f.discontinued, f.notifier)
	return f
}

func (f *serviceFixture) add(t *testing.T, item *domain.StockItem) {
	t.Helper()
	res, err := f.svc.AddItem(context.Background(), item)
	require.NoError(t, err)
	require.True(t, res.Succeeded, res.Message)
}

func TestAddItem(t *testing.T) {
	f := newServiceFixture(t)
	item := newScenarioItem(t, supplier.NewAlwaysSucceedingStub())

	res, err := f.svc.AddItem(context.Background(), item)
	require.NoError(t, err)
	require.Equal(t, ports.Result{Succeeded: true, Message: "Stock item added to catalogue.", Outcome: ports.OutcomeOK}, res)

	res, err = f.svc.AddItem(context.Background(), item)
	require.NoError(t, err)
	require.False(t, res.Succeeded)
	require.Equal(t, ports.OutcomeAlreadyExists, res.Outcome)
	require.Equal(t, "Stock item with ID 1 already exists.", res.Message)
}

func TestAddItem_InvalidInput(t *testing.T) {
	f := newServiceFixture(t)
	item, err := domain.NewStockItem(2)
	require.NoError(t, err)

	_, err = f.svc.AddItem(context.Background(), item)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidName)

	items, err := f.svc.AvailableItems(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestPlaceOrder_UnknownItem(t *testing.T) {
	f := newServiceFixture(t)

	res, err := f.svc.PlaceOrder(context.Background(), 99, 1)
	require.NoError(t, err)
	require.False(t, res.Succeeded)
	require.Equal(t, ports.OutcomeNotFound, res.Outcome)
	require.Equal(t, "Stock item with ID 99 does not exist.", res.Message)
}

func TestPlaceOrder_RejectionMessages(t *testing.T) {
	f := newServiceFixture(t)
	stub := supplier.NewAlwaysSucceedingStub()
	f.add(t, newScenarioItem(t, stub))

	res, err := f.svc.PlaceOrder(context.Background(), 1, 51)
	require.NoError(t, err)
	require.False(t, res.Succeeded)
	require.Equal(t, ports.OutcomeInvalidQuantity, res.Outcome)
	require.Equal(t, "Requested quantity is invalid. Must be between 1 and 50 (inclusive).", res.Message)

	res, err = f.svc.PlaceOrder(context.Background(), 1, -3)
	require.NoError(t, err)
	require.Equal(t, ports.OutcomeInvalidQuantity, res.Outcome)

	empty := newScenarioItem(t, stub)
	empty.ID = 2
	require.NoError(t, empty.SetQuantity(0))
	require.NoError(t, empty.SetMinimumOrderQuantity(0))
	f.add(t, empty)

	res, err = f.svc.PlaceOrder(context.Background(), 2, 1)
	require.NoError(t, err)
	require.False(t, res.Succeeded)
	require.Equal(t, ports.OutcomeOutOfStock, res.Outcome)
	require.Equal(t, "Stock item with ID 2 is out of stock.", res.Message)
	require.Equal(t, 0, stub.Calls())
}

func TestPlaceOrder_PersistsReplenishedItem(t *testing.T) {
	f := newServiceFixture(t)
	stub := supplier.NewAlwaysSucceedingStub()
	f.add(t, newScenarioItem(t, stub))

	res, err := f.svc.PlaceOrder(context.Background(), 1, 31)
	require.NoError(t, err)
	require.Equal(t, ports.Result{Succeeded: true, Message: "Order placed successfully.", Outcome: ports.OutcomeOK}, res)

	stored, err := f.available.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 49, stored.HeldQuantity())
	require.Equal(t, 31, stored.NumTimesSold)
	require.Equal(t, 1, stub.Calls())
}

func TestPlaceOrder_RetiresSoldOutItem(t *testing.T) {
	f := newServiceFixture(t)
	item := newScenarioItem(t, supplier.NewAlwaysSucceedingStub())
	require.NoError(t, item.SetMinimumOrderQuantity(0))
	f.add(t, item)

	res, err := f.svc.PlaceOrder(context.Background(), 1, 50)
	require.NoError(t, err)
	require.True(t, res.Succeeded)
	require.Equal(t, "Order placed successfully.\nItem has gone out of stock, removing from catalogue...", res.Message)

	_, err = f.available.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
	retired, err := f.svc.DiscontinuedItems(context.Background())
	require.NoError(t, err)
	require.Len(t, retired, 1)
	require.Equal(t, 50, retired[0].NumTimesSold)
}

func TestPlaceOrder_SupplierDropsItemThenSellsOut(t *testing.T) {
	f := newServiceFixture(t)
	stub := supplier.NewStub().AddResponse(30, 0, domain.CodeItemNotFound)
	f.add(t, newScenarioItem(t, stub))

	res, err := f.svc.PlaceOrder(context.Background(), 1, 31)
	require.NoError(t, err)
	require.Equal(t, "Order placed successfully.", res.Message)

	res, err = f.svc.PlaceOrder(context.Background(), 1, 19)
	require.NoError(t, err)
	require.Contains(t, res.Message, "removing from catalogue")
	require.Equal(t, 1, stub.Calls())
}

func TestDeleteItem(t *testing.T) {
	f := newServiceFixture(t)
	f.add(t, newScenarioItem(t, supplier.NewAlwaysSucceedingStub()))
	empty := newScenarioItem(t, nil)
	empty.ID = 2
	require.NoError(t, empty.SetQuantity(0))
	f.add(t, empty)

	res, err := f.svc.DeleteItem(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, res.Succeeded)
	require.Equal(t, "Deleted item from catalogue and notified manager via email.", res.Message)
	require.Len(t, f.notifier.manager, 1)
	require.Contains(t, f.notifier.manager[0], "50 units")

	res, err = f.svc.DeleteItem(context.Background(), 2)
	require.NoError(t, err)
	require.True(t, res.Succeeded)
	require.Equal(t, "Deleted item from catalogue.", res.Message)
	require.Len(t, f.notifier.manager, 1)

	res, err = f.svc.DeleteItem(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, res.Succeeded)
	require.Equal(t, "Stock item with ID 1 does not exist.", res.Message)
}

func TestCalculateProfit(t *testing.T) {
	f := newServiceFixture(t)

	total, err := f.svc.CalculateProfit(context.Background())
	require.NoError(t, err)
	require.True(t, total.IsZero())

	cheap := newScenarioItem(t, supplier.NewAlwaysSucceedingStub())
	require.NoError(t, cheap.SetPrices(decimal.RequireFromString("1.50"), decimal.RequireFromString("1.75")))
	f.add(t, cheap)

	dear := newScenarioItem(t, nil)
	dear.ID = 2
	require.NoError(t, dear.SetQuantity(5))
	require.NoError(t, dear.SetMinimumOrderQuantity(0))
	require.NoError(t, dear.SetPrices(decimal.NewFromInt(10), decimal.NewFromInt(20)))
	f.add(t, dear)

	_, err = f.svc.PlaceOrder(context.Background(), 1, 20)
	require.NoError(t, err)
	res, err := f.svc.PlaceOrder(context.Background(), 2, 5)
	require.NoError(t, err)
	require.Contains(t, res.Message, "removing from catalogue")

	total, err = f.svc.CalculateProfit(context.Background())
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.NewFromInt(55)), total.String())
}

func TestAvailableItems_FiltersByCategory(t *testing.T) {
	f := newServiceFixture(t)
	coffee := newScenarioItem(t, nil)
	tea := newScenarioItem(t, nil)
	tea.ID = 2
	tea.UpdateCategory("tea")
	f.add(t, coffee)
	f.add(t, tea)

	all, err := f.svc.AvailableItems(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	teas, err := f.svc.AvailableItems(context.Background(), "tea")
	require.NoError(t, err)
	require.Len(t, teas, 1)
	require.Equal(t, int64(2), teas[0].ID)
}

func TestSweepLowStock(t *testing.T) {
	f := newServiceFixture(t)
	stub := supplier.NewStub().
		AddResponse(30, 0, domain.CodeCommunicationError).
		AddResponse(30, 0, domain.CodeCommunicationError).
		AddResponse(30, 0, domain.CodeCommunicationError).
		AddResponse(30, 0, domain.CodeCommunicationError).
		AddResponse(30, 30, domain.CodeSuccess)
	f.add(t, newScenarioItem(t, stub))
	healthy := newScenarioItem(t, supplier.NewAlwaysSucceedingStub())
	healthy.ID = 2
	f.add(t, healthy)

	_, err := f.svc.PlaceOrder(context.Background(), 1, 31)
	require.NoError(t, err)
	stored, err := f.available.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 19, stored.HeldQuantity())

	swept, err := f.svc.SweepLowStock(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, swept)
	require.Equal(t, 5, stub.Calls())

	stored, err = f.available.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 49, stored.HeldQuantity())
}

type failingCatalogue struct {
	*stockmemory.Catalogue
	err error
}

func (c failingCatalogue) GetByID(context.Context, int64) (*domain.StockItem, error) {
	return nil, c.err
}

func (c failingCatalogue) List(context.Context) ([]*domain.StockItem, error) {
	return nil, c.err
}

func TestService_SurfacesStoreFailures(t *testing.T) {
	boom := errors.New("connection refused")
	store := failingCatalogue{Catalogue: stockmemory.NewCatalogue(), err: boom}
	svc := NewService(NewOrderer(nil), store, stockmemory.NewCatalogue(), &fakeNotifier{})

	_, err := svc.PlaceOrder(context.Background(), 1, 1)
	require.ErrorIs(t, err, boom)
	_, err = svc.DeleteItem(context.Background(), 1)
	require.ErrorIs(t, err, boom)
	_, err = svc.CalculateProfit(context.Background())
	require.ErrorIs(t, err, boom)
	_, err = svc.SweepLowStock(context.Background())
	require.ErrorIs(t, err, boom)
}
