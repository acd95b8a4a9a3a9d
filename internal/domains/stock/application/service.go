package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

const (
	msgItemNotFound      = "Stock item with ID %d does not exist."
	msgItemExists        = "Stock item with ID %d already exists."
	msgItemAdded         = "Stock item added to catalogue."
	msgOutOfStock        = "Stock item with ID %d is out of stock."
	msgInvalidQuantity   = "Requested quantity is invalid. Must be between 1 and %d (inclusive)."
	msgOrderPlaced       = "Order placed successfully."
	msgItemRetired       = "\nItem has gone out of stock, removing from catalogue..."
	msgDeletedNotified   = "Deleted item from catalogue and notified manager via email."
	msgDeleted           = "Deleted item from catalogue."
	msgManagerOnDeletion = "Stock item %q with id %d was removed from the catalogue with %d units still in stock."
)

// Service is the catalogue facade: it resolves items, runs orders through the processor,
// and moves sold-out items that will never be restocked to the discontinued catalogue.
type Service struct {
	orders       OrderProcessor
	available    ports.Catalogue
	discontinued ports.Catalogue
	notifier     ports.Notifier
	locks        ports.ItemLocker
}

type ServiceOption func(*Service)

// WithItemLocker replaces the in-process item locks, e.g. with row locks shared by every
// process using the same database.
func WithItemLocker(locker ports.ItemLocker) ServiceOption {
	return func(s *Service) {
		if locker != nil {
			s.locks = locker
		}
	}
}

// NewService wires the facade with its collaborators. Orders, deletions and sweeps touching
// the same item run one at a time.
func NewService(orders OrderProcessor, available, discontinued ports.Catalogue, notifier ports.Notifier, opts ...ServiceOption) *Service {
	s := &Service{orders: orders, available: available, discontinued: discontinued, notifier: notifier, locks: NewItemLocks()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddItem lists a fully configured item in the available catalogue.
func (s *Service) AddItem(ctx context.Context, item *domain.StockItem) (ports.Result, error) {
	if item == nil {
		return ports.Result{}, errors.New("stock item is nil")
	}
	if err := item.Validate(); err != nil {
		return ports.Result{}, mapError(err)
	}
	if err := s.available.Add(ctx, item); err != nil {
		if errors.Is(err, ports.ErrAlreadyExists) {
			return failure(ports.OutcomeAlreadyExists, msgItemExists, item.ID), nil
		}
		return ports.Result{}, err
	}
	return ports.Result{Succeeded: true, Message: msgItemAdded, Outcome: ports.OutcomeOK}, nil
}

// PlaceOrder sells buyAmount units of the item with the given id. The returned error is
// reserved for catalogue failures; business rejections are reported through the Result.
func (s *Service) PlaceOrder(ctx context.Context, id int64, buyAmount int) (ports.Result, error) {
	var res ports.Result
	err := s.locks.LockItem(ctx, id, func(ctx context.Context) error {
		var err error
		res, err = s.placeOrder(ctx, id, buyAmount)
		return err
	})
	if err != nil {
		return ports.Result{}, err
	}
	return res, nil
}

func (s *Service) placeOrder(ctx context.Context, id int64, buyAmount int) (ports.Result, error) {
	item, err := s.available.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return failure(ports.OutcomeNotFound, msgItemNotFound, id), nil
	}
	if err != nil {
		return ports.Result{}, err
	}

	held := item.HeldQuantity()
	if !s.orders.ProcessOrder(ctx, item, buyAmount) {
		if held == 0 {
			return failure(ports.OutcomeOutOfStock, msgOutOfStock, id), nil
		}
		return failure(ports.OutcomeInvalidQuantity, msgInvalidQuantity, held), nil
	}

	retired, err := s.settle(ctx, item)
	if err != nil {
		return ports.Result{}, err
	}
	message := msgOrderPlaced
	if retired {
		message += msgItemRetired
	}
	return ports.Result{Succeeded: true, Message: message, Outcome: ports.OutcomeOK}, nil
}

// DeleteItem removes an item from the available catalogue, alerting the manager when
// stock is thrown away with it.
func (s *Service) DeleteItem(ctx context.Context, id int64) (ports.Result, error) {
	var res ports.Result
	err := s.locks.LockItem(ctx, id, func(ctx context.Context) error {
		var err error
		res, err = s.deleteItem(ctx, id)
		return err
	})
	if err != nil {
		return ports.Result{}, err
	}
	return res, nil
}

func (s *Service) deleteItem(ctx context.Context, id int64) (ports.Result, error) {
	item, err := s.available.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return failure(ports.OutcomeNotFound, msgItemNotFound, id), nil
	}
	if err != nil {
		return ports.Result{}, err
	}
	if err := s.available.Remove(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return failure(ports.OutcomeNotFound, msgItemNotFound, id), nil
		}
		return ports.Result{}, err
	}
	held := item.HeldQuantity()
	if held == 0 {
		return ports.Result{Succeeded: true, Message: msgDeleted, Outcome: ports.OutcomeOK}, nil
	}
	s.notifyManager(ctx, fmt.Sprintf(msgManagerOnDeletion, item.Name, item.ID, held))
	return ports.Result{Succeeded: true, Message: msgDeletedNotified, Outcome: ports.OutcomeOK}, nil
}

// CalculateProfit sums margin times units sold across available and discontinued items.
func (s *Service) CalculateProfit(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, catalogue := range []ports.Catalogue{s.available, s.discontinued} {
		if catalogue == nil {
			continue
		}
		items, err := catalogue.List(ctx)
		if err != nil {
			return decimal.Zero, err
		}
		for _, item := range items {
			total = total.Add(item.Profit())
		}
	}
	return total, nil
}

// AvailableItems lists the available catalogue, filtered by category when one is given.
func (s *Service) AvailableItems(ctx context.Context, category string) ([]*domain.StockItem, error) {
	if category == "" {
		return s.available.List(ctx)
	}
	return s.available.ListByCategory(ctx, category)
}

func (s *Service) DiscontinuedItems(ctx context.Context) ([]*domain.StockItem, error) {
	return s.discontinued.List(ctx)
}

// SweepLowStock retries replenishment for every available item still below its threshold,
// typically those whose supplier was unreachable when they sold. It returns how many items
// were replenished.
func (s *Service) SweepLowStock(ctx context.Context) (int, error) {
	items, err := s.available.List(ctx)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, listed := range items {
		if err := ctx.Err(); err != nil {
			return swept, err
		}
		if !listed.NeedsRestock() {
			continue
		}
		err := s.locks.LockItem(ctx, listed.ID, func(ctx context.Context) error {
			// Reload under the lock: the listing may predate a concurrent order or deletion.
			item, err := s.available.GetByID(ctx, listed.ID)
			if errors.Is(err, ports.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if !s.orders.Restock(ctx, item) {
				return nil
			}
			swept++
			_, err = s.settle(ctx, item)
			return err
		})
		if err != nil {
			return swept, err
		}
	}
	return swept, nil
}

// settle writes a processed item back, moving it to the discontinued catalogue when it has
// sold out and will never be restocked. The sale has already happened, so the writes
// outlive a cancelled caller.
func (s *Service) settle(ctx context.Context, item *domain.StockItem) (bool, error) {
	ctx = context.WithoutCancel(ctx)
	if !item.ShouldRetire() {
		return false, s.available.Save(ctx, item)
	}
	if err := s.available.Remove(ctx, item.ID); err != nil && !errors.Is(err, ports.ErrNotFound) {
		return false, err
	}
	if err := s.discontinued.Add(ctx, item); err != nil {
		if !errors.Is(err, ports.ErrAlreadyExists) {
			return false, err
		}
		if err := s.discontinued.Save(ctx, item); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Service) notifyManager(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyManager(ctx, message); err != nil {
		slog.Default().WarnContext(ctx, "manager notification failed", slog.String("error", err.Error()))
	}
}

func failure(outcome ports.Outcome, format string, arg any) ports.Result {
	return ports.Result{Succeeded: false, Message: fmt.Sprintf(format, arg), Outcome: outcome}
}

var _ ports.Service = (*Service)(nil)
