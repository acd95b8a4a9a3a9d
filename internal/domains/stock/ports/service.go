package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

// Outcome classifies a Result so transports can pick a status without parsing messages.
type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeAlreadyExists   Outcome = "already_exists"
	OutcomeOutOfStock      Outcome = "out_of_stock"
	OutcomeInvalidQuantity Outcome = "invalid_quantity"
)

// Result reports the outcome of a catalogue operation in user-facing terms.
type Result struct {
	Succeeded bool
	Message   string
	Outcome   Outcome
}

// Service exposes catalogue and ordering use cases to adapters.
type Service interface {
	AddItem(ctx context.Context, item *domain.StockItem) (Result, error)
	PlaceOrder(ctx context.Context, id int64, buyAmount int) (Result, error)
	DeleteItem(ctx context.Context, id int64) (Result, error)
	CalculateProfit(ctx context.Context) (decimal.Decimal, error)
	AvailableItems(ctx context.Context, category string) ([]*domain.StockItem, error)
	DiscontinuedItems(ctx context.Context) ([]*domain.StockItem, error)
	SweepLowStock(ctx context.Context) (int, error)
}
