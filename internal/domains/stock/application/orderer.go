package application

import (
	"context"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

// Restocker refills an item whose stock fell below its threshold.
type Restocker interface {
	Replenish(ctx context.Context, item *domain.StockItem)
}

// OrderProcessor applies customer sales to stock items.
type OrderProcessor interface {
	ProcessOrder(ctx context.Context, item *domain.StockItem, buyQuantity int) bool
	Restock(ctx context.Context, item *domain.StockItem) bool
}

// Orderer is the default OrderProcessor.
type Orderer struct {
	restocker Restocker
}

func NewOrderer(restocker Restocker) *Orderer {
	return &Orderer{restocker: restocker}
}

// ProcessOrder sells buyQuantity units of item. It returns false without touching the item
// when the quantity is negative or exceeds what is held. A sale that leaves the item below
// its threshold replenishes it before returning.
func (o *Orderer) ProcessOrder(ctx context.Context, item *domain.StockItem, buyQuantity int) bool {
	if item == nil || buyQuantity < 0 || buyQuantity > item.HeldQuantity() {
		return false
	}
	item.Sell(buyQuantity)
	o.Restock(ctx, item)
	return true
}

// Restock replenishes the item if it needs it and reports whether a replenishment ran.
func (o *Orderer) Restock(ctx context.Context, item *domain.StockItem) bool {
	if o.restocker == nil || item == nil || !item.NeedsRestock() {
		return false
	}
	o.restocker.Replenish(ctx, item)
	return true
}

var _ OrderProcessor = (*Orderer)(nil)
