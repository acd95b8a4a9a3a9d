package stock

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	stockports "github.com/Apurer/youstockit/internal/domains/stock/ports"
)

const (
	// PlaceOrderActivityName sells stock and runs any replenishment the sale triggers.
	PlaceOrderActivityName = "stock.activities.PlaceOrder"
	// SweepLowStockActivityName retries replenishment for items left below threshold.
	SweepLowStockActivityName = "stock.activities.SweepLowStock"
)

// Activities groups activities that operate on the stock catalogue.
type Activities struct {
	service stockports.Service
}

func NewActivities(service stockports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs one customer order through the catalogue service.
func (a *Activities) PlaceOrder(ctx context.Context, cmd stockports.PlaceOrderCommand) (stockports.Result, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "itemId", cmd.ItemID)
		return stockports.Result{}, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "itemId", cmd.ItemID, "buyAmount", cmd.BuyAmount)
	res, err := a.service.PlaceOrder(ctx, cmd.ItemID, cmd.BuyAmount)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "itemId", cmd.ItemID, "error", err)
		return stockports.Result{}, err
	}
	logger.Info("PlaceOrder activity completed", "itemId", cmd.ItemID, "outcome", string(res.Outcome))
	return res, nil
}

// SweepLowStock replenishes every available item still below its threshold.
func (a *Activities) SweepLowStock(ctx context.Context) (int, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return 0, errors.New("sweep activity not initialized")
	}
	logger.Info("SweepLowStock activity started")
	swept, err := a.service.SweepLowStock(ctx)
	if err != nil {
		logger.Error("SweepLowStock activity failed", "swept", swept, "error", err)
		return swept, err
	}
	logger.Info("SweepLowStock activity completed", "swept", swept)
	return swept, nil
}
