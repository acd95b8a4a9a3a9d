package ports

import "context"

// PlaceOrderCommand is the serialisable form of a customer order.
type PlaceOrderCommand struct {
	ItemID    int64
	BuyAmount int
	// IdempotencyKey is the client's key for the order, if it sent one.
	IdempotencyKey string
}

// WorkflowOrchestrator runs order placement and low stock sweeps either inline or on a
// durable workflow engine.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (Result, error)
	SweepLowStock(ctx context.Context) (int, error)
}
