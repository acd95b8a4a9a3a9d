package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

// FingerprintOrder builds a deterministic hash of an order, excluding the idempotency key.
func FingerprintOrder(cmd ports.PlaceOrderCommand) (string, error) {
	payload, err := json.Marshal(struct {
		ItemID    int64 `json:"itemId"`
		BuyAmount int   `json:"buyAmount"`
	}{cmd.ItemID, cmd.BuyAmount})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// PlaceFunc places one order, inline or through a workflow.
type PlaceFunc func(ctx context.Context, cmd ports.PlaceOrderCommand) (ports.Result, error)

// IdempotentOrders answers a retried order with the result of its first attempt.
type IdempotentOrders struct {
	store ports.IdempotencyStore
}

func NewIdempotentOrders(store ports.IdempotencyStore) *IdempotentOrders {
	return &IdempotentOrders{store: store}
}

// Place runs place once per key. The bool reports whether the result was replayed from the
// store. Reusing a key for a different order fails with ports.ErrIdempotencyConflict.
func (o *IdempotentOrders) Place(ctx context.Context, key string, cmd ports.PlaceOrderCommand, place PlaceFunc) (ports.Result, bool, error) {
	if o == nil || o.store == nil || key == "" {
		res, err := place(ctx, cmd)
		return res, false, err
	}
	hash, err := FingerprintOrder(cmd)
	if err != nil {
		return ports.Result{}, false, err
	}
	existing, err := o.store.Get(ctx, key)
	if err != nil {
		return ports.Result{}, false, err
	}
	if existing != nil {
		if existing.RequestHash != hash {
			return ports.Result{}, false, fmt.Errorf("%w: key %q was used for another order", ports.ErrIdempotencyConflict, key)
		}
		return existing.Result, true, nil
	}

	res, err := place(ctx, cmd)
	if err != nil {
		return ports.Result{}, false, err
	}
	// The order has been placed; remember it even if the caller has gone away.
	stored, err := o.store.Save(context.WithoutCancel(ctx), ports.IdempotencyRecord{Key: key, RequestHash: hash, ItemID: cmd.ItemID, Result: res})
	if errors.Is(err, ports.ErrIdempotencyConflict) {
		return ports.Result{}, false, fmt.Errorf("%w: key %q was used for another order", ports.ErrIdempotencyConflict, key)
	}
	if err != nil {
		return ports.Result{}, false, err
	}
	if stored != nil && stored.Result != res {
		// A concurrent request with the same key won the race; answer with its result.
		return stored.Result, true, nil
	}
	return res, false, nil
}
