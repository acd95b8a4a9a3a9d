package ports

import (
	"context"
	"errors"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

var ErrSupplierNotFound = errors.New("supplier not found")

// SupplierDirectory resolves supplier references stored alongside items.
type SupplierDirectory interface {
	GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]*domain.Supplier, error)
}
