package ports

import (
	"context"
	"errors"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

var (
	ErrNotFound      = errors.New("stock item not found")
	ErrAlreadyExists = errors.New("stock item already exists")
)

// Catalogue stores stock items. Implementations hand out copies, so callers Save mutations back.
type Catalogue interface {
	Add(ctx context.Context, item *domain.StockItem) error
	Save(ctx context.Context, item *domain.StockItem) error
	Remove(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.StockItem, error)
	List(ctx context.Context) ([]*domain.StockItem, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.StockItem, error)
}

// ItemLocker serialises read-modify-write cycles on one stock item. fn runs while the lock
// is held and receives the context every catalogue call inside the cycle must use.
type ItemLocker interface {
	LockItem(ctx context.Context, id int64, fn func(ctx context.Context) error) error
}
