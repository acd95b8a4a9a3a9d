package ports

import (
	"context"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
)

// Notifier alerts the store manager or a supplier. Delivery is fire-and-forget:
// callers log a returned error and carry on.
type Notifier interface {
	NotifyManager(ctx context.Context, message string) error
	NotifySupplier(ctx context.Context, supplier *domain.Supplier, message string) error
}
