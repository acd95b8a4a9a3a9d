package notify

import (
	"context"
	"errors"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

var _ ports.Notifier = Fanout(nil)

// Fanout delivers each notification to every notifier, even when some of them fail.
type Fanout []ports.Notifier

func (f Fanout) NotifyManager(ctx context.Context, message string) error {
	var errs []error
	for _, n := range f {
		if err := n.NotifyManager(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) NotifySupplier(ctx context.Context, supplier *domain.Supplier, message string) error {
	var errs []error
	for _, n := range f {
		if err := n.NotifySupplier(ctx, supplier, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
