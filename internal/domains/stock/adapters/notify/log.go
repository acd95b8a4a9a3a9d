package notify

import (
	"context"
	"log/slog"

	"github.com/Apurer/youstockit/internal/domains/stock/domain"
	"github.com/Apurer/youstockit/internal/domains/stock/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier stands in for an email gateway by writing every notification to the log.
type LogNotifier struct {
	logger       *slog.Logger
	managerEmail string
}

func NewLogNotifier(logger *slog.Logger, managerEmail string) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger, managerEmail: managerEmail}
}

func (n *LogNotifier) NotifyManager(ctx context.Context, message string) error {
	n.logger.InfoContext(ctx, "email to manager",
		slog.String("to", n.managerEmail),
		slog.String("message", message))
	return nil
}

func (n *LogNotifier) NotifySupplier(ctx context.Context, supplier *domain.Supplier, message string) error {
	attrs := []any{slog.String("message", message)}
	if supplier != nil {
		attrs = append(attrs, slog.Int64("supplier.id", supplier.ID), slog.String("to", supplier.Email))
	}
	n.logger.InfoContext(ctx, "email to supplier", attrs...)
	return nil
}
