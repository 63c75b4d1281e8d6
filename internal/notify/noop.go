package notify

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// NoOpNotifier implements Notifier by logging discarded alerts. It is used
// when no notification backend is configured.
type NoOpNotifier struct {
	log *slog.Logger
}

// NewNoOpNotifier creates a notifier that discards alerts with a log message.
func NewNoOpNotifier(log *slog.Logger) *NoOpNotifier {
	return &NoOpNotifier{log: log}
}

// NotifyPriceDrop logs and discards a price drop alert.
func (n *NoOpNotifier) NotifyPriceDrop(
	_ context.Context,
	user *domain.User,
	product *domain.Product,
	oldPrice, newPrice decimal.Decimal,
) error {
	n.log.Debug("price drop alert discarded (no backend configured)",
		"user", user.Username,
		"product", product.Name,
		"old_price", oldPrice.StringFixed(2),
		"new_price", newPrice.StringFixed(2),
	)
	return nil
}

// NotifyTargetReached logs and discards a target price alert.
func (n *NoOpNotifier) NotifyTargetReached(
	_ context.Context,
	user *domain.User,
	product *domain.Product,
) error {
	n.log.Debug("target price alert discarded (no backend configured)",
		"user", user.Username,
		"product", product.Name,
	)
	return nil
}
