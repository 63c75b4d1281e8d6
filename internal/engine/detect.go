package engine

import (
	"context"

	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// dispatchAlerts inspects a freshly updated product and notifies its owner
// about a price drop, a reached target price, or both. The product must
// carry its history newest-first. Delivery failures are logged and never
// fail the price check.
func (eng *Engine) dispatchAlerts(ctx context.Context, product *domain.Product) {
	if !product.NotificationsEnabled {
		return
	}

	// A lone observation has nothing to compare against; both alerts need an
	// established history.
	if len(product.History) < 2 {
		return
	}

	dropped := priceDropped(product.History)
	reached := product.TargetReached()
	if !dropped && !reached {
		return
	}

	user, err := eng.store.GetUser(ctx, product.UserID)
	if err != nil {
		eng.log.Error("loading product owner for alert",
			"product", product.Name,
			"user_id", product.UserID,
			"error", err,
		)
		return
	}

	if dropped {
		old, current := product.History[1].Price, product.History[0].Price
		eng.log.Info("price drop detected",
			"product", product.Name,
			"old_price", old.StringFixed(2),
			"new_price", current.StringFixed(2),
		)
		if err := eng.notifier.NotifyPriceDrop(ctx, user, product, old, current); err != nil {
			eng.log.Error("price drop notification failed",
				"product", product.Name,
				"error", err,
			)
		}
	}

	if reached {
		eng.log.Info("target price reached",
			"product", product.Name,
			"target", product.TargetPrice.StringFixed(2),
		)
		if err := eng.notifier.NotifyTargetReached(ctx, user, product); err != nil {
			eng.log.Error("target price notification failed",
				"product", product.Name,
				"error", err,
			)
		}
	}
}

// priceDropped reports whether the newest recorded price is strictly below
// the one before it. Fewer than two observations can never signal a drop.
func priceDropped(history []domain.PriceHistoryEntry) bool {
	return len(history) >= 2 && history[0].Price.LessThan(history[1].Price)
}
