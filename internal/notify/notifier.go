// Package notify defines the notification interface and implementations
// for price alert delivery.
package notify

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// Notifier delivers price alerts to a product's owner. Implementations
// must honor the context and return an error when delivery fails; callers
// log failures but never retry within a sweep.
type Notifier interface {
	// NotifyPriceDrop alerts the owner that the price fell from oldPrice
	// to newPrice.
	NotifyPriceDrop(
		ctx context.Context,
		user *domain.User,
		product *domain.Product,
		oldPrice, newPrice decimal.Decimal,
	) error

	// NotifyTargetReached alerts the owner that the current price is at
	// or below the product's target price.
	NotifyTargetReached(
		ctx context.Context,
		user *domain.User,
		product *domain.Product,
	) error
}
