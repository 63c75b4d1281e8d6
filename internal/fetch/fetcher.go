// Package fetch obtains current prices for tracked product URLs.
//
// Two backends are provided: an HTTP client for a price extraction service
// and a subprocess wrapper around an external scraper script. Both present
// the same uniform failure mode: any error obtaining a price wraps
// ErrUnavailable, so callers treat every failed check the same way.
package fetch

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUnavailable is returned when a price could not be obtained for a URL.
// It covers transport errors, timeouts, non-zero scraper exits, and
// malformed output alike.
var ErrUnavailable = errors.New("price unavailable")

// Fetcher obtains the current price for a product URL. Implementations
// must return a non-negative price or an error wrapping ErrUnavailable.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (decimal.Decimal, error)
}

// validate rejects prices a scraper should never produce.
func validate(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Decimal{}, errors.New("negative price")
	}
	return price, nil
}
