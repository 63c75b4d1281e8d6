// Package engine orchestrates price checks: fetching current prices,
// recording them through the store, and dispatching alerts.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pricewatch/pricewatch/internal/fetch"
	"github.com/pricewatch/pricewatch/internal/metrics"
	"github.com/pricewatch/pricewatch/internal/notify"
	"github.com/pricewatch/pricewatch/internal/store"
	domain "github.com/pricewatch/pricewatch/pkg/types"
)

const defaultConcurrency = 4

// Engine coordinates the price check pipeline for tracked products.
type Engine struct {
	store    store.Store
	fetcher  fetch.Fetcher
	notifier notify.Notifier
	log      *slog.Logger

	concurrency int
	sweeping    atomic.Bool
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	f fetch.Fetcher,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:       s,
		fetcher:     f,
		notifier:    n,
		log:         slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithConcurrency caps the number of products checked in parallel
// during a sweep.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// CheckProduct runs one full price check for a single product: fetch the
// current price, record it, and dispatch any alerts. It returns the
// updated product with its history loaded. Both the sweep and the
// on-demand check endpoint go through here.
func (eng *Engine) CheckProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := eng.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	price, err := eng.fetcher.Fetch(ctx, product.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching price for %s: %w", product.URL, err)
	}

	updated, appended, err := eng.store.UpdateProductPrice(ctx, product.ID, price)
	if err != nil {
		return nil, fmt.Errorf("recording price for product %s: %w", product.ID, err)
	}

	if appended {
		metrics.PriceChangesTotal.Inc()
	}

	eng.log.Debug("price check complete",
		"product", updated.Name,
		"price", price.StringFixed(2),
		"appended", appended,
		"took", time.Since(start),
	)

	// Alerts key to distinct price observations: a fetch that repeats the
	// current price never re-notifies.
	if appended {
		eng.dispatchAlerts(ctx, updated)
	}

	return updated, nil
}
