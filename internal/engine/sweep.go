package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pricewatch/pricewatch/internal/metrics"
)

// SweepStats summarizes one monitoring sweep.
type SweepStats struct {
	Skipped bool `json:"skipped"`
	Total   int  `json:"total"`
	Checked int  `json:"checked"`
	Failed  int  `json:"failed"`
}

// RunSweep checks every tracked product once. Products are processed by a
// bounded pool of workers and a failed check never affects the rest of the
// sweep. At most one sweep runs at a time; a call that overlaps a running
// sweep returns immediately with Skipped set.
func (eng *Engine) RunSweep(ctx context.Context) (SweepStats, error) {
	if !eng.sweeping.CompareAndSwap(false, true) {
		eng.log.Warn("sweep already in progress, skipping")
		metrics.SweepsSkippedTotal.Inc()
		return SweepStats{Skipped: true}, nil
	}
	defer eng.sweeping.Store(false)

	start := time.Now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	products, err := eng.store.ListAllProducts(ctx)
	if err != nil {
		return SweepStats{}, fmt.Errorf("listing products: %w", err)
	}

	eng.log.Info("sweep starting", "products", len(products))

	var (
		wg      sync.WaitGroup
		sem     = make(chan struct{}, eng.concurrency)
		checked atomic.Int64
		failed  atomic.Int64
	)

	for i := range products {
		// Waiting for a worker slot must also observe cancellation, so no
		// new checks start after shutdown is requested.
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		p := &products[i]
		wg.Add(1)

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := eng.CheckProduct(ctx, p.ID); err != nil {
				failed.Add(1)
				eng.log.Error("price check failed",
					"product", p.Name,
					"url", p.URL,
					"error", err,
				)
				return
			}
			checked.Add(1)
		}()
	}

	wg.Wait()

	stats := SweepStats{
		Total:   len(products),
		Checked: int(checked.Load()),
		Failed:  int(failed.Load()),
	}

	metrics.SweepProductsCheckedTotal.Add(float64(stats.Checked))
	metrics.SweepProductsFailedTotal.Add(float64(stats.Failed))

	eng.log.Info("sweep complete",
		"total", stats.Total,
		"checked", stats.Checked,
		"failed", stats.Failed,
		"took", time.Since(start),
	)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}
