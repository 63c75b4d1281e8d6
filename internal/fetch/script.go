package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pricewatch/pricewatch/internal/metrics"
)

const defaultScriptTimeout = 60 * time.Second

// ScriptFetcher shells out to an external scraper. The product URL is
// appended as the final argument and the scraper prints the price as a
// plain decimal on stdout.
type ScriptFetcher struct {
	path    string
	args    []string
	timeout time.Duration
}

// ScriptOption configures the ScriptFetcher.
type ScriptOption func(*ScriptFetcher)

// WithScriptArgs prepends fixed arguments before the product URL.
func WithScriptArgs(args ...string) ScriptOption {
	return func(f *ScriptFetcher) {
		f.args = args
	}
}

// WithScriptTimeout overrides the default per-invocation timeout.
func WithScriptTimeout(d time.Duration) ScriptOption {
	return func(f *ScriptFetcher) {
		f.timeout = d
	}
}

// NewScriptFetcher creates a fetcher that invokes the scraper at path.
func NewScriptFetcher(path string, opts ...ScriptOption) *ScriptFetcher {
	f := &ScriptFetcher{
		path:    path,
		timeout: defaultScriptTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements Fetcher by running the scraper subprocess.
func (f *ScriptFetcher) Fetch(ctx context.Context, productURL string) (decimal.Decimal, error) {
	timer := time.Now()
	price, err := f.fetch(ctx, productURL)
	metrics.FetchDuration.Observe(time.Since(timer).Seconds())
	if err != nil {
		metrics.FetchFailuresTotal.Inc()
		return decimal.Decimal{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return price, nil
}

func (f *ScriptFetcher) fetch(ctx context.Context, productURL string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	args := make([]string, 0, len(f.args)+1)
	args = append(args, f.args...)
	args = append(args, productURL)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Scrapers that spawn children (headless browsers) leave the pipes open
	// after the deadline kill; WaitDelay unblocks Run regardless.
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return decimal.Decimal{}, fmt.Errorf("running scraper: %w: %s", err, msg)
		}
		return decimal.Decimal{}, fmt.Errorf("running scraper: %w", err)
	}

	out := strings.TrimSpace(stdout.String())
	price, err := decimal.NewFromString(out)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing scraper output %q: %w", out, err)
	}

	return validate(price)
}
