package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/pricewatch/pricewatch/internal/metrics"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPFetcher queries a price extraction service over HTTP. The service
// receives the product URL as a query parameter and responds with a JSON
// body carrying the extracted price.
type HTTPFetcher struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// HTTPOption configures the HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		f.client = hc
	}
}

// WithRateLimit caps outgoing extraction requests with a token bucket.
func WithRateLimit(perSecond float64, burst int) HTTPOption {
	return func(f *HTTPFetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		f.client.Timeout = d
	}
}

// NewHTTPFetcher creates a fetcher backed by the extraction service at
// endpoint.
func NewHTTPFetcher(endpoint string, opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type extractResponse struct {
	Price decimal.Decimal `json:"price"`
}

// Fetch implements Fetcher by querying the extraction service.
func (f *HTTPFetcher) Fetch(ctx context.Context, productURL string) (decimal.Decimal, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return decimal.Decimal{}, fmt.Errorf("rate limit: %w", err)
		}
	}

	timer := time.Now()
	price, err := f.fetch(ctx, productURL)
	metrics.FetchDuration.Observe(time.Since(timer).Seconds())
	if err != nil {
		metrics.FetchFailuresTotal.Inc()
		return decimal.Decimal{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return price, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, productURL string) (decimal.Decimal, error) {
	u := f.endpoint + "?" + url.Values{"url": {productURL}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("executing extraction request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf(
			"extraction service error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	var extracted extractResponse
	if err := json.Unmarshal(body, &extracted); err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing extraction response: %w", err)
	}

	return validate(extracted.Price)
}
