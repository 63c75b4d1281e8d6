package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pricewatch/pricewatch/internal/metrics"
	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// WebhookNotifier implements Notifier by POSTing alert JSON to an HTTP
// endpoint, for chat integrations or automation.
type WebhookNotifier struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) WebhookOption {
	return func(w *WebhookNotifier) {
		w.client = c
	}
}

// WithHeaders sets extra request headers, e.g. an Authorization token.
func WithHeaders(h map[string]string) WebhookOption {
	return func(w *WebhookNotifier) {
		w.headers = h
	}
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(url string, opts ...WebhookOption) *WebhookNotifier {
	w := &WebhookNotifier{
		url:    url,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// webhookPayload is the JSON body sent for every alert.
type webhookPayload struct {
	Kind          string `json:"kind"`
	Username      string `json:"username"`
	ProductName   string `json:"product_name"`
	ProductURL    string `json:"product_url"`
	PreviousPrice string `json:"previous_price,omitempty"`
	CurrentPrice  string `json:"current_price,omitempty"`
	TargetPrice   string `json:"target_price,omitempty"`
}

// NotifyPriceDrop posts a price drop alert.
func (w *WebhookNotifier) NotifyPriceDrop(
	ctx context.Context,
	user *domain.User,
	product *domain.Product,
	oldPrice, newPrice decimal.Decimal,
) error {
	return w.post(ctx, webhookPayload{
		Kind:          "price_drop",
		Username:      user.Username,
		ProductName:   product.Name,
		ProductURL:    product.URL,
		PreviousPrice: oldPrice.StringFixed(2),
		CurrentPrice:  newPrice.StringFixed(2),
	})
}

// NotifyTargetReached posts a target price alert.
func (w *WebhookNotifier) NotifyTargetReached(
	ctx context.Context,
	user *domain.User,
	product *domain.Product,
) error {
	payload := webhookPayload{
		Kind:        "target_reached",
		Username:    user.Username,
		ProductName: product.Name,
		ProductURL:  product.URL,
	}
	if product.CurrentPrice != nil {
		payload.CurrentPrice = product.CurrentPrice.StringFixed(2)
	}
	if product.TargetPrice != nil {
		payload.TargetPrice = product.TargetPrice.StringFixed(2)
	}
	return w.post(ctx, payload)
}

func (w *WebhookNotifier) post(ctx context.Context, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		w.url,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		metrics.NotificationFailuresTotal.Inc()
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.NotificationFailuresTotal.Inc()
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("webhook returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, respBody)
	}

	metrics.NotificationsSentTotal.WithLabelValues(payload.Kind).Inc()
	return nil
}
