package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricewatch/pricewatch/internal/fetch"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantPrice string
		wantErr   bool
	}{
		{
			name:      "extracts price from response",
			status:    http.StatusOK,
			body:      `{"price":"129.99"}`,
			wantPrice: "129.99",
		},
		{
			name:      "accepts numeric price",
			status:    http.StatusOK,
			body:      `{"price":49.5}`,
			wantPrice: "49.5",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":"scrape failed"}`,
			wantErr: true,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"error":"no extractor for host"}`,
			wantErr: true,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: true,
		},
		{
			name:    "negative price rejected",
			status:  http.StatusOK,
			body:    `{"price":"-5.00"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "https://shop.example.com/widget",
						r.URL.Query().Get("url"))
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				}))
			defer srv.Close()

			f := fetch.NewHTTPFetcher(srv.URL)
			price, err := f.Fetch(context.Background(), "https://shop.example.com/widget")

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, fetch.ErrUnavailable)
				return
			}

			require.NoError(t, err)
			assert.True(t, price.Equal(decimal.RequireFromString(tt.wantPrice)),
				"got %s, want %s", price, tt.wantPrice)
		})
	}
}

func TestHTTPFetcher_Fetch_ConnectionRefused(t *testing.T) {
	t.Parallel()

	f := fetch.NewHTTPFetcher("http://127.0.0.1:1")
	_, err := f.Fetch(context.Background(), "https://shop.example.com/widget")
	assert.ErrorIs(t, err, fetch.ErrUnavailable)
}

func TestHTTPFetcher_Fetch_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := fetch.NewHTTPFetcher(srv.URL)
	_, err := f.Fetch(ctx, "https://shop.example.com/widget")
	require.Error(t, err)
	assert.True(t,
		errors.Is(err, fetch.ErrUnavailable) || errors.Is(err, context.Canceled))
}

func TestHTTPFetcher_RateLimit(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte(`{"price":"10.00"}`))
		}))
	defer srv.Close()

	// Burst of 1 at a slow refill: the second call must wait.
	f := fetch.NewHTTPFetcher(srv.URL, fetch.WithRateLimit(20, 1))

	start := time.Now()
	for range 2 {
		_, err := f.Fetch(context.Background(), "https://shop.example.com/widget")
		require.NoError(t, err)
	}

	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}
