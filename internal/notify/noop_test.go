package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNoOpNotifier_NotifyPriceDrop(t *testing.T) {
	t.Parallel()

	n := NewNoOpNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := n.NotifyPriceDrop(context.Background(), testUser(), testProduct(),
		decimal.RequireFromString("120.00"), decimal.RequireFromString("89.99"))
	require.NoError(t, err)
}

func TestNoOpNotifier_NotifyTargetReached(t *testing.T) {
	t.Parallel()

	n := NewNoOpNotifier(slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := n.NotifyTargetReached(context.Background(), testUser(), testProduct())
	require.NoError(t, err)
}

// compile-time interface check.
var _ Notifier = (*NoOpNotifier)(nil)
