package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pricewatch/pricewatch/internal/fetch"
	fetchMocks "github.com/pricewatch/pricewatch/internal/fetch/mocks"
	notifyMocks "github.com/pricewatch/pricewatch/internal/notify/mocks"
	storeMocks "github.com/pricewatch/pricewatch/internal/store/mocks"
	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// sweepProducts builds n tracked products with distinct IDs and URLs.
func sweepProducts(n int) []domain.Product {
	products := make([]domain.Product, n)
	for i := range products {
		id := string(rune('a' + i))
		products[i] = domain.Product{
			ID:     "prod-" + id,
			Name:   "Product " + id,
			URL:    "https://shop.example.com/" + id,
			UserID: "user-1",
		}
	}
	return products
}

func TestRunSweep_ChecksEveryProduct(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mf := fetchMocks.NewMockFetcher(t)
	mn := notifyMocks.NewMockNotifier(t)

	products := sweepProducts(3)
	ms.EXPECT().ListAllProducts(mock.Anything).Return(products, nil)

	for i := range products {
		p := products[i]
		updated := p
		ms.EXPECT().GetProduct(mock.Anything, p.ID).Return(&p, nil)
		mf.EXPECT().Fetch(mock.Anything, p.URL).Return(dec("10.00"), nil)
		ms.EXPECT().UpdateProductPrice(mock.Anything, p.ID, dec("10.00")).
			Return(&updated, true, nil)
	}

	eng := newTestEngine(ms, mf, mn)
	stats, err := eng.RunSweep(context.Background())
	require.NoError(t, err)

	assert.False(t, stats.Skipped)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Checked)
	assert.Equal(t, 0, stats.Failed)
}

func TestRunSweep_FailedCheckDoesNotAffectOthers(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mf := fetchMocks.NewMockFetcher(t)
	mn := notifyMocks.NewMockNotifier(t)

	products := sweepProducts(3)
	ms.EXPECT().ListAllProducts(mock.Anything).Return(products, nil)

	for i := range products {
		p := products[i]
		updated := p
		ms.EXPECT().GetProduct(mock.Anything, p.ID).Return(&p, nil)

		// The middle product's fetch fails; the others proceed.
		if i == 1 {
			mf.EXPECT().Fetch(mock.Anything, p.URL).
				Return(decimal.Decimal{}, fetch.ErrUnavailable)
			continue
		}
		mf.EXPECT().Fetch(mock.Anything, p.URL).Return(dec("10.00"), nil)
		ms.EXPECT().UpdateProductPrice(mock.Anything, p.ID, dec("10.00")).
			Return(&updated, true, nil)
	}

	eng := newTestEngine(ms, mf, mn)
	stats, err := eng.RunSweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Checked)
	assert.Equal(t, 1, stats.Failed)
}

func TestRunSweep_OverlappingSweepIsSkipped(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mf := fetchMocks.NewMockFetcher(t)
	mn := notifyMocks.NewMockNotifier(t)

	products := sweepProducts(1)
	p := products[0]
	updated := p

	entered := make(chan struct{})
	release := make(chan struct{})

	ms.EXPECT().ListAllProducts(mock.Anything).Return(products, nil)
	ms.EXPECT().GetProduct(mock.Anything, p.ID).Return(&p, nil)
	mf.EXPECT().Fetch(mock.Anything, p.URL).RunAndReturn(
		func(context.Context, string) (decimal.Decimal, error) {
			close(entered)
			<-release
			return dec("10.00"), nil
		})
	ms.EXPECT().UpdateProductPrice(mock.Anything, p.ID, dec("10.00")).
		Return(&updated, true, nil)

	eng := newTestEngine(ms, mf, mn)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := eng.RunSweep(context.Background())
		assert.NoError(t, err)
	}()

	<-entered

	stats, err := eng.RunSweep(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Skipped)

	close(release)
	wg.Wait()
}

func TestRunSweep_ListError(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mf := fetchMocks.NewMockFetcher(t)
	mn := notifyMocks.NewMockNotifier(t)

	ms.EXPECT().ListAllProducts(mock.Anything).
		Return(nil, errors.New("connection reset"))

	eng := newTestEngine(ms, mf, mn)
	_, err := eng.RunSweep(context.Background())
	require.Error(t, err)
}

func TestRunSweep_NoProducts(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mf := fetchMocks.NewMockFetcher(t)
	mn := notifyMocks.NewMockNotifier(t)

	ms.EXPECT().ListAllProducts(mock.Anything).Return(nil, nil)

	eng := newTestEngine(ms, mf, mn)
	stats, err := eng.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepStats{}, stats)
}

func TestRunSweep_CanceledContext(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mf := fetchMocks.NewMockFetcher(t)
	mn := notifyMocks.NewMockNotifier(t)

	products := sweepProducts(5)
	ms.EXPECT().ListAllProducts(mock.Anything).Return(products, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := newTestEngine(ms, mf, mn)
	stats, err := eng.RunSweep(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Checked)
}

func TestRunSweep_SequentialSweepsRun(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	mf := fetchMocks.NewMockFetcher(t)
	mn := notifyMocks.NewMockNotifier(t)

	ms.EXPECT().ListAllProducts(mock.Anything).Return(nil, nil).Times(2)

	eng := newTestEngine(ms, mf, mn)
	for range 2 {
		stats, err := eng.RunSweep(context.Background())
		require.NoError(t, err)
		assert.False(t, stats.Skipped)
	}
}
