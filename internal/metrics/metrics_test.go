package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, SweepDuration)
	assert.NotNil(t, SweepProductsCheckedTotal)
	assert.NotNil(t, SweepProductsFailedTotal)
	assert.NotNil(t, SweepsSkippedTotal)
	assert.NotNil(t, FetchFailuresTotal)
	assert.NotNil(t, FetchDuration)
	assert.NotNil(t, PriceChangesTotal)
	assert.NotNil(t, NotificationsSentTotal)
	assert.NotNil(t, NotificationFailuresTotal)
}
