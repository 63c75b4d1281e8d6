package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConnString = "host=localhost port=5432 dbname=pricewatch user=pw password=pw sslmode=disable"

func TestPoolConfig_PoolSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		poolSize int
		want     int32
	}{
		{name: "configured size is applied", poolSize: 25, want: 25},
		{name: "zero falls back to default", poolSize: 0, want: defaultPoolSize},
		{name: "negative falls back to default", poolSize: -3, want: defaultPoolSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := poolConfig(testConnString, tt.poolSize)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MaxConns)
			assert.NotNil(t, cfg.AfterConnect, "decimal codec registration must be wired")
		})
	}
}

func TestPoolConfig_InvalidConnString(t *testing.T) {
	t.Parallel()

	_, err := poolConfig("host=localhost port=notaport", 10)
	require.Error(t, err)
}
