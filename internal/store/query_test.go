package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestProductQuery_ToSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		query         ProductQuery
		wantCountSQL  string
		wantArgs      []any
		wantDataHas   []string // substrings that must appear in dataSQL
		wantDataNotIn []string // substrings that must NOT appear
	}{
		{
			name:  "empty query uses defaults",
			query: ProductQuery{},
			wantDataHas: []string{
				"FROM products",
				"ORDER BY created_at DESC",
				"LIMIT 50",
				"OFFSET 0",
			},
			wantDataNotIn: []string{"WHERE"},
			wantCountSQL:  "SELECT COUNT(*) FROM products",
			wantArgs:      nil,
		},
		{
			name: "user filter",
			query: ProductQuery{
				UserID: ptr("5f6a0b6e-56fd-4f39-a9d3-0ad86f2fdc11"),
			},
			wantDataHas:  []string{"WHERE user_id = $1"},
			wantCountSQL: "SELECT COUNT(*) FROM products WHERE user_id = $1",
			wantArgs:     []any{"5f6a0b6e-56fd-4f39-a9d3-0ad86f2fdc11"},
		},
		{
			name: "notifications filter",
			query: ProductQuery{
				NotificationsEnabled: ptr(true),
			},
			wantDataHas:  []string{"WHERE notifications_enabled = $1"},
			wantCountSQL: "SELECT COUNT(*) FROM products WHERE notifications_enabled = $1",
			wantArgs:     []any{true},
		},
		{
			name: "combined filters with correct parameter numbering",
			query: ProductQuery{
				UserID:               ptr("5f6a0b6e-56fd-4f39-a9d3-0ad86f2fdc11"),
				NotificationsEnabled: ptr(false),
			},
			wantDataHas: []string{
				"user_id = $1",
				"notifications_enabled = $2",
				" AND ",
			},
			wantCountSQL: "SELECT COUNT(*) FROM products WHERE user_id = $1 AND notifications_enabled = $2",
			wantArgs:     []any{"5f6a0b6e-56fd-4f39-a9d3-0ad86f2fdc11", false},
		},
		{
			name: "order by name",
			query: ProductQuery{
				OrderBy: "name",
			},
			wantDataHas: []string{"ORDER BY name ASC"},
		},
		{
			name: "order by last_checked_at",
			query: ProductQuery{
				OrderBy: "last_checked_at",
			},
			wantDataHas: []string{"ORDER BY last_checked_at DESC NULLS LAST"},
		},
		{
			name: "invalid order by falls back to default",
			query: ProductQuery{
				OrderBy: "DROP TABLE products; --",
			},
			wantDataHas:   []string{"ORDER BY created_at DESC"},
			wantDataNotIn: []string{"DROP TABLE"},
		},
		{
			name: "custom limit and offset",
			query: ProductQuery{
				Limit:  25,
				Offset: 100,
			},
			wantDataHas: []string{
				"LIMIT 25",
				"OFFSET 100",
			},
		},
		{
			name: "zero limit defaults to 50",
			query: ProductQuery{
				Limit: 0,
			},
			wantDataHas: []string{"LIMIT 50"},
		},
		{
			name: "limit exceeding max is capped",
			query: ProductQuery{
				Limit: 1000,
			},
			wantDataHas: []string{"LIMIT 500"},
		},
		{
			name: "negative offset defaults to 0",
			query: ProductQuery{
				Offset: -5,
			},
			wantDataHas: []string{"OFFSET 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := tt.query
			dataSQL, countSQL, args := q.ToSQL()

			for _, s := range tt.wantDataHas {
				assert.Contains(t, dataSQL, s, "dataSQL should contain %q", s)
			}

			for _, s := range tt.wantDataNotIn {
				assert.NotContains(t, dataSQL, s, "dataSQL should not contain %q", s)
			}

			if tt.wantCountSQL != "" {
				assert.Equal(t, tt.wantCountSQL, countSQL)
			}

			if tt.wantArgs != nil {
				require.Len(t, args, len(tt.wantArgs))
				assert.Equal(t, tt.wantArgs, args)
			} else {
				assert.Empty(t, args)
			}
		})
	}
}
