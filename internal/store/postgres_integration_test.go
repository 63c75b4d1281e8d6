//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pricewatch/pricewatch/internal/store"
	domain "github.com/pricewatch/pricewatch/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pricewatch_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr, 4)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func createTestUser(t *testing.T, s *store.PostgresStore, suffix string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username: "user-" + suffix,
		Email:    "user-" + suffix + "@example.com",
		Password: "hashed-secret",
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createTestProduct(t *testing.T, s *store.PostgresStore, userID, name string) *domain.Product {
	t.Helper()
	target := decimal.RequireFromString("100.00")
	p := &domain.Product{
		Name:                 name,
		URL:                  "https://shop.example.com/" + name,
		TargetPrice:          &target,
		NotificationsEnabled: true,
		UserID:               userID,
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_UserCRUD(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	u := createTestUser(t, s, "crud")
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	t.Run("get by id", func(t *testing.T) {
		got, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Username, got.Username)
		assert.Equal(t, u.Email, got.Email)
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := s.GetUserByEmail(ctx, u.Email)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("get by username", func(t *testing.T) {
		got, err := s.GetUserByUsername(ctx, u.Username)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		dup := &domain.User{
			Username: u.Username,
			Email:    "other@example.com",
			Password: "hashed-secret",
		}
		err := s.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup := &domain.User{
			Username: "someone-else",
			Email:    u.Email,
			Password: "hashed-secret",
		}
		err := s.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestPostgresStore_ProductCRUD(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	u := createTestUser(t, s, "products")

	t.Run("create and get", func(t *testing.T) {
		p := createTestProduct(t, s, u.ID, "ssd-2tb")
		assert.NotEmpty(t, p.ID)

		got, err := s.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "ssd-2tb", got.Name)
		assert.Nil(t, got.CurrentPrice)
		assert.Nil(t, got.LastCheckedAt)
		assert.True(t, got.NotificationsEnabled)
		require.NotNil(t, got.TargetPrice)
		assert.True(t, got.TargetPrice.Equal(decimal.RequireFromString("100.00")))
	})

	t.Run("create with unknown owner rejected", func(t *testing.T) {
		p := &domain.Product{
			Name:   "orphan",
			URL:    "https://shop.example.com/orphan",
			UserID: "00000000-0000-0000-0000-000000000000",
		}
		err := s.CreateProduct(ctx, p)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update editable fields", func(t *testing.T) {
		p := createTestProduct(t, s, u.ID, "gpu")
		newTarget := decimal.RequireFromString("450.00")
		p.Name = "gpu (renamed)"
		p.TargetPrice = &newTarget
		p.NotificationsEnabled = false
		require.NoError(t, s.UpdateProduct(ctx, p))

		got, err := s.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "gpu (renamed)", got.Name)
		assert.False(t, got.NotificationsEnabled)
		assert.True(t, got.TargetPrice.Equal(newTarget))
	})

	t.Run("get not found", func(t *testing.T) {
		_, err := s.GetProduct(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPostgresStore_ListProducts(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	for i := range 3 {
		createTestProduct(t, s, alice.ID, fmt.Sprintf("alice-item-%d", i))
	}
	createTestProduct(t, s, bob.ID, "bob-item")

	t.Run("all products for sweep", func(t *testing.T) {
		products, err := s.ListAllProducts(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 4)
	})

	t.Run("filter by user", func(t *testing.T) {
		uid := alice.ID
		products, total, err := s.ListProducts(ctx, &store.ProductQuery{UserID: &uid})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, products, 3)
	})

	t.Run("pagination total count is correct", func(t *testing.T) {
		products, total, err := s.ListProducts(ctx, &store.ProductQuery{Limit: 2, Offset: 3})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Len(t, products, 1)
	})
}

func TestPostgresStore_UpdateProductPrice(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	u := createTestUser(t, s, "prices")

	t.Run("first observation appends history", func(t *testing.T) {
		p := createTestProduct(t, s, u.ID, "first-price")

		got, appended, err := s.UpdateProductPrice(ctx, p.ID, decimal.RequireFromString("119.99"))
		require.NoError(t, err)
		assert.True(t, appended)
		require.NotNil(t, got.CurrentPrice)
		assert.True(t, got.CurrentPrice.Equal(decimal.RequireFromString("119.99")))
		require.NotNil(t, got.LastCheckedAt)
		require.Len(t, got.History, 1)
		assert.True(t, got.History[0].Price.Equal(decimal.RequireFromString("119.99")))
	})

	t.Run("equal price is idempotent but touches last_checked_at", func(t *testing.T) {
		p := createTestProduct(t, s, u.ID, "same-price")

		_, appended, err := s.UpdateProductPrice(ctx, p.ID, decimal.RequireFromString("80.00"))
		require.NoError(t, err)
		require.True(t, appended)

		before, err := s.GetProduct(ctx, p.ID)
		require.NoError(t, err)

		// Same value at a different scale must still count as equal.
		got, appended, err := s.UpdateProductPrice(ctx, p.ID, decimal.RequireFromString("80"))
		require.NoError(t, err)
		assert.False(t, appended)
		assert.Len(t, got.History, 1)
		assert.True(t, got.LastCheckedAt.After(*before.LastCheckedAt) ||
			got.LastCheckedAt.Equal(*before.LastCheckedAt))
	})

	t.Run("changed prices append newest first", func(t *testing.T) {
		p := createTestProduct(t, s, u.ID, "moving-price")

		for _, v := range []string{"120.00", "110.00", "115.00"} {
			_, appended, err := s.UpdateProductPrice(ctx, p.ID, decimal.RequireFromString(v))
			require.NoError(t, err)
			assert.True(t, appended)
		}

		history, err := s.ListPriceHistory(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.True(t, history[0].Price.Equal(decimal.RequireFromString("115.00")))
		assert.True(t, history[1].Price.Equal(decimal.RequireFromString("110.00")))
		assert.True(t, history[2].Price.Equal(decimal.RequireFromString("120.00")))
		for i := 1; i < len(history); i++ {
			assert.False(t, history[i-1].RecordedAt.Before(history[i].RecordedAt))
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		_, _, err := s.UpdateProductPrice(ctx,
			"00000000-0000-0000-0000-000000000000", decimal.RequireFromString("1.00"))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPostgresStore_DeleteProduct(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	u := createTestUser(t, s, "delete-product")
	p := createTestProduct(t, s, u.ID, "doomed")

	_, _, err := s.UpdateProductPrice(ctx, p.ID, decimal.RequireFromString("50.00"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))

	_, err = s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	history, err := s.ListPriceHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.ErrorIs(t, s.DeleteProduct(ctx, p.ID), store.ErrNotFound)
}

func TestPostgresStore_DeleteUser(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	u := createTestUser(t, s, "delete-user")
	p1 := createTestProduct(t, s, u.ID, "owned-1")
	p2 := createTestProduct(t, s, u.ID, "owned-2")

	_, _, err := s.UpdateProductPrice(ctx, p1.ID, decimal.RequireFromString("10.00"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, u.ID))

	_, err = s.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetProduct(ctx, p1.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetProduct(ctx, p2.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), store.ErrNotFound)
}
