// Package store defines the datastore abstraction for pricewatch.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domain "github.com/pricewatch/pricewatch/pkg/types"
)

// Sentinel errors returned by Store implementations. Callers match them
// with errors.Is; the wrapped message carries the offending identity.
var (
	// ErrNotFound marks a referenced user or product that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists marks a uniqueness conflict (username or email).
	ErrAlreadyExists = errors.New("already exists")
)

// ProductQuery defines optional filters for product queries.
type ProductQuery struct {
	UserID               *string
	NotificationsEnabled *bool
	Limit                int // default 50
	Offset               int
	OrderBy              string // "created_at", "name", "last_checked_at"
}

// Store defines all data access operations for pricewatch.
//
// UpdateProductPrice is the single write path for a product's current price:
// within one transaction it appends a history entry when the price is new or
// changed (exact decimal comparison against the committed row, under a row
// lock) and unconditionally updates current_price and last_checked_at.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	// Products
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListAllProducts(ctx context.Context) ([]domain.Product, error)
	ListProducts(ctx context.Context, opts *ProductQuery) ([]domain.Product, int, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	// Prices
	UpdateProductPrice(
		ctx context.Context,
		productID string,
		price decimal.Decimal,
	) (product *domain.Product, appended bool, err error)
	ListPriceHistory(ctx context.Context, productID string) ([]domain.PriceHistoryEntry, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
