// Package domain defines the core business types for pricewatch.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User owns a set of tracked products and receives their notifications.
type User struct {
	ID        string    `json:"id"         db:"id"`
	Username  string    `json:"username"   db:"username"`
	Email     string    `json:"email"      db:"email"`
	Password  string    `json:"-"          db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Product is a tracked listing. CurrentPrice and LastCheckedAt are nil until
// the first successful price fetch; TargetPrice is nil when the owner has not
// set one.
type Product struct {
	ID                   string           `json:"id"                       db:"id"`
	Name                 string           `json:"name"                     db:"name"`
	URL                  string           `json:"url"                      db:"url"`
	CurrentPrice         *decimal.Decimal `json:"current_price,omitempty"  db:"current_price"`
	TargetPrice          *decimal.Decimal `json:"target_price,omitempty"   db:"target_price"`
	LastCheckedAt        *time.Time       `json:"last_checked_at,omitempty" db:"last_checked_at"`
	NotificationsEnabled bool             `json:"notifications_enabled"    db:"notifications_enabled"`
	UserID               string           `json:"user_id"                  db:"user_id"`
	CreatedAt            time.Time        `json:"created_at"               db:"created_at"`

	// History holds the product's price ledger newest-first. Populated by
	// the store on demand; nil when not loaded.
	History []PriceHistoryEntry `json:"history,omitempty" db:"-"`
}

// PriceChanged reports whether next differs from the product's current price.
// A product that has never been priced always counts as changed. Comparison
// is exact decimal equality, never floating approximation.
func (p *Product) PriceChanged(next decimal.Decimal) bool {
	return p.CurrentPrice == nil || !p.CurrentPrice.Equal(next)
}

// TargetReached reports whether the product has a target price and its
// current price is at or below it.
func (p *Product) TargetReached() bool {
	if p.CurrentPrice == nil || p.TargetPrice == nil {
		return false
	}
	return p.CurrentPrice.LessThanOrEqual(*p.TargetPrice)
}

// PriceHistoryEntry is a single immutable price observation. Entries are
// appended by the update engine and never edited; RecordedAt is assigned by
// the database at insert time.
type PriceHistoryEntry struct {
	ID         int64           `json:"id"          db:"id"`
	ProductID  string          `json:"product_id"  db:"product_id"`
	Price      decimal.Decimal `json:"price"       db:"price"`
	RecordedAt time.Time       `json:"recorded_at" db:"recorded_at"`
}
