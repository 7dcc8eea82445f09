package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistItem is a product tracked by a user, with an optional target price.
type WishlistItem struct {
	UserID      int64
	ProductID   int64
	TargetPrice decimal.NullDecimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TrackedProduct is a wishlist item enriched with the lowest current price
// across platforms. CurrentPrice is invalid when the product has no
// observations.
type TrackedProduct struct {
	WishlistItem
	CurrentPrice decimal.NullDecimal
}

// BelowTarget reports whether the current price is known and at or under the
// target price.
func (t TrackedProduct) BelowTarget() bool {
	if !t.CurrentPrice.Valid || !t.TargetPrice.Valid {
		return false
	}
	return t.CurrentPrice.Decimal.LessThanOrEqual(t.TargetPrice.Decimal)
}
