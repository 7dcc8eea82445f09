package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ViewRecord is one product page view by a user.
type ViewRecord struct {
	ID        int64
	UserID    int64
	ProductID int64
	ViewedAt  time.Time
}

// ViewedProduct is a view record with the product's lowest current price and
// the platform offering it. Both are unset when the product has no
// observations.
type ViewedProduct struct {
	ViewRecord
	CurrentPrice decimal.NullDecimal
	Platform     string
}
