package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceObservation represents a single row of the prices table: one price
// recorded for a product on a platform at a point in time.
//
// Rows are immutable once written. Price is kept as a fixed-point decimal
// all the way from the store to the response projection.
type PriceObservation struct {
	ID             int64
	ProductID      int64
	Platform       string
	PlatformItemID string
	Price          decimal.Decimal
	FreeShipping   bool
	InStock        bool
	ObservedAt     time.Time
	Link           *string
	SourceFile     string
}

// PriceSnapshot is the most recent observation for a given platform.
type PriceSnapshot = PriceObservation

// DailyPrice is one daily bucket: the calendar day (date portion of
// observed_at, no timezone conversion) and the minimum price seen that day.
type DailyPrice struct {
	Day      time.Time
	MinPrice decimal.Decimal
}
