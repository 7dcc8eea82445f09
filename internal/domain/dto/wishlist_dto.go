package dto

import (
	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/shopspring/decimal"
)

// WishlistUpsertRequest is the body of POST /wishlist. Product ids follow
// the price routes, so 0 is a valid pid.
type WishlistUpsertRequest struct {
	UID         int64            `json:"uid" binding:"required,min=1" example:"4"`
	PID         *int64           `json:"pid" binding:"required,min=0" example:"42"`
	TargetPrice *decimal.Decimal `json:"target_price" swaggertype:"number" example:"18.5"`
}

// WishlistRemoveRequest is the body of DELETE /wishlist.
type WishlistRemoveRequest struct {
	UID int64  `json:"uid" binding:"required,min=1" example:"4"`
	PID *int64 `json:"pid" binding:"required,min=0" example:"42"`
}

// WishlistItemResponse is one tracked product.
type WishlistItemResponse struct {
	UID          int64    `json:"uid" example:"4"`
	PID          int64    `json:"pid" example:"42"`
	TargetPrice  *float64 `json:"target_price" example:"18.5"`
	CurrentPrice *float64 `json:"current_price" example:"17.99"`
}

// NewWishlistItemResponses projects tracked products to JSON, converting
// decimals at the boundary. Never returns nil.
func NewWishlistItemResponses(in []models.TrackedProduct) []WishlistItemResponse {
	out := make([]WishlistItemResponse, 0, len(in))
	for _, t := range in {
		item := WishlistItemResponse{UID: t.UserID, PID: t.ProductID}
		if t.TargetPrice.Valid {
			v := t.TargetPrice.Decimal.InexactFloat64()
			item.TargetPrice = &v
		}
		if t.CurrentPrice.Valid {
			v := t.CurrentPrice.Decimal.InexactFloat64()
			item.CurrentPrice = &v
		}
		out = append(out, item)
	}
	return out
}
