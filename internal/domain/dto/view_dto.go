package dto

import (
	"time"

	"github.com/guttosm/dealtracker/internal/domain/models"
)

// ViewRecordRequest is the body of POST /view-history.
type ViewRecordRequest struct {
	UID int64  `json:"uid" binding:"required,min=1" example:"4"`
	PID *int64 `json:"pid" binding:"required,min=0" example:"42"`
}

// ViewRecordResponse acknowledges a recorded view with its id.
type ViewRecordResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"View history recorded"`
	HID     int64  `json:"hid" example:"11"`
}

// ViewedProductResponse is one entry of a user's view history.
type ViewedProductResponse struct {
	HID          int64     `json:"hid" example:"11"`
	UID          int64     `json:"uid" example:"4"`
	PID          int64     `json:"pid" example:"42"`
	CurrentPrice *float64  `json:"current_price" example:"17.99"`
	Platform     *string   `json:"platform" example:"Walmart"`
	ViewedAt     time.Time `json:"viewed_at" example:"2025-09-01T12:00:00Z"`
}

// NewViewedProductResponses projects view records to JSON. Never returns nil.
func NewViewedProductResponses(in []models.ViewedProduct) []ViewedProductResponse {
	out := make([]ViewedProductResponse, 0, len(in))
	for _, v := range in {
		item := ViewedProductResponse{HID: v.ID, UID: v.UserID, PID: v.ProductID, ViewedAt: v.ViewedAt}
		if v.CurrentPrice.Valid {
			p := v.CurrentPrice.Decimal.InexactFloat64()
			item.CurrentPrice = &p
			platform := v.Platform
			item.Platform = &platform
		}
		out = append(out, item)
	}
	return out
}
