package dto

import (
	"github.com/guttosm/dealtracker/internal/domain/models"
)

// ObservedAtLayout renders the zone-less observed_at column.
const ObservedAtLayout = "2006-01-02 15:04:05"

// HistoryDateLayout is the short MM/DD label used by the history endpoint.
const HistoryDateLayout = "01/02"

// PriceSnapshotResponse is one element of the GET /price/{productId} array.
//
// Price is converted to float64 here and nowhere earlier. FreeShipping and
// InStock are rendered as 0/1 integers, matching the mobile client.
type PriceSnapshotResponse struct {
	ID             int64   `json:"id" example:"1012"`
	ProductID      int64   `json:"pid" example:"42"`
	Platform       string  `json:"platform" example:"Amazon"`
	PlatformItemID string  `json:"platform_item_id" example:"B0CHX1W1XY"`
	Price          float64 `json:"price" example:"19.99"`
	FreeShipping   int     `json:"free_shipping" example:"1"`
	InStock        int     `json:"in_stock" example:"1"`
	Date           string  `json:"date" example:"2025-09-01 03:00:00"`
	Link           *string `json:"link"`
}

// HistoryPointResponse is one element of the GET /history/{productId} array.
type HistoryPointResponse struct {
	Date  string  `json:"date" example:"09/01"`
	Price float64 `json:"price" example:"9.5"`
}

// NewPriceSnapshotResponses projects snapshots to their JSON shape. The
// result is never nil so an empty input encodes as [].
func NewPriceSnapshotResponses(in []models.PriceSnapshot) []PriceSnapshotResponse {
	out := make([]PriceSnapshotResponse, 0, len(in))
	for _, s := range in {
		out = append(out, PriceSnapshotResponse{
			ID:             s.ID,
			ProductID:      s.ProductID,
			Platform:       s.Platform,
			PlatformItemID: s.PlatformItemID,
			Price:          s.Price.InexactFloat64(),
			FreeShipping:   boolToInt(s.FreeShipping),
			InStock:        boolToInt(s.InStock),
			Date:           s.ObservedAt.Format(ObservedAtLayout),
			Link:           s.Link,
		})
	}
	return out
}

// NewHistoryPointResponses projects daily buckets to their JSON shape.
func NewHistoryPointResponses(in []models.DailyPrice) []HistoryPointResponse {
	out := make([]HistoryPointResponse, 0, len(in))
	for _, d := range in {
		out = append(out, HistoryPointResponse{
			Date:  d.Day.Format(HistoryDateLayout),
			Price: d.MinPrice.InexactFloat64(),
		})
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
