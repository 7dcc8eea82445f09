package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/guttosm/dealtracker/internal/storage"
	"github.com/shopspring/decimal"
)

// WishlistService tracks products per user and flags the ones at or below target.
type WishlistService interface {
	List(ctx context.Context, userID int64) ([]models.TrackedProduct, error)
	Upsert(ctx context.Context, userID, productID int64, target *decimal.Decimal) error
	Remove(ctx context.Context, userID, productID int64) error
	Alerts(ctx context.Context, userID int64) ([]models.TrackedProduct, error)
}

type wishlistService struct {
	repo   storage.WishlistRepository
	prices PriceReader
}

func NewWishlistService(repo storage.WishlistRepository, prices PriceReader) WishlistService {
	return &wishlistService{repo: repo, prices: prices}
}

// List attaches the current lowest price across platforms to every item.
// Products without observations keep an unset CurrentPrice.
func (s *wishlistService) List(ctx context.Context, userID int64) ([]models.TrackedProduct, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist of user %d: %w", userID, err)
	}

	out := make([]models.TrackedProduct, 0, len(items))
	for _, it := range items {
		out = append(out, models.TrackedProduct{
			WishlistItem: it,
			CurrentPrice: s.lowestPrice(ctx, it.ProductID),
		})
	}
	return out, nil
}

func (s *wishlistService) lowestPrice(ctx context.Context, productID int64) decimal.NullDecimal {
	snap, ok := cheapest(s.prices.CurrentPrices(ctx, productID))
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: snap.Price, Valid: true}
}

// cheapest picks the lowest-priced snapshot; ok is false for an empty slice.
func cheapest(snaps []models.PriceSnapshot) (low models.PriceSnapshot, ok bool) {
	for _, snap := range snaps {
		if !ok || snap.Price.LessThan(low.Price) {
			low, ok = snap, true
		}
	}
	return low, ok
}

// Upsert adds the product or replaces its target. A nil target clears it.
func (s *wishlistService) Upsert(ctx context.Context, userID, productID int64, target *decimal.Decimal) error {
	var t decimal.NullDecimal
	if target != nil {
		// Stored with two decimals; a value that rounds to zero is not a target.
		r := target.Round(2)
		if !r.IsPositive() {
			return ErrInvalidTargetPrice
		}
		t = decimal.NullDecimal{Decimal: r, Valid: true}
	}

	err := s.repo.Upsert(ctx, userID, productID, t)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, storage.ErrInvalidValue):
		return ErrInvalidTargetPrice
	case err != nil:
		return fmt.Errorf("upsert wishlist item: %w", err)
	}
	return nil
}

func (s *wishlistService) Remove(ctx context.Context, userID, productID int64) error {
	err := s.repo.Remove(ctx, userID, productID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrWishlistItemNotFound
	}
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	return nil
}

// Alerts returns the items whose current price is at or below their target.
func (s *wishlistService) Alerts(ctx context.Context, userID int64) ([]models.TrackedProduct, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.TrackedProduct, 0, len(items))
	for _, it := range items {
		if it.BelowTarget() {
			out = append(out, it)
		}
	}
	return out, nil
}
