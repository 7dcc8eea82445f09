package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/guttosm/dealtracker/internal/logger"
	"github.com/guttosm/dealtracker/internal/storage"
	"github.com/shopspring/decimal"
)

// ViewHistoryLimit caps how many records List returns.
const ViewHistoryLimit = 100

// ViewHistoryService keeps the products a user recently looked at.
type ViewHistoryService interface {
	List(ctx context.Context, userID int64) ([]models.ViewedProduct, error)
	Record(ctx context.Context, userID, productID int64) (*models.ViewRecord, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context, userID int64) (int64, error)
}

type viewHistoryService struct {
	repo   storage.ViewHistoryRepository
	prices PriceReader
}

func NewViewHistoryService(repo storage.ViewHistoryRepository, prices PriceReader) ViewHistoryService {
	return &viewHistoryService{repo: repo, prices: prices}
}

// List returns the latest ViewHistoryLimit views, newest first, each with the
// product's lowest current price. A user without views gets an empty slice.
func (s *viewHistoryService) List(ctx context.Context, userID int64) ([]models.ViewedProduct, error) {
	recs, err := s.repo.List(ctx, userID, ViewHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list view history of user %d: %w", userID, err)
	}

	out := make([]models.ViewedProduct, 0, len(recs))
	for _, r := range recs {
		v := models.ViewedProduct{ViewRecord: r}
		if snap, ok := cheapest(s.prices.CurrentPrices(ctx, r.ProductID)); ok {
			v.CurrentPrice = decimal.NullDecimal{Decimal: snap.Price, Valid: true}
			v.Platform = snap.Platform
		}
		out = append(out, v)
	}
	return out, nil
}

// Record stores a view of productID by userID. Products are not checked
// against any catalog; an unknown user yields ErrUserNotFound.
func (s *viewHistoryService) Record(ctx context.Context, userID, productID int64) (*models.ViewRecord, error) {
	v, err := s.repo.Add(ctx, userID, productID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record view: %w", err)
	}
	return v, nil
}

func (s *viewHistoryService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrViewRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("delete view record %d: %w", id, err)
	}
	return nil
}

// Clear deletes every view of the user. Clearing an empty history is not an error.
func (s *viewHistoryService) Clear(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.Clear(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear view history of user %d: %w", userID, err)
	}
	logger.Ctx(ctx).Info().Int64("uid", userID).Int64("deleted", n).Msg("view history cleared")
	return n, nil
}
