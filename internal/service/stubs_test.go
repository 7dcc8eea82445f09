package service

import (
	"context"

	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/guttosm/dealtracker/internal/storage"
	"github.com/shopspring/decimal"
)

type stubPrices struct {
	storage.PricesRepository

	latest    []models.PriceSnapshot
	daily     []models.DailyPrice
	err       error
	gotDays   int
	gotExcl   []string
	latestFor map[int64][]models.PriceSnapshot
}

func (s *stubPrices) LatestPerPlatform(_ context.Context, productID int64) ([]models.PriceSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.latestFor != nil {
		return s.latestFor[productID], nil
	}
	return s.latest, nil
}

func (s *stubPrices) DailyMinimums(_ context.Context, _ int64, days int, excluded []string) ([]models.DailyPrice, error) {
	s.gotDays = days
	s.gotExcl = excluded
	if s.err != nil {
		return nil, s.err
	}
	return s.daily, nil
}

type stubUsers struct {
	byID    map[int64]*models.User
	byEmail map[string]*models.User
	nextID  int64
	err     error
	lastUpd models.UserUpdate
}

func newStubUsers() *stubUsers {
	return &stubUsers{byID: map[int64]*models.User{}, byEmail: map[string]*models.User{}, nextID: 1}
}

func (s *stubUsers) Create(_ context.Context, u *models.User) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return 0, storage.ErrConflict
	}
	u.ID = s.nextID
	s.nextID++
	cp := *u
	s.byID[u.ID] = &cp
	s.byEmail[u.Email] = &cp
	return u.ID, nil
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) Update(_ context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	s.lastUpd = upd
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Email != nil {
		if other, taken := s.byEmail[*upd.Email]; taken && other.ID != id {
			return nil, storage.ErrConflict
		}
		delete(s.byEmail, u.Email)
		u.Email = *upd.Email
		s.byEmail[u.Email] = u
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Gender != nil {
		u.Gender = upd.Gender
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	return u, nil
}

func (s *stubUsers) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	return nil
}

type stubWishlist struct {
	items     []models.WishlistItem
	err       error
	gotTarget decimal.NullDecimal
	removeErr error
}

func (s *stubWishlist) List(_ context.Context, userID int64) ([]models.WishlistItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.WishlistItem
	for _, it := range s.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubWishlist) Upsert(_ context.Context, _, _ int64, target decimal.NullDecimal) error {
	s.gotTarget = target
	return s.err
}

func (s *stubWishlist) Remove(_ context.Context, _, _ int64) error {
	return s.removeErr
}

type stubViews struct {
	recs     []models.ViewRecord
	err      error
	gotLimit uint64
	nextID   int64
	cleared  int64
}

func (s *stubViews) List(_ context.Context, userID int64, limit uint64) ([]models.ViewRecord, error) {
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	var out []models.ViewRecord
	for _, r := range s.recs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubViews) Add(_ context.Context, userID, productID int64) (*models.ViewRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.nextID++
	r := models.ViewRecord{ID: s.nextID, UserID: userID, ProductID: productID}
	s.recs = append([]models.ViewRecord{r}, s.recs...)
	return &r, nil
}

func (s *stubViews) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	for i, r := range s.recs {
		if r.ID == id {
			s.recs = append(s.recs[:i], s.recs[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *stubViews) Clear(_ context.Context, userID int64) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	kept := s.recs[:0]
	var n int64
	for _, r := range s.recs {
		if r.UserID == userID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.recs = kept
	s.cleared = n
	return n, nil
}
