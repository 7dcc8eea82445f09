package api

import (
	"context"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/guttosm/dealtracker/internal/middleware"
	"github.com/guttosm/dealtracker/internal/service"
	"github.com/shopspring/decimal"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	// Every test request comes from the same httptest address.
	middleware.SetRateLimit(1 << 20)
	os.Exit(m.Run())
}

type mockPricing struct {
	snaps   []models.PriceSnapshot
	points  []models.DailyPrice
	gotID   int64
	gotDays int
}

func (m *mockPricing) CurrentPrices(_ context.Context, productID int64) []models.PriceSnapshot {
	m.gotID = productID
	return m.snaps
}

func (m *mockPricing) History(_ context.Context, productID int64, days int) []models.DailyPrice {
	m.gotID = productID
	m.gotDays = days
	return m.points
}

var _ service.PricingService = (*mockPricing)(nil)

type mockUsers struct {
	user    *models.User
	uid     int64
	err     error
	gotIn   service.RegisterInput
	gotChg  service.UserChanges
	gotID   int64
	gotPass string
}

func (m *mockUsers) Register(_ context.Context, in service.RegisterInput) (int64, error) {
	m.gotIn = in
	return m.uid, m.err
}

func (m *mockUsers) Login(_ context.Context, _ string, password string) (*models.User, error) {
	m.gotPass = password
	return m.user, m.err
}

func (m *mockUsers) Get(_ context.Context, id int64) (*models.User, error) {
	m.gotID = id
	return m.user, m.err
}

func (m *mockUsers) Update(_ context.Context, id int64, chg service.UserChanges) (*models.User, error) {
	m.gotID = id
	m.gotChg = chg
	return m.user, m.err
}

func (m *mockUsers) Delete(_ context.Context, id int64) error {
	m.gotID = id
	return m.err
}

var _ service.UserService = (*mockUsers)(nil)

type mockWishlist struct {
	items     []models.TrackedProduct
	err       error
	gotUID    int64
	gotPID    int64
	gotTarget *decimal.Decimal
}

func (m *mockWishlist) List(_ context.Context, uid int64) ([]models.TrackedProduct, error) {
	m.gotUID = uid
	return m.items, m.err
}

func (m *mockWishlist) Upsert(_ context.Context, uid, pid int64, target *decimal.Decimal) error {
	m.gotUID, m.gotPID, m.gotTarget = uid, pid, target
	return m.err
}

func (m *mockWishlist) Remove(_ context.Context, uid, pid int64) error {
	m.gotUID, m.gotPID = uid, pid
	return m.err
}

func (m *mockWishlist) Alerts(_ context.Context, uid int64) ([]models.TrackedProduct, error) {
	m.gotUID = uid
	return m.items, m.err
}

var _ service.WishlistService = (*mockWishlist)(nil)

type mockViews struct {
	views   []models.ViewedProduct
	rec     *models.ViewRecord
	cleared int64
	err     error
	gotUID  int64
	gotPID  int64
	gotHID  int64
}

func (m *mockViews) List(_ context.Context, uid int64) ([]models.ViewedProduct, error) {
	m.gotUID = uid
	return m.views, m.err
}

func (m *mockViews) Record(_ context.Context, uid, pid int64) (*models.ViewRecord, error) {
	m.gotUID, m.gotPID = uid, pid
	return m.rec, m.err
}

func (m *mockViews) Delete(_ context.Context, hid int64) error {
	m.gotHID = hid
	return m.err
}

func (m *mockViews) Clear(_ context.Context, uid int64) (int64, error) {
	m.gotUID = uid
	return m.cleared, m.err
}

var _ service.ViewHistoryService = (*mockViews)(nil)
