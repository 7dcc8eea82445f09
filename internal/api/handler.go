package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dealtracker/internal/middleware"
	"github.com/guttosm/dealtracker/internal/service"
)

// Handler provides the HTTP handlers of the price, user, wishlist and view
// history endpoints.
//
// Responsibilities:
//   - Validate path, query and body parameters
//   - Delegate to the service layer with the request context
//   - Translate results into response DTOs
//   - Map domain errors to HTTP status codes
type Handler struct {
	prices   service.PricingService
	users    service.UserService
	wishlist service.WishlistService
	views    service.ViewHistoryService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - prices (service.PricingService): Current price and daily history lookups.
//   - users (service.UserService): Account management.
//   - wishlist (service.WishlistService): Tracked products and alerts.
//   - views (service.ViewHistoryService): Per-user view history.
//
// Any service may be nil when the routes depending on it are never hit.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(prices service.PricingService, users service.UserService, wishlist service.WishlistService, views service.ViewHistoryService) *Handler {
	return &Handler{prices: prices, users: users, wishlist: wishlist, views: views}
}

var (
	errNotDigits     = errors.New("must contain only decimal digits")
	errNonPositiveID = errors.New("must be positive")
)

// parseID accepts a base-10, non-negative 64-bit integer written with digits
// only: no sign, no surrounding spaces.
func parseID(raw string) (int64, error) {
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		return 0, errNotDigits
	}
	return strconv.ParseInt(raw, 10, 64)
}

// parseSerialID is parseID restricted to ids a BIGSERIAL can produce, such as
// user and view record ids.
func parseSerialID(raw string) (int64, error) {
	id, err := parseID(raw)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errNonPositiveID
	}
	return id, nil
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrWishlistItemNotFound),
		errors.Is(err, service.ErrViewRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrNoFieldsToUpdate),
		errors.Is(err, service.ErrInvalidTargetPrice),
		errors.Is(err, service.ErrPasswordTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// abortWithServiceError renders err with its mapped status. Unexpected errors
// get the fallback message; domain errors speak for themselves.
func abortWithServiceError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		middleware.AbortWithError(c, status, fallback, err)
		return
	}
	middleware.AbortWithError(c, status, err.Error(), nil)
}
