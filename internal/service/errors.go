package service

import "errors"

// Domain errors surfaced to the HTTP layer.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrMissingFields        = errors.New("name, email and password are required")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrInvalidTargetPrice   = errors.New("target price must be greater than zero")
	ErrPasswordTooLong      = errors.New("password must be at most 72 bytes")
	ErrViewRecordNotFound   = errors.New("view history record not found")
)
