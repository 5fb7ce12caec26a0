package domain

import "errors"

// Domain errors as sentinel values
var (
	// Catalog errors
	ErrProductNotFound    = errors.New("product not found")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrInvalidHandle      = errors.New("handle cannot be empty")

	// Cart errors
	ErrCartNotFound        = errors.New("cart not found")
	ErrUnknownCartAction   = errors.New("unknown cart action")
	ErrMissingMerchandise  = errors.New("cart line requires a merchandise id")
	ErrMissingLineID       = errors.New("cart line id cannot be empty")
	ErrInvalidQuantity     = errors.New("cart line quantity cannot be negative")
	ErrEmptyCartAction     = errors.New("cart action has no inputs")
	ErrMissingGiftCardCode = errors.New("gift card id cannot be empty")

	// Value errors
	ErrInvalidAmount    = errors.New("invalid money amount")
	ErrInvalidMenuURL   = errors.New("menu item url cannot be parsed")
	ErrInvalidPageSize  = errors.New("page size must be positive")
	ErrConflictingPager = errors.New("first and last cannot both be set")
)
