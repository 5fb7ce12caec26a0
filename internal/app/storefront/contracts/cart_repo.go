package contracts

import (
	"context"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// UserError is a validation error reported by a cart mutation.
type UserError struct {
	Code    string   `json:"code,omitempty"`
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

// Warning is a non-blocking notice reported by a cart mutation.
type Warning struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Target  string `json:"target,omitempty"`
}

// CartResult is the outcome of a cart mutation.
// Cart is the platform's cart after the mutation; it is unchanged when
// UserErrors is not empty.
type CartResult struct {
	Cart       *domain.Cart
	UserErrors []UserError
	Warnings   []Warning
}

// CartRepository defines the cart operations delegated to the platform.
// Mutations are never retried.
type CartRepository interface {
	// Get returns the cart by id. Returns domain.ErrCartNotFound for unknown or expired carts.
	Get(ctx context.Context, cartID string) (*domain.Cart, error)

	Create(ctx context.Context, lines []domain.LineInput, countryCode string) (*CartResult, error)
	AddLines(ctx context.Context, cartID string, lines []domain.LineInput) (*CartResult, error)
	UpdateLines(ctx context.Context, cartID string, lines []domain.LineUpdateInput) (*CartResult, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*CartResult, error)
	UpdateDiscountCodes(ctx context.Context, cartID string, codes []string) (*CartResult, error)
	UpdateGiftCardCodes(ctx context.Context, cartID string, codes []string) (*CartResult, error)
	RemoveGiftCardCodes(ctx context.Context, cartID string, giftCardIDs []string) (*CartResult, error)
	UpdateBuyerIdentity(ctx context.Context, cartID string, countryCode string) (*CartResult, error)
}
