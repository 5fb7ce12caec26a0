package get_cart

import (
	"context"
	"errors"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// Request identifies the visitor's cart, from the cart cookie.
type Request struct {
	CartID string
}

// CartSource returns the cart as the visitor should see it, including
// actions that are still being applied.
type CartSource interface {
	Current(ctx context.Context, cartID string) (*domain.Cart, error)
}

// Query handles the get cart query use case.
type Query struct {
	source CartSource
}

// NewQuery creates a new get cart query.
func NewQuery(source CartSource) *Query {
	return &Query{
		source: source,
	}
}

// Execute returns the visitor's cart, or nil when there is none or it has
// expired on the platform.
func (q *Query) Execute(ctx context.Context, req *Request) (*domain.Cart, error) {
	if req.CartID == "" {
		return nil, nil
	}

	cart, err := q.source.Current(ctx, req.CartID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}
