package publish_cart_viewed

import (
	"context"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/pkg/clock"
)

// Request describes a cart view.
type Request struct {
	Cart *domain.Cart
	URL  string
}

// Interactor handles the publish cart viewed use case.
type Interactor struct {
	sink  contracts.EventSink
	clock clock.Clock
}

// NewInteractor creates a new publish cart viewed interactor.
func NewInteractor(sink contracts.EventSink, clock clock.Clock) *Interactor {
	return &Interactor{
		sink:  sink,
		clock: clock,
	}
}

// Execute publishes a cart_viewed event. Views of a missing cart are not
// recorded.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.Cart == nil || req.Cart.ID == "" {
		return nil
	}
	return i.sink.Publish(ctx, &domain.CartViewedEvent{
		CartID:        req.Cart.ID,
		TotalQuantity: req.Cart.Quantity(),
		URL:           req.URL,
		ViewedAt:      i.clock.Now(),
	})
}
