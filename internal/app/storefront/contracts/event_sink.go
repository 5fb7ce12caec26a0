package contracts

import (
	"context"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
)

// EventSink receives analytics events. Publishing is best effort: callers log
// failures and never fail a page or a cart action because of them.
type EventSink interface {
	Publish(ctx context.Context, events ...domain.DomainEvent) error
	Close() error
}
