package list_events

import (
	"context"

	"github.com/light-bringer/feliz-storefront/internal/models/m_outbox"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Request contains filtering parameters for listing analytics events.
type Request struct {
	EventType *string // e.g. "product_added_to_cart"
	CartID    *string
	Status    *string // "pending", "published" or "failed"
	Limit     int
}

// EventsReadModel defines the interface for reading outbox events.
type EventsReadModel interface {
	ListEvents(ctx context.Context, req *Request) ([]*m_outbox.Data, int64, error)
}

// Query handles the list events query use case.
type Query struct {
	readModel EventsReadModel
}

// NewQuery creates a new list events query.
func NewQuery(readModel EventsReadModel) *Query {
	return &Query{readModel: readModel}
}

// Execute lists events newest first along with the total matching count.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*m_outbox.Data, int64, error) {
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}

	return q.readModel.ListEvents(ctx, req)
}
