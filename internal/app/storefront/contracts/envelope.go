package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/models/m_outbox"
)

// Envelope is the record published for every analytics event, whatever the sink.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	CartID     string          `json:"cart_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a domain event with a fresh id.
func NewEnvelope(event domain.DomainEvent, now time.Time) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", event.EventType(), err)
	}
	return &Envelope{
		EventID:    uuid.New().String(),
		EventType:  event.EventType(),
		CartID:     event.AggregateID(),
		OccurredAt: now,
		Payload:    payload,
	}, nil
}

// EnvelopePublisher delivers envelopes that were stored before publishing.
type EnvelopePublisher interface {
	PublishEnvelopes(ctx context.Context, envs ...*Envelope) error
}

// EnvelopeFromOutbox rebuilds the envelope of a stored outbox row.
func EnvelopeFromOutbox(data *m_outbox.Data) (*Envelope, error) {
	env := &Envelope{
		EventID:    data.EventID,
		EventType:  data.EventType,
		CartID:     data.CartID.StringVal,
		OccurredAt: data.CreatedAt,
		Payload:    json.RawMessage("null"),
	}
	if data.Payload.Valid {
		raw, err := json.Marshal(data.Payload.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload of %s: %w", data.EventID, err)
		}
		env.Payload = raw
	}
	return env, nil
}
