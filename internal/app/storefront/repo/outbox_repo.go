package repo

import (
	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/models/m_outbox"
)

// OutboxRepo implements OutboxRepository for Spanner.
type OutboxRepo struct {
	model *m_outbox.Model
}

// NewOutboxRepo creates a new OutboxRepo.
func NewOutboxRepo() contracts.OutboxRepository {
	return &OutboxRepo{model: m_outbox.NewModel()}
}

// InsertMut creates a mutation for inserting a pending analytics event.
func (r *OutboxRepo) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	var payload spanner.NullJSON
	if event.Payload != "" {
		// JSON columns take a decoded value; the payload is already JSON text.
		payload = spanner.NullJSON{Value: rawJSON(event.Payload), Valid: true}
	}

	return r.model.InsertMut(&m_outbox.Data{
		EventID:   event.EventID,
		EventType: event.EventType,
		CartID:    spanner.NullString{StringVal: event.AggregateID, Valid: event.AggregateID != ""},
		Payload:   payload,
		Status:    event.Status,
	})
}

// EnrichEvent converts a domain event to an outbox event with metadata.
func (r *OutboxRepo) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      m_outbox.StatusPending,
	}
}

// rawJSON lets a JSON string be stored as-is in a JSON column.
type rawJSON string

func (r rawJSON) MarshalJSON() ([]byte, error) {
	return []byte(r), nil
}
