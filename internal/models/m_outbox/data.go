package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the analytics_outbox table.
type Data struct {
	EventID     string             `spanner:"event_id"`
	EventType   string             `spanner:"event_type"`
	CartID      spanner.NullString `spanner:"cart_id"`
	Payload     spanner.NullJSON   `spanner:"payload"`
	Status      string             `spanner:"status"`
	CreatedAt   time.Time          `spanner:"created_at"`
	PublishedAt spanner.NullTime   `spanner:"published_at"`
	Attempts    int64              `spanner:"attempts"`
	LastError   spanner.NullString `spanner:"last_error"`
}
