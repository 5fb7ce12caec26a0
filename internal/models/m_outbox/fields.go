package m_outbox

// Field name constants for the analytics_outbox table.
const (
	TableName = "analytics_outbox"

	EventID     = "event_id"
	EventType   = "event_type"
	CartID      = "cart_id"
	Payload     = "payload"
	Status      = "status"
	CreatedAt   = "created_at"
	PublishedAt = "published_at"
	Attempts    = "attempts"
	LastError   = "last_error"
)

// Event status constants
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// Columns lists every column in the order scanned by Data.
func Columns() []string {
	return []string{
		EventID,
		EventType,
		CartID,
		Payload,
		Status,
		CreatedAt,
		PublishedAt,
		Attempts,
		LastError,
	}
}
