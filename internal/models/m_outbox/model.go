package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the analytics_outbox table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a pending event.
// created_at is filled with the commit timestamp.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns(),
		[]interface{}{
			data.EventID,
			data.EventType,
			data.CartID,
			data.Payload,
			data.Status,
			spanner.CommitTimestamp,
			data.PublishedAt,
			data.Attempts,
			data.LastError,
		},
	)
}

// MarkPublishedMut flags an event as delivered to the broker.
func (m *Model) MarkPublishedMut(eventID string, at time.Time) *spanner.Mutation {
	return spanner.Update(TableName,
		[]string{EventID, Status, PublishedAt},
		[]interface{}{eventID, StatusPublished, at},
	)
}

// MarkAttemptMut records a failed delivery. Events reaching maxAttempts
// are flagged failed and no longer picked up.
func (m *Model) MarkAttemptMut(eventID string, attempts int64, maxAttempts int64, lastError string) *spanner.Mutation {
	status := StatusPending
	if attempts >= maxAttempts {
		status = StatusFailed
	}
	return spanner.Update(TableName,
		[]string{EventID, Status, Attempts, LastError},
		[]interface{}{eventID, status, attempts, spanner.NullString{StringVal: lastError, Valid: lastError != ""}},
	)
}
