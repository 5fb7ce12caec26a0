package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/feliz-storefront/internal/models/m_outbox"
)

// OutboxRow describes an outbox event written directly by a test.
type OutboxRow struct {
	EventType   string
	CartID      string
	Status      string
	CreatedAt   time.Time
	PublishedAt time.Time
	Attempts    int64
}

// CreateOutboxEvent inserts an event with explicit timestamps and returns its id.
func CreateOutboxEvent(t *testing.T, client *spanner.Client, row OutboxRow) string {
	t.Helper()

	if row.EventType == "" {
		row.EventType = "cart_viewed"
	}
	if row.Status == "" {
		row.Status = m_outbox.StatusPending
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	eventID := uuid.New().String()
	publishedAt := spanner.NullTime{Time: row.PublishedAt, Valid: !row.PublishedAt.IsZero()}
	payload := spanner.NullJSON{Value: map[string]any{"cart_id": row.CartID}, Valid: true}

	_, err := client.Apply(context.Background(), []*spanner.Mutation{
		spanner.Insert(m_outbox.TableName, m_outbox.Columns(), []interface{}{
			eventID,
			row.EventType,
			spanner.NullString{StringVal: row.CartID, Valid: row.CartID != ""},
			payload,
			row.Status,
			row.CreatedAt,
			publishedAt,
			row.Attempts,
			spanner.NullString{},
		}),
	})
	require.NoError(t, err, "failed to create outbox event")
	return eventID
}

// GetOutboxEvent reads one outbox row by id.
func GetOutboxEvent(t *testing.T, client *spanner.Client, eventID string) *m_outbox.Data {
	t.Helper()

	row, err := client.Single().ReadRow(context.Background(), m_outbox.TableName, spanner.Key{eventID}, m_outbox.Columns())
	require.NoError(t, err, "failed to read outbox event")

	var data m_outbox.Data
	require.NoError(t, row.ToStruct(&data))
	return &data
}
