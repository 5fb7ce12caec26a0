package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_events"
	"github.com/light-bringer/feliz-storefront/internal/models/m_outbox"
	"github.com/light-bringer/feliz-storefront/internal/pkg/query"
)

// EventsReadModel reads and prunes the analytics outbox in Spanner.
type EventsReadModel struct {
	client *spanner.Client
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(client *spanner.Client) *EventsReadModel {
	return &EventsReadModel{client: client}
}

// ListEvents retrieves events newest first, plus the number of events
// matching the filters.
func (r *EventsReadModel) ListEvents(ctx context.Context, req *list_events.Request) ([]*m_outbox.Data, int64, error) {
	base := eventsFilter(req)

	events, err := r.scan(ctx, base.
		Select(m_outbox.Columns()...).
		OrderBy(m_outbox.CreatedAt, query.Desc).
		Limit(int64(req.Limit)).
		Build())
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, base.Count().Build())
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListPending returns the oldest pending events, up to limit.
func (r *EventsReadModel) ListPending(ctx context.Context, limit int64) ([]*m_outbox.Data, error) {
	return r.scan(ctx, query.From(m_outbox.TableName).
		Select(m_outbox.Columns()...).
		Where(query.Eq(m_outbox.Status, m_outbox.StatusPending)).
		OrderBy(m_outbox.CreatedAt, query.Asc).
		Limit(limit).
		Build())
}

// CountExpired counts published events older than publishedCutoff and
// failed events older than failedCutoff.
func (r *EventsReadModel) CountExpired(ctx context.Context, publishedCutoff, failedCutoff time.Time) (int64, error) {
	return r.count(ctx, expiredFilter(publishedCutoff, failedCutoff).Count().Build())
}

// DeleteExpired removes the events CountExpired counts and returns how many
// rows were deleted.
func (r *EventsReadModel) DeleteExpired(ctx context.Context, publishedCutoff, failedCutoff time.Time) (int64, error) {
	stmt := expiredFilter(publishedCutoff, failedCutoff).BuildDelete()

	var deleted int64
	_, err := r.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		n, err := txn.Update(ctx, stmt)
		if err != nil {
			return fmt.Errorf("failed to delete events: %w", err)
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cleanup transaction failed: %w", err)
	}
	return deleted, nil
}

func eventsFilter(req *list_events.Request) *query.Builder {
	b := query.From(m_outbox.TableName)
	if req.EventType != nil {
		b = b.Where(query.Eq(m_outbox.EventType, *req.EventType))
	}
	if req.CartID != nil {
		b = b.Where(query.Eq(m_outbox.CartID, *req.CartID))
	}
	if req.Status != nil {
		b = b.Where(query.Eq(m_outbox.Status, *req.Status))
	}
	return b
}

func expiredFilter(publishedCutoff, failedCutoff time.Time) *query.Builder {
	return query.From(m_outbox.TableName).Where(query.Or(
		query.And(query.Eq(m_outbox.Status, m_outbox.StatusPublished), query.Lt(m_outbox.PublishedAt, publishedCutoff)),
		query.And(query.Eq(m_outbox.Status, m_outbox.StatusFailed), query.Lt(m_outbox.CreatedAt, failedCutoff)),
	))
}

func (r *EventsReadModel) scan(ctx context.Context, stmt spanner.Statement) ([]*m_outbox.Data, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var events []*m_outbox.Data
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate events: %w", err)
		}

		var event m_outbox.Data
		if err := row.ToStruct(&event); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
	}
	return events, nil
}

func (r *EventsReadModel) count(ctx context.Context, stmt spanner.Statement) (int64, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	var n int64
	if err := row.Columns(&n); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}
	return n, nil
}
