package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/pkg/committer"
)

// OutboxSink stores analytics events in the Spanner outbox. A relay later
// forwards pending rows to Kafka.
type OutboxSink struct {
	outboxRepo contracts.OutboxRepository
	committer  committer.Applier
}

// NewOutboxSink creates a new OutboxSink.
func NewOutboxSink(outboxRepo contracts.OutboxRepository, applier committer.Applier) contracts.EventSink {
	return &OutboxSink{outboxRepo: outboxRepo, committer: applier}
}

// Publish inserts all events in a single commit.
func (s *OutboxSink) Publish(ctx context.Context, events ...domain.DomainEvent) error {
	plan := committer.NewPlan()
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(s.outboxRepo.InsertMut(s.outboxRepo.EnrichEvent(event, string(payload))))
	}

	if err := s.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to store analytics events: %w", err)
	}
	return nil
}

// Close is a no-op; the Spanner client is owned by the service container.
func (s *OutboxSink) Close() error {
	return nil
}
