package relay_outbox

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/models/m_outbox"
	"github.com/light-bringer/feliz-storefront/internal/pkg/clock"
	"github.com/light-bringer/feliz-storefront/internal/pkg/committer"
)

const (
	defaultBatchSize   = 100
	defaultMaxAttempts = 5
)

// Request controls one relay pass.
type Request struct {
	BatchSize   int64
	MaxAttempts int64
}

// Result counts the events handled in a pass.
type Result struct {
	Published int
	Retried   int
	Failed    int
}

// PendingReader lists outbox events awaiting delivery.
type PendingReader interface {
	ListPending(ctx context.Context, limit int64) ([]*m_outbox.Data, error)
}

// Interactor forwards pending outbox events to the broker and records the
// outcome on each row.
type Interactor struct {
	reader    PendingReader
	publisher contracts.EnvelopePublisher
	committer committer.Applier
	model     *m_outbox.Model
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new relay outbox interactor.
func NewInteractor(
	reader PendingReader,
	publisher contracts.EnvelopePublisher,
	applier committer.Applier,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		reader:    reader,
		publisher: publisher,
		committer: applier,
		model:     m_outbox.NewModel(),
		clock:     clock,
		logger:    logger,
	}
}

// Execute relays one batch. The batch is published as a whole; when the
// broker rejects it every row gets an attempt recorded, and rows reaching
// MaxAttempts are marked failed.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Result, error) {
	batch, maxAttempts := req.BatchSize, req.MaxAttempts
	if batch <= 0 {
		batch = defaultBatchSize
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	pending, err := i.reader.ListPending(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending events: %w", err)
	}
	result := &Result{}
	if len(pending) == 0 {
		return result, nil
	}

	plan := committer.NewPlan()
	envs := make([]*contracts.Envelope, 0, len(pending))
	rows := make([]*m_outbox.Data, 0, len(pending))
	for _, row := range pending {
		env, err := contracts.EnvelopeFromOutbox(row)
		if err != nil {
			// A row that cannot be encoded will never succeed.
			plan.Add(i.model.MarkAttemptMut(row.EventID, maxAttempts, maxAttempts, err.Error()))
			result.Failed++
			continue
		}
		envs = append(envs, env)
		rows = append(rows, row)
	}

	if pubErr := i.publisher.PublishEnvelopes(ctx, envs...); pubErr != nil {
		i.logger.Warn("Failed to relay outbox batch", zap.Int("events", len(envs)), zap.Error(pubErr))
		for _, row := range rows {
			attempts := row.Attempts + 1
			plan.Add(i.model.MarkAttemptMut(row.EventID, attempts, maxAttempts, pubErr.Error()))
			if attempts >= maxAttempts {
				result.Failed++
			} else {
				result.Retried++
			}
		}
	} else {
		now := i.clock.Now()
		for _, row := range rows {
			plan.Add(i.model.MarkPublishedMut(row.EventID, now))
		}
		result.Published = len(rows)
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to record relay outcome: %w", err)
	}
	return result, nil
}
