package repo

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/pkg/clock"
)

// LogSink writes analytics events to the application log.
type LogSink struct {
	logger *zap.Logger
	clock  clock.Clock
}

// NewLogSink creates a new LogSink.
func NewLogSink(logger *zap.Logger, clk clock.Clock) contracts.EventSink {
	return &LogSink{logger: logger.Named("analytics"), clock: clk}
}

// Publish logs one entry per event.
func (s *LogSink) Publish(_ context.Context, events ...domain.DomainEvent) error {
	now := s.clock.Now()
	for _, event := range events {
		env, err := contracts.NewEnvelope(event, now)
		if err != nil {
			return err
		}
		s.logger.Info("Analytics event",
			zap.String("event_id", env.EventID),
			zap.String("event_type", env.EventType),
			zap.String("cart_id", env.CartID),
			zap.Time("occurred_at", env.OccurredAt),
			zap.ByteString("payload", env.Payload),
		)
	}
	return nil
}

// Close is a no-op.
func (s *LogSink) Close() error {
	return nil
}
