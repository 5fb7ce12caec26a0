package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/contracts"
	"github.com/light-bringer/feliz-storefront/internal/app/storefront/domain"
	"github.com/light-bringer/feliz-storefront/internal/pkg/clock"
)

// ErrSinkClosed is returned when publishing to a closed sink.
var ErrSinkClosed = errors.New("event sink is closed")

// MessageWriter is the part of *kafka.Writer the sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter creates a synchronous writer for the analytics topic.
func NewKafkaWriter(brokers []string, topic string, logger *zap.Logger) *kafka.Writer {
	errLogger := logger.Named("kafka").Sugar()
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		MaxAttempts:  5,
		BatchTimeout: 50 * time.Millisecond,
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network string, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{
					Timeout:   10 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			errLogger.Errorf(msg, args...)
		}),
		Compression: kafka.Snappy,
	}
}

// KafkaSink publishes analytics envelopes to a Kafka topic, keyed by cart id
// so that a cart's events stay ordered within a partition.
type KafkaSink struct {
	writer MessageWriter
	clock  clock.Clock
	closed atomic.Bool
}

// NewKafkaSink creates a new KafkaSink.
func NewKafkaSink(writer MessageWriter, clk clock.Clock) *KafkaSink {
	return &KafkaSink{writer: writer, clock: clk}
}

var (
	_ contracts.EventSink         = (*KafkaSink)(nil)
	_ contracts.EnvelopePublisher = (*KafkaSink)(nil)
)

// Publish wraps the events in envelopes and writes them in one batch.
func (s *KafkaSink) Publish(ctx context.Context, events ...domain.DomainEvent) error {
	now := s.clock.Now()
	envs := make([]*contracts.Envelope, 0, len(events))
	for _, event := range events {
		env, err := contracts.NewEnvelope(event, now)
		if err != nil {
			return err
		}
		envs = append(envs, env)
	}
	return s.PublishEnvelopes(ctx, envs...)
}

// PublishEnvelopes writes already built envelopes, as read from the outbox.
func (s *KafkaSink) PublishEnvelopes(ctx context.Context, envs ...*contracts.Envelope) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	if len(envs) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(envs))
	for _, env := range envs {
		value, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("failed to encode envelope %s: %w", env.EventID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(env.CartID),
			Value: value,
			Time:  env.OccurredAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(env.EventType)},
				{Key: "event_id", Value: []byte(env.EventID)},
			},
		})
	}

	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d analytics events: %w", len(msgs), err)
	}
	return nil
}

// Close closes the underlying writer once.
func (s *KafkaSink) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.writer.Close()
}
