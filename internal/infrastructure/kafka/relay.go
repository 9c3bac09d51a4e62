package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elie009/utlityhub360-sub005/pkg/events"
	pkgkafka "github.com/elie009/utlityhub360-sub005/pkg/kafka"
)

// messageWriter is the slice of pkg/kafka.Producer the relay needs.
type messageWriter interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// OutboxRelay drains the transactional outbox into Kafka. Repositories write
// events in the same transaction as the aggregate; the relay publishes them
// afterwards, so a Kafka outage never loses an event.
type OutboxRelay struct {
	outbox    events.OutboxRepository
	writer    messageWriter
	topic     string
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

// NewOutboxRelay creates a relay that polls the outbox at the given interval.
func NewOutboxRelay(
	outbox events.OutboxRepository,
	writer messageWriter,
	topic string,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *OutboxRelay {
	return &OutboxRelay{
		outbox:    outbox,
		writer:    writer,
		topic:     topic,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run polls until the context is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			published, err := r.Drain(ctx)
			if err != nil {
				r.logger.Error("outbox drain failed", "error", err)
				continue
			}
			if published > 0 {
				r.logger.Info("outbox drained", "published", published)
			}
		}
	}
}

// Drain publishes one batch of unpublished entries and marks them published.
// It returns the number of entries published.
func (r *OutboxRelay) Drain(ctx context.Context) (int, error) {
	entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch unpublished: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	messages := make([]pkgkafka.Message, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, pkgkafka.Message{
			Key:   []byte(entry.AggregateID),
			Value: entry.Payload,
			Headers: map[string]string{
				"event_type": entry.EventType,
				"event_id":   entry.ID,
			},
		})
		ids = append(ids, entry.ID)
	}

	if err := r.writer.Publish(ctx, r.topic, messages...); err != nil {
		return 0, fmt.Errorf("publish outbox batch: %w", err)
	}

	// Marking after publish means a crash in between re-publishes the
	// batch. Consumers must dedupe on event_id.
	if err := r.outbox.MarkPublished(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark published: %w", err)
	}
	return len(entries), nil
}
