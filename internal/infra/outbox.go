package infra

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchday/platform/internal/domain"
	"github.com/matchday/platform/internal/repository"
)

// OutboxNotifier receives local delivery of outbox events before they are
// published. The standings worker hooks match.finished and
// match.score.adjusted here so recomputation does not depend on Kafka being
// enabled.
type OutboxNotifier interface {
	Notify(ctx context.Context, draft domain.OutboxDraft)
}

// EventPublisher sends one integration event to a topic. Satisfied by
// KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// OutboxPoller drains the event_outbox table and publishes each row to
// Kafka. Rows are only deleted after a successful publish, so delivery is
// at-least-once and consumers must be idempotent.
type OutboxPoller struct {
	pool      *pgxpool.Pool
	outbox    repository.OutboxRepository
	producer  EventPublisher
	notifier  OutboxNotifier
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewOutboxPoller creates a new outbox poller. notifier may be nil.
func NewOutboxPoller(
	pool *pgxpool.Pool,
	outbox repository.OutboxRepository,
	producer EventPublisher,
	notifier OutboxNotifier,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *OutboxPoller {
	return &OutboxPoller{
		pool:      pool,
		outbox:    outbox,
		producer:  producer,
		notifier:  notifier,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled.
func (p *OutboxPoller) Start(ctx context.Context) {
	p.logger.Info("outbox poller started", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("outbox poller stopped")
				return
			case <-ticker.C:
				if err := p.poll(ctx); err != nil {
					p.logger.Error("outbox poll error", "error", err)
				}
			}
		}
	}()
}

func (p *OutboxPoller) poll(ctx context.Context) error {
	rows, err := p.outbox.FetchUnpublishedRows(ctx, p.pool, p.batchSize)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	published := make([]int64, 0, len(rows))
	for _, row := range rows {
		topic := TopicPrefix + "." + string(row.EventType)
		msg, err := json.Marshal(row.OutboxDraft)
		if err != nil {
			p.logger.Error("outbox event marshal failed", "event_id", row.EventID, "topic", topic, "error", err)
			continue
		}

		if err := p.producer.Publish(ctx, topic, []byte(row.PartitionKey), msg); err != nil {
			p.logger.Error("kafka publish failed", "event_id", row.EventID, "topic", topic, "error", err)
			continue
		}
		published = append(published, row.SeqID)

		// notify only once the row is on its way out, so a failed publish
		// does not re-notify on the next poll
		if p.notifier != nil {
			p.notifier.Notify(ctx, row.OutboxDraft)
		}
	}

	if len(published) > 0 {
		if err := p.outbox.MarkPublished(ctx, p.pool, published); err != nil {
			return err
		}
	}

	p.logger.Debug("outbox poll complete", "fetched", len(rows), "published", len(published))
	return nil
}
