package outbox

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/corray333/backend-labs/commerce/internal/dal/interfaces/ioutboxrepo"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

const (
	defaultPollInterval  = 10 * time.Second
	defaultBatchSize     = 100
	defaultRetryInterval = 30 * time.Second
	maxBackoff           = time.Hour
)

type publisher interface {
	Publish(exchange, routingKey string, msg amqp.Publishing) error
}

type metrics interface {
	RecordOutboxPublished()
	RecordOutboxFailed()
}

// Worker processes messages from the outbox table.
type Worker struct {
	outboxRepo    ioutboxrepo.IOutboxRepository
	publisher     publisher
	metrics       metrics
	pollInterval  time.Duration
	batchSize     int
	retryInterval time.Duration
	stopCh        chan struct{}
}

// NewWorker creates a new outbox worker configured from rabbitmq.outbox.*.
func NewWorker(
	outboxRepo ioutboxrepo.IOutboxRepository,
	publisher publisher,
	metrics metrics,
) *Worker {
	pollInterval := time.Duration(viper.GetInt("rabbitmq.outbox.poll_interval_seconds")) * time.Second
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	retryInterval := time.Duration(viper.GetInt("rabbitmq.outbox.retry_interval_seconds")) * time.Second
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}

	return &Worker{
		outboxRepo:    outboxRepo,
		publisher:     publisher,
		metrics:       metrics,
		pollInterval:  pollInterval,
		batchSize:     batchSize,
		retryInterval: retryInterval,
		stopCh:        make(chan struct{}),
	}
}

// Start begins processing messages from the outbox. It blocks until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// backoff doubles the retry interval per attempt, capped at maxBackoff.
func (w *Worker) backoff(retryCount int) time.Duration {
	d := math.Pow(2, float64(retryCount-1)) * float64(w.retryInterval)
	if d > float64(maxBackoff) {
		return maxBackoff
	}

	return time.Duration(d)
}

// processMessages retrieves and processes pending messages from the outbox.
func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Debug("Processing outbox messages", "count", len(messages))

	for _, msg := range messages {
		err := w.publisher.Publish(
			msg.ExchangeName,
			msg.RoutingKey,
			amqp.Publishing{
				ContentType: msg.ContentType,
				MessageId:   msg.MessageID,
				Timestamp:   msg.CreatedAt,
				Type:        msg.RoutingKey,
				Body:        msg.Payload,
			},
		)

		if err != nil {
			w.metrics.RecordOutboxFailed()

			newRetryCount := msg.RetryCount + 1
			nextRetryAt := time.Now().Add(w.backoff(newRetryCount))

			slog.Warn("Failed to publish message from outbox, will retry",
				"outbox_id", msg.ID,
				"retry_count", newRetryCount,
				"next_retry", nextRetryAt,
				"error", err,
			)

			if err := w.outboxRepo.UpdateRetry(ctx, msg.ID, newRetryCount, err.Error(), nextRetryAt); err != nil {
				slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
			}

			continue
		}

		w.metrics.RecordOutboxPublished()

		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete message from outbox after successful publish",
				"outbox_id", msg.ID,
				"error", err,
			)
		} else {
			slog.Debug("Message successfully published and removed from outbox",
				"outbox_id", msg.ID,
				"routing_key", msg.RoutingKey,
			)
		}
	}
}
