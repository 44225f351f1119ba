package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/corray333/backend-labs/commerce/internal/service/models/order"
	"github.com/corray333/backend-labs/commerce/internal/service/models/outbox"
	"github.com/google/uuid"
)

// Routing keys of the order events.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

const defaultMaxRetries = 5

type outboxConfig struct {
	exchange   string
	maxRetries int
}

// OrderEvent is the payload published for every order mutation.
type OrderEvent struct {
	MessageID  string       `json:"message_id"`
	Event      string       `json:"event"`
	OrderID    int64        `json:"order_id"`
	Order      *order.Order `json:"order,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// WithOutbox enables order events. They are written to the outbox table in the
// mutating transaction and published to exchange by the outbox worker.
func WithOutbox(exchange string, maxRetries int) Option {
	return func(s *OrderService) {
		if maxRetries <= 0 {
			maxRetries = defaultMaxRetries
		}
		s.outbox = &outboxConfig{
			exchange:   exchange,
			maxRetries: maxRetries,
		}
	}
}

func (s *OrderService) enqueue(
	ctx context.Context,
	work unitOfWork,
	event string,
	orderID int64,
	o *order.Order,
) error {
	if s.outbox == nil {
		return nil
	}

	now := time.Now()
	msg := OrderEvent{
		MessageID:  uuid.NewString(),
		Event:      event,
		OrderID:    orderID,
		Order:      o,
		OccurredAt: now,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	err = work.OutboxRepository().Insert(ctx, outbox.OutboxMessage{
		MessageID:    msg.MessageID,
		ExchangeName: s.outbox.exchange,
		RoutingKey:   event,
		Payload:      payload,
		ContentType:  "application/json",
		MaxRetries:   s.outbox.maxRetries,
		NextRetryAt:  now,
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue %s event: %w", event, err)
	}

	return nil
}
