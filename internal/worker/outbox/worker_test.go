package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	outboxmodel "github.com/corray333/backend-labs/commerce/internal/service/models/outbox"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retryCall struct {
	id          int64
	retryCount  int
	lastError   string
	nextRetryAt time.Time
}

type fakeRepo struct {
	pending []outboxmodel.OutboxMessage
	deleted []int64
	retries []retryCall
}

func (r *fakeRepo) Insert(context.Context, outboxmodel.OutboxMessage) error { return nil }

func (r *fakeRepo) GetPendingMessages(_ context.Context, limit int) ([]outboxmodel.OutboxMessage, error) {
	return r.pending[:min(limit, len(r.pending))], nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)

	return nil
}

func (r *fakeRepo) UpdateRetry(_ context.Context, id int64, retryCount int, lastError string, nextRetryAt time.Time) error {
	r.retries = append(r.retries, retryCall{id: id, retryCount: retryCount, lastError: lastError, nextRetryAt: nextRetryAt})

	return nil
}

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakePublisher struct {
	sent   []published
	failOn map[string]error
}

func (p *fakePublisher) Publish(exchange, routingKey string, msg amqp.Publishing) error {
	if err := p.failOn[msg.MessageId]; err != nil {
		return err
	}
	p.sent = append(p.sent, published{exchange: exchange, key: routingKey, msg: msg})

	return nil
}

type counters struct {
	published int
	failed    int
}

func (c *counters) RecordOutboxPublished() { c.published++ }
func (c *counters) RecordOutboxFailed()    { c.failed++ }

func TestProcessMessages(t *testing.T) {
	repo := &fakeRepo{pending: []outboxmodel.OutboxMessage{
		{ID: 1, MessageID: "a", ExchangeName: "orders", RoutingKey: "order.created", ContentType: "application/json", Payload: []byte(`{}`)},
		{ID: 2, MessageID: "b", ExchangeName: "orders", RoutingKey: "order.updated", RetryCount: 2},
	}}
	pub := &fakePublisher{failOn: map[string]error{"b": errors.New("channel closed")}}
	c := &counters{}

	w := NewWorker(repo, pub, c)
	start := time.Now()
	w.processMessages(context.Background())

	require.Len(t, pub.sent, 1)
	assert.Equal(t, "orders", pub.sent[0].exchange)
	assert.Equal(t, "order.created", pub.sent[0].key)
	assert.Equal(t, "a", pub.sent[0].msg.MessageId)
	assert.Equal(t, []byte(`{}`), pub.sent[0].msg.Body)

	assert.Equal(t, []int64{1}, repo.deleted)

	require.Len(t, repo.retries, 1)
	retry := repo.retries[0]
	assert.Equal(t, int64(2), retry.id)
	assert.Equal(t, 3, retry.retryCount)
	assert.Equal(t, "channel closed", retry.lastError)
	assert.WithinDuration(t, start.Add(4*defaultRetryInterval), retry.nextRetryAt, time.Second)

	assert.Equal(t, 1, c.published)
	assert.Equal(t, 1, c.failed)
}

func TestBackoff(t *testing.T) {
	w := NewWorker(&fakeRepo{}, &fakePublisher{}, &counters{})

	assert.Equal(t, defaultRetryInterval, w.backoff(1))
	assert.Equal(t, 2*defaultRetryInterval, w.backoff(2))
	assert.Equal(t, maxBackoff, w.backoff(30))
}

func TestStartStops(t *testing.T) {
	w := NewWorker(&fakeRepo{}, &fakePublisher{}, &counters{})

	done := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(done)
	}()

	w.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
