package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistererReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewWithRegisterer(reg)
	second := NewWithRegisterer(reg)

	require.NotNil(t, first)
	assert.Same(t, first.httpRequests, second.httpRequests)
	assert.Same(t, first.orderOperations, second.orderOperations)
}

func TestObserveOrderOperation(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ObserveOrderOperation("create", "ok", 10*time.Millisecond)
	m.ObserveOrderOperation("create", "ok", 20*time.Millisecond)
	m.ObserveOrderOperation("create", "reference", time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.orderOperations.WithLabelValues("create", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.orderOperations.WithLabelValues("create", "reference")), 0)
}

func TestObserveHTTPRequest(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ObserveHTTPRequest("/orders/{id}", "GET", 404, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.httpRequests.WithLabelValues("/orders/{id}", "GET", "404")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("/", "GET", 200, time.Millisecond)
		m.ObserveOrderOperation("get", "ok", time.Millisecond)
		m.RecordOutboxPublished()
		m.RecordOutboxFailed()
	})
}

func TestOutboxCounters(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.RecordOutboxPublished()
	m.RecordOutboxFailed()
	m.RecordOutboxFailed()

	assert.InDelta(t, 1, testutil.ToFloat64(m.outboxPublished), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.outboxFailed), 0)
}
