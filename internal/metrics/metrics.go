package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	orderOperations *prometheus.CounterVec
	orderDuration   *prometheus.HistogramVec

	outboxPublished prometheus.Counter
	outboxFailed    prometheus.Counter
}

// New registers the collectors on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors on registerer.
// Collectors already registered under the same name are reused.
func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		httpRequests: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "commerce_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status"})),
		httpDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "commerce_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"})),
		orderOperations: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "commerce_order_operations_total",
			Help: "Total number of order operations by operation and result kind",
		}, []string{"operation", "result"})),
		orderDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "commerce_order_operation_duration_seconds",
			Help:    "Duration of order operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"})),
		outboxPublished: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "commerce_outbox_published_total",
			Help: "Total number of outbox messages published",
		})),
		outboxFailed: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "commerce_outbox_publish_failures_total",
			Help: "Total number of failed outbox publish attempts",
		})),
	}
}

func register[T prometheus.Collector](registerer prometheus.Registerer, collector T) T {
	if err := registerer.Register(collector); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegistered) {
			existing, ok := alreadyRegistered.ExistingCollector.(T)
			if !ok {
				panic("collector already registered with unexpected type")
			}

			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}

	return collector
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveOrderOperation records one order operation; result is an error kind or "ok".
func (m *Metrics) ObserveOrderOperation(operation, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.orderOperations.WithLabelValues(operation, result).Inc()
	m.orderDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) RecordOutboxPublished() {
	if m == nil {
		return
	}
	m.outboxPublished.Inc()
}

func (m *Metrics) RecordOutboxFailed() {
	if m == nil {
		return
	}
	m.outboxFailed.Inc()
}
