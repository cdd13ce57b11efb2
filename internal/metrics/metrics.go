package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Checkout outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeUnknownItem = "unknown_item"
	OutcomeInvalid     = "invalid"
	OutcomeError       = "error"
)

// CheckoutRecorder observes priced baskets.
type CheckoutRecorder interface {
	ObserveCheckout(outcome string, items int, total float64)
}

// Nop discards every observation.
type Nop struct{}

// ObserveCheckout does nothing.
func (Nop) ObserveCheckout(string, int, float64) {}

// CheckoutMetrics groups Prometheus collectors for checkout pricing.
type CheckoutMetrics struct {
	Total  *prometheus.CounterVec
	Items  prometheus.Histogram
	Amount prometheus.Histogram
}

// NewCheckoutMetrics registers and returns checkout collectors.
func NewCheckoutMetrics(namespace string, reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &CheckoutMetrics{
		Total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkouts priced, by outcome.",
		}, []string{"outcome"}),
		Items: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_items",
			Help:      "Number of scanned items per successful checkout.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
		}),
		Amount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_total_amount",
			Help:      "Basket total per successful checkout.",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
	m.Total = register(reg, m.Total)
	m.Items = register(reg, m.Items)
	m.Amount = register(reg, m.Amount)
	return m
}

// ObserveCheckout counts the outcome and, on success, records basket size and total.
func (m *CheckoutMetrics) ObserveCheckout(outcome string, items int, total float64) {
	m.Total.WithLabelValues(outcome).Inc()
	if outcome != OutcomeSuccess {
		return
	}
	m.Items.Observe(float64(items))
	m.Amount.Observe(total)
}

// HTTPMetrics groups Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
}

// NewHTTPMetrics registers and returns HTTP collectors.
func NewHTTPMetrics(namespace string, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "route"}),
	}
	m.ReqTotal = register(reg, m.ReqTotal)
	m.ReqDur = register(reg, m.ReqDur)
	return m
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// register registers c, returning the already registered collector on a duplicate.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}
