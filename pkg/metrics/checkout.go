package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order placement outcomes.
type CheckoutMetrics struct {
	duration   *prometheus.HistogramVec
	placements *prometheus.CounterVec
	orders     prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of order placement transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_placements_total",
		Help: "Checkout attempts by result.",
	}, []string{"result"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Per-seller orders created by successful checkouts.",
	})
	reg.MustRegister(duration, placements, orders)
	return &CheckoutMetrics{
		duration:   duration,
		placements: placements,
		orders:     orders,
	}
}

// ObservePlacement records one checkout attempt with its result label and duration.
func (c *CheckoutMetrics) ObservePlacement(result string, elapsed time.Duration) {
	if c == nil || c.placements == nil {
		return
	}
	label := normalizeLabel(result)
	c.placements.WithLabelValues(label).Inc()
	c.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

// AddOrders increments the created order counter.
func (c *CheckoutMetrics) AddOrders(n int) {
	if c == nil || c.orders == nil || n <= 0 {
		return
	}
	c.orders.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
