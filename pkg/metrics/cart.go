package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart operations by mode and outcome.
type CartMetrics struct {
	operations    *prometheus.CounterVec
	mergeDuration prometheus.Histogram
	mergedLines   prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart operations by operation, session mode, and outcome.",
	}, []string{"operation", "mode", "outcome"})
	mergeDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_merge_duration_seconds",
		Help:    "Duration of guest-to-server cart merges in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	mergedLines := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_merged_lines_total",
		Help: "Guest cart lines replayed into the server cart.",
	})
	reg.MustRegister(operations, mergeDuration, mergedLines)
	return &CartMetrics{
		operations:    operations,
		mergeDuration: mergeDuration,
		mergedLines:   mergedLines,
	}
}

// IncOperation counts one cart operation.
func (c *CartMetrics) IncOperation(operation, mode string, success bool) {
	if c == nil || c.operations == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	c.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(mode), outcome).Inc()
}

// ObserveMerge records the duration of a merge and how many lines it moved.
func (c *CartMetrics) ObserveMerge(duration time.Duration, lines int) {
	if c == nil || c.mergeDuration == nil {
		return
	}
	c.mergeDuration.Observe(duration.Seconds())
	if lines > 0 {
		c.mergedLines.Add(float64(lines))
	}
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
