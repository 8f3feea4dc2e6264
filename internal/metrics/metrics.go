// Package metrics holds the prometheus collectors of the codec and its lookup adapters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "blockinsight7000"
	unknown   = "unknown"
)

// operationVec pairs an operation counter with its duration histogram.
type operationVec struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newOperationVec(subsystem, what string, buckets []float64, labels ...string) operationVec {
	return operationVec{
		total: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operations_total",
			Help:      "Count of " + what + " operations.",
		}, labels),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Duration of " + what + " operations.",
			Buckets:   buckets,
		}, labels),
	}
}

func (v operationVec) observe(started time.Time, labels ...string) {
	v.total.WithLabelValues(labels...).Inc()
	v.duration.WithLabelValues(labels...).Observe(time.Since(started).Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func orUnknown[T ~string](v T) string {
	if v == "" {
		return unknown
	}
	return string(v)
}
