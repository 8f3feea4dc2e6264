package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookupOperations = newOperationVec("prevout_lookup", "previous output lookup",
		prometheus.DefBuckets, "source", "network", "status")
	lookupCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "prevout_lookup",
		Name:      "cache_requests_total",
		Help:      "Count of previous output cache requests by result.",
	}, []string{"network", "result"})
	lookupRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "prevout_lookup",
		Name:      "retries_total",
		Help:      "Count of retried previous output lookups.",
	}, []string{"source", "network"})
)

// Lookup tracks previous output resolution for one source.
type Lookup struct {
	source  string
	network string
}

// NewLookup constructs a collector for the named source (esplora, node, clickhouse, ...).
func NewLookup(source string, network model.Network) *Lookup {
	return &Lookup{source: orUnknown(source), network: orUnknown(network)}
}

func (m Lookup) Observe(err error, started time.Time) {
	lookupOperations.observe(started, m.source, m.network, status(err))
}

func (m Lookup) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	lookupCacheTotal.WithLabelValues(m.network, result).Inc()
}

func (m Lookup) ObserveRetry() {
	lookupRetriesTotal.WithLabelValues(m.source, m.network).Inc()
}
