package metrics

import (
	"strings"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	codecOperations = newOperationVec("codec", "transaction codec",
		[]float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05, .1, .5, 1, 5},
		"operation", "network", "status")
	codecErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "codec",
		Name:      "errors_total",
		Help:      "Count of failed codec operations by error kind.",
	}, []string{"operation", "network", "kind"})
)

// Codec tracks decode and encode calls.
type Codec struct {
	network string
}

func NewCodec(network model.Network) *Codec {
	return &Codec{network: orUnknown(network)}
}

// Observe records a codec call. Failures are additionally counted by error kind.
func (m Codec) Observe(operation string, err error, started time.Time) {
	codecOperations.observe(started, operation, m.network, status(err))
	if err == nil {
		return
	}
	kind := strings.ReplaceAll(txerr.KindOf(err).String(), " ", "_")
	codecErrorsTotal.WithLabelValues(operation, m.network, kind).Inc()
}
