package metrics

import (
	"strconv"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

var explorerClientOperations = newOperationVec("explorer_client", "block explorer HTTP",
	prometheus.DefBuckets, "operation", "network", "code")

// ExplorerClient tracks HTTP calls to a block explorer API.
type ExplorerClient struct {
	network string
}

func NewExplorerClient(network model.Network) *ExplorerClient {
	return &ExplorerClient{network: orUnknown(network)}
}

// Observe records a request. A zero code means no response was received.
func (m ExplorerClient) Observe(operation string, code int, started time.Time) {
	label := "none"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	explorerClientOperations.observe(started, operation, m.network, label)
}
