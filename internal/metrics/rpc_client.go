package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

var rpcClientOperations = newOperationVec("rpc_client", "node RPC",
	prometheus.DefBuckets, "operation", "coin", "network", "status")

// RPCClient tracks metrics for RPC calls to blockchain nodes.
type RPCClient struct {
	coin    string
	network string
}

// NewRPCClient constructs a metrics collector for RPC calls.
func NewRPCClient(coin model.Coin, network model.Network) *RPCClient {
	return &RPCClient{coin: orUnknown(coin), network: orUnknown(network)}
}

// Observe records a single RPC call outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	rpcClientOperations.observe(started, operation, m.coin, m.network, status(err))
}
