package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/model"
)

var clickhouseRepositoryOperations = newOperationVec("clickhouse_repository", "repository",
	[]float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	"operation", "coin", "network", "status")

// ClickhouseRepository tracks metrics for ClickHouse repository operations.
type ClickhouseRepository struct{}

func NewClickhouseRepository() *ClickhouseRepository {
	return &ClickhouseRepository{}
}

// Observe records duration and status of a repository operation.
func (m ClickhouseRepository) Observe(operation string, coin model.Coin, network model.Network, err error, started time.Time) {
	clickhouseRepositoryOperations.observe(started, operation, orUnknown(coin), orUnknown(network), status(err))
}
