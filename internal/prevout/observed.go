package prevout

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
)

// Observed records the outcome and latency of every lookup.
type Observed struct {
	source  Source
	metrics Metrics
}

func NewObserved(source Source, metrics Metrics) *Observed {
	return &Observed{source: source, metrics: orNoop(metrics)}
}

func (o *Observed) LookupPrevOut(ctx context.Context, txid chainhash.Hash, index uint32) (out tx.Output, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe(err, started)
	}()
	return o.source.LookupPrevOut(ctx, txid, index)
}
