package prevout

import (
	"context"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	lru "github.com/hashicorp/golang-lru"
)

// Cached remembers resolved outputs in memory. Failed lookups are not cached.
// When capacity is reached the least recently used entry is evicted.
type Cached struct {
	source  Source
	metrics Metrics
	entries *lru.Cache
}

// NewCached wraps source. A capacity of zero or less keeps every entry.
func NewCached(source Source, capacity int, metrics Metrics) *Cached {
	if capacity <= 0 {
		capacity = math.MaxInt
	}
	entries, _ := lru.New(capacity) // Never errors for positive size.
	return &Cached{
		source:  source,
		metrics: orNoop(metrics),
		entries: entries,
	}
}

func (c *Cached) LookupPrevOut(ctx context.Context, txid chainhash.Hash, index uint32) (tx.Output, error) {
	key := outpoint{txid: txid, index: index}

	v, ok := c.entries.Get(key)
	c.metrics.ObserveCache(ok)
	if ok {
		return v.(tx.Output), nil
	}

	out, err := c.source.LookupPrevOut(ctx, txid, index)
	if err != nil {
		return tx.Output{}, err
	}
	c.Seed(txid, index, out)
	return out, nil
}

// Seed stores an output without consulting the source.
func (c *Cached) Seed(txid chainhash.Hash, index uint32, out tx.Output) {
	c.entries.Add(outpoint{txid: txid, index: index}, out)
}

// SeedTransaction stores every output of t so later transactions spending it resolve locally.
func (c *Cached) SeedTransaction(t *tx.Transaction) {
	txid := t.TxID()
	for i, out := range t.Outputs {
		c.Seed(txid, uint32(i), out)
	}
}

// Len reports the number of cached outputs.
func (c *Cached) Len() int {
	return c.entries.Len()
}
