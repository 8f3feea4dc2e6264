// Package prevout resolves the outputs spent by transaction inputs.
//
// Concrete sources live in subpackages (esplora, noderpc, clickhouse); this package
// composes them with caching, fallback and retry.
package prevout

import (
	"context"
	"errors"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// ErrNotFound is returned by sources that answered but do not know the output.
// Such lookups are never retried.
var ErrNotFound = errors.New("previous output not found")

type (
	Source interface {
		LookupPrevOut(ctx context.Context, txid chainhash.Hash, index uint32) (tx.Output, error)
	}
	Metrics interface {
		Observe(err error, started time.Time)
		ObserveCache(hit bool)
		ObserveRetry()
	}
)

type outpoint struct {
	txid  chainhash.Hash
	index uint32
}

type noopMetrics struct{}

func (noopMetrics) Observe(error, time.Time) {}
func (noopMetrics) ObserveCache(bool)        {}
func (noopMetrics) ObserveRetry()            {}

func orNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
