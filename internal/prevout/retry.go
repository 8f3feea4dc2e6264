package prevout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	"go.uber.org/zap"
)

// Retrying repeats failed lookups with backoff. ErrNotFound and context errors are final.
type Retrying struct {
	source   Source
	attempts int
	backoff  clock.Backoff
	metrics  Metrics
	logger   *zap.Logger
	sleep    func(context.Context, time.Duration) error
}

func NewRetrying(source Source, attempts int, backoff clock.Backoff, metrics Metrics, logger *zap.Logger) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{
		source:   source,
		attempts: attempts,
		backoff:  backoff,
		metrics:  orNoop(metrics),
		logger:   logger,
		sleep:    clock.SleepWithContext,
	}
}

func (r *Retrying) LookupPrevOut(ctx context.Context, txid chainhash.Hash, index uint32) (tx.Output, error) {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		var out tx.Output
		out, err = r.source.LookupPrevOut(ctx, txid, index)
		if err == nil {
			return out, nil
		}
		if !retryable(ctx, err) || attempt == r.attempts {
			break
		}

		delay := r.backoff.Delay(attempt)
		r.metrics.ObserveRetry()
		r.logger.Debug("retrying previous output lookup",
			zap.Stringer("txid", txid),
			zap.Uint32("index", index),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if sleepErr := r.sleep(ctx, delay); sleepErr != nil {
			return tx.Output{}, sleepErr
		}
	}
	return tx.Output{}, fmt.Errorf("lookup %s:%d: %w", txid, index, err)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, ErrNotFound) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
