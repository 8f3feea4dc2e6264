package prevout

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	"go.uber.org/zap"
)

// Named labels a source in logs.
type Named struct {
	Name   string
	Source Source
}

// Chain asks each source in turn and returns the first answer.
type Chain struct {
	sources []Named
	logger  *zap.Logger
}

func NewChain(logger *zap.Logger, sources ...Named) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{sources: sources, logger: logger}
}

func (c *Chain) LookupPrevOut(ctx context.Context, txid chainhash.Hash, index uint32) (tx.Output, error) {
	if len(c.sources) == 0 {
		return tx.Output{}, fmt.Errorf("no lookup sources configured: %w", ErrNotFound)
	}

	var errs []error
	for _, named := range c.sources {
		out, err := named.Source.LookupPrevOut(ctx, txid, index)
		if err == nil {
			return out, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return tx.Output{}, ctxErr
		}
		c.logger.Debug("lookup source failed, trying next",
			zap.String("source", named.Name),
			zap.Stringer("txid", txid),
			zap.Uint32("index", index),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", named.Name, err))
	}
	return tx.Output{}, errors.Join(errs...)
}
