package tx

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// PrevOutLookup resolves the output spent by an input.
	PrevOutLookup interface {
		LookupPrevOut(ctx context.Context, txid chainhash.Hash, index uint32) (Output, error)
	}
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

type noopMetrics struct{}

func (noopMetrics) Observe(string, error, time.Time) {}
