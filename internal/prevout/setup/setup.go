// Package setup assembles the previous output lookup configured on the command line.
package setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/model"
	rpcclient "github.com/goodnatureofminers/blockinsight7000-txcodec/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout/esplora"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout/noderpc"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	"go.uber.org/zap"
)

const (
	SourceNone       = "none"
	SourceEsplora    = "esplora"
	SourceNode       = "node"
	SourceClickhouse = "clickhouse"
	SourceChain      = "chain"
)

// Options is embedded as a go-flags group by the binaries.
type Options struct {
	Source         string        `long:"lookup" env:"TXCODEC_LOOKUP" description:"previous output source" choice:"none" choice:"esplora" choice:"node" choice:"clickhouse" choice:"chain" default:"none"`
	Chain          []string      `long:"lookup-chain" env:"TXCODEC_LOOKUP_CHAIN" env-delim:"," description:"sources tried in order by the chain lookup" default:"clickhouse" default:"node" default:"esplora"`
	CacheSize      int           `long:"lookup-cache-size" env:"TXCODEC_LOOKUP_CACHE_SIZE" description:"resolved outputs kept in memory" default:"10000"`
	Attempts       int           `long:"lookup-attempts" env:"TXCODEC_LOOKUP_ATTEMPTS" description:"attempts per source before giving up" default:"3"`
	RetryInitial   time.Duration `long:"lookup-retry-initial" env:"TXCODEC_LOOKUP_RETRY_INITIAL" description:"first retry delay" default:"200ms"`
	RetryMax       time.Duration `long:"lookup-retry-max" env:"TXCODEC_LOOKUP_RETRY_MAX" description:"retry delay cap" default:"2s"`
	EsploraURL     string        `long:"esplora-url" env:"TXCODEC_ESPLORA_URL" description:"esplora API base url, defaults to the public endpoint of the network"`
	EsploraTimeout time.Duration `long:"esplora-timeout" env:"TXCODEC_ESPLORA_TIMEOUT" description:"esplora request timeout" default:"10s"`
	EsploraRPS     int           `long:"esplora-rps" env:"TXCODEC_ESPLORA_RPS" description:"esplora requests per second, 0 for no limit" default:"5"`
	RPCURL         string        `long:"rpc-url" env:"TXCODEC_RPC_URL" description:"bitcoind RPC URL" default:"http://127.0.0.1:18332"`
	RPCUser        string        `long:"rpc-user" env:"TXCODEC_RPC_USER" description:"bitcoind RPC username"`
	RPCPassword    string        `long:"rpc-password" env:"TXCODEC_RPC_PASSWORD" description:"bitcoind RPC password"`
	ClickhouseDSN  string        `long:"clickhouse-dsn" env:"TXCODEC_CLICKHOUSE_DSN" description:"ClickHouse DSN of the indexer database"`
}

// Lookup is the assembled lookup. Close releases the connections of every source.
type Lookup struct {
	// Source is nil when lookups are disabled.
	Source tx.PrevOutLookup
	// Cache is the cache in front of Source, nil when lookups are disabled.
	Cache   *prevout.Cached
	closers []func()
}

func (l *Lookup) Close() {
	for i := len(l.closers) - 1; i >= 0; i-- {
		l.closers[i]()
	}
	l.closers = nil
}

// NewLookup builds the configured source, each wrapped with retries and metrics,
// behind a shared cache. Source none yields a Lookup with a nil Source.
func NewLookup(ctx context.Context, opts Options, coin model.Coin, network model.Network, logger *zap.Logger) (*Lookup, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Lookup{}
	if opts.Source == "" || opts.Source == SourceNone {
		return l, nil
	}

	b := builder{opts: opts, coin: coin, network: network, logger: logger, lookup: l}
	var source prevout.Source
	var err error
	if opts.Source == SourceChain {
		source, err = b.chain(ctx)
	} else {
		source, err = b.source(ctx, opts.Source)
	}
	if err != nil {
		l.Close()
		return nil, err
	}

	l.Cache = prevout.NewCached(source, opts.CacheSize, metrics.NewLookup(opts.Source, network))
	l.Source = l.Cache
	logger.Info("previous output lookup enabled",
		zap.String("source", opts.Source),
		zap.String("network", string(network)),
	)
	return l, nil
}

type builder struct {
	opts    Options
	coin    model.Coin
	network model.Network
	logger  *zap.Logger
	lookup  *Lookup
}

func (b builder) chain(ctx context.Context) (prevout.Source, error) {
	if len(b.opts.Chain) == 0 {
		return nil, errors.New("lookup chain is empty")
	}
	named := make([]prevout.Named, 0, len(b.opts.Chain))
	for _, name := range b.opts.Chain {
		if name == SourceChain || name == SourceNone {
			return nil, fmt.Errorf("lookup chain cannot contain %q", name)
		}
		source, err := b.source(ctx, name)
		if err != nil {
			return nil, err
		}
		named = append(named, prevout.Named{Name: name, Source: source})
	}
	return prevout.NewChain(b.logger, named...), nil
}

func (b builder) source(ctx context.Context, name string) (prevout.Source, error) {
	var source prevout.Source
	switch name {
	case SourceEsplora:
		client, err := b.esplora()
		if err != nil {
			return nil, err
		}
		source = client
	case SourceNode:
		node, err := b.node(ctx)
		if err != nil {
			return nil, err
		}
		source = node
	case SourceClickhouse:
		repo, err := clickhouse.NewRepository(b.opts.ClickhouseDSN, b.coin, b.network, metrics.NewClickhouseRepository())
		if err != nil {
			return nil, fmt.Errorf("init clickhouse lookup: %w", err)
		}
		b.lookup.closers = append(b.lookup.closers, func() {
			if err := repo.Close(); err != nil {
				b.logger.Warn("close clickhouse connection", zap.Error(err))
			}
		})
		source = repo
	default:
		return nil, fmt.Errorf("unknown lookup source %q", name)
	}

	lookupMetrics := metrics.NewLookup(name, b.network)
	backoff := clock.Backoff{Initial: b.opts.RetryInitial, Max: b.opts.RetryMax}
	retrying := prevout.NewRetrying(source, b.opts.Attempts, backoff, lookupMetrics, b.logger.With(zap.String("source", name)))
	return prevout.NewObserved(retrying, lookupMetrics), nil
}

func (b builder) esplora() (*esplora.Client, error) {
	baseURL := b.opts.EsploraURL
	if baseURL == "" {
		var err error
		if baseURL, err = esplora.BaseURL(b.network); err != nil {
			return nil, err
		}
	}
	client, err := esplora.NewClient(esplora.Config{
		BaseURL: baseURL,
		Timeout: b.opts.EsploraTimeout,
		RPS:     b.opts.EsploraRPS,
	}, metrics.NewExplorerClient(b.network))
	if err != nil {
		return nil, fmt.Errorf("init esplora lookup: %w", err)
	}
	return client, nil
}

func (b builder) node(ctx context.Context) (*noderpc.Source, error) {
	client, err := rpcclient.Dial(b.opts.RPCURL, b.opts.RPCUser, b.opts.RPCPassword)
	if err != nil {
		return nil, fmt.Errorf("init node lookup: %w", err)
	}
	b.lookup.closers = append(b.lookup.closers, func() {
		client.Shutdown()
		client.WaitForShutdown()
	})

	source := noderpc.New(rpcclient.NewObservedClient(client, metrics.NewRPCClient(b.coin, b.network)))
	height, err := source.Height(ctx)
	if err != nil {
		b.logger.Warn("bitcoind is not reachable, lookups will be retried per input",
			zap.String("rpc_url", b.opts.RPCURL),
			zap.Error(err),
		)
		return source, nil
	}
	b.logger.Info("connected to bitcoind", zap.Int64("height", height))
	return source, nil
}
