// Command txcodec decodes, encodes and inspects Bitcoin transactions and scripts.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout/setup"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/transport"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type options struct {
	Network              string        `long:"network" env:"TXCODEC_NETWORK" description:"network used for addresses and lookups" default:"testnet"`
	Coin                 model.Coin    `long:"coin" env:"TXCODEC_COIN" description:"coin name of the indexer tables" default:"BTC"`
	WitnessRule          string        `long:"witness-rule" env:"TXCODEC_WITNESS_RULE" description:"inputs that carry a witness stack" choice:"skip-empty" choice:"every-input" default:"skip-empty"`
	AllowZeroCompactSize bool          `long:"allow-zero-compact-size" env:"TXCODEC_ALLOW_ZERO_COMPACT_SIZE" description:"accept zero-length scripts and witness items"`
	LogJSON              bool          `long:"log-json" env:"TXCODEC_LOG_JSON" description:"log in JSON instead of the development console format"`
	Lookup               setup.Options `group:"Previous output lookup"`
}

type app struct {
	ctx    context.Context
	opts   options
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logger  *zap.Logger
	handler *transport.Handler
	// cache is nil when lookups are disabled.
	cache   *prevout.Cached
	offline *tx.Codec
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{ctx: ctx, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	code := a.run(os.Args[1:])
	stop()
	os.Exit(code)
}

func (a *app) run(args []string) int {
	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = a.execute
	if err := a.addCommands(parser); err != nil {
		_, _ = fmt.Fprintln(a.stderr, err)
		return 1
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) {
			if ferr.Type == flags.ErrHelp {
				_, _ = fmt.Fprintln(a.stdout, ferr.Message)
				return 0
			}
			_, _ = fmt.Fprintln(a.stderr, ferr.Message)
			return 2
		}
		if a.logger != nil {
			a.logger.Error("txcodec failed", zap.Error(err))
		} else {
			_, _ = fmt.Fprintln(a.stderr, err)
		}
		return 1
	}
	return 0
}

// execute builds the logger and the codec once flags are parsed, then runs the command.
func (a *app) execute(cmd flags.Commander, args []string) error {
	logger, err := newLogger(a.opts.LogJSON)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger
	defer func() {
		_ = logger.Sync()
	}()

	network, err := model.ParseNetwork(a.opts.Network)
	if err != nil {
		return err
	}
	params, err := network.ChainParams()
	if err != nil {
		return err
	}
	rule, err := tx.ParseWitnessRule(a.opts.WitnessRule)
	if err != nil {
		return err
	}

	lookup, err := setup.NewLookup(a.ctx, a.opts.Lookup, a.opts.Coin, network, logger)
	if err != nil {
		return fmt.Errorf("init lookup: %w", err)
	}
	defer lookup.Close()

	cfg := tx.Config{
		AllowZeroCompactSize: a.opts.AllowZeroCompactSize,
		WitnessRule:          rule,
	}
	codec := tx.NewCodec(cfg, lookup.Source, logger, metrics.NewCodec(network))
	a.handler = transport.NewHandler(codec, params)
	a.cache = lookup.Cache
	a.offline = tx.NewCodec(cfg, nil, logger, nil)

	return cmd.Execute(args)
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
