package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout/setup"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/transport"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type config struct {
	Addr                 string        `long:"addr" env:"TXCODEC_API_ADDR" description:"gRPC listen address" default:":8000"`
	RestAddr             string        `long:"rest-addr" env:"TXCODEC_API_REST_ADDR" description:"HTTP listen address" default:":8001"`
	Network              string        `long:"network" env:"TXCODEC_NETWORK" description:"network used for addresses and lookups" default:"testnet"`
	Coin                 model.Coin    `long:"coin" env:"TXCODEC_COIN" description:"coin name of the indexer tables" default:"BTC"`
	WitnessRule          string        `long:"witness-rule" env:"TXCODEC_WITNESS_RULE" description:"inputs that carry a witness stack" choice:"skip-empty" choice:"every-input" default:"skip-empty"`
	AllowZeroCompactSize bool          `long:"allow-zero-compact-size" env:"TXCODEC_ALLOW_ZERO_COMPACT_SIZE" description:"accept zero-length scripts and witness items"`
	LogJSON              bool          `long:"log-json" env:"TXCODEC_LOG_JSON" description:"log in JSON"`
	Lookup               setup.Options `group:"Previous output lookup"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		panic("can't parse flags: " + err.Error())
	}

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("txcodec api failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	network, err := model.ParseNetwork(cfg.Network)
	if err != nil {
		return err
	}
	params, err := network.ChainParams()
	if err != nil {
		return err
	}
	rule, err := tx.ParseWitnessRule(cfg.WitnessRule)
	if err != nil {
		return err
	}
	lookup, err := setup.NewLookup(ctx, cfg.Lookup, cfg.Coin, network, logger)
	if err != nil {
		return fmt.Errorf("init lookup: %w", err)
	}
	defer lookup.Close()

	codec := tx.NewCodec(tx.Config{
		AllowZeroCompactSize: cfg.AllowZeroCompactSize,
		WitnessRule:          rule,
	}, lookup.Source, logger, metrics.NewCodec(network))
	handler := transport.NewHandler(codec, params)

	grpcServer, err := startGRPCServer(ctx, cfg.Addr, handler, logger)
	if err != nil {
		return err
	}
	defer grpcServer.GracefulStop()

	gw := gwruntime.NewServeMux()
	if err := transport.RegisterHTTP(gw, handler, metrics.NewAPI()); err != nil {
		return fmt.Errorf("register http routes: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.RestAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server",
		zap.String("addr", cfg.RestAddr),
		zap.String("network", string(network)),
		zap.Stringer("witness_rule", rule),
	)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func startGRPCServer(ctx context.Context, addr string, handler *transport.Handler, logger *zap.Logger) (*grpc.Server, error) {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	transport.RegisterTxCodecServer(grpcServer, handler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	go func() {
		logger.Info("Starting gRPC server", zap.String("addr", addr))
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("gRPC server stopped", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		healthServer.Shutdown()
	}()
	return grpcServer, nil
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
