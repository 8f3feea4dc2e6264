// Package esplora looks up previous outputs through an Esplora block explorer API
// (blockstream.info, mempool.space).
package esplora

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/script"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	"go.uber.org/ratelimit"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

const maxErrorBody = 512

type (
	Metrics interface {
		Observe(operation string, code int, started time.Time)
	}
)

type Config struct {
	BaseURL string
	Timeout time.Duration
	// RPS limits outgoing requests. Zero disables the limit.
	RPS int
}

// Transaction is the subset of the /tx/{txid} response the lookup needs.
type Transaction struct {
	TxID string   `json:"txid"`
	Vout []Output `json:"vout"`
}

type Output struct {
	ScriptPubKey     string `json:"scriptpubkey"`
	ScriptPubKeyASM  string `json:"scriptpubkey_asm"`
	ScriptPubKeyType string `json:"scriptpubkey_type"`
	Address          string `json:"scriptpubkey_address"`
	Value            uint64 `json:"value"`
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter ratelimit.Limiter
	metrics Metrics
}

// BaseURL returns the public blockstream endpoint of the network.
func BaseURL(network model.Network) (string, error) {
	switch network {
	case model.Mainnet:
		return "https://blockstream.info/api", nil
	case model.Testnet:
		return "https://blockstream.info/testnet/api", nil
	case model.Signet:
		return "https://mempool.space/signet/api", nil
	default:
		return "", fmt.Errorf("no public explorer for network %q", network)
	}
}

func NewClient(cfg Config, metrics Metrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("esplora base url is required")
	}
	u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse esplora base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("esplora base url %q must be http or https", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		metrics: metrics,
	}, nil
}

// Transaction fetches a transaction by its display-order id.
func (c *Client) Transaction(ctx context.Context, txid chainhash.Hash) (*Transaction, error) {
	var res Transaction
	if err := c.get(ctx, "get_transaction", "/tx/"+txid.String(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) LookupPrevOut(ctx context.Context, txid chainhash.Hash, index uint32) (tx.Output, error) {
	res, err := c.Transaction(ctx, txid)
	if err != nil {
		return tx.Output{}, err
	}
	if uint64(index) >= uint64(len(res.Vout)) {
		return tx.Output{}, fmt.Errorf("transaction %s has %d outputs, want index %d: %w", txid, len(res.Vout), index, prevout.ErrNotFound)
	}
	vout := res.Vout[index]
	pkScript, err := hex.DecodeString(vout.ScriptPubKey)
	if err != nil {
		return tx.Output{}, fmt.Errorf("decode scriptpubkey of %s:%d: %w", txid, index, err)
	}
	return tx.Output{Amount: vout.Value, ScriptPubKey: script.New(pkScript)}, nil
}

func (c *Client) get(ctx context.Context, operation, path string, dst any) (err error) {
	started := time.Now()
	code := 0
	defer func() {
		if c.metrics != nil {
			c.metrics.Observe(operation, code, started)
		}
	}()

	c.limiter.Take()
	if err := ctx.Err(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	code = resp.StatusCode

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("request %s: %w", path, prevout.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("request %s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
