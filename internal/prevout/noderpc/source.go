// Package noderpc looks up previous outputs with getrawtransaction on a bitcoind node.
// The node needs -txindex to answer for transactions outside its mempool and wallet.
package noderpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/script"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	RPCClient interface {
		GetBlockCount() (int64, error)
		GetRawTransaction(txHash *chainhash.Hash) (*btcutil.Tx, error)
	}
)

type Source struct {
	rpc RPCClient
}

func New(rpc RPCClient) *Source {
	return &Source{rpc: rpc}
}

// Height reports the node's block count. It doubles as a connectivity check.
func (s *Source) Height(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	height, err := s.rpc.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}
	return height, nil
}

func (s *Source) LookupPrevOut(ctx context.Context, txid chainhash.Hash, index uint32) (tx.Output, error) {
	if err := ctx.Err(); err != nil {
		return tx.Output{}, err
	}

	res, err := s.rpc.GetRawTransaction(&txid)
	if err != nil {
		var rpcErr *btcjson.RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == btcjson.ErrRPCNoTxInfo {
			return tx.Output{}, fmt.Errorf("get raw transaction %s: %s: %w", txid, rpcErr.Message, prevout.ErrNotFound)
		}
		return tx.Output{}, fmt.Errorf("get raw transaction %s: %w", txid, err)
	}

	outs := res.MsgTx().TxOut
	if uint64(index) >= uint64(len(outs)) {
		return tx.Output{}, fmt.Errorf("transaction %s has %d outputs, want index %d: %w", txid, len(outs), index, prevout.ErrNotFound)
	}
	out := outs[index]
	if out.Value < 0 {
		return tx.Output{}, fmt.Errorf("output %s:%d has negative value %d", txid, index, out.Value)
	}
	return tx.Output{Amount: uint64(out.Value), ScriptPubKey: script.New(out.PkScript)}, nil
}
