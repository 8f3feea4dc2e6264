package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/prevout"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/script"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
)

const lookupPrevOutQuery = `
SELECT
	value,
	script_hex
FROM utxo_transaction_outputs
WHERE coin = ? AND network = ? AND txid = CAST(? AS FixedString(64)) AND output_index = ?
LIMIT 1`

// LookupPrevOut returns the indexed output txid:index.
func (r *Repository) LookupPrevOut(ctx context.Context, txid chainhash.Hash, index uint32) (out tx.Output, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("lookup_prev_out", r.coin, r.network, err, start)
	}()

	rows, err := r.conn.Query(ctx, lookupPrevOutQuery, r.coin, r.network, txid.String(), index)
	if err != nil {
		return tx.Output{}, fmt.Errorf("query previous output: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return tx.Output{}, fmt.Errorf("iterate previous output: %w", err)
		}
		err = fmt.Errorf("output %s:%d not indexed: %w", txid, index, prevout.ErrNotFound)
		return tx.Output{}, err
	}

	var (
		value     uint64
		scriptHex string
	)
	if err = rows.Scan(&value, &scriptHex); err != nil {
		return tx.Output{}, fmt.Errorf("scan previous output: %w", err)
	}
	pkScript, err := script.FromHex(scriptHex)
	if err != nil {
		return tx.Output{}, fmt.Errorf("decode script of %s:%d: %w", txid, index, err)
	}
	return tx.Output{Amount: value, ScriptPubKey: pkScript}, nil
}
