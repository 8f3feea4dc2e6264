// Package report renders transactions and scripts as JSON friendly views.
package report

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/script"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
)

type Script struct {
	Hex     string `json:"hex"`
	ASM     string `json:"asm"`
	Type    string `json:"type"`
	Label   string `json:"label"`
	Address string `json:"address,omitempty"`
	// ASMError is set when the bytes are not a parsable script, as in some coinbase inputs.
	ASMError string `json:"asm_error,omitempty"`
}

type Output struct {
	Index        int    `json:"n"`
	Amount       uint64 `json:"value"`
	ScriptPubKey Script `json:"script_pubkey"`
}

type PrevOut struct {
	Amount       uint64 `json:"value"`
	ScriptPubKey Script `json:"script_pubkey"`
}

type Input struct {
	PreviousTxID  string   `json:"txid"`
	PreviousIndex uint32   `json:"vout"`
	ScriptSig     Script   `json:"script_sig"`
	Sequence      string   `json:"sequence"`
	Witness       []string `json:"witness,omitempty"`
	PrevOut       *PrevOut `json:"prevout,omitempty"`
}

type Transaction struct {
	TxID     string   `json:"txid"`
	WTxID    string   `json:"wtxid"`
	Version  uint32   `json:"version"`
	Segwit   bool     `json:"segwit"`
	Inputs   []Input  `json:"vin"`
	Outputs  []Output `json:"vout"`
	LockTime uint32   `json:"locktime"`
	Size     int      `json:"size"`
	MinerFee *uint64  `json:"fee,omitempty"`
	Hex      string   `json:"hex"`
}

// NewScript describes s. Addresses use the prefixes of params.
func NewScript(s script.Script, params *chaincfg.Params) Script {
	typ := s.Type()
	view := Script{
		Hex:   s.Hex(),
		Type:  typ.String(),
		Label: typ.Label(),
	}
	asm, err := s.Disassemble()
	if err != nil {
		view.ASMError = err.Error()
	} else {
		view.ASM = asm
	}
	if addr, ok := s.Address(params); ok {
		view.Address = addr
	}
	return view
}

// NewTransaction describes t. The codec re-encodes t for the hex, size and wtxid fields.
func NewTransaction(t *tx.Transaction, codec *tx.Codec, params *chaincfg.Params) (*Transaction, error) {
	raw, err := codec.Encode(t)
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}
	wtxid, err := codec.WitnessTxID(t)
	if err != nil {
		return nil, fmt.Errorf("witness txid: %w", err)
	}

	view := &Transaction{
		TxID:     t.TxID().String(),
		WTxID:    wtxid.String(),
		Version:  t.Version,
		Segwit:   t.Segwit,
		Inputs:   make([]Input, len(t.Inputs)),
		Outputs:  make([]Output, len(t.Outputs)),
		LockTime: t.LockTime,
		Size:     len(raw),
		Hex:      hex.EncodeToString(raw),
	}
	for i, in := range t.Inputs {
		iv := Input{
			PreviousTxID:  in.PreviousTxID.String(),
			PreviousIndex: in.PreviousIndex,
			ScriptSig:     NewScript(in.ScriptSig, params),
			Sequence:      in.SequenceHex(),
		}
		if i < len(t.Witnesses) {
			for _, item := range t.Witnesses[i] {
				iv.Witness = append(iv.Witness, hex.EncodeToString(item))
			}
		}
		if in.ResolvedPrevOut != nil {
			iv.PrevOut = &PrevOut{
				Amount:       in.ResolvedPrevOut.Amount,
				ScriptPubKey: NewScript(in.ResolvedPrevOut.ScriptPubKey, params),
			}
		}
		view.Inputs[i] = iv
	}
	for i, out := range t.Outputs {
		view.Outputs[i] = Output{
			Index:        i,
			Amount:       out.Amount,
			ScriptPubKey: NewScript(out.ScriptPubKey, params),
		}
	}
	if t.Derived != nil {
		fee := t.Derived.MinerFee
		view.MinerFee = &fee
	}
	return view, nil
}
