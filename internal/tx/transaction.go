// Package tx decodes and encodes transactions in the legacy and segregated witness layouts.
package tx

import (
	"bytes"
	"encoding/hex"
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/script"
)

// Output is a value locked by a scriptPubKey.
type Output struct {
	Amount       uint64
	ScriptPubKey script.Script
}

func (o Output) Equal(other Output) bool {
	return o.Amount == other.Amount && o.ScriptPubKey.Equal(other.ScriptPubKey)
}

// Input spends a previous output.
type Input struct {
	// PreviousTxID is kept in wire order. Its String method prints the usual reversed form.
	PreviousTxID  chainhash.Hash
	PreviousIndex uint32
	ScriptSig     script.Script
	// Sequence is kept in wire order.
	Sequence [4]byte
	// ResolvedPrevOut is set when the spent output could be looked up.
	ResolvedPrevOut *Output
}

// SequenceHex renders the sequence byte reversed, the way explorers display it.
func (in Input) SequenceHex() string {
	reversed := in.Sequence
	slices.Reverse(reversed[:])
	return hex.EncodeToString(reversed[:])
}

// Equal compares the encoded fields and ignores the resolved previous output.
func (in Input) Equal(other Input) bool {
	return in.PreviousTxID == other.PreviousTxID &&
		in.PreviousIndex == other.PreviousIndex &&
		in.ScriptSig.Equal(other.ScriptSig) &&
		in.Sequence == other.Sequence
}

// WitnessStack holds the witness items of one input.
type WitnessStack [][]byte

func (w WitnessStack) Equal(other WitnessStack) bool {
	return slices.EqualFunc(w, other, bytes.Equal)
}

// Derived holds values that exist only when every input resolved its previous output.
type Derived struct {
	MinerFee    uint64
	EncodedSize uint64
}

type Transaction struct {
	Version uint32
	Segwit  bool
	Inputs  []Input
	Outputs []Output
	// Witnesses has one stack per input when Segwit is set.
	Witnesses []WitnessStack
	LockTime  uint32
	Derived   *Derived
}

// Equal compares the encoded content of two transactions. Resolved previous
// outputs and derived values are ignored.
func (t *Transaction) Equal(other *Transaction) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Version == other.Version &&
		t.Segwit == other.Segwit &&
		t.LockTime == other.LockTime &&
		slices.EqualFunc(t.Inputs, other.Inputs, Input.Equal) &&
		slices.EqualFunc(t.Outputs, other.Outputs, Output.Equal) &&
		slices.EqualFunc(t.Witnesses, other.Witnesses, WitnessStack.Equal)
}

// Resolved reports whether every input carries its previous output.
func (t *Transaction) Resolved() bool {
	for _, in := range t.Inputs {
		if in.ResolvedPrevOut == nil {
			return false
		}
	}
	return len(t.Inputs) > 0
}

// TxID hashes the serialization without witness data.
func (t *Transaction) TxID() chainhash.Hash {
	w := newSerializer(WitnessEveryInput)
	w.writeLegacy(t)
	return chainhash.DoubleHashH(w.Bytes())
}

// Clone returns a deep copy. Scripts are immutable and shared.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}
	c := *t
	c.Inputs = make([]Input, len(t.Inputs))
	for i, in := range t.Inputs {
		if in.ResolvedPrevOut != nil {
			prev := *in.ResolvedPrevOut
			in.ResolvedPrevOut = &prev
		}
		c.Inputs[i] = in
	}
	c.Outputs = slices.Clone(t.Outputs)
	if t.Witnesses != nil {
		c.Witnesses = make([]WitnessStack, len(t.Witnesses))
		for i, stack := range t.Witnesses {
			if stack == nil {
				continue
			}
			c.Witnesses[i] = make(WitnessStack, len(stack))
			for j, item := range stack {
				c.Witnesses[i][j] = bytes.Clone(item)
			}
		}
	}
	if t.Derived != nil {
		d := *t.Derived
		c.Derived = &d
	}
	return &c
}
