package tx

import (
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/wire"
)

// Encode serializes t. It mirrors Decode, including the configured witness rule.
func (c *Codec) Encode(t *Transaction) (raw []byte, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("encode", err, started)
	}()

	if err = validate(t, c.cfg); err != nil {
		return nil, err
	}
	s := newSerializer(c.cfg.WitnessRule)
	s.write(t)
	return s.Bytes(), nil
}

func (c *Codec) EncodeHex(t *Transaction) (string, error) {
	raw, err := c.Encode(t)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// WitnessTxID hashes the full serialization, witness data included.
func (c *Codec) WitnessTxID(t *Transaction) (chainhash.Hash, error) {
	raw, err := c.Encode(t)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(raw), nil
}

// validate rejects transactions whose serialization Decode with the same
// config would not accept.
func validate(t *Transaction, cfg Config) error {
	if t == nil {
		return txerr.New(txerr.InvariantViolation, "encode", "nil transaction")
	}
	if len(t.Inputs) == 0 {
		return txerr.New(txerr.InvariantViolation, "encode", "transaction has no inputs")
	}
	if len(t.Outputs) == 0 {
		return txerr.New(txerr.InvariantViolation, "encode", "transaction has no outputs")
	}
	strict := !cfg.AllowZeroCompactSize
	if strict {
		for i, in := range t.Inputs {
			if in.ScriptSig.Len() == 0 {
				return txerr.New(txerr.InvariantViolation, "encode", "input %d has a zero length scriptSig", i)
			}
		}
		for i, out := range t.Outputs {
			if out.ScriptPubKey.Len() == 0 {
				return txerr.New(txerr.InvariantViolation, "encode", "output %d has a zero length scriptPubKey", i)
			}
		}
	}
	if !t.Segwit {
		if len(t.Witnesses) != 0 {
			return txerr.New(txerr.InvariantViolation, "encode", "witness data without witness flag")
		}
		return nil
	}
	if len(t.Witnesses) != len(t.Inputs) {
		return txerr.New(txerr.InvariantViolation, "encode", "%d witness stacks for %d inputs", len(t.Witnesses), len(t.Inputs))
	}
	for i, in := range t.Inputs {
		stack := t.Witnesses[i]
		if !cfg.WitnessRule.carriesStack(in) {
			if len(stack) != 0 {
				return txerr.New(txerr.InvariantViolation, "encode", "input %d has an empty scriptSig and %d witness items", i, len(stack))
			}
			continue
		}
		if !strict {
			continue
		}
		if len(stack) == 0 {
			return txerr.New(txerr.InvariantViolation, "encode", "input %d needs at least one witness item", i)
		}
		for j, item := range stack {
			if len(item) == 0 {
				return txerr.New(txerr.InvariantViolation, "encode", "input %d witness item %d is empty", i, j)
			}
		}
	}
	return nil
}

type serializer struct {
	*wire.Writer
	rule WitnessRule
}

func newSerializer(rule WitnessRule) *serializer {
	return &serializer{Writer: wire.NewWriter(256), rule: rule}
}

func (s *serializer) write(t *Transaction) {
	s.WriteUint32LE(t.Version)
	if t.Segwit {
		s.WriteUint8(witnessMarker)
		s.WriteUint8(witnessFlag)
	}
	s.writeBody(t)
	if t.Segwit {
		for i, in := range t.Inputs {
			if !s.rule.carriesStack(in) {
				continue
			}
			stack := t.Witnesses[i]
			s.WriteCompactSize(uint64(len(stack)))
			for _, item := range stack {
				s.WriteVarBytes(item)
			}
		}
	}
	s.WriteUint32LE(t.LockTime)
}

// writeLegacy writes the serialization used for the transaction id.
func (s *serializer) writeLegacy(t *Transaction) {
	s.WriteUint32LE(t.Version)
	s.writeBody(t)
	s.WriteUint32LE(t.LockTime)
}

func (s *serializer) writeBody(t *Transaction) {
	s.WriteCompactSize(uint64(len(t.Inputs)))
	for _, in := range t.Inputs {
		s.WriteBytes(in.PreviousTxID[:])
		s.WriteUint32LE(in.PreviousIndex)
		s.WriteVarBytes(in.ScriptSig.Bytes())
		s.WriteBytes(in.Sequence[:])
	}
	s.WriteCompactSize(uint64(len(t.Outputs)))
	for _, out := range t.Outputs {
		s.WriteUint64LE(out.Amount)
		s.WriteVarBytes(out.ScriptPubKey.Bytes())
	}
}
