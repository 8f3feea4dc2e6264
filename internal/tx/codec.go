package tx

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/script"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/wire"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/pkg/safe"
	"go.uber.org/zap"
)

const (
	witnessMarker = 0x00
	witnessFlag   = 0x01

	// txid, index, script length and sequence.
	minInputSize = 32 + 4 + 1 + 4
	// amount and script length.
	minOutputSize = 8 + 1
)

// WitnessRule selects which inputs carry a witness stack on the wire.
type WitnessRule uint8

const (
	// WitnessSkipEmptyScriptSig skips the stack of inputs whose scriptSig is empty.
	// It reproduces the behavior existing captured transactions were produced with.
	WitnessSkipEmptyScriptSig WitnessRule = iota
	// WitnessEveryInput reads one stack per input.
	WitnessEveryInput
)

// ParseWitnessRule maps the config names "skip-empty" and "every-input".
func ParseWitnessRule(name string) (WitnessRule, error) {
	switch strings.ToLower(name) {
	case "", "skip-empty":
		return WitnessSkipEmptyScriptSig, nil
	case "every-input":
		return WitnessEveryInput, nil
	default:
		return 0, fmt.Errorf("unsupported witness rule %q", name)
	}
}

func (r WitnessRule) String() string {
	if r == WitnessEveryInput {
		return "every-input"
	}
	return "skip-empty"
}

func (r WitnessRule) carriesStack(in Input) bool {
	return r == WitnessEveryInput || !in.ScriptSig.IsEmpty()
}

type Config struct {
	// AllowZeroCompactSize accepts zero-valued compact sizes for lengths.
	// Input and output counts must be non-zero regardless.
	AllowZeroCompactSize bool
	WitnessRule          WitnessRule
}

// Codec converts between raw transactions and Transaction values.
type Codec struct {
	cfg     Config
	lookup  PrevOutLookup
	logger  *zap.Logger
	metrics Metrics
}

// NewCodec builds a codec. A nil lookup disables previous output resolution.
func NewCodec(cfg Config, lookup PrevOutLookup, logger *zap.Logger, metrics Metrics) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Codec{
		cfg:     cfg,
		lookup:  lookup,
		logger:  logger,
		metrics: metrics,
	}
}

// DecodeHex decodes a hex transaction. A JSON-RPC envelope of the form
// {"result": "<hex>"} is unwrapped first.
func (c *Codec) DecodeHex(ctx context.Context, s string) (*Transaction, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		var envelope struct {
			Result string `json:"result"`
		}
		if err := json.Unmarshal([]byte(s), &envelope); err != nil {
			return nil, txerr.Wrap(txerr.InputValidation, "parse rpc envelope", err)
		}
		s = strings.TrimSpace(envelope.Result)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, txerr.Wrap(txerr.InputValidation, "parse transaction hex", err)
	}
	return c.Decode(ctx, raw)
}

// Decode parses a raw transaction. Previous outputs are looked up for every
// input; lookup failures are logged and leave the input unresolved.
func (c *Codec) Decode(ctx context.Context, raw []byte) (t *Transaction, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("decode", err, started)
	}()

	var opts []wire.ReaderOption
	if c.cfg.AllowZeroCompactSize {
		opts = append(opts, wire.AllowZeroCompactSize())
	}
	r := wire.NewReader(raw, opts...)

	t = &Transaction{}
	if t.Version, err = r.ReadUint32LE(); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if t.Segwit, err = readWitnessFlag(r); err != nil {
		return nil, fmt.Errorf("read witness flag: %w", err)
	}
	if t.Inputs, err = c.readInputs(ctx, r); err != nil {
		return nil, err
	}
	if t.Outputs, err = readOutputs(r); err != nil {
		return nil, err
	}
	if t.Segwit {
		if t.Witnesses, err = c.readWitnesses(r, t.Inputs); err != nil {
			return nil, err
		}
	}
	if t.LockTime, err = r.ReadUint32LE(); err != nil {
		return nil, fmt.Errorf("read lock time: %w", err)
	}
	if r.Remaining() != 0 {
		return nil, txerr.New(txerr.MalformedEncoding, "decode", "%d trailing bytes after lock time", r.Remaining())
	}

	if t.Resolved() {
		size, err := safe.Uint64(r.Pos())
		if err != nil {
			return nil, txerr.Wrap(txerr.InvariantViolation, "encoded size", err)
		}
		fee, err := minerFee(t)
		if err != nil {
			return nil, err
		}
		t.Derived = &Derived{MinerFee: fee, EncodedSize: size}
	}
	return t, nil
}

// readWitnessFlag consumes the marker and flag bytes when both are present.
func readWitnessFlag(r *wire.Reader) (bool, error) {
	if r.Remaining() < 2 {
		return false, nil
	}
	peek, err := r.Peek(2)
	if err != nil {
		return false, err
	}
	if peek[0] != witnessMarker {
		return false, nil
	}
	if peek[1] != witnessFlag {
		return false, nil
	}
	return true, r.Seek(2)
}

func readCount(r *wire.Reader, what string, minSize int) (int, error) {
	n, err := r.ReadCompactSize()
	if err != nil {
		return 0, fmt.Errorf("read %s count: %w", what, err)
	}
	if n == 0 {
		return 0, txerr.New(txerr.MalformedEncoding, "read "+what+" count", "transaction has no %ss", what)
	}
	if n > uint64(r.Remaining()/minSize) {
		return 0, txerr.New(txerr.MalformedEncoding, "read "+what+" count", "%d %ss do not fit in %d remaining bytes", n, what, r.Remaining())
	}
	return int(n), nil
}

func (c *Codec) readInputs(ctx context.Context, r *wire.Reader) ([]Input, error) {
	count, err := readCount(r, "input", minInputSize)
	if err != nil {
		return nil, err
	}
	inputs := make([]Input, count)
	for i := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in := &inputs[i]
		if err := r.ReadInto(in.PreviousTxID[:]); err != nil {
			return nil, fmt.Errorf("read input %d previous txid: %w", i, err)
		}
		if in.PreviousIndex, err = r.ReadUint32LE(); err != nil {
			return nil, fmt.Errorf("read input %d previous index: %w", i, err)
		}
		sig, err := r.ReadVarBytes()
		if err != nil {
			return nil, fmt.Errorf("read input %d script: %w", i, err)
		}
		in.ScriptSig = script.New(sig)
		if err := r.ReadInto(in.Sequence[:]); err != nil {
			return nil, fmt.Errorf("read input %d sequence: %w", i, err)
		}
		in.ResolvedPrevOut = c.resolve(ctx, in.PreviousTxID, in.PreviousIndex)
	}
	return inputs, nil
}

func (c *Codec) resolve(ctx context.Context, txid chainhash.Hash, index uint32) *Output {
	if c.lookup == nil {
		return nil
	}
	out, err := c.lookup.LookupPrevOut(ctx, txid, index)
	if err != nil {
		if !errors.Is(err, txerr.ErrUnresolvedDependency) {
			err = txerr.Wrap(txerr.UnresolvedDependency, "lookup previous output", err)
		}
		c.logger.Warn("previous output unresolved",
			zap.Stringer("txid", txid),
			zap.Uint32("index", index),
			zap.Error(err),
		)
		return nil
	}
	return &out
}

func readOutputs(r *wire.Reader) ([]Output, error) {
	count, err := readCount(r, "output", minOutputSize)
	if err != nil {
		return nil, err
	}
	outputs := make([]Output, count)
	for i := range outputs {
		out := &outputs[i]
		if out.Amount, err = r.ReadUint64LE(); err != nil {
			return nil, fmt.Errorf("read output %d amount: %w", i, err)
		}
		pk, err := r.ReadVarBytes()
		if err != nil {
			return nil, fmt.Errorf("read output %d script: %w", i, err)
		}
		out.ScriptPubKey = script.New(pk)
	}
	return outputs, nil
}

func (c *Codec) readWitnesses(r *wire.Reader, inputs []Input) ([]WitnessStack, error) {
	witnesses := make([]WitnessStack, len(inputs))
	for i, in := range inputs {
		if !c.cfg.WitnessRule.carriesStack(in) {
			continue
		}
		n, err := r.ReadCompactSize()
		if err != nil {
			return nil, fmt.Errorf("read witness %d item count: %w", i, err)
		}
		if n > uint64(r.Remaining()) {
			return nil, txerr.New(txerr.MalformedEncoding, "read witness", "input %d declares %d items with %d bytes left", i, n, r.Remaining())
		}
		stack := make(WitnessStack, n)
		for j := range stack {
			if stack[j], err = r.ReadVarBytes(); err != nil {
				return nil, fmt.Errorf("read witness %d item %d: %w", i, j, err)
			}
		}
		witnesses[i] = stack
	}
	return witnesses, nil
}

func minerFee(t *Transaction) (uint64, error) {
	var in, out uint64
	var err error
	for _, input := range t.Inputs {
		if in, err = safe.AddUint64(in, input.ResolvedPrevOut.Amount); err != nil {
			return 0, txerr.Wrap(txerr.InvariantViolation, "sum inputs", err)
		}
	}
	for _, output := range t.Outputs {
		if out, err = safe.AddUint64(out, output.Amount); err != nil {
			return 0, txerr.Wrap(txerr.InvariantViolation, "sum outputs", err)
		}
	}
	fee, err := safe.SubUint64(in, out)
	if err != nil {
		return 0, txerr.Wrap(txerr.InvariantViolation, "miner fee", err)
	}
	return fee, nil
}
