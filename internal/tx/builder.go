package tx

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/script"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
	"gopkg.in/yaml.v3"
)

const defaultSequence = "ffffffff"

// Template describes a transaction to build. Hashes and sequences use display order.
type Template struct {
	Version  uint32           `yaml:"version" json:"version"`
	Segwit   bool             `yaml:"segwit" json:"segwit"`
	Inputs   []InputTemplate  `yaml:"inputs" json:"inputs"`
	Outputs  []OutputTemplate `yaml:"outputs" json:"outputs"`
	LockTime uint32           `yaml:"locktime" json:"locktime"`
}

type InputTemplate struct {
	PrevTxID string         `yaml:"prev_txid" json:"prev_txid"`
	Index    uint32         `yaml:"index" json:"index"`
	Script   ScriptTemplate `yaml:"script" json:"script"`
	Sequence string         `yaml:"sequence,omitempty" json:"sequence,omitempty"`
	// Witness items as hex. Only used for segwit templates.
	Witness []string `yaml:"witness,omitempty" json:"witness,omitempty"`
}

type OutputTemplate struct {
	Amount uint64         `yaml:"amount" json:"amount"`
	Script ScriptTemplate `yaml:"script" json:"script"`
}

// ScriptTemplate selects how a script is produced:
// p2sh hashes the redeem script given as hex or asm, p2pkh hashes pubkey,
// empty yields the single OP_0 byte and custom takes hex or asm verbatim.
type ScriptTemplate struct {
	Kind   string `yaml:"kind" json:"kind"`
	Hex    string `yaml:"hex,omitempty" json:"hex,omitempty"`
	ASM    string `yaml:"asm,omitempty" json:"asm,omitempty"`
	PubKey string `yaml:"pubkey,omitempty" json:"pubkey,omitempty"`
}

// LoadTemplate reads a YAML or JSON template.
func LoadTemplate(r io.Reader) (Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		if errors.Is(err, io.EOF) {
			return Template{}, txerr.New(txerr.InputValidation, "load template", "empty template")
		}
		return Template{}, txerr.Wrap(txerr.InputValidation, "load template", err)
	}
	return tmpl, nil
}

// Build turns tmpl into a transaction and checks that c can encode it and
// decode the result back.
func (c *Codec) Build(tmpl Template) (*Transaction, error) {
	t, err := Build(tmpl)
	if err != nil {
		return nil, err
	}
	if err := validate(t, c.cfg); err != nil {
		return nil, err
	}
	return t, nil
}

// Build turns a template into a transaction.
func Build(tmpl Template) (*Transaction, error) {
	if len(tmpl.Inputs) == 0 {
		return nil, txerr.New(txerr.InputValidation, "build", "template has no inputs")
	}
	if len(tmpl.Outputs) == 0 {
		return nil, txerr.New(txerr.InputValidation, "build", "template has no outputs")
	}

	t := &Transaction{
		Version:  tmpl.Version,
		Segwit:   tmpl.Segwit,
		Inputs:   make([]Input, len(tmpl.Inputs)),
		Outputs:  make([]Output, len(tmpl.Outputs)),
		LockTime: tmpl.LockTime,
	}
	if tmpl.Segwit {
		t.Witnesses = make([]WitnessStack, len(tmpl.Inputs))
	}

	for i, it := range tmpl.Inputs {
		in, err := buildInput(it)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		t.Inputs[i] = in
		if len(it.Witness) == 0 {
			continue
		}
		if !tmpl.Segwit {
			return nil, txerr.New(txerr.InputValidation, "build", "input %d has witness items but segwit is off", i)
		}
		stack := make(WitnessStack, len(it.Witness))
		for j, item := range it.Witness {
			if stack[j], err = hex.DecodeString(item); err != nil {
				return nil, txerr.New(txerr.InputValidation, "build", "input %d witness item %d: %w", i, j, err)
			}
		}
		t.Witnesses[i] = stack
	}
	for i, ot := range tmpl.Outputs {
		s, err := ot.Script.Build()
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		t.Outputs[i] = Output{Amount: ot.Amount, ScriptPubKey: s}
	}
	return t, nil
}

func buildInput(it InputTemplate) (Input, error) {
	txid, err := chainhash.NewHashFromStr(it.PrevTxID)
	if err != nil || len(it.PrevTxID) != chainhash.MaxHashStringSize {
		return Input{}, txerr.New(txerr.InputValidation, "build", "previous txid %q must be 64 hex characters", it.PrevTxID)
	}
	seq, err := parseSequence(it.Sequence)
	if err != nil {
		return Input{}, err
	}
	sig, err := it.Script.Build()
	if err != nil {
		return Input{}, err
	}
	return Input{
		PreviousTxID:  *txid,
		PreviousIndex: it.Index,
		ScriptSig:     sig,
		Sequence:      seq,
	}, nil
}

func parseSequence(s string) ([4]byte, error) {
	var seq [4]byte
	if s == "" {
		s = defaultSequence
	}
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(seq) {
		return seq, txerr.New(txerr.InputValidation, "build", "sequence %q must be 8 hex characters", s)
	}
	slices.Reverse(b)
	copy(seq[:], b)
	return seq, nil
}

// Build produces the script described by the template.
func (st ScriptTemplate) Build() (script.Script, error) {
	switch strings.ToLower(st.Kind) {
	case "p2sh":
		redeem, err := st.source()
		if err != nil {
			return script.Script{}, err
		}
		return script.NewP2SH(redeem.Bytes())
	case "p2pkh":
		pubKey, err := hex.DecodeString(st.PubKey)
		if err != nil || len(pubKey) == 0 {
			return script.Script{}, txerr.New(txerr.InputValidation, "build script", "invalid public key %q", st.PubKey)
		}
		return script.NewP2PKH(pubKey)
	case "empty":
		return script.New([]byte{0x00}), nil
	case "custom":
		return st.source()
	default:
		return script.Script{}, txerr.New(txerr.InputValidation, "build script", "unknown script kind %q", st.Kind)
	}
}

func (st ScriptTemplate) source() (script.Script, error) {
	switch {
	case st.Hex != "" && st.ASM != "":
		return script.Script{}, txerr.New(txerr.InputValidation, "build script", "both hex and asm given")
	case st.Hex != "":
		return script.FromHex(st.Hex)
	case st.ASM != "":
		return script.Assemble(st.ASM)
	default:
		return script.Script{}, txerr.New(txerr.InputValidation, "build script", "%s script needs hex or asm", st.Kind)
	}
}
