package script

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
)

// Assemble parses ASM text. Each token is resolved as an opcode mnemonic, then as
// a decimal 1 to 15, and otherwise as hex data pushed with the smallest prefix.
func Assemble(asm string) (Script, error) {
	tokens := strings.Fields(asm)
	raw := make([]byte, 0, len(asm)/2+len(tokens))
	for i, token := range tokens {
		if op, ok := LookupOpcode(token); ok {
			raw = append(raw, byte(op))
			continue
		}
		if n, ok := smallNumber(token); ok {
			raw = append(raw, byte(OpPushNumMin)+byte(n-1))
			continue
		}
		data, err := hex.DecodeString(token)
		if err != nil {
			return Script{}, txerr.New(txerr.InputValidation, "assemble", "token %d %q: %w", i, token, err)
		}
		if len(data) == 0 {
			return Script{}, txerr.New(txerr.InputValidation, "assemble", "token %d %q: empty push", i, token)
		}
		raw = appendPush(raw, data)
	}
	return Script{raw: raw}, nil
}

// AssembleCanonical assembles asm and fails when the result does not
// disassemble back to the same tokens.
func AssembleCanonical(asm string) (Script, error) {
	s, err := Assemble(asm)
	if err != nil {
		return Script{}, err
	}
	got, err := s.Disassemble()
	if err != nil {
		return Script{}, txerr.Wrap(txerr.InputValidation, "assemble", err)
	}
	want := strings.Join(strings.Fields(asm), " ")
	if !strings.EqualFold(got, want) {
		return Script{}, txerr.New(txerr.InputValidation, "assemble", "ambiguous asm: %q disassembles to %q", want, got)
	}
	return s, nil
}

// smallNumber accepts the canonical spelling of 1 to 15 only.
func smallNumber(token string) (int, bool) {
	if len(token) == 0 || len(token) > 2 || token[0] == '0' {
		return 0, false
	}
	n := 0
	for _, c := range token {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, n >= 1 && n <= 15
}

func appendPush(dst, data []byte) []byte {
	n := len(data)
	switch {
	case n < txscript.OP_PUSHDATA1:
		dst = append(dst, byte(n))
	case n <= math.MaxUint8:
		dst = append(dst, txscript.OP_PUSHDATA1, byte(n))
	case n <= math.MaxUint16:
		dst = append(dst, txscript.OP_PUSHDATA2)
		dst = binary.LittleEndian.AppendUint16(dst, uint16(n))
	default:
		dst = append(dst, txscript.OP_PUSHDATA4)
		dst = binary.LittleEndian.AppendUint32(dst, uint32(n))
	}
	return append(dst, data...)
}
