// Package script disassembles, assembles and classifies transaction scripts.
package script

import (
	"bytes"
	"encoding/hex"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
)

// Script is an immutable byte sequence attached to an input or output.
type Script struct {
	raw []byte
}

// New copies b into a Script.
func New(b []byte) Script {
	if len(b) == 0 {
		return Script{}
	}
	return Script{raw: bytes.Clone(b)}
}

// FromHex parses a hex encoded script.
func FromHex(s string) (Script, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Script{}, txerr.Wrap(txerr.InputValidation, "parse script hex", err)
	}
	return Script{raw: b}, nil
}

// Empty returns the zero-length script.
func Empty() Script {
	return Script{}
}

// Bytes returns a copy of the script bytes.
func (s Script) Bytes() []byte {
	return bytes.Clone(s.raw)
}

func (s Script) Len() int {
	return len(s.raw)
}

func (s Script) Hex() string {
	return hex.EncodeToString(s.raw)
}

func (s Script) Equal(other Script) bool {
	return bytes.Equal(s.raw, other.raw)
}

// IsEmpty reports whether the script is zero length or the single OP_0 byte
// used to encode an empty scriptSig.
func (s Script) IsEmpty() bool {
	return len(s.raw) == 0 || (len(s.raw) == 1 && s.raw[0] == 0x00)
}

func (s Script) String() string {
	return s.Hex()
}

// MarshalText renders the script as hex.
func (s Script) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

func (s *Script) UnmarshalText(text []byte) error {
	parsed, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
