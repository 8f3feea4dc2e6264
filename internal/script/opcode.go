package script

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/txscript"
)

// Opcode is a single script instruction byte.
type Opcode byte

const (
	OpPushBytesMin Opcode = txscript.OP_DATA_1
	OpPushBytesMax Opcode = txscript.OP_DATA_75
	OpPushNumMin   Opcode = txscript.OP_1
	OpPushNumMax   Opcode = 0x5f // OP_15
)

// aliases resolve to an opcode that already has a canonical name.
var aliases = map[string]struct{}{
	"OP_FALSE": {},
	"OP_TRUE":  {},
	"OP_NOP2":  {},
	"OP_NOP3":  {},
}

var opcodeNames = func() [256]string {
	var names [256]string
	for name, value := range txscript.OpcodeByName {
		if _, ok := aliases[name]; ok {
			continue
		}
		names[value] = name
	}
	return names
}()

// Name returns the canonical mnemonic of the opcode.
func (o Opcode) Name() string {
	if name := opcodeNames[o]; name != "" {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN%d", byte(o))
}

func (o Opcode) String() string {
	return o.Name()
}

// IsPushBytes reports whether the opcode pushes the next 1 to 75 bytes.
func (o Opcode) IsPushBytes() bool {
	return o >= OpPushBytesMin && o <= OpPushBytesMax
}

// IsPushNum reports whether the opcode pushes a small number in [1, 15].
func (o Opcode) IsPushNum() bool {
	return o >= OpPushNumMin && o <= OpPushNumMax
}

// SmallNumber returns the value pushed by OP_1 to OP_15.
func (o Opcode) SmallNumber() int {
	return int(o-OpPushNumMin) + 1
}

// LookupOpcode resolves a mnemonic, including the OP_FALSE, OP_TRUE, OP_NOP2 and OP_NOP3 aliases.
// Matching is case insensitive.
func LookupOpcode(name string) (Opcode, bool) {
	value, ok := txscript.OpcodeByName[strings.ToUpper(name)]
	return Opcode(value), ok
}
