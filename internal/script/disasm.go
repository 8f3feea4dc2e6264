package script

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
)

// Disassemble renders the script as space separated ASM tokens.
func (s Script) Disassemble() (string, error) {
	return Disassemble(s.raw)
}

// Disassemble renders raw script bytes as ASM.
// Data pushes become lowercase hex, OP_1 to OP_15 become their decimal value
// and every other opcode becomes its mnemonic.
func Disassemble(raw []byte) (string, error) {
	tokens := make([]string, 0, len(raw))
	tokenizer := txscript.MakeScriptTokenizer(0, raw)
	for tokenizer.Next() {
		op := Opcode(tokenizer.Opcode())
		data := tokenizer.Data()
		switch {
		case op.IsPushBytes():
			tokens = append(tokens, hex.EncodeToString(data))
		case isPushData(op) && len(data) > 0:
			tokens = append(tokens, hex.EncodeToString(data))
		case op.IsPushNum():
			tokens = append(tokens, strconv.Itoa(op.SmallNumber()))
		default:
			tokens = append(tokens, op.Name())
		}
	}
	if err := tokenizer.Err(); err != nil {
		return "", txerr.New(txerr.MalformedEncoding, "disassemble", "offset %d: %w", tokenizer.ByteIndex(), err)
	}
	return strings.Join(tokens, " "), nil
}

func isPushData(op Opcode) bool {
	return op == txscript.OP_PUSHDATA1 || op == txscript.OP_PUSHDATA2 || op == txscript.OP_PUSHDATA4
}
