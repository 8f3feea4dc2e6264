package script

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// Type is the recognized template of a script.
type Type uint8

const (
	TypeCustom Type = iota
	TypeP2PKH
	TypeP2SH
)

func (t Type) String() string {
	switch t {
	case TypeP2PKH:
		return "pubkeyhash"
	case TypeP2SH:
		return "scripthash"
	default:
		return "nonstandard"
	}
}

// Label returns the short template name.
func (t Type) Label() string {
	switch t {
	case TypeP2PKH:
		return "P2PKH"
	case TypeP2SH:
		return "P2SH"
	default:
		return "Custom"
	}
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Classify matches the script bytes against the P2PKH and P2SH templates.
func Classify(raw []byte) Type {
	switch {
	case txscript.IsPayToPubKeyHash(raw):
		return TypeP2PKH
	case txscript.IsPayToScriptHash(raw):
		return TypeP2SH
	default:
		return TypeCustom
	}
}

func (s Script) Type() Type {
	return Classify(s.raw)
}

// Address returns the base58check address of a P2PKH or P2SH script for the given network.
func (s Script) Address(params *chaincfg.Params) (string, bool) {
	var (
		addr btcutil.Address
		err  error
	)
	switch s.Type() {
	case TypeP2PKH:
		addr, err = btcutil.NewAddressPubKeyHash(s.raw[3:23], params)
	case TypeP2SH:
		addr, err = btcutil.NewAddressScriptHashFromHash(s.raw[2:22], params)
	default:
		return "", false
	}
	if err != nil {
		return "", false
	}
	return addr.EncodeAddress(), true
}

// Hash160 returns RIPEMD160(SHA256(b)).
func Hash160(b []byte) []byte {
	return btcutil.Hash160(b)
}

// NewP2PKH builds a pay-to-pubkey-hash script for the public key.
func NewP2PKH(pubKey []byte) (Script, error) {
	raw, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).
		AddOp(txscript.OP_HASH160).
		AddData(Hash160(pubKey)).
		AddOp(txscript.OP_EQUALVERIFY).
		AddOp(txscript.OP_CHECKSIG).
		Script()
	if err != nil {
		return Script{}, fmt.Errorf("build p2pkh script: %w", err)
	}
	return Script{raw: raw}, nil
}

// NewP2SH builds a pay-to-script-hash script committing to the redeem script.
func NewP2SH(redeemScript []byte) (Script, error) {
	raw, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(Hash160(redeemScript)).
		AddOp(txscript.OP_EQUAL).
		Script()
	if err != nil {
		return Script{}, fmt.Errorf("build p2sh script: %w", err)
	}
	return Script{raw: raw}, nil
}
