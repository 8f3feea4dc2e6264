package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
)

const (
	compactSize16 = 0xfd
	compactSize32 = 0xfe
	compactSize64 = 0xff
)

// CompactSizeLen returns the encoded width of v.
func CompactSizeLen(v uint64) int {
	return btcwire.VarIntSerializeSize(v)
}

// AppendCompactSize appends the minimal compact-size encoding of v to dst.
func AppendCompactSize(dst []byte, v uint64) []byte {
	switch {
	case v < compactSize16:
		return append(dst, byte(v))
	case v <= math.MaxUint16:
		dst = append(dst, compactSize16)
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case v <= math.MaxUint32:
		dst = append(dst, compactSize32)
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	default:
		dst = append(dst, compactSize64)
		return binary.LittleEndian.AppendUint64(dst, v)
	}
}

// EncodeCompactSize returns the minimal compact-size encoding of v.
func EncodeCompactSize(v uint64) []byte {
	return AppendCompactSize(make([]byte, 0, CompactSizeLen(v)), v)
}

// DecodeCompactSize decodes a compact-size integer from the start of b and
// returns the value with the number of bytes consumed.
// Non-minimal encodings are rejected, and so is zero unless allowZero is set.
func DecodeCompactSize(b []byte, allowZero bool) (uint64, int, error) {
	r := bytes.NewReader(b)
	v, err := btcwire.ReadVarInt(r, 0)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, 0, txerr.New(txerr.MalformedEncoding, "read compact size", "short read: %d bytes available", len(b))
		}
		return 0, 0, txerr.Wrap(txerr.MalformedEncoding, "read compact size", err)
	}
	if v == 0 && !allowZero {
		return 0, 0, txerr.New(txerr.MalformedEncoding, "read compact size", "zero value")
	}
	return v, len(b) - r.Len(), nil
}
