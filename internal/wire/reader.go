package wire

import (
	"encoding/binary"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
)

// Reader is a forward cursor over an in-memory buffer.
type Reader struct {
	buf       []byte
	pos       int
	allowZero bool
}

type ReaderOption func(*Reader)

// AllowZeroCompactSize accepts zero-valued compact sizes, which are rejected by default.
func AllowZeroCompactSize() ReaderOption {
	return func(r *Reader) {
		r.allowZero = true
	}
}

func NewReader(b []byte, opts ...ReaderOption) *Reader {
	r := &Reader{buf: b}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pos returns the number of bytes consumed so far.
func (r *Reader) Pos() int {
	return r.pos
}

func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, txerr.New(txerr.MalformedEncoding, "read", "short read: need %d bytes at offset %d, have %d", n, r.pos, r.Remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadUint16LE() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadUint16BE() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) ReadUint32LE() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadUint32BE() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) ReadUint64LE() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadUint64BE() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadInto fills dst from the buffer.
func (r *Reader) ReadInto(dst []byte) error {
	b, err := r.next(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// Peek returns a copy of the next n bytes without advancing.
func (r *Reader) Peek(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, txerr.New(txerr.MalformedEncoding, "peek", "short read: need %d bytes at offset %d, have %d", n, r.pos, r.Remaining())
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	return out, nil
}

// Seek moves the cursor by delta bytes in either direction.
func (r *Reader) Seek(delta int) error {
	target := r.pos + delta
	if target < 0 || target > len(r.buf) {
		return txerr.New(txerr.MalformedEncoding, "seek", "offset %d out of range [0, %d]", target, len(r.buf))
	}
	r.pos = target
	return nil
}

func (r *Reader) ReadCompactSize() (uint64, error) {
	v, n, err := DecodeCompactSize(r.buf[r.pos:], r.allowZero)
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// ReadVarBytes reads a compact-size length followed by that many bytes.
func (r *Reader) ReadVarBytes() ([]byte, error) {
	n, err := r.ReadCompactSize()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.Remaining()) {
		return nil, txerr.New(txerr.MalformedEncoding, "read", "length %d at offset %d exceeds remaining %d bytes", n, r.pos, r.Remaining())
	}
	return r.ReadBytes(int(n))
}
