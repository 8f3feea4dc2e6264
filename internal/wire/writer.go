package wire

import (
	"encoding/binary"
)

// Writer accumulates an encoding in memory.
type Writer struct {
	buf []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteUint16LE(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteUint16BE(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteUint32LE(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteUint32BE(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteUint64LE(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) WriteUint64BE(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteCompactSize(v uint64) {
	w.buf = AppendCompactSize(w.buf, v)
}

// WriteVarBytes writes the compact-size length of b followed by b.
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteCompactSize(uint64(len(b)))
	w.WriteBytes(b)
}

func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated encoding. The slice aliases the writer buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}
