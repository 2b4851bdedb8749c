package binio

import (
	"bytes"
	"encoding/binary"
)

// Writer accumulates little-endian primitives into an internal buffer,
// mirroring Reader's sticky-error behavior.
type Writer struct {
	buf bytes.Buffer
	Err error
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns everything written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteBytes appends b verbatim.
func (w *Writer) WriteBytes(b []byte) {
	if w.Err != nil {
		return
	}
	_, w.Err = w.buf.Write(b)
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(b byte) {
	w.WriteBytes([]byte{b})
}

// WriteBool appends a byte of 0 or 1.
func (w *Writer) WriteBool(b bool) {
	if b {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

// WriteU16LE appends a little-endian uint16.
func (w *Writer) WriteU16LE(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.WriteBytes(b[:])
}

// WriteU32LE appends a little-endian uint32.
func (w *Writer) WriteU32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.WriteBytes(b[:])
}

// WriteU64LE appends a little-endian uint64.
func (w *Writer) WriteU64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.WriteBytes(b[:])
}

// WriteVarUint appends v using Neo's variable-length unsigned encoding.
func (w *Writer) WriteVarUint(v uint64) {
	switch {
	case v < 0xfd:
		w.WriteByte(byte(v))
	case v <= 0xffff:
		w.WriteByte(0xfd)
		w.WriteU16LE(uint16(v))
	case v <= 0xffffffff:
		w.WriteByte(0xfe)
		w.WriteU32LE(uint32(v))
	default:
		w.WriteByte(0xff)
		w.WriteU64LE(v)
	}
}

// WriteVarBytes appends a VarUint length prefix followed by b.
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteString appends s as a VarBytes payload.
func (w *Writer) WriteString(s string) {
	w.WriteVarBytes([]byte(s))
}

// WriteFixedString appends s truncated or zero-padded to exactly n bytes.
func (w *Writer) WriteFixedString(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.WriteBytes(b)
}
