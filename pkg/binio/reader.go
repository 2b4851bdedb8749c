// Package binio provides little-endian binary readers and writers used by
// the NEF and manifest parsers, in the style of neo-go's pkg/io helpers:
// sticky-error wrappers so a long chain of reads/writes doesn't need a
// check after every call.
package binio

import (
	"encoding/binary"
	"fmt"
)

// Reader reads little-endian primitives out of an in-memory byte slice,
// accumulating the first error encountered. Once Err is set, every
// subsequent read is a no-op that returns the zero value.
type Reader struct {
	Data []byte
	Pos  int
	Err  error
}

// NewReader wraps b for sequential reading.
func NewReader(b []byte) *Reader {
	return &Reader{Data: b}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.Data) - r.Pos
}

func (r *Reader) fail(err error) {
	if r.Err == nil {
		r.Err = err
	}
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() byte {
	if r.Err != nil {
		return 0
	}
	if r.Pos >= len(r.Data) {
		r.fail(fmt.Errorf("binio: unexpected end of data at offset %d", r.Pos))
		return 0
	}
	b := r.Data[r.Pos]
	r.Pos++
	return b
}

// ReadBool reads a byte and interprets any non-zero value as true.
func (r *Reader) ReadBool() bool {
	return r.ReadByte() != 0
}

// ReadU16LE reads a little-endian uint16.
func (r *Reader) ReadU16LE() uint16 {
	b := r.ReadBytes(2)
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadU32LE reads a little-endian uint32.
func (r *Reader) ReadU32LE() uint32 {
	b := r.ReadBytes(4)
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadU64LE reads a little-endian uint64.
func (r *Reader) ReadU64LE() uint64 {
	b := r.ReadBytes(8)
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadBytes reads and returns the next n bytes verbatim.
func (r *Reader) ReadBytes(n int) []byte {
	if r.Err != nil {
		return nil
	}
	if n < 0 || r.Pos+n > len(r.Data) {
		r.fail(fmt.Errorf("binio: need %d bytes at offset %d, only %d remain", n, r.Pos, r.Remaining()))
		return nil
	}
	b := r.Data[r.Pos : r.Pos+n]
	r.Pos += n
	return b
}

// ReadVarUint reads a Neo-style variable-length unsigned integer:
// a single byte for values < 0xFD, or a marker byte (0xFD/0xFE/0xFF)
// followed by 2/4/8 little-endian bytes.
func (r *Reader) ReadVarUint() uint64 {
	b := r.ReadByte()
	switch b {
	case 0xfd:
		return uint64(r.ReadU16LE())
	case 0xfe:
		return uint64(r.ReadU32LE())
	case 0xff:
		return r.ReadU64LE()
	default:
		return uint64(b)
	}
}

// ReadVarBytes reads a VarUint length prefix followed by that many bytes,
// rejecting a claimed length above maxSize (guarding against malformed
// or adversarial inputs inflating an allocation).
func (r *Reader) ReadVarBytes(maxSize int) []byte {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n > uint64(maxSize) {
		r.fail(fmt.Errorf("binio: declared length %d exceeds limit %d", n, maxSize))
		return nil
	}
	out := r.ReadBytes(int(n))
	if out == nil {
		return nil
	}
	cp := make([]byte, len(out))
	copy(cp, out)
	return cp
}

// ReadString reads a VarBytes payload and interprets it as UTF-8.
func (r *Reader) ReadString(maxSize int) string {
	return string(r.ReadVarBytes(maxSize))
}

// ReadFixedString reads exactly n bytes and trims trailing NUL padding.
func (r *Reader) ReadFixedString(n int) string {
	b := r.ReadBytes(n)
	if r.Err != nil {
		return ""
	}
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end])
}
