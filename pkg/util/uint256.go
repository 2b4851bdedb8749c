package util

import (
	"encoding/hex"
	"fmt"
)

// Uint256Size is the length in bytes of a Uint256.
const Uint256Size = 32

// Uint256 is a 32-byte value, used for the double-SHA256 checksum digest
// computed over an NEF header and for script hashes of larger payloads.
type Uint256 [Uint256Size]byte

// Uint256DecodeBytesBE decodes a big-endian byte slice into a Uint256.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected %d bytes, got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns the big-endian byte representation.
func (u Uint256) BytesBE() []byte {
	out := make([]byte, Uint256Size)
	copy(out, u[:])
	return out
}

// StringBE renders u as a big-endian hex string without a prefix.
func (u Uint256) StringBE() string {
	return hex.EncodeToString(u.BytesBE())
}

// String implements fmt.Stringer.
func (u Uint256) String() string {
	return "0x" + u.StringBE()
}
