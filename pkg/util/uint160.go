// Package util holds the small fixed-size value types shared across the
// decompiler: 160-bit contract/account hashes and 256-bit hashes, in the
// style of neo-go's pkg/util.
package util

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Uint160Size is the length in bytes of a Uint160.
const Uint160Size = 20

// Uint160 is a 20-byte value, used for contract script hashes and
// public-key group hashes.
type Uint160 [Uint160Size]byte

// Uint160DecodeBytesBE decodes a big-endian byte slice into a Uint160.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected %d bytes, got %d", Uint160Size, len(b))
	}
	copy(u[:], b)
	return u, nil
}

// Uint160DecodeStringLE decodes a little-endian-ordered hex string
// (with or without a "0x" prefix) into a Uint160.
func Uint160DecodeStringLE(s string) (u Uint160, err error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Uint160Size*2 {
		return u, fmt.Errorf("expected string of length %d, got %d", Uint160Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	copy(u[:], b)
	return u, nil
}

// BytesBE returns the big-endian byte representation.
func (u Uint160) BytesBE() []byte {
	out := make([]byte, Uint160Size)
	copy(out, u[:])
	return out
}

// BytesLE returns the little-endian byte representation.
func (u Uint160) BytesLE() []byte {
	out := u.BytesBE()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// StringLE renders u as a little-endian hex string without a prefix.
func (u Uint160) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// StringBE renders u as a big-endian hex string without a prefix.
func (u Uint160) StringBE() string {
	return hex.EncodeToString(u.BytesBE())
}

// String implements fmt.Stringer, rendering as "0x" + little-endian hex,
// matching how Neo addresses and script hashes are conventionally displayed.
func (u Uint160) String() string {
	return "0x" + u.StringLE()
}

// Equals reports whether u and other hold the same bytes.
func (u Uint160) Equals(other Uint160) bool {
	return u == other
}

// IsZero reports whether u is the all-zero value.
func (u Uint160) IsZero() bool {
	return u == Uint160{}
}

// MarshalJSON implements json.Marshaler.
func (u Uint160) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *Uint160) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := Uint160DecodeStringLE(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
