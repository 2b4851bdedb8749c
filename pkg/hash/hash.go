// Package hash provides the two digests the NEF format relies on: the
// double-SHA256 checksum carried in the container header, and the
// SHA256-then-RIPEMD160 script hash used to derive a contract's identity.
// Grounded on neo-go's pkg/crypto/hash, adapted to the Go standard library's
// sha256 plus golang.org/x/crypto's ripemd160 (removed from the stdlib).
package hash

import (
	"crypto/sha256"

	"github.com/r3e-network/neo-decompiler/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // only non-stdlib implementation available
)

// Sha256 returns the SHA256 digest of data.
func Sha256(data []byte) util.Uint256 {
	sum := sha256.Sum256(data)
	u, _ := util.Uint256DecodeBytesBE(sum[:])
	return u
}

// DoubleSha256 returns SHA256(SHA256(data)).
func DoubleSha256(data []byte) util.Uint256 {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	u, _ := util.Uint256DecodeBytesBE(second[:])
	return u
}

// RipeMD160 returns the RIPEMD160 digest of data.
func RipeMD160(data []byte) util.Uint160 {
	h := ripemd160.New()
	_, _ = h.Write(data)
	u, _ := util.Uint160DecodeBytesBE(h.Sum(nil))
	return u
}

// Hash160 returns RIPEMD160(SHA256(data)), the script-hash algorithm used
// to derive a contract's address from its raw bytecode (§4.1 of the spec).
func Hash160(data []byte) util.Uint160 {
	sum := sha256.Sum256(data)
	return RipeMD160(sum[:])
}

// Checksum returns the first 4 little-endian bytes of DoubleSha256(data),
// the NEF container's integrity field (§3 NefFile invariant).
func Checksum(data []byte) [4]byte {
	d := DoubleSha256(data)
	var out [4]byte
	copy(out[:], d.BytesBE()[:4])
	return out
}
