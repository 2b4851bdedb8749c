// Package address renders a contract script hash as a Neo "address":
// a base58check string with the standard account-version prefix byte.
// This supplements §4.1's bare hex script_hash with the human-facing
// form the original platform displays, grounded on neo-go's
// pkg/encoding/address (which layers base58-check on top of its own
// base58 codec; here the checksum itself rides on the decompiler's own
// hash.Checksum and go-base58's plain alphabet codec).
package address

import (
	"errors"

	"github.com/mr-tron/base58"
	"github.com/r3e-network/neo-decompiler/pkg/hash"
	"github.com/r3e-network/neo-decompiler/pkg/util"
)

// Version is the standard Neo N3 account address version byte.
const Version = 0x35

// Encode returns the base58check "address" form of u.
func Encode(u util.Uint160) string {
	payload := append([]byte{Version}, u.BytesBE()...)
	sum := hash.Checksum(payload)
	return base58.Encode(append(payload, sum[:]...))
}

// Decode parses a base58check address back into a Uint160, verifying the
// version byte and embedded checksum.
func Decode(s string) (util.Uint160, error) {
	var u util.Uint160
	raw, err := base58.Decode(s)
	if err != nil {
		return u, err
	}
	if len(raw) != 1+util.Uint160Size+4 {
		return u, errors.New("address: unexpected decoded length")
	}
	payload, sum := raw[:1+util.Uint160Size], raw[1+util.Uint160Size:]
	expect := hash.Checksum(payload)
	if string(expect[:]) != string(sum) {
		return u, errors.New("address: checksum mismatch")
	}
	if payload[0] != Version {
		return u, errors.New("address: unexpected version byte")
	}
	return util.Uint160DecodeBytesBE(payload[1:])
}
