package manifest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/r3e-network/neo-decompiler/pkg/util"
)

// PermissionType distinguishes what a Permission's Contract field
// restricts against.
type PermissionType uint8

const (
	// PermissionWildcard allows any contract.
	PermissionWildcard PermissionType = 0
	// PermissionHash restricts by a single contract script hash.
	PermissionHash PermissionType = 1
	// PermissionGroup restricts by group public key.
	PermissionGroup PermissionType = 2
)

// PermissionDesc is a Permission's Contract-matching descriptor: either
// wildcard, a specific script hash, or a group's public key.
type PermissionDesc struct {
	Type PermissionType
	// Hash holds the value for PermissionHash.
	Hash util.Uint160
	// GroupKeyHex holds the hex-encoded public key for PermissionGroup.
	GroupKeyHex string
}

// Permission describes which contracts and methods a contract is allowed
// to call.
type Permission struct {
	Contract PermissionDesc `json:"contract"`
	Methods  WildStrings    `json:"methods"`
}

// Permissions is a list of Permission.
type Permissions []Permission

// NewPermission builds a Permission restricted to typ with the given
// descriptor argument (a util.Uint160 for PermissionHash, a hex string
// for PermissionGroup, nothing for PermissionWildcard).
func NewPermission(typ PermissionType, args ...any) *Permission {
	desc := PermissionDesc{Type: typ}
	switch typ {
	case PermissionHash:
		desc.Hash = args[0].(util.Uint160)
	case PermissionGroup:
		desc.GroupKeyHex = args[0].(string)
	}
	return &Permission{Contract: desc}
}

// Equals reports whether d and v describe the same contract set.
func (d *PermissionDesc) Equals(v PermissionDesc) bool {
	if d.Type != v.Type {
		return false
	}
	switch d.Type {
	case PermissionHash:
		return d.Hash.Equals(v.Hash)
	case PermissionGroup:
		return d.GroupKeyHex == v.GroupKeyHex
	default:
		return true
	}
}

// MarshalJSON implements json.Marshaler.
func (d PermissionDesc) MarshalJSON() ([]byte, error) {
	switch d.Type {
	case PermissionHash:
		return json.Marshal("0x" + d.Hash.StringLE())
	case PermissionGroup:
		return json.Marshal(d.GroupKeyHex)
	default:
		return wildcardJSON, nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *PermissionDesc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch len(s) {
	case 2 + 2*util.Uint160Size:
		if s[0] != '0' || s[1] != 'x' {
			return errors.New("invalid uint160")
		}
		fallthrough
	case 2 * util.Uint160Size:
		trimmed := s
		if len(trimmed) == 2+2*util.Uint160Size {
			trimmed = trimmed[2:]
		}
		h, err := util.Uint160DecodeStringLE(trimmed)
		if err != nil {
			return err
		}
		d.Type = PermissionHash
		d.Hash = h
	case 66:
		d.Type = PermissionGroup
		d.GroupKeyHex = s
	case 1:
		if s != "*" {
			return errors.New("unknown permission descriptor")
		}
		d.Type = PermissionWildcard
	default:
		return errors.New("unknown permission descriptor")
	}
	return nil
}

// IsValid checks Permission consistency, rejecting empty or duplicate
// method names (§C.3 supplement).
func (p *Permission) IsValid() error {
	for i := range p.Methods.Value {
		if p.Methods.Value[i] == "" {
			return errors.New("empty method name")
		}
	}
	if len(p.Methods.Value) < 2 {
		return nil
	}
	if stringsHaveDups(p.Methods.Value) {
		return errors.New("duplicate method names")
	}
	return nil
}

// AreValid checks every permission and rejects duplicate contract
// descriptors across the whole set (§C.3 supplement).
func (ps Permissions) AreValid() error {
	for i := range ps {
		if err := ps[i].IsValid(); err != nil {
			return err
		}
	}
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if ps[i].Contract.Equals(ps[j].Contract) {
				return fmt.Errorf("duplicate permission for contract descriptor #%d", i)
			}
		}
	}
	return nil
}
