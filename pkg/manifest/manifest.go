// Package manifest parses and validates Neo N3 contract manifests: the
// JSON sidecar describing a deployed contract's ABI, events, groups,
// permissions, trusts, and supported standards, grounded on neo-go's
// pkg/smartcontract/manifest.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedjson "github.com/nspcc-dev/go-ordered-json"
)

// MaxManifestSize is the largest JSON document Parse will accept, per
// §5's 1 MiB manifest bound.
const MaxManifestSize = 1 << 20

// Well-known NEP standard names, carried for convenience; any string is
// accepted in SupportedStandards.
const (
	NEP11StandardName = "NEP-11"
	NEP17StandardName = "NEP-17"
)

// Manifest is a parsed contract manifest (§3's ContractManifest).
type Manifest struct {
	Name               string            `json:"name"`
	Groups             []Group           `json:"groups"`
	Features           map[string]any    `json:"features,omitempty"`
	SupportedStandards []string          `json:"supportedstandards"`
	ABI                ABI               `json:"abi"`
	Permissions        Permissions       `json:"permissions"`
	Trusts             WildPermissionDescs `json:"trusts"`
	// Extra is implementation-defined user data, decoded with
	// go-ordered-json so that a round-tripped manifest reproduces the
	// source key order (§B). Other unknown manifest keys are dropped on
	// decode.
	Extra any `json:"extra"`
}

// UnmarshalJSON implements json.Unmarshaler. It defers to a shadow type
// for the bulk of the fields, then re-decodes "extra" through
// go-ordered-json so map keys keep their source order.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	type shadow Manifest
	var raw struct {
		shadow
		Extra json.RawMessage `json:"extra"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Manifest(raw.shadow)
	if len(raw.Extra) == 0 || bytes.Equal(bytes.TrimSpace(raw.Extra), []byte("null")) {
		m.Extra = nil
		return nil
	}
	dec := orderedjson.NewDecoder(bytes.NewReader(raw.Extra))
	dec.UseOrderedObject()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: extra: %v", ErrManifestInvalid, err)
	}
	m.Extra = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Manifest) MarshalJSON() ([]byte, error) {
	type shadow Manifest
	return orderedjson.Marshal(shadow(m))
}

// ErrManifestValidation is returned when strict-mode validation rejects a
// manifest with a wildcard permission entry alongside explicit entries,
// more than one wildcard permission entry, or a repeated trust entry. A
// wildcard spelled as anything but "*" fails JSON decoding instead and
// is reported as ErrManifestInvalid in either mode.
var ErrManifestValidation = errors.New("manifest: strict validation failed")

// ErrManifestTooLarge is returned by Parse when the input exceeds
// MaxManifestSize.
var ErrManifestTooLarge = errors.New("manifest: exceeds maximum size")

// ErrManifestInvalid wraps a structural or semantic manifest defect not
// covered by a more specific sentinel.
var ErrManifestInvalid = errors.New("manifest: invalid")

// Parse decodes and validates a contract manifest from raw JSON. A
// wildcard spelled as anything but "*" and duplicate permission entries
// are rejected in either mode; strict mode additionally rejects a
// wildcard permission entry alongside explicit ones and duplicate trust
// entries (§4.1, §C.3).
func Parse(data []byte, strict bool) (*Manifest, error) {
	if len(data) > MaxManifestSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrManifestTooLarge, len(data))
	}
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestInvalid, err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("%w: nameless manifest", ErrManifestInvalid)
	}
	if err := m.ABI.IsValid(); err != nil {
		return nil, fmt.Errorf("%w: abi: %v", ErrManifestInvalid, err)
	}
	for i := range m.Groups {
		if err := m.Groups[i].IsValid(); err != nil {
			return nil, fmt.Errorf("%w: group #%d: %v", ErrManifestInvalid, i, err)
		}
	}
	if err := m.Permissions.AreValid(); err != nil {
		return nil, fmt.Errorf("%w: permissions: %v", ErrManifestInvalid, err)
	}
	if strict {
		if err := m.validateStrict(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// validateStrict enforces the canonical "*" wildcard spelling rule:
// WildStrings/WildPermissionDescs only ever serialize as "*" or an
// explicit array, so the only remaining strict-mode concern is that a
// wildcard permission entry does not coexist with explicit entries that
// it would make redundant, and that Trusts carries no duplicate hash.
func (m *Manifest) validateStrict() error {
	wildcardSeen, explicitSeen := false, false
	for i := range m.Permissions {
		if m.Permissions[i].Contract.Type == PermissionWildcard {
			if wildcardSeen {
				return fmt.Errorf("%w: multiple wildcard permission entries", ErrManifestValidation)
			}
			wildcardSeen = true
		} else {
			explicitSeen = true
		}
	}
	if wildcardSeen && explicitSeen {
		return fmt.Errorf("%w: wildcard permission entry alongside explicit entries", ErrManifestValidation)
	}
	if !m.Trusts.Wildcard {
		seen := make(map[string]struct{}, len(m.Trusts.Value))
		for _, d := range m.Trusts.Value {
			key := d.Type.String() + ":" + d.Hash.StringLE() + d.GroupKeyHex
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w: duplicate trust entry", ErrManifestValidation)
			}
			seen[key] = struct{}{}
		}
	}
	return nil
}

// String implements fmt.Stringer for PermissionType, used by
// validateStrict's dedup key.
func (t PermissionType) String() string {
	switch t {
	case PermissionWildcard:
		return "wildcard"
	case PermissionHash:
		return "hash"
	case PermissionGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Bytes re-serializes m to JSON, preserving Extra's source key order via
// go-ordered-json.
func (m *Manifest) Bytes() ([]byte, error) {
	return json.Marshal(m)
}
