package manifest

// A wildcard container holds either a finite set of elements or every
// possible element (the wildcard), grounded on neo-go's
// pkg/smartcontract/manifest/container.go.

import (
	"bytes"
	"encoding/json"
	"slices"
)

var wildcardJSON = []byte(`"*"`)

// WildStrings is a string set which may be a wildcard.
type WildStrings struct {
	Value []string
}

// WildPermissionDescs is a PermissionDesc set which may be a wildcard.
type WildPermissionDescs struct {
	Value    []PermissionDesc
	Wildcard bool
}

// Contains reports whether v is in the container.
func (c *WildStrings) Contains(v string) bool {
	if c.IsWildcard() {
		return true
	}
	return slices.Contains(c.Value, v)
}

// Contains reports whether v is in the container.
func (c *WildPermissionDescs) Contains(v PermissionDesc) bool {
	if c.IsWildcard() {
		return true
	}
	return slices.ContainsFunc(c.Value, v.Equals)
}

// IsWildcard reports whether c matches everything.
func (c *WildStrings) IsWildcard() bool { return c.Value == nil }

// IsWildcard reports whether c matches everything.
func (c *WildPermissionDescs) IsWildcard() bool { return c.Wildcard }

// Restrict turns c into an empty, non-wildcard container.
func (c *WildStrings) Restrict() { c.Value = []string{} }

// Restrict turns c into an empty, non-wildcard container.
func (c *WildPermissionDescs) Restrict() {
	c.Value = []PermissionDesc{}
	c.Wildcard = false
}

// Add appends v to c.
func (c *WildStrings) Add(v string) { c.Value = append(c.Value, v) }

// Add appends v to c, converting c to non-wildcard if it still was one.
func (c *WildPermissionDescs) Add(v PermissionDesc) {
	c.Value = append(c.Value, v)
	c.Wildcard = false
}

// MarshalJSON implements json.Marshaler.
func (c WildStrings) MarshalJSON() ([]byte, error) {
	if c.IsWildcard() {
		return wildcardJSON, nil
	}
	return json.Marshal(c.Value)
}

// MarshalJSON implements json.Marshaler.
func (c WildPermissionDescs) MarshalJSON() ([]byte, error) {
	if c.IsWildcard() {
		return wildcardJSON, nil
	}
	return json.Marshal(c.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *WildStrings) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, wildcardJSON) {
		c.Value = nil
		return nil
	}
	ss := []string{}
	if err := json.Unmarshal(data, &ss); err != nil {
		return err
	}
	c.Value = ss
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *WildPermissionDescs) UnmarshalJSON(data []byte) error {
	c.Wildcard = bytes.Equal(data, wildcardJSON)
	if c.Wildcard {
		c.Value = nil
		return nil
	}
	ps := []PermissionDesc{}
	if err := json.Unmarshal(data, &ps); err != nil {
		return err
	}
	c.Value = ps
	return nil
}
