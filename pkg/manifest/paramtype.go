package manifest

import (
	"encoding/json"
	"fmt"
)

// ParamType is the declared type of an ABI method or event parameter,
// grounded on neo-go's pkg/smartcontract.ParamType.
type ParamType int

// The supported contract parameter types.
const (
	UnknownType          ParamType = -1
	AnyType              ParamType = 0x00
	BoolType             ParamType = 0x10
	IntegerType          ParamType = 0x11
	ByteArrayType        ParamType = 0x12
	StringType           ParamType = 0x13
	Hash160Type          ParamType = 0x14
	Hash256Type          ParamType = 0x15
	PublicKeyType        ParamType = 0x16
	SignatureType        ParamType = 0x17
	ArrayType            ParamType = 0x20
	MapType              ParamType = 0x22
	InteropInterfaceType ParamType = 0x30
	VoidType             ParamType = 0xff
)

var paramTypeNames = map[ParamType]string{
	UnknownType:          "Unknown",
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteArray",
	StringType:           "String",
	Hash160Type:          "Hash160",
	Hash256Type:          "Hash256",
	PublicKeyType:        "PublicKey",
	SignatureType:        "Signature",
	ArrayType:            "Array",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
	VoidType:             "Void",
}

// String implements fmt.Stringer.
func (pt ParamType) String() string {
	if s, ok := paramTypeNames[pt]; ok {
		return s
	}
	return "Unknown"
}

// ParseParamType resolves a ParamType by its JSON/display name.
func ParseParamType(s string) (ParamType, error) {
	for pt, name := range paramTypeNames {
		if name == s {
			return pt, nil
		}
	}
	return UnknownType, fmt.Errorf("manifest: unknown parameter type %q", s)
}

// MarshalJSON implements json.Marshaler.
func (pt ParamType) MarshalJSON() ([]byte, error) {
	return json.Marshal(pt.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (pt *ParamType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	p, err := ParseParamType(s)
	if err != nil {
		return err
	}
	*pt = p
	return nil
}
