// Package nativecontract maps 20-byte native-contract script hashes to
// a human label and their published methods, for resolving CALLT/CALL
// targets that land on a native contract. The table is generated once
// from an embedded YAML catalog, grounded on neo-go's pkg/core/native
// package and pkg/core/native/nativenames.
package nativecontract

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/r3e-network/neo-decompiler/pkg/util"
)

//go:embed catalog/native.yaml
var catalogYAML []byte

// Method is one published native-contract method and its arity.
type Method struct {
	Name   string `yaml:"name"`
	Params int    `yaml:"params"`
}

// Contract is a resolved native-contract catalog entry.
type Contract struct {
	Hash    util.Uint160
	Label   string
	Methods []Method
}

type catalogRow struct {
	Hash    string   `yaml:"hash"`
	Label   string   `yaml:"label"`
	Methods []Method `yaml:"methods"`
}

var byHash = map[util.Uint160]*Contract{}

func init() {
	var rows []catalogRow
	if err := yaml.Unmarshal(catalogYAML, &rows); err != nil {
		panic(fmt.Sprintf("nativecontract: malformed embedded catalog: %v", err))
	}
	for _, row := range rows {
		h, err := util.Uint160DecodeStringLE(row.Hash)
		if err != nil {
			panic(fmt.Sprintf("nativecontract: %s: bad hash %q: %v", row.Label, row.Hash, err))
		}
		byHash[h] = &Contract{Hash: h, Label: row.Label, Methods: row.Methods}
	}
}

// Lookup resolves a native-contract script hash to its catalog entry.
func Lookup(hash util.Uint160) (*Contract, bool) {
	c, ok := byHash[hash]
	return c, ok
}

// Method returns the method named name with the given arity on c, or
// nil if the native contract never published it, the
// native_method_not_found{contract, method} warning case of §6.
func (c *Contract) Method(name string, params int) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name && (params < 0 || c.Methods[i].Params == params) {
			return &c.Methods[i]
		}
	}
	return nil
}

// Count returns the number of catalog entries, for diagnostics/tests.
func Count() int { return len(byHash) }
