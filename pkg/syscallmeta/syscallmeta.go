// Package syscallmeta maps the 32-bit interop hashes carried by SYSCALL
// operands to their human name, call-flag requirement, and arity. The
// table is generated once from an embedded YAML catalog built from an
// upstream source (§4.2), grounded on neo-go's
// pkg/core/interop/interopnames and pkg/core/interops.go.
package syscallmeta

import (
	"crypto/sha256"
	_ "embed"
	"encoding/binary"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/r3e-network/neo-decompiler/pkg/callflag"
)

//go:embed catalog/syscalls.yaml
var catalogYAML []byte

// Entry is one resolved syscall table row (§4.2).
type Entry struct {
	Hash      uint32
	Name      string
	Handler   string
	Params    int
	Returns   bool
	CallFlags callflag.CallFlag
}

type catalogRow struct {
	Name    string `yaml:"name"`
	Handler string `yaml:"handler"`
	Params  int    `yaml:"params"`
	Returns bool   `yaml:"returns"`
	Flags   string `yaml:"flags"`
}

var (
	byHash = map[uint32]*Entry{}
	byName = map[string]*Entry{}
)

func init() {
	var rows []catalogRow
	if err := yaml.Unmarshal(catalogYAML, &rows); err != nil {
		panic(fmt.Sprintf("syscallmeta: malformed embedded catalog: %v", err))
	}
	for _, row := range rows {
		flags, err := parseCallFlags(row.Flags)
		if err != nil {
			panic(fmt.Sprintf("syscallmeta: %s: %v", row.Name, err))
		}
		e := &Entry{
			Hash:      Hash(row.Name),
			Name:      row.Name,
			Handler:   row.Handler,
			Params:    row.Params,
			Returns:   row.Returns,
			CallFlags: flags,
		}
		byHash[e.Hash] = e
		byName[e.Name] = e
	}
}

func parseCallFlags(s string) (callflag.CallFlag, error) {
	switch s {
	case "", "None":
		return callflag.None, nil
	case "ReadStates":
		return callflag.ReadStates, nil
	case "WriteStates":
		return callflag.WriteStates, nil
	case "AllowCall":
		return callflag.AllowCall, nil
	case "AllowNotify":
		return callflag.AllowNotify, nil
	case "States":
		return callflag.States, nil
	case "ReadOnly":
		return callflag.ReadOnly, nil
	case "All":
		return callflag.All, nil
	default:
		return 0, fmt.Errorf("unknown call flag %q", s)
	}
}

// Hash computes the interop identifier for name: the first 4
// little-endian bytes of SHA256(name), exactly as neo-go's
// interopnames.ToID does.
func Hash(name string) uint32 {
	sum := sha256.Sum256([]byte(name))
	return binary.LittleEndian.Uint32(sum[:4])
}

// Lookup resolves a SYSCALL operand hash to its table entry.
func Lookup(hash uint32) (*Entry, bool) {
	e, ok := byHash[hash]
	return e, ok
}

// LookupByName resolves a syscall by its dotted name (e.g. for tests and
// callers building synthetic scripts).
func LookupByName(name string) (*Entry, bool) {
	e, ok := byName[name]
	return e, ok
}

// Count returns the number of catalog entries, for diagnostics/tests.
func Count() int { return len(byHash) }
