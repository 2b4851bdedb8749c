package decompiler

import "github.com/r3e-network/neo-decompiler/pkg/manifest"

// abiResolver adapts a manifest.ABI to lifter.MethodResolver, letting
// the lifter render LDARG/STARG slots with their declared parameter
// names instead of positional arg_N placeholders (§4.4).
type abiResolver struct {
	abi *manifest.ABI
}

func (r *abiResolver) MethodAt(offset uint32) (string, []string, bool) {
	if r.abi == nil {
		return "", nil, false
	}
	for _, m := range r.abi.Methods {
		if uint32(m.Offset) == offset {
			names := make([]string, len(m.Parameters))
			for i, p := range m.Parameters {
				names[i] = p.Name
			}
			return m.Name, names, true
		}
	}
	return "", nil, false
}
