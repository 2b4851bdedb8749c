package decompiler

import (
	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/lifter"
	"github.com/r3e-network/neo-decompiler/pkg/structure"
)

// Warning is the pipeline-wide, append-only warning shape every stage's
// own Warning type collapses into (§6's warning taxonomy). Offset is
// zero for stages (structured recovery) that don't carry one.
type Warning struct {
	Kind   string
	Offset uint32
	Detail string
}

func fromDisasm(ws []disasm.Warning) []Warning {
	out := make([]Warning, len(ws))
	for i, w := range ws {
		out[i] = Warning{Kind: w.Kind, Offset: w.Offset}
	}
	return out
}

func fromLifter(ws []lifter.Warning) []Warning {
	out := make([]Warning, len(ws))
	for i, w := range ws {
		out[i] = Warning{Kind: w.Kind, Offset: w.Offset, Detail: w.Detail}
	}
	return out
}

func fromStructure(ws []structure.Warning) []Warning {
	out := make([]Warning, len(ws))
	for i, w := range ws {
		out[i] = Warning{Kind: w.Kind, Detail: w.Detail}
	}
	return out
}
