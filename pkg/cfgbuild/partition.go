package cfgbuild

import (
	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

// Partition builds an ir.Cfg's block skeleton from instrs and a sorted
// leader set: one empty BasicBlock per leader, spanning up to (but not
// including) the next leader's offset. Statements and Terminators are
// left zero-valued; pkg/lifter fills them in during the lift pass, then
// calls Finalize. Also returns the offset -> BlockId index the lifter
// needs to resolve jump/branch/try targets.
func Partition(instrs []disasm.Instruction, leaders []uint32) (*ir.Cfg, map[uint32]ir.BlockId) {
	cfg := ir.NewCfg()
	blockOf := make(map[uint32]ir.BlockId, len(leaders))
	if len(instrs) == 0 || len(leaders) == 0 {
		return cfg, blockOf
	}
	scriptEnd := instrs[len(instrs)-1].Offset + uint32(instrs[len(instrs)-1].Size)
	for i, off := range leaders {
		end := scriptEnd
		if i+1 < len(leaders) {
			end = leaders[i+1]
		}
		id := ir.BlockId(i)
		blockOf[off] = id
		cfg.AddBlock(&ir.BasicBlock{ID: id, StartOffset: off, EndOffset: end})
	}
	return cfg, blockOf
}

// Finalize sets cfg's entry block (the one starting at the script's
// first instruction offset) and marks unreachable blocks dead (§4.5).
func Finalize(cfg *ir.Cfg, entryOffset uint32, blockOf map[uint32]ir.BlockId) {
	if id, ok := blockOf[entryOffset]; ok {
		cfg.Entry = id
	}
	cfg.MarkDead()
}
