// Package cfgbuild partitions a disassembled instruction stream into
// basic blocks: leader detection, block ids, and reachability (§4.5).
// Edges are not added here; the lifter wires them. Grounded on
// original_source's core/lifter.rs build_basic_blocks pass (block
// boundary discovery), adapted to this module's Terminator union, with
// two deviations from that source: CALL is not a leader-creating
// instruction here, and TRY catch/finally offsets are resolved relative
// to the TRY instruction, not treated as already absolute.
package cfgbuild

import (
	"sort"

	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

// Leaders computes the sorted, de-duplicated set of instruction offsets
// that begin a basic block (§4.5): the first instruction, every jump or
// branch target, the instruction following a terminator, and the first
// instruction of a try/catch/finally region.
func Leaders(instrs []disasm.Instruction) []uint32 {
	if len(instrs) == 0 {
		return nil
	}
	set := map[uint32]bool{instrs[0].Offset: true}
	for i, in := range instrs {
		next := in.Offset + uint32(in.Size)
		if in.Unknown {
			continue
		}
		info, ok := opcode.Lookup(byte(in.Opcode))
		if !ok {
			continue
		}
		switch info.Class {
		case opcode.ClassJump, opcode.ClassBranch:
			if target, ok := jumpTarget(in); ok {
				set[target] = true
			}
			if i+1 < len(instrs) {
				set[next] = true
			}
		case opcode.ClassReturn, opcode.ClassAbort:
			if i+1 < len(instrs) {
				set[next] = true
			}
		case opcode.ClassTry:
			if in.Operand != nil && in.Operand.Kind == disasm.OperandValTry {
				if in.Operand.TryCatch != 0 {
					set[uint32(int64(in.Offset)+int64(in.Operand.TryCatch))] = true
				}
				if in.Operand.TryFinally != 0 {
					set[uint32(int64(in.Offset)+int64(in.Operand.TryFinally))] = true
				}
			}
			if i+1 < len(instrs) {
				set[next] = true
			}
		case opcode.ClassEndTry:
			if target, ok := jumpTarget(in); ok {
				set[target] = true
			}
			if i+1 < len(instrs) {
				set[next] = true
			}
		}
	}
	out := make([]uint32, 0, len(set))
	for off := range set {
		out = append(out, off)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// jumpTarget resolves a branch/jump/endtry instruction's absolute
// target offset: its own offset plus the signed relative displacement
// carried in its Operand (§4.5; original_source's extract_jump_target).
func jumpTarget(in disasm.Instruction) (uint32, bool) {
	if in.Operand == nil || in.Operand.Kind != disasm.OperandValJump {
		return 0, false
	}
	return uint32(int64(in.Offset) + int64(in.Operand.JumpOffset)), true
}
