package analysis

import (
	"sort"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

// SlotRef identifies one VM slot namespace/index pair (§4.8: "Map each
// (slot_kind, index) to the set of offsets where it is read/written").
// Only SlotLocal/SlotArg/SlotStatic are tracked; SlotTemp/SlotRecovered
// are lifter-internal synthetic bindings, not VM frame slots.
type SlotRef struct {
	Kind  ir.SlotKind
	Index int
}

// SlotXref is one slot's read/write site inventory. Offsets are the
// StartOffset of the containing BasicBlock: the flat Cfg's Stmt/Expr
// tree carries no per-instruction source location of its own (§3's
// ownership rule that the IR holds no back-references to instructions),
// so block granularity is the finest resolution available without
// re-walking the original instruction stream.
type SlotXref struct {
	Slot   SlotRef
	Reads  []uint32
	Writes []uint32
}

// Xrefs is the whole-script slot cross-reference table.
type Xrefs struct {
	Slots []SlotXref
}

// BuildXrefs walks cfg once, recording every slot read (an Identifier
// appearing anywhere inside an expression) and write (a statement's
// Assign/CompoundAssign target).
func BuildXrefs(cfg *ir.Cfg) *Xrefs {
	reads := map[SlotRef]map[uint32]bool{}
	writes := map[SlotRef]map[uint32]bool{}
	touch := func(set map[SlotRef]map[uint32]bool, ref SlotRef, offset uint32) {
		if set[ref] == nil {
			set[ref] = map[uint32]bool{}
		}
		set[ref][offset] = true
	}

	walkBlocks(cfg, nil, func(_ string, block *ir.BasicBlock, stmt ir.Stmt) {
		if target := stmtTarget(stmt); target != nil && isFrameSlot(target.Kind) {
			touch(writes, SlotRef{Kind: target.Kind, Index: target.Index}, block.StartOffset)
		}
		if ia, ok := stmt.(*ir.IndexAssign); ok {
			recordReads(ia.Base, block.StartOffset, reads, touch)
			recordReads(ia.Key, block.StartOffset, reads, touch)
			recordReads(ia.Value, block.StartOffset, reads, touch)
			return
		}
		for _, e := range stmtExprs(stmt) {
			recordReads(e, block.StartOffset, reads, touch)
		}
	})

	var slots []SlotRef
	seen := map[SlotRef]bool{}
	for ref := range reads {
		if !seen[ref] {
			seen[ref] = true
			slots = append(slots, ref)
		}
	}
	for ref := range writes {
		if !seen[ref] {
			seen[ref] = true
			slots = append(slots, ref)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Kind != slots[j].Kind {
			return slots[i].Kind < slots[j].Kind
		}
		return slots[i].Index < slots[j].Index
	})

	out := &Xrefs{}
	for _, ref := range slots {
		out.Slots = append(out.Slots, SlotXref{
			Slot:   ref,
			Reads:  sortedOffsets(reads[ref]),
			Writes: sortedOffsets(writes[ref]),
		})
	}
	return out
}

func recordReads(e ir.Expr, offset uint32, reads map[SlotRef]map[uint32]bool, touch func(map[SlotRef]map[uint32]bool, SlotRef, uint32)) {
	walkExprTree(e, func(node ir.Expr) {
		id, ok := node.(*ir.Identifier)
		if !ok || !isFrameSlot(id.Kind) {
			return
		}
		touch(reads, SlotRef{Kind: id.Kind, Index: id.Index}, offset)
	})
}

func isFrameSlot(k ir.SlotKind) bool {
	return k == ir.SlotLocal || k == ir.SlotArg || k == ir.SlotStatic
}

func sortedOffsets(m map[uint32]bool) []uint32 {
	out := make([]uint32, 0, len(m))
	for o := range m {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
