package lifter

import (
	"fmt"

	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

func (s *state) liftSlot(in disasm.Instruction, info *opcode.Info) {
	switch {
	case info.Name == "INITSSLOT":
		s.staticN = int(in.Operand.SlotIndex)

	case info.Name == "INITSLOT":
		s.localN = int(in.Operand.InitLocals)
		s.argN = int(in.Operand.InitArgs)
		s.argNames = nil
		if s.resolver != nil {
			if _, names, ok := s.resolver.MethodAt(in.Offset); ok {
				s.argNames = names
			}
		}

	case hasPrefix(info.Name, "LDSFLD"):
		idx := slotIndex(in, info.Name, "LDSFLD")
		s.push(s.identifier(ir.SlotStatic, idx))

	case hasPrefix(info.Name, "STSFLD"):
		idx := slotIndex(in, info.Name, "STSFLD")
		s.emit(&ir.Assign{Target: s.identifier(ir.SlotStatic, idx), Source: s.pop(in.Offset)})

	case hasPrefix(info.Name, "LDLOC"):
		idx := slotIndex(in, info.Name, "LDLOC")
		s.push(s.identifier(ir.SlotLocal, idx))

	case hasPrefix(info.Name, "STLOC"):
		idx := slotIndex(in, info.Name, "STLOC")
		s.emit(&ir.Assign{Target: s.identifier(ir.SlotLocal, idx), Source: s.pop(in.Offset)})

	case hasPrefix(info.Name, "LDARG"):
		idx := slotIndex(in, info.Name, "LDARG")
		s.push(s.argIdentifier(idx))

	case hasPrefix(info.Name, "STARG"):
		idx := slotIndex(in, info.Name, "STARG")
		s.emit(&ir.Assign{Target: s.argIdentifier(idx), Source: s.pop(in.Offset)})
	}
}

func hasPrefix(name, prefix string) bool {
	return len(name) >= len(prefix) && name[:len(prefix)] == prefix
}

// slotIndex extracts the slot number either from the opcode's own
// operand byte (the *_0..*_6 short forms have it baked into Operand via
// decodeOperand only for the 7th/indexed form) or from its mnemonic
// suffix ("LDLOC3" -> 3); defSlotFamily in pkg/opcode names the first
// seven members "<prefix>N" with no operand bytes at all.
func slotIndex(in disasm.Instruction, name, prefix string) int {
	if in.Operand != nil && in.Operand.Kind == disasm.OperandValSlot {
		return int(in.Operand.SlotIndex)
	}
	suffix := name[len(prefix):]
	n := 0
	for _, c := range suffix {
		n = n*10 + int(c-'0')
	}
	return n
}

func (s *state) identifier(kind ir.SlotKind, idx int) *ir.Identifier {
	prefix := map[ir.SlotKind]string{ir.SlotStatic: "static", ir.SlotLocal: "local"}[kind]
	return &ir.Identifier{Kind: kind, Index: idx, Name: fmt.Sprintf("%s_%d", prefix, idx)}
}

func (s *state) argIdentifier(idx int) *ir.Identifier {
	name := fmt.Sprintf("arg_%d", idx)
	if idx < len(s.argNames) && s.argNames[idx] != "" {
		name = s.argNames[idx]
	}
	return &ir.Identifier{Kind: ir.SlotArg, Index: idx, Name: name}
}
