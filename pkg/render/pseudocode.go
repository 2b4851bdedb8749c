package render

import (
	"fmt"
	"strings"

	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

// RenderPseudocode formats instructions as a flat offset+mnemonic+operand
// listing, one line per instruction (grounded on original_source's
// decompiler::pseudocode, the one text format that isn't derived from
// the structured statement tree at all, since it exists for inspecting
// the raw disassembly before any lifting happens).
func RenderPseudocode(instructions []disasm.Instruction) string {
	var b strings.Builder
	for _, in := range instructions {
		fmt.Fprintf(&b, "%04X: %s", in.Offset, mnemonic(in))
		if operand := operandText(in.Operand); operand != "" {
			b.WriteByte(' ')
			b.WriteString(operand)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func mnemonic(in disasm.Instruction) string {
	if in.Unknown {
		return fmt.Sprintf("UNKNOWN(0x%02X)", byte(in.Opcode))
	}
	return opcode.MustLookup(byte(in.Opcode)).Name
}

func operandText(op *disasm.Operand) string {
	if op == nil {
		return ""
	}
	switch op.Kind {
	case disasm.OperandValNone:
		return ""
	case disasm.OperandValInt:
		return fmt.Sprintf("%d", op.Int)
	case disasm.OperandValBigInt:
		if op.BigInt != nil {
			return op.BigInt.String()
		}
		return "0"
	case disasm.OperandValBytes:
		return fmt.Sprintf("%q", op.Bytes)
	case disasm.OperandValJump:
		return fmt.Sprintf("%+d", op.JumpOffset)
	case disasm.OperandValSlot:
		return fmt.Sprintf("[%d]", op.SlotIndex)
	case disasm.OperandValSyscall:
		return fmt.Sprintf("0x%08X", op.SyscallHash)
	case disasm.OperandValStackItemType:
		return fmt.Sprintf("0x%02X", op.StackItemType)
	case disasm.OperandValTry:
		return fmt.Sprintf("catch=%+d finally=%+d", op.TryCatch, op.TryFinally)
	case disasm.OperandValInitSlot:
		return fmt.Sprintf("locals=%d args=%d", op.InitLocals, op.InitArgs)
	case disasm.OperandValMethodToken:
		return fmt.Sprintf("token=%d", op.MethodToken)
	default:
		return ""
	}
}
