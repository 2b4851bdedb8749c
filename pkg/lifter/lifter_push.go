package lifter

import (
	"math/big"

	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

func (s *state) liftPush(in disasm.Instruction, info *opcode.Info) {
	switch info.Name {
	case "PUSHNULL":
		s.push(&ir.Literal{Kind: ir.LitNull})
	case "PUSHM1":
		s.push(&ir.Literal{Kind: ir.LitInt, Int: -1})
	case "PUSHA":
		target := uint32(int64(in.Offset) + int64(in.Operand.JumpOffset))
		s.push(&ir.Builtin{Name: "funcptr", Args: []ir.Expr{&ir.Literal{Kind: ir.LitInt, Int: int64(target)}}})
		return
	default:
		if len(info.Name) >= 5 && info.Name[:5] == "PUSHI" {
			s.pushInt(in)
			return
		}
		if len(info.Name) >= 8 && info.Name[:8] == "PUSHDATA" {
			s.push(&ir.Literal{Kind: ir.LitBytes, Bytes: in.Operand.Bytes})
			return
		}
		// PUSH0..PUSH16
		s.push(&ir.Literal{Kind: ir.LitInt, Int: pushNValue(info.Name)})
	}
}

func (s *state) pushInt(in disasm.Instruction) {
	if in.Operand.BigInt == nil {
		s.push(&ir.Literal{Kind: ir.LitInt, Int: in.Operand.Int})
		return
	}
	v := in.Operand.BigInt
	lit := &ir.Literal{Kind: ir.LitInt, Big: leMagnitude(v)}
	if v.Sign() < 0 {
		s.push(&ir.Unary{Op: ir.OpNeg, Operand: lit})
		return
	}
	s.push(lit)
}

// leMagnitude returns v's absolute value as little-endian bytes,
// matching ir.Literal.Big's documented layout.
func leMagnitude(v *big.Int) []byte {
	abs := new(big.Int).Abs(v)
	be := abs.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}

func pushNValue(name string) int64 {
	switch name {
	case "PUSH0":
		return 0
	}
	n := int64(0)
	for _, c := range name[5:] {
		n = n*10 + int64(c-'0')
	}
	return n
}
