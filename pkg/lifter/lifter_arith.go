package lifter

import (
	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

var binaryOpTable = map[string]ir.BinaryOp{
	"AND": ir.OpAnd, "OR": ir.OpOr, "XOR": ir.OpXor,
	"EQUAL": ir.OpEq, "NOTEQUAL": ir.OpNe,
	"ADD": ir.OpAdd, "SUB": ir.OpSub, "MUL": ir.OpMul, "DIV": ir.OpDiv, "MOD": ir.OpMod,
	"POW": ir.OpPow, "SHL": ir.OpShl, "SHR": ir.OpShr,
	"BOOLAND": ir.OpBoolAnd, "BOOLOR": ir.OpBoolOr,
	"NUMEQUAL": ir.OpEq, "NUMNOTEQUAL": ir.OpNe,
	"LT": ir.OpLt, "LE": ir.OpLe, "GT": ir.OpGt, "GE": ir.OpGe,
}

var unaryOpTable = map[string]ir.UnaryOp{
	"INVERT": ir.OpInvert,
	"SIGN":   ir.OpSign,
	"ABS":    ir.OpAbs,
	"NEGATE": ir.OpNeg,
	"SQRT":   ir.OpSqrt,
	"NOT":    ir.OpBoolNot,
	"NZ":     ir.OpNz,
}

// liftArith lowers the arithmetic/bitwise/comparison opcode family
// (§4.4 "Arithmetic/bitwise/comparison": pop operands; push a
// Binary/Unary expression).
func (s *state) liftArith(in disasm.Instruction, info *opcode.Info) {
	name := info.Name
	if op, ok := binaryOpTable[name]; ok {
		args := s.popN(in.Offset, 2)
		s.push(&ir.Binary{Op: op, Left: args[0], Right: args[1]})
		return
	}
	if op, ok := unaryOpTable[name]; ok {
		v := s.pop(in.Offset)
		s.push(&ir.Unary{Op: op, Operand: v})
		return
	}
	switch name {
	case "INC":
		v := s.pop(in.Offset)
		s.push(&ir.Binary{Op: ir.OpAdd, Left: v, Right: &ir.Literal{Kind: ir.LitInt, Int: 1}})
	case "DEC":
		v := s.pop(in.Offset)
		s.push(&ir.Binary{Op: ir.OpSub, Left: v, Right: &ir.Literal{Kind: ir.LitInt, Int: 1}})
	case "MIN":
		args := s.popN(in.Offset, 2)
		s.push(&ir.Builtin{Name: "min", Args: args})
	case "MAX":
		args := s.popN(in.Offset, 2)
		s.push(&ir.Builtin{Name: "max", Args: args})
	case "MODMUL":
		args := s.popN(in.Offset, 3)
		s.push(&ir.Builtin{Name: "modmul", Args: args})
	case "MODPOW":
		args := s.popN(in.Offset, 3)
		s.push(&ir.Builtin{Name: "modpow", Args: args})
	case "WITHIN":
		args := s.popN(in.Offset, 3)
		s.push(&ir.Builtin{Name: "within", Args: args})
	default:
		s.warn("dynamic_index_unresolved", in.Offset, name)
	}
}
