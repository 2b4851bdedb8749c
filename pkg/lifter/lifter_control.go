package lifter

import (
	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

// branchComparisons maps the relational-jump mnemonic family to its
// lifted comparison operator (§4.6 pattern 1: "conditional comparison
// opcodes ... are lifted with their relational operator").
var branchComparisons = map[string]ir.BinaryOp{
	"JMPEQ": ir.OpEq, "JMPNE": ir.OpNe,
	"JMPGT": ir.OpGt, "JMPGE": ir.OpGe,
	"JMPLT": ir.OpLt, "JMPLE": ir.OpLe,
}

func baseMnemonic(name string) string {
	if len(name) > 2 && name[len(name)-2:] == "_L" {
		return name[:len(name)-2]
	}
	return name
}

// fallthroughBlock resolves the block starting immediately after in,
// the implicit "not taken" successor of a jump/branch/try instruction.
func (s *state) fallthroughBlock(in disasm.Instruction) (ir.BlockId, bool) {
	return s.blockAt(in.Offset + uint32(in.Size))
}

func (s *state) jumpTarget(in disasm.Instruction) uint32 {
	return uint32(int64(in.Offset) + int64(in.Operand.JumpOffset))
}

// liftJump lowers JMP/JMP_L: an unconditional edge to the resolved
// target, closing the current block (§4.4 "Control transfer").
func (s *state) liftJump(in disasm.Instruction) {
	target, ok := s.blockAt(s.jumpTarget(in))
	if !ok {
		s.warn("dynamic_index_unresolved", in.Offset, "JMP target unresolved")
		s.cur.Terminator = ir.Terminator{Kind: ir.TermReturn}
		s.close()
		return
	}
	s.cur.Terminator = ir.Terminator{Kind: ir.TermJump, Target: target}
	s.cfg.AddEdge(s.cur.ID, target, ir.EdgeJump)
	s.close()
}

// liftBranch lowers the two-successor jump family: JMPIF/JMPIFNOT pop a
// single truthy value, JMPEQ/NE/LT/LE/GT/GE pop a pair and build the
// matching comparison expression (§4.6 pattern 1). By convention the
// terminator's Then block is always the one taken when Cond evaluates
// true; JMPIFNOT's popped value is wrapped in a boolean negation so
// this convention holds without a separate "inverted" flag.
func (s *state) liftBranch(in disasm.Instruction, info *opcode.Info) {
	target, targetOK := s.blockAt(s.jumpTarget(in))
	fall, fallOK := s.fallthroughBlock(in)

	var cond ir.Expr
	switch baseMnemonic(info.Name) {
	case "JMPIF":
		cond = s.pop(in.Offset)
	case "JMPIFNOT":
		cond = &ir.Unary{Op: ir.OpBoolNot, Operand: s.pop(in.Offset)}
	default:
		if op, ok := branchComparisons[baseMnemonic(info.Name)]; ok {
			args := s.popN(in.Offset, 2)
			cond = &ir.Binary{Op: op, Left: args[0], Right: args[1]}
		}
	}

	if !targetOK || !fallOK {
		s.warn("dynamic_index_unresolved", in.Offset, "branch target unresolved")
		s.cur.Terminator = ir.Terminator{Kind: ir.TermReturn}
		s.close()
		return
	}
	s.cur.Terminator = ir.Terminator{Kind: ir.TermBranch, Cond: cond, Then: target, Else: fall}
	s.cfg.AddEdge(s.cur.ID, target, ir.EdgeTrue)
	s.cfg.AddEdge(s.cur.ID, fall, ir.EdgeFalse)
	s.close()
}

// liftReturn lowers RET: the top-of-stack value, if any, is the method's
// return value (§8 S1: "PUSH1, RET" -> "return 1;").
func (s *state) liftReturn(in disasm.Instruction) {
	var val ir.Expr
	if len(s.stack) > 0 {
		val = s.pop(in.Offset)
	}
	s.emit(&ir.Return{Value: val})
	s.cur.Terminator = ir.Terminator{Kind: ir.TermReturn, Value: val}
	s.close()
}

// liftAbort lowers ABORT/ABORTMSG/THROW, the three terminating
// exception-raising opcodes (§4.4 "Error-bearing terminators", §4.4
// "Exceptions").
func (s *state) liftAbort(in disasm.Instruction, info *opcode.Info) {
	switch info.Name {
	case "ABORT":
		s.emit(&ir.Abort{})
	case "ABORTMSG":
		msg := s.pop(in.Offset)
		s.emit(&ir.Abort{Message: msg})
	case "THROW":
		v := s.pop(in.Offset)
		s.emit(&ir.Throw{Value: v})
	}
	s.cur.Terminator = ir.Terminator{Kind: ir.TermAbort}
	s.close()
}

// liftTry lowers TRY/TRY_L: a protected region with a mandatory body
// edge and optional catch/finally edges (§4.4 "Exceptions"; §3's
// Try{catch, finally} operand, where an offset of 0 means "absent",
// mirroring cfgbuild.Leaders' own reading of the same operand).
func (s *state) liftTry(in disasm.Instruction) {
	body, bodyOK := s.fallthroughBlock(in)
	term := ir.Terminator{Kind: ir.TermTryEnter, Try: body}
	if bodyOK {
		s.cfg.AddEdge(s.cur.ID, body, ir.EdgeTryBody)
	}
	if in.Operand.TryCatch != 0 {
		if catch, ok := s.blockAt(uint32(int64(in.Offset) + int64(in.Operand.TryCatch))); ok {
			term.Catch, term.HasCatch = catch, true
			s.cfg.AddEdge(s.cur.ID, catch, ir.EdgeTryCatch)
		}
	}
	if in.Operand.TryFinally != 0 {
		if fin, ok := s.blockAt(uint32(int64(in.Offset) + int64(in.Operand.TryFinally))); ok {
			term.Finally, term.HasFinally = fin, true
			s.cfg.AddEdge(s.cur.ID, fin, ir.EdgeTryFinally)
		}
	}
	s.cur.Terminator = term
	s.close()
}

// liftEndTry lowers ENDTRY/ENDTRY_L (an explicit relative jump out of
// the protected region) and ENDFINALLY (an implicit fallthrough resume,
// since the VM's finally-return address isn't statically known; the
// instruction immediately following ENDFINALLY in the bytecode stream
// is the conservative approximation, matching how the compiler lays out
// try/finally blocks) as a Leave terminator (§3, §4.4).
func (s *state) liftEndTry(in disasm.Instruction, info *opcode.Info, idx int, instrs []disasm.Instruction) {
	var target ir.BlockId
	var ok bool
	switch info.Name {
	case "ENDTRY", "ENDTRY_L":
		target, ok = s.blockAt(s.jumpTarget(in))
	case "ENDFINALLY":
		if idx+1 < len(instrs) {
			target, ok = s.blockAt(instrs[idx+1].Offset)
		}
	}
	if !ok {
		s.cur.Terminator = ir.Terminator{Kind: ir.TermReturn}
		s.close()
		return
	}
	s.cur.Terminator = ir.Terminator{Kind: ir.TermLeave, Target: target}
	s.cfg.AddEdge(s.cur.ID, target, ir.EdgeLeave)
	s.close()
}
