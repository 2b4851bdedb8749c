package lifter

import (
	"fmt"

	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

// dropSideEffect preserves v's side effect as a statement when it's
// being discarded without ever being assigned anywhere (§4.4: a DROP
// following a call whose result is unused still needs that call to
// execute).
func (s *state) dropSideEffect(v ir.Expr) {
	if !isIdempotent(v) {
		s.emit(&ir.ExprStatement{Expr: v})
	}
}

// literalIndex extracts a small non-negative int from a literal-integer
// expression, for opcodes whose operand selects a stack depth (PICK,
// ROLL, REVERSEN, XDROP). Returns ok=false when the index is not a
// compile-time constant, e.g. derived from unresolved control flow.
func literalIndex(e ir.Expr) (int, bool) {
	lit, ok := e.(*ir.Literal)
	if !ok || lit.Kind != ir.LitInt || lit.Big != nil {
		return 0, false
	}
	if lit.Int < 0 {
		return 0, false
	}
	return int(lit.Int), true
}

func (s *state) liftStack(in disasm.Instruction, info *opcode.Info) {
	switch info.Name {
	case "DEPTH":
		s.push(&ir.Builtin{Name: "depth"})

	case "DROP":
		s.dropSideEffect(s.pop(in.Offset))

	case "NIP":
		top := s.pop(in.Offset)
		second := s.pop(in.Offset)
		s.dropSideEffect(second)
		s.push(top)

	case "XDROP":
		idxExpr := s.pop(in.Offset)
		n, ok := literalIndex(idxExpr)
		if !ok || n >= len(s.stack) {
			s.warn("dynamic_index_unresolved", in.Offset, "XDROP")
			return
		}
		pos := len(s.stack) - 1 - n
		s.dropSideEffect(s.stack[pos])
		s.stack = append(s.stack[:pos], s.stack[pos+1:]...)

	case "CLEAR":
		for _, v := range s.stack {
			s.dropSideEffect(v)
		}
		s.stack = s.stack[:0]

	case "DUP":
		v := s.stabilize(in.Offset, 0)
		s.push(v)

	case "OVER":
		v := s.stabilize(in.Offset, 1)
		s.push(v)

	case "PICK":
		idxExpr := s.pop(in.Offset)
		n, ok := literalIndex(idxExpr)
		if !ok || n >= len(s.stack) {
			s.warn("dynamic_index_unresolved", in.Offset, "PICK")
			s.recoverN++
			s.push(&ir.Identifier{Kind: ir.SlotRecovered, Index: s.recoverN, Name: fmt.Sprintf("recovered_%d", s.recoverN)})
			return
		}
		v := s.stabilize(in.Offset, n)
		s.push(v)

	case "TUCK":
		top := s.stabilize(in.Offset, 0)
		if len(s.stack) < 2 {
			s.warn("stack_underflow", in.Offset, "TUCK")
			return
		}
		pos := len(s.stack) - 2
		s.stack = append(s.stack[:pos], append([]ir.Expr{top}, s.stack[pos:]...)...)

	case "SWAP":
		if len(s.stack) < 2 {
			s.warn("stack_underflow", in.Offset, "SWAP")
			return
		}
		n := len(s.stack)
		s.stack[n-1], s.stack[n-2] = s.stack[n-2], s.stack[n-1]

	case "ROT":
		if len(s.stack) < 3 {
			s.warn("stack_underflow", in.Offset, "ROT")
			return
		}
		n := len(s.stack)
		third := s.stack[n-3]
		s.stack = append(s.stack[:n-3], append(s.stack[n-2:], third)...)

	case "ROLL":
		idxExpr := s.pop(in.Offset)
		n, ok := literalIndex(idxExpr)
		if !ok || n >= len(s.stack) {
			s.warn("dynamic_index_unresolved", in.Offset, "ROLL")
			return
		}
		pos := len(s.stack) - 1 - n
		item := s.stack[pos]
		s.stack = append(append(s.stack[:pos], s.stack[pos+1:]...), item)

	case "REVERSE3":
		s.reverseTop(in.Offset, 3)
	case "REVERSE4":
		s.reverseTop(in.Offset, 4)
	case "REVERSEN":
		idxExpr := s.pop(in.Offset)
		n, ok := literalIndex(idxExpr)
		if !ok {
			s.warn("dynamic_index_unresolved", in.Offset, "REVERSEN")
			return
		}
		s.reverseTop(in.Offset, n)
	}
}

func (s *state) reverseTop(offset uint32, n int) {
	if n < 2 || n > len(s.stack) {
		if n > len(s.stack) {
			s.warn("stack_underflow", offset, "REVERSE")
		}
		return
	}
	top := s.stack[len(s.stack)-n:]
	for i, j := 0, len(top)-1; i < j; i, j = i+1, j-1 {
		top[i], top[j] = top[j], top[i]
	}
}
