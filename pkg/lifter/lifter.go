// Package lifter performs the abstract stack interpretation that turns
// a disassembled instruction stream into the ir package's statement and
// expression trees (§4.4). Grounded on original_source's
// core/lifter.rs (the abstract-stack-machine shape of the pass) and
// neo-go's pkg/vm/stack.go and pkg/vm/context.go for per-opcode
// semantics, adapted to build ir nodes instead of executing them.
package lifter

import (
	"fmt"

	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/nef"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

// MethodResolver supplies ABI parameter names for the method whose
// INITSLOT instruction sits at offset, letting LDARG/STARG render as
// e.g. "amount" instead of "arg_1" (§4.4's slot-naming rule).
type MethodResolver interface {
	MethodAt(offset uint32) (name string, paramNames []string, ok bool)
}

// Options configures one lift pass.
type Options struct {
	Resolver MethodResolver    // nil is fine: slots fall back to positional names
	Tokens   []nef.MethodToken // NEF method-token table, for resolving CALLT operands
}

// Warning is one non-fatal issue raised while lifting (§6).
type Warning struct {
	Kind   string
	Offset uint32
	Detail string
}

// Lift fills in cfg's block Statements/Terminator and Edges from instrs,
// threading one continuous abstract evaluation stack across the whole
// instruction stream (§4.4: well-formed bytecode keeps the operand
// stack balanced across block boundaries, so the lift pass does not
// need a per-block fixpoint). cfg's blocks must already exist
// (cfgbuild.Partition) with accurate Start/EndOffset; blockOf maps
// every leader offset to its BlockId.
func Lift(cfg *ir.Cfg, blockOf map[uint32]ir.BlockId, instrs []disasm.Instruction, opts Options) []Warning {
	s := &state{
		cfg:      cfg,
		blockOf:  blockOf,
		resolver: opts.Resolver,
		tokens:   opts.Tokens,
		closed:   map[ir.BlockId]bool{},
	}
	s.run(instrs)
	return s.warnings
}

type state struct {
	cfg      *ir.Cfg
	blockOf  map[uint32]ir.BlockId
	resolver MethodResolver
	tokens   []nef.MethodToken

	cur      *ir.BasicBlock
	closed   map[ir.BlockId]bool // blocks whose Terminator has already been set by a control-transfer opcode
	stack    []ir.Expr
	warnings []Warning
	tempN    int
	recoverN int
	staticN  int
	localN   int
	argN     int
	argNames []string
}

// close records that the current block's Terminator has been
// definitively set by the instruction just lifted, so run's
// block-boundary sweep doesn't overwrite it with a synthetic
// Fallthrough/Return.
func (s *state) close() { s.closed[s.cur.ID] = true }

func (s *state) run(instrs []disasm.Instruction) {
	for i := range instrs {
		in := instrs[i]
		if id, ok := s.blockOf[in.Offset]; ok {
			next := s.cfg.Blocks[id]
			if s.cur != nil && s.cur != next && !s.closed[s.cur.ID] {
				// The previous block ran off its end without a
				// control-transfer instruction: it falls through to
				// whatever leader starts here (§4.5).
				s.cur.Terminator = ir.Terminator{Kind: ir.TermFallthrough, Target: next.ID}
				s.cfg.AddEdge(s.cur.ID, next.ID, ir.EdgeFallthrough)
				s.close()
			}
			s.cur = next
		}
		if s.cur == nil {
			continue // no leader at offset 0: malformed/empty script, nothing to lift
		}
		s.step(in, i, instrs)
	}
	// The script's last block, if never explicitly terminated, implicitly
	// returns (§4.4's "Error-bearing terminators... RET emit[s] the
	// corresponding terminator"; a fallthrough off the end of the script
	// is the same as an implicit RET).
	if s.cur != nil && !s.closed[s.cur.ID] {
		s.emit(&ir.Return{})
		s.cur.Terminator = ir.Terminator{Kind: ir.TermReturn}
		s.close()
	}
}

func (s *state) warn(kind string, offset uint32, detail string) {
	s.warnings = append(s.warnings, Warning{Kind: kind, Offset: offset, Detail: detail})
}

func (s *state) emit(stmt ir.Stmt) {
	s.cur.Statements = append(s.cur.Statements, stmt)
}

// push appends e to the abstract stack.
func (s *state) push(e ir.Expr) { s.stack = append(s.stack, e) }

// pop removes and returns the top of the abstract stack, synthesizing a
// recovered_N placeholder and a stack_underflow warning when the stack
// is empty instead of failing the pass (§4.4, §6).
func (s *state) pop(offset uint32) ir.Expr {
	if len(s.stack) == 0 {
		s.recoverN++
		s.warn("stack_underflow", offset, fmt.Sprintf("recovered_%d", s.recoverN))
		return &ir.Identifier{Kind: ir.SlotRecovered, Index: s.recoverN, Name: fmt.Sprintf("recovered_%d", s.recoverN)}
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top
}

// popN pops n values and returns them in push order (args[0] was pushed
// first / is deepest).
func (s *state) popN(offset uint32, n int) []ir.Expr {
	out := make([]ir.Expr, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = s.pop(offset)
	}
	return out
}

// peek returns the nth value from the top (0 = top) without popping,
// synthesizing a recovered placeholder on underflow exactly like pop.
func (s *state) peek(offset uint32, n int) ir.Expr {
	idx := len(s.stack) - 1 - n
	if idx < 0 {
		s.recoverN++
		s.warn("stack_underflow", offset, fmt.Sprintf("recovered_%d", s.recoverN))
		return &ir.Identifier{Kind: ir.SlotRecovered, Index: s.recoverN, Name: fmt.Sprintf("recovered_%d", s.recoverN)}
	}
	return s.stack[idx]
}

// stabilize ensures the value at stack depth n (0 = top) is safe to
// duplicate: non-idempotent expressions (anything containing a Call)
// are bound to a fresh temporary first, and both stack slots end up
// referencing the resulting Identifier (§4.4's duplication rule).
func (s *state) stabilize(offset uint32, n int) ir.Expr {
	idx := len(s.stack) - 1 - n
	if idx < 0 {
		return s.peek(offset, n)
	}
	e := s.stack[idx]
	if isIdempotent(e) {
		return e
	}
	s.tempN++
	t := &ir.Identifier{Kind: ir.SlotTemp, Index: s.tempN, Name: fmt.Sprintf("t%d", s.tempN)}
	s.emit(&ir.Assign{Target: t, Source: e})
	s.stack[idx] = t
	return t
}

// isIdempotent reports whether re-evaluating e would be safe, i.e. it
// contains no Call subexpression.
func isIdempotent(e ir.Expr) bool {
	switch v := e.(type) {
	case nil:
		return true
	case *ir.Call:
		return false
	case *ir.Binary:
		return isIdempotent(v.Left) && isIdempotent(v.Right)
	case *ir.Unary:
		return isIdempotent(v.Operand)
	case *ir.Index:
		return isIdempotent(v.Base) && isIdempotent(v.Key)
	case *ir.Cast:
		return isIdempotent(v.Operand)
	case *ir.HasKey:
		return isIdempotent(v.Base) && isIdempotent(v.Key)
	case *ir.Builtin:
		for _, a := range v.Args {
			if !isIdempotent(a) {
				return false
			}
		}
		return true
	case *ir.NewCollection:
		return v.Size == nil || isIdempotent(v.Size)
	case *ir.Pack:
		for _, a := range v.Elems {
			if !isIdempotent(a) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// blockAt resolves a jump/branch/try target offset to its BlockId.
func (s *state) blockAt(offset uint32) (ir.BlockId, bool) {
	id, ok := s.blockOf[offset]
	return id, ok
}

func (s *state) step(in disasm.Instruction, idx int, instrs []disasm.Instruction) {
	if in.Unknown {
		s.emit(&ir.Raw{Comment: fmt.Sprintf("%04X: UNKNOWN(0x%02X) (not yet translated)", in.Offset, byte(in.Opcode))})
		s.warn("unknown_opcode", in.Offset, "")
		return
	}
	info := opcode.MustLookup(byte(in.Opcode))
	switch info.Class {
	case opcode.ClassPush:
		s.liftPush(in, info)
	case opcode.ClassStack:
		s.liftStack(in, info)
	case opcode.ClassSlot:
		s.liftSlot(in, info)
	case opcode.ClassArith:
		s.liftArith(in, info)
	case opcode.ClassCollection:
		s.liftCollection(in, info)
	case opcode.ClassType:
		s.liftType(in, info)
	case opcode.ClassCall:
		s.liftCall(in, info)
	case opcode.ClassJump:
		s.liftJump(in)
	case opcode.ClassBranch:
		s.liftBranch(in, info)
	case opcode.ClassReturn:
		s.liftReturn(in)
	case opcode.ClassAbort:
		s.liftAbort(in, info)
	case opcode.ClassTry:
		s.liftTry(in)
	case opcode.ClassEndTry:
		s.liftEndTry(in, info, idx, instrs)
	case opcode.ClassOther:
		s.liftOther(in, info)
	case opcode.ClassNop:
		// NOP: no stack or statement effect.
	default:
		s.emit(&ir.Raw{Comment: fmt.Sprintf("unhandled opcode %s at offset %d", info.Name, in.Offset)})
	}
}
