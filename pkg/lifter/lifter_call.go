package lifter

import (
	"fmt"

	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/nativecontract"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
	"github.com/r3e-network/neo-decompiler/pkg/syscallmeta"
)

// liftCall lowers the four call-site shapes of §4.4: SYSCALL, CALLT,
// CALL/CALL_L, and CALLA.
func (s *state) liftCall(in disasm.Instruction, info *opcode.Info) {
	switch info.Name {
	case "SYSCALL":
		s.liftSyscall(in)
	case "CALLT":
		s.liftCallT(in)
	case "CALL", "CALL_L":
		s.liftDirectCall(in)
	case "CALLA":
		target := s.pop(in.Offset)
		s.push(&ir.Call{Kind: ir.CallComputed, Target: target})
	}
}

// liftSyscall resolves the 32-bit interop hash via the syscall table,
// pops its declared argument count, and either pushes a call expression
// or emits a bare ExprStatement when the syscall returns nothing (§4.4:
// "returns_value=false ... suppresses phantom temporaries").
func (s *state) liftSyscall(in disasm.Instruction) {
	hash := in.Operand.SyscallHash
	entry, ok := syscallmeta.Lookup(hash)
	name := fmt.Sprintf("syscall_%08x", hash)
	params := 0
	returns := true
	if ok {
		name = entry.Name
		params = entry.Params
		returns = entry.Returns
	} else {
		s.warn("unknown_opcode", in.Offset, name)
	}
	args := s.popN(in.Offset, params)
	call := &ir.Call{Kind: ir.CallSyscall, Name: name, Args: args}
	if returns {
		s.push(call)
	} else {
		s.emit(&ir.ExprStatement{Expr: call})
	}
}

// liftCallT resolves a CALLT operand against the NEF method-token table,
// cross-checking native-contract targets against the embedded catalog
// (§6's native_method_not_found warning).
func (s *state) liftCallT(in disasm.Instruction) {
	idx := int(in.Operand.MethodToken)
	if idx < 0 || idx >= len(s.tokens) {
		s.warn("dynamic_index_unresolved", in.Offset, fmt.Sprintf("CALLT index %d out of range", idx))
		s.push(&ir.Call{Kind: ir.CallMethodToken, Name: fmt.Sprintf("token_%d", idx)})
		return
	}
	tok := s.tokens[idx]
	if native, ok := nativecontract.Lookup(tok.Hash); ok {
		if native.Method(tok.Method, int(tok.ParamCount)) == nil {
			s.warn("native_method_not_found", in.Offset, native.Label+"."+tok.Method)
		}
	}
	args := s.popN(in.Offset, int(tok.ParamCount))
	call := &ir.Call{Kind: ir.CallMethodToken, Name: tok.Method, Args: args}
	if tok.HasReturn {
		s.push(call)
	} else {
		s.emit(&ir.ExprStatement{Expr: call})
	}
}

// liftDirectCall resolves CALL/CALL_L's signed relative offset to an
// absolute target and, when the resolver identifies it as a known
// method entry, pops that method's declared argument count so the call
// expression carries its arguments (best-effort: an unresolved target
// contributes a zero-argument call rather than guessing an arity).
func (s *state) liftDirectCall(in disasm.Instruction) {
	target := uint32(int64(in.Offset) + int64(in.Operand.JumpOffset))
	var params []string
	if s.resolver != nil {
		if _, names, ok := s.resolver.MethodAt(target); ok {
			params = names
		}
	}
	args := s.popN(in.Offset, len(params))
	s.push(&ir.Call{Kind: ir.CallDirect, Offset: int(target), Args: args})
}
