package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/manifest"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

func local(i int) *ir.Identifier {
	return &ir.Identifier{Kind: ir.SlotLocal, Index: i, Name: "local_0"}
}

func lit(v int64) *ir.Literal { return &ir.Literal{Kind: ir.LitInt, Int: v} }

// S1 of the testable-property scenarios: a minimal `return 1;` body.
func TestRenderHighLevelMinimalReturn(t *testing.T) {
	out := RenderHighLevel([]ir.Stmt{&ir.Return{Value: lit(1)}})
	require.Equal(t, "return 1;\n", out)
}

// §4.4's "first write declares" rule: the second assignment to the same
// slot must not repeat the `var` keyword.
func TestRenderHighLevelDeclaresOnlyOnce(t *testing.T) {
	slot := local(0)
	stmts := []ir.Stmt{
		&ir.Assign{Target: slot, Source: lit(0)},
		&ir.Assign{Target: slot, Source: lit(1)},
	}
	out := RenderHighLevel(stmts)
	require.Equal(t, "var local_0 = 0;\nlocal_0 = 1;\n", out)
}

// S2: a counted for-loop renders its init/cond/step on one line.
func TestRenderHighLevelForLoop(t *testing.T) {
	slot := local(0)
	loop := &ir.Loop{
		Kind: ir.LoopFor,
		Init: &ir.Assign{Target: slot, Source: lit(0)},
		Cond: &ir.Binary{Op: ir.OpLt, Left: slot, Right: lit(10)},
		Step: &ir.CompoundAssign{Target: slot, Op: ir.OpAdd, Source: lit(1)},
		Body: []ir.Stmt{&ir.ExprStatement{Expr: &ir.Call{Kind: ir.CallSyscall, Name: "System.Runtime.Notify"}}},
	}
	out := RenderHighLevel([]ir.Stmt{loop})
	require.Equal(t, "for (var local_0 = 0; (local_0 < 10); local_0 += 1) {\n    System.Runtime.Notify();\n}\n", out)
}

// §4.6 pattern 2: a single-If else arm collapses to `else if` instead of
// a nested `else { if ... }` block.
func TestRenderHighLevelElseIfCollapse(t *testing.T) {
	slot := local(0)
	inner := &ir.If{
		Cond: &ir.Binary{Op: ir.OpEq, Left: slot, Right: lit(2)},
		Then: []ir.Stmt{&ir.Return{Value: lit(2)}},
	}
	outer := &ir.If{
		Cond: &ir.Binary{Op: ir.OpEq, Left: slot, Right: lit(1)},
		Then: []ir.Stmt{&ir.Return{Value: lit(1)}},
		Else: []ir.Stmt{inner},
	}
	out := RenderHighLevel([]ir.Stmt{outer})
	require.Contains(t, out, "} else if ((local_0 == 2)) {")
	require.NotContains(t, out, "else {\n    if")
}

func TestRenderHighLevelSwitch(t *testing.T) {
	sw := &ir.Switch{
		Subject: local(0),
		Cases: []ir.SwitchCase{
			{Value: lit(1), Body: []ir.Stmt{&ir.Return{Value: lit(10)}}},
			{Value: nil, Body: []ir.Stmt{&ir.Return{Value: lit(0)}}},
		},
	}
	out := RenderHighLevel([]ir.Stmt{sw})
	require.Equal(t, "switch (local_0) {\n    case 1:\n        return 10;\n        break;\n    default:\n        return 0;\n        break;\n}\n", out)
}

func TestRenderHighLevelTryCatchFinally(t *testing.T) {
	try := &ir.Try{
		Body:     []ir.Stmt{&ir.ExprStatement{Expr: lit(1)}},
		CatchVar: "e",
		Catch:    []ir.Stmt{&ir.Throw{Value: local(0)}},
		Finally:  []ir.Stmt{&ir.Return{}},
	}
	out := RenderHighLevel([]ir.Stmt{try})
	require.Equal(t, "try {\n    1;\n} catch(e) {\n    throw local_0;\n} finally {\n    return;\n}\n", out)
}

func TestRenderCSharpDeclaresWithObjectKeyword(t *testing.T) {
	slot := local(0)
	method := manifest.Method{Name: "main", Parameters: []manifest.Parameter{{Name: "arg_0"}}}
	out := RenderCSharp(method, []ir.Stmt{&ir.Assign{Target: slot, Source: lit(1)}})
	require.Equal(t, "public object main(object arg_0)\n{\n    object local_0 = 1;\n}\n", out)
}

func TestRenderPseudocodeListsOffsetAndMnemonic(t *testing.T) {
	instrs := []disasm.Instruction{
		{Offset: 0, Opcode: opcode.OpCode(0x11)}, // PUSH1-ish; relies on table lookup
		{Offset: 1, Opcode: opcode.OpCode(0xFF), Unknown: true},
	}
	out := RenderPseudocode(instrs)
	require.Contains(t, out, "0001: UNKNOWN(0xFF)")
}
