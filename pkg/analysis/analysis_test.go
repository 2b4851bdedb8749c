package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/manifest"
)

// diamondCfg builds a 4-block diamond: entry branches to two arms that
// both write local_0, joining at a block that reads it and calls a
// syscall, then returns.
func diamondCfg() *ir.Cfg {
	cfg := ir.NewCfg()
	entry := &ir.BasicBlock{ID: 0, StartOffset: 0, EndOffset: 2}
	left := &ir.BasicBlock{ID: 1, StartOffset: 2, EndOffset: 4}
	right := &ir.BasicBlock{ID: 2, StartOffset: 4, EndOffset: 6}
	join := &ir.BasicBlock{ID: 3, StartOffset: 6, EndOffset: 10}

	local0 := func() *ir.Identifier { return &ir.Identifier{Kind: ir.SlotLocal, Index: 0, Name: "local_0"} }

	left.Statements = []ir.Stmt{&ir.Assign{Target: local0(), Source: &ir.Literal{Kind: ir.LitInt, Int: 1}}}
	left.Terminator = ir.Terminator{Kind: ir.TermJump, Target: 3}

	right.Statements = []ir.Stmt{&ir.Assign{Target: local0(), Source: &ir.Literal{Kind: ir.LitInt, Int: 2}}}
	right.Terminator = ir.Terminator{Kind: ir.TermJump, Target: 3}

	join.Statements = []ir.Stmt{
		&ir.ExprStatement{Expr: &ir.Call{Kind: ir.CallSyscall, Name: "System.Runtime.Notify", Args: []ir.Expr{local0()}}},
	}
	join.Terminator = ir.Terminator{Kind: ir.TermReturn, Value: local0()}

	entry.Terminator = ir.Terminator{Kind: ir.TermBranch, Cond: &ir.Literal{Kind: ir.LitBool, Bool: true}, Then: 1, Else: 2}

	for _, b := range []*ir.BasicBlock{entry, left, right, join} {
		cfg.AddBlock(b)
	}
	cfg.AddEdge(0, 1, ir.EdgeTrue)
	cfg.AddEdge(0, 2, ir.EdgeFalse)
	cfg.AddEdge(1, 3, ir.EdgeJump)
	cfg.AddEdge(2, 3, ir.EdgeJump)
	cfg.Entry = 0
	cfg.MarkDead()
	return cfg
}

func TestBuildXrefsTracksReadsAndWrites(t *testing.T) {
	cfg := diamondCfg()
	xrefs := BuildXrefs(cfg)
	require.Len(t, xrefs.Slots, 1)
	s := xrefs.Slots[0]
	require.Equal(t, SlotRef{Kind: ir.SlotLocal, Index: 0}, s.Slot)
	require.ElementsMatch(t, []uint32{2, 4}, s.Writes)
	require.ElementsMatch(t, []uint32{6}, s.Reads)
}

func TestBuildTypeHintsUnifiesToAnyOnConflict(t *testing.T) {
	cfg := ir.NewCfg()
	b := &ir.BasicBlock{ID: 0, StartOffset: 0, EndOffset: 4}
	target := &ir.Identifier{Kind: ir.SlotLocal, Index: 0, Name: "local_0"}
	b.Statements = []ir.Stmt{
		&ir.Assign{Target: target, Source: &ir.Literal{Kind: ir.LitInt, Int: 1}},
		&ir.Assign{Target: target, Source: &ir.Literal{Kind: ir.LitBytes, Bytes: []byte("hi")}},
	}
	b.Terminator = ir.Terminator{Kind: ir.TermReturn}
	cfg.AddBlock(b)
	cfg.Entry = 0
	cfg.MarkDead()

	hints := BuildTypeHints(cfg)
	require.Equal(t, HintAny, hints.Names["local_0"])
}

func TestBuildTypeHintsSingleAssignKeepsHint(t *testing.T) {
	cfg := ir.NewCfg()
	b := &ir.BasicBlock{ID: 0, StartOffset: 0, EndOffset: 2}
	target := &ir.Identifier{Kind: ir.SlotLocal, Index: 0, Name: "local_0"}
	b.Statements = []ir.Stmt{&ir.Assign{Target: target, Source: &ir.NewCollection{Kind: "map"}}}
	b.Terminator = ir.Terminator{Kind: ir.TermReturn}
	cfg.AddBlock(b)
	cfg.Entry = 0
	cfg.MarkDead()

	hints := BuildTypeHints(cfg)
	require.Equal(t, HintMap, hints.Names["local_0"])
}

func TestMethodRangesSynthesizesScriptEntry(t *testing.T) {
	ranges := MethodRanges(nil, 10)
	require.Len(t, ranges, 1)
	require.Equal(t, ScriptEntryName, ranges[0].Name)
}

func TestMethodRangesCoverGapsWithScriptEntry(t *testing.T) {
	abi := &manifest.ABI{Methods: []manifest.Method{
		{Name: "transfer", Offset: 10},
		{Name: "balanceOf", Offset: 30},
	}}
	ranges := MethodRanges(abi, 50)
	require.Equal(t, []MethodRange{
		{Name: ScriptEntryName, Start: 0, End: 10},
		{Name: "transfer", Start: 10, End: 30},
		{Name: "balanceOf", Start: 30, End: 50},
	}, ranges)
}

func TestBuildCallGraphResolvesSyscallEdge(t *testing.T) {
	cfg := diamondCfg()
	g := BuildCallGraph(cfg, MethodRanges(nil, ScriptEnd(cfg)))
	require.Contains(t, g.Methods, ScriptEntryName)
	found := false
	for _, e := range g.Edges {
		if e.Kind == EdgeSyscall && e.To == "System.Runtime.Notify" {
			found = true
		}
	}
	require.True(t, found)
}

func TestBuildCallGraphComputedCallTargetsUnknown(t *testing.T) {
	cfg := ir.NewCfg()
	b := &ir.BasicBlock{ID: 0, StartOffset: 0, EndOffset: 2}
	b.Statements = []ir.Stmt{&ir.ExprStatement{Expr: &ir.Call{Kind: ir.CallComputed, Target: &ir.Identifier{Name: "t0"}}}}
	b.Terminator = ir.Terminator{Kind: ir.TermReturn}
	cfg.AddBlock(b)
	cfg.Entry = 0
	cfg.MarkDead()

	g := BuildCallGraph(cfg, MethodRanges(nil, ScriptEnd(cfg)))
	require.Equal(t, UnknownSink, g.Edges[0].To)
	require.Equal(t, EdgeComputed, g.Edges[0].Kind)
}
