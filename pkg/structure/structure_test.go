package structure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

func ident(kind ir.SlotKind, idx int, name string) *ir.Identifier {
	return &ir.Identifier{Kind: kind, Index: idx, Name: name}
}

// buildCfg wires up blocks/edges from a small adjacency description,
// leaving Terminator/Statements to the caller.
func buildCfg(entry ir.BlockId, blocks map[ir.BlockId]*ir.BasicBlock, edges []ir.Edge) *ir.Cfg {
	cfg := ir.NewCfg()
	cfg.Entry = entry
	for id := ir.BlockId(0); int(id) < len(blocks); id++ {
		cfg.AddBlock(blocks[id])
	}
	for _, e := range edges {
		cfg.AddEdge(e.From, e.To, e.Kind)
	}
	cfg.MarkDead()
	return cfg
}

// if/else diamond: b0 branches to b1 or b2, both join at b3 which returns.
func TestRecoverIfElse(t *testing.T) {
	arg0 := ident(ir.SlotArg, 0, "arg_0")
	cond := &ir.Binary{Op: ir.OpGt, Left: arg0, Right: &ir.Literal{Kind: ir.LitInt, Int: 0}}

	blocks := map[ir.BlockId]*ir.BasicBlock{
		0: {ID: 0, Terminator: ir.Terminator{Kind: ir.TermBranch, Cond: cond, Then: 1, Else: 2}},
		1: {ID: 1, Statements: []ir.Stmt{&ir.ExprStatement{Expr: &ir.Literal{Kind: ir.LitInt, Int: 1}}}, Terminator: ir.Terminator{Kind: ir.TermFallthrough, Target: 3}},
		2: {ID: 2, Statements: []ir.Stmt{&ir.ExprStatement{Expr: &ir.Literal{Kind: ir.LitInt, Int: 2}}}, Terminator: ir.Terminator{Kind: ir.TermFallthrough, Target: 3}},
		3: {ID: 3, Terminator: ir.Terminator{Kind: ir.TermReturn}},
	}
	edges := []ir.Edge{
		{From: 0, To: 1, Kind: ir.EdgeTrue},
		{From: 0, To: 2, Kind: ir.EdgeFalse},
		{From: 1, To: 3, Kind: ir.EdgeFallthrough},
		{From: 2, To: 3, Kind: ir.EdgeFallthrough},
	}
	cfg := buildCfg(0, blocks, edges)
	dom, err := ir.ComputeDominance(cfg, 1000)
	require.NoError(t, err)

	stmts, warnings := Recover(cfg, dom, Options{})
	require.Empty(t, warnings)
	require.Len(t, stmts, 2) // the If, then the trailing Return

	ifStmt, ok := stmts[0].(*ir.If)
	require.True(t, ok)
	require.Same(t, cond, ifStmt.Cond)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)

	_, ok = stmts[1].(*ir.Return)
	require.True(t, ok)
}

// while loop: b0 tests i<n, b1 is the body incrementing i and jumping
// back to b0, b2 is the exit.
func TestRecoverWhileLoop(t *testing.T) {
	i := ident(ir.SlotLocal, 0, "local_0")
	n := ident(ir.SlotArg, 0, "arg_0")
	cond := &ir.Binary{Op: ir.OpLt, Left: i, Right: n}
	step := &ir.Assign{Target: i, Source: &ir.Binary{Op: ir.OpAdd, Left: i, Right: &ir.Literal{Kind: ir.LitInt, Int: 1}}}

	blocks := map[ir.BlockId]*ir.BasicBlock{
		0: {ID: 0, Terminator: ir.Terminator{Kind: ir.TermBranch, Cond: cond, Then: 1, Else: 2}},
		1: {ID: 1, Statements: []ir.Stmt{step}, Terminator: ir.Terminator{Kind: ir.TermJump, Target: 0}},
		2: {ID: 2, Terminator: ir.Terminator{Kind: ir.TermReturn}},
	}
	edges := []ir.Edge{
		{From: 0, To: 1, Kind: ir.EdgeTrue},
		{From: 0, To: 2, Kind: ir.EdgeFalse},
		{From: 1, To: 0, Kind: ir.EdgeJump},
	}
	cfg := buildCfg(0, blocks, edges)
	dom, err := ir.ComputeDominance(cfg, 1000)
	require.NoError(t, err)

	stmts, warnings := Recover(cfg, dom, Options{})
	require.Empty(t, warnings)
	require.Len(t, stmts, 2)

	loop, ok := stmts[0].(*ir.Loop)
	require.True(t, ok)
	require.Equal(t, ir.LoopWhile, loop.Kind)
	require.Len(t, loop.Body, 1)
	compound, ok := loop.Body[0].(*ir.CompoundAssign)
	require.True(t, ok, "step assignment should collapse to a compound assign")
	require.Equal(t, ir.OpAdd, compound.Op)
}

// do-while loop: b0 falls straight into the body, b0 itself tests the
// exit condition at the tail and either loops back to itself or exits.
func TestRecoverDoWhileLoop(t *testing.T) {
	i := ident(ir.SlotLocal, 0, "local_0")
	cond := &ir.Binary{Op: ir.OpLt, Left: i, Right: &ir.Literal{Kind: ir.LitInt, Int: 10}}

	blocks := map[ir.BlockId]*ir.BasicBlock{
		0: {ID: 0, Statements: []ir.Stmt{&ir.ExprStatement{Expr: &ir.Literal{Kind: ir.LitInt, Int: 1}}}, Terminator: ir.Terminator{Kind: ir.TermBranch, Cond: cond, Then: 0, Else: 1}},
		1: {ID: 1, Terminator: ir.Terminator{Kind: ir.TermReturn}},
	}
	edges := []ir.Edge{
		{From: 0, To: 0, Kind: ir.EdgeTrue},
		{From: 0, To: 1, Kind: ir.EdgeFalse},
	}
	cfg := buildCfg(0, blocks, edges)
	dom, err := ir.ComputeDominance(cfg, 1000)
	require.NoError(t, err)

	stmts, warnings := Recover(cfg, dom, Options{})
	require.Empty(t, warnings)
	require.Len(t, stmts, 2)

	loop, ok := stmts[0].(*ir.Loop)
	require.True(t, ok)
	require.Equal(t, ir.LoopDoWhile, loop.Kind)
	require.Same(t, cond, loop.Cond)
	require.Len(t, loop.Body, 1)
}

// an irreducible CFG (two mutually-jumping blocks each also reachable
// directly from the entry's branch, so neither dominates the other's
// entry into the cycle) has no natural loop by construction; scheduling
// it degrades to Label/Goto rather than misrendering a loop shape.
func TestRecoverFallsBackToGoto(t *testing.T) {
	cond := &ir.Literal{Kind: ir.LitBool, Bool: true}
	blocks := map[ir.BlockId]*ir.BasicBlock{
		0: {ID: 0, Terminator: ir.Terminator{Kind: ir.TermBranch, Cond: cond, Then: 1, Else: 2}},
		1: {ID: 1, Terminator: ir.Terminator{Kind: ir.TermJump, Target: 2}},
		2: {ID: 2, Terminator: ir.Terminator{Kind: ir.TermJump, Target: 1}},
	}
	edges := []ir.Edge{
		{From: 0, To: 1, Kind: ir.EdgeTrue},
		{From: 0, To: 2, Kind: ir.EdgeFalse},
		{From: 1, To: 2, Kind: ir.EdgeJump},
		{From: 2, To: 1, Kind: ir.EdgeJump},
	}
	cfg := buildCfg(0, blocks, edges)
	dom, err := ir.ComputeDominance(cfg, 1000)
	require.NoError(t, err)

	stmts, warnings := Recover(cfg, dom, Options{})
	require.NotEmpty(t, warnings)
	require.Equal(t, "structured_recovery_fallback", warnings[0].Kind)

	found := false
	for _, st := range stmts {
		if _, ok := st.(*ir.Goto); ok {
			found = true
		}
	}
	require.True(t, found)
}
