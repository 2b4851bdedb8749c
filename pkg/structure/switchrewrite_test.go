package structure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

// three-way chain on the same subject: b0 tests local_0==1 (-> b1),
// else b2 tests local_0==2 (-> b3), else b4 is the default, all
// converging on b5's return.
func TestRecoverCollapsesEqualityChainIntoSwitch(t *testing.T) {
	subject := ident(ir.SlotLocal, 0, "local_0")
	eq := func(v int64) *ir.Binary {
		return &ir.Binary{Op: ir.OpEq, Left: subject, Right: &ir.Literal{Kind: ir.LitInt, Int: v}}
	}

	blocks := map[ir.BlockId]*ir.BasicBlock{
		0: {ID: 0, Terminator: ir.Terminator{Kind: ir.TermBranch, Cond: eq(1), Then: 1, Else: 2}},
		1: {ID: 1, Statements: []ir.Stmt{&ir.ExprStatement{Expr: &ir.Literal{Kind: ir.LitInt, Int: 10}}}, Terminator: ir.Terminator{Kind: ir.TermFallthrough, Target: 5}},
		2: {ID: 2, Terminator: ir.Terminator{Kind: ir.TermBranch, Cond: eq(2), Then: 3, Else: 4}},
		3: {ID: 3, Statements: []ir.Stmt{&ir.ExprStatement{Expr: &ir.Literal{Kind: ir.LitInt, Int: 20}}}, Terminator: ir.Terminator{Kind: ir.TermFallthrough, Target: 5}},
		4: {ID: 4, Statements: []ir.Stmt{&ir.ExprStatement{Expr: &ir.Literal{Kind: ir.LitInt, Int: 30}}}, Terminator: ir.Terminator{Kind: ir.TermFallthrough, Target: 5}},
		5: {ID: 5, Terminator: ir.Terminator{Kind: ir.TermReturn}},
	}
	edges := []ir.Edge{
		{From: 0, To: 1, Kind: ir.EdgeTrue},
		{From: 0, To: 2, Kind: ir.EdgeFalse},
		{From: 2, To: 3, Kind: ir.EdgeTrue},
		{From: 2, To: 4, Kind: ir.EdgeFalse},
		{From: 1, To: 5, Kind: ir.EdgeFallthrough},
		{From: 3, To: 5, Kind: ir.EdgeFallthrough},
		{From: 4, To: 5, Kind: ir.EdgeFallthrough},
	}
	cfg := buildCfg(0, blocks, edges)
	dom, err := ir.ComputeDominance(cfg, 1000)
	require.NoError(t, err)

	stmts, warnings := Recover(cfg, dom, Options{})
	require.Empty(t, warnings)
	require.Len(t, stmts, 2)

	sw, ok := stmts[0].(*ir.Switch)
	require.True(t, ok, "equality chain on the same subject should collapse to a switch")
	require.Same(t, subject, sw.Subject)
	require.Len(t, sw.Cases, 3)
	require.Nil(t, sw.Cases[2].Value, "trailing else becomes the default arm")
}

// a two-way chain whose second comparison targets a different subject
// must NOT collapse: only the first arm shares the scrutinee.
func TestRecoverLeavesMismatchedSubjectChainAlone(t *testing.T) {
	a := ident(ir.SlotLocal, 0, "local_0")
	b := ident(ir.SlotLocal, 1, "local_1")
	condA := &ir.Binary{Op: ir.OpEq, Left: a, Right: &ir.Literal{Kind: ir.LitInt, Int: 1}}
	condB := &ir.Binary{Op: ir.OpEq, Left: b, Right: &ir.Literal{Kind: ir.LitInt, Int: 2}}

	blocks := map[ir.BlockId]*ir.BasicBlock{
		0: {ID: 0, Terminator: ir.Terminator{Kind: ir.TermBranch, Cond: condA, Then: 1, Else: 2}},
		1: {ID: 1, Terminator: ir.Terminator{Kind: ir.TermFallthrough, Target: 4}},
		2: {ID: 2, Terminator: ir.Terminator{Kind: ir.TermBranch, Cond: condB, Then: 3, Else: 4}},
		3: {ID: 3, Terminator: ir.Terminator{Kind: ir.TermFallthrough, Target: 4}},
		4: {ID: 4, Terminator: ir.Terminator{Kind: ir.TermReturn}},
	}
	edges := []ir.Edge{
		{From: 0, To: 1, Kind: ir.EdgeTrue},
		{From: 0, To: 2, Kind: ir.EdgeFalse},
		{From: 2, To: 3, Kind: ir.EdgeTrue},
		{From: 2, To: 4, Kind: ir.EdgeFalse},
		{From: 1, To: 4, Kind: ir.EdgeFallthrough},
		{From: 3, To: 4, Kind: ir.EdgeFallthrough},
	}
	cfg := buildCfg(0, blocks, edges)
	dom, err := ir.ComputeDominance(cfg, 1000)
	require.NoError(t, err)

	stmts, _ := Recover(cfg, dom, Options{})
	require.Len(t, stmts, 2)

	ifStmt, ok := stmts[0].(*ir.If)
	require.True(t, ok, "a chain with only one matching case must stay a plain if/else")
	require.Same(t, condA, ifStmt.Cond)
}
