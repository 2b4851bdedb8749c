package ssaform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

// diamondCfg builds entry -> {left, right} -> join, where both left and
// right assign the same base variable ("local_0") and join reads it.
// This is the minimal shape that exercises a non-trivial phi: join is in
// the dominance frontier of both left and right, and both are
// predecessors of join.
func diamondCfg() *ir.Cfg {
	cfg := ir.NewCfg()

	local0 := func() *ir.Identifier { return &ir.Identifier{Kind: ir.SlotLocal, Index: 0, Name: "local_0"} }

	entry := &ir.BasicBlock{
		ID:         0,
		Statements: nil,
		Terminator: ir.Terminator{Kind: ir.TermBranch, Cond: &ir.Literal{}, Then: 1, Else: 2},
	}
	left := &ir.BasicBlock{
		ID:         1,
		Statements: []ir.Stmt{&ir.Assign{Target: local0(), Source: &ir.Literal{}}},
		Terminator: ir.Terminator{Kind: ir.TermJump, Target: 3},
	}
	right := &ir.BasicBlock{
		ID:         2,
		Statements: []ir.Stmt{&ir.Assign{Target: local0(), Source: &ir.Literal{}}},
		Terminator: ir.Terminator{Kind: ir.TermJump, Target: 3},
	}
	join := &ir.BasicBlock{
		ID:         3,
		Statements: []ir.Stmt{&ir.ExprStatement{Expr: local0()}},
		Terminator: ir.Terminator{Kind: ir.TermReturn},
	}

	cfg.AddBlock(entry)
	cfg.AddBlock(left)
	cfg.AddBlock(right)
	cfg.AddBlock(join)
	cfg.Entry = 0

	cfg.AddEdge(0, 1, ir.EdgeTrue)
	cfg.AddEdge(0, 2, ir.EdgeFalse)
	cfg.AddEdge(1, 3, ir.EdgeJump)
	cfg.AddEdge(2, 3, ir.EdgeJump)

	return cfg
}

func TestBuildPlacesPhiAtDiamondJoin(t *testing.T) {
	cfg := diamondCfg()

	form, err := Build(cfg, 0)
	require.NoError(t, err)
	require.NotNil(t, form)

	join := form.Blocks[3]
	require.Len(t, join.Phis, 1, "join block should get exactly one phi for local_0")

	phi := join.Phis[0]
	assert.Equal(t, "local_0", phi.Target.Base, "phi target base must not be left at its zero value")
	assert.Len(t, phi.Operands, 2, "one operand per predecessor (§8 property 4)")
	assert.Contains(t, phi.Operands, ir.BlockId(1))
	assert.Contains(t, phi.Operands, ir.BlockId(2))

	left := phi.Operands[1]
	right := phi.Operands[2]
	assert.Equal(t, "local_0", left.Base)
	assert.Equal(t, "local_0", right.Base)
	assert.NotEqual(t, left.Version, right.Version, "each arm's assignment must produce a distinct SSA version (§8 property 5)")
	assert.NotEqual(t, phi.Target.Version, left.Version)
	assert.NotEqual(t, phi.Target.Version, right.Version)
}

func TestBuildSingleBlockHasNoPhis(t *testing.T) {
	cfg := ir.NewCfg()
	cfg.AddBlock(&ir.BasicBlock{
		ID:         0,
		Statements: nil,
		Terminator: ir.Terminator{Kind: ir.TermReturn},
	})
	cfg.Entry = 0

	form, err := Build(cfg, 0)
	require.NoError(t, err)
	assert.Empty(t, form.Blocks[0].Phis)
	assert.Equal(t, 1, form.Stats.Blocks)
	assert.Equal(t, 0, form.Stats.PhiNodes)
}

func TestBuildRespectsIterationCap(t *testing.T) {
	cfg := diamondCfg()

	_, err := Build(cfg, 1)
	assert.ErrorIs(t, err, ir.ErrAnalysisLimitExceeded)
}
