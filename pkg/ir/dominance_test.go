package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDiamond returns entry -> {left, right} -> join, the minimal shape
// with a non-trivial dominance frontier: join is dominated by entry but
// not by left or right individually.
func buildDiamond() *Cfg {
	cfg := NewCfg()
	cfg.AddBlock(&BasicBlock{ID: 0, Terminator: Terminator{Kind: TermBranch, Then: 1, Else: 2}})
	cfg.AddBlock(&BasicBlock{ID: 1, Terminator: Terminator{Kind: TermJump, Target: 3}})
	cfg.AddBlock(&BasicBlock{ID: 2, Terminator: Terminator{Kind: TermJump, Target: 3}})
	cfg.AddBlock(&BasicBlock{ID: 3, Terminator: Terminator{Kind: TermReturn}})
	cfg.Entry = 0
	cfg.AddEdge(0, 1, EdgeTrue)
	cfg.AddEdge(0, 2, EdgeFalse)
	cfg.AddEdge(1, 3, EdgeJump)
	cfg.AddEdge(2, 3, EdgeJump)
	return cfg
}

func TestComputeDominanceDiamond(t *testing.T) {
	cfg := buildDiamond()

	dom, err := ComputeDominance(cfg, 1_000_000)
	require.NoError(t, err)

	_, hasEntryIdom := dom.Idom[cfg.Entry]
	assert.False(t, hasEntryIdom, "entry has no idom (§3)")
	assert.Equal(t, BlockId(0), dom.Idom[1])
	assert.Equal(t, BlockId(0), dom.Idom[2])
	assert.Equal(t, BlockId(0), dom.Idom[3], "join is idom'd by entry, not by either arm")

	assert.True(t, dom.Dominates(0, 0))
	assert.True(t, dom.Dominates(0, 1))
	assert.True(t, dom.Dominates(0, 2))
	assert.True(t, dom.Dominates(0, 3))
	assert.False(t, dom.Dominates(1, 3), "left arm alone does not dominate join")
	assert.False(t, dom.Dominates(2, 3), "right arm alone does not dominate join")

	assert.True(t, dom.Frontier[1][3], "left's frontier includes join")
	assert.True(t, dom.Frontier[2][3], "right's frontier includes join")
	assert.False(t, dom.Frontier[0][3], "entry dominates join outright, so join is not in entry's frontier")

	iter := dom.IteratedFrontier([]BlockId{1, 2})
	assert.True(t, iter[3])
	assert.Len(t, iter, 1)
}

func TestComputeDominanceLoop(t *testing.T) {
	// entry -> header -> body -> header (back edge), header -> exit
	cfg := NewCfg()
	cfg.AddBlock(&BasicBlock{ID: 0, Terminator: Terminator{Kind: TermJump, Target: 1}})
	cfg.AddBlock(&BasicBlock{ID: 1, Terminator: Terminator{Kind: TermBranch, Then: 2, Else: 3}})
	cfg.AddBlock(&BasicBlock{ID: 2, Terminator: Terminator{Kind: TermJump, Target: 1}})
	cfg.AddBlock(&BasicBlock{ID: 3, Terminator: Terminator{Kind: TermReturn}})
	cfg.Entry = 0
	cfg.AddEdge(0, 1, EdgeJump)
	cfg.AddEdge(1, 2, EdgeTrue)
	cfg.AddEdge(1, 3, EdgeFalse)
	cfg.AddEdge(2, 1, EdgeJump)

	dom, err := ComputeDominance(cfg, 1_000_000)
	require.NoError(t, err)

	assert.Equal(t, BlockId(0), dom.Idom[1])
	assert.Equal(t, BlockId(1), dom.Idom[2])
	assert.Equal(t, BlockId(1), dom.Idom[3])
	assert.True(t, dom.Dominates(1, 2))
	assert.True(t, dom.Dominates(1, 3))
	assert.True(t, dom.Frontier[2][1], "the loop body's back edge puts header in its own frontier")
}

func TestComputeDominanceReturnsErrorPastIterationCap(t *testing.T) {
	cfg := buildDiamond()
	_, err := ComputeDominance(cfg, 1)
	assert.ErrorIs(t, err, ErrAnalysisLimitExceeded)
}

func TestComputeDominanceEmptyCfg(t *testing.T) {
	cfg := NewCfg()
	cfg.Entry = 0
	dom, err := ComputeDominance(cfg, 1_000_000)
	require.NoError(t, err)
	assert.Empty(t, dom.Idom)
	assert.Empty(t, dom.DomTree)
}
