package lifter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-decompiler/pkg/cfgbuild"
	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

func buildCfg(t *testing.T, script []byte) (*ir.Cfg, []Warning) {
	t.Helper()
	res, err := disasm.Disassemble(script, disasm.Options{})
	require.NoError(t, err)
	leaders := cfgbuild.Leaders(res.Instructions)
	cfg, blockOf := cfgbuild.Partition(res.Instructions, leaders)
	warnings := Lift(cfg, blockOf, res.Instructions, Options{})
	cfgbuild.Finalize(cfg, res.Instructions[0].Offset, blockOf)
	return cfg, warnings
}

func TestLiftPushReturnProducesSingleBlock(t *testing.T) {
	cfg, warnings := buildCfg(t, []byte{0x11, 0x40}) // PUSH1 ; RET
	assert.Empty(t, warnings)
	require.Len(t, cfg.Blocks, 1)

	blk := cfg.Blocks[cfg.Entry]
	require.Len(t, blk.Statements, 1)
	ret, ok := blk.Statements[0].(*ir.Return)
	require.True(t, ok)
	lit, ok := ret.Value.(*ir.Literal)
	require.True(t, ok)
	_ = lit
	assert.Equal(t, ir.TermReturn, blk.Terminator.Kind)
}

func TestLiftBranchProducesTwoEdges(t *testing.T) {
	// PUSH1 ; JMPIF +4 -> offset 5 ; PUSH0 ; RET ; PUSH2 ; RET
	script := []byte{
		0x11,       // 0: PUSH1
		0x24, 0x04, // 1: JMPIF +4
		0x10, // 3: PUSH0
		0x40, // 4: RET
		0x12, // 5: PUSH2
		0x40, // 6: RET
	}
	cfg, warnings := buildCfg(t, script)
	assert.Empty(t, warnings)
	require.Len(t, cfg.Blocks, 3)

	entry := cfg.Blocks[cfg.Entry]
	assert.Equal(t, ir.TermBranch, entry.Terminator.Kind)
	assert.Len(t, cfg.Successors(cfg.Entry), 2)

	for _, id := range cfg.Order {
		assert.False(t, cfg.Blocks[id].Dead, "all three blocks are reachable via the branch")
	}
}

func TestLiftStackUnderflowRecordsWarningInsteadOfPanicking(t *testing.T) {
	// DUP with nothing on the stack.
	cfg, warnings := buildCfg(t, []byte{0x4A, 0x40}) // DUP ; RET
	require.NotEmpty(t, warnings)
	assert.Equal(t, "stack_underflow", warnings[0].Kind)
	require.Len(t, cfg.Blocks, 1)
}
