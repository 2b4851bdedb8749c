package cfgbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-decompiler/pkg/disasm"
)

// branchScript is PUSH1 ; JMPIF +4 ; PUSH0 ; RET ; PUSH2 ; RET, laid out
// so the JMPIF's target lands exactly on the second PUSH2/RET pair.
func branchScript(t *testing.T) []byte {
	t.Helper()
	script := []byte{
		0x11,       // 0: PUSH1
		0x24, 0x04, // 1: JMPIF +4 -> offset 5
		0x10, // 3: PUSH0
		0x40, // 4: RET
		0x12, // 5: PUSH2
		0x40, // 6: RET
	}
	return script
}

func TestLeadersFindsJumpTargetsAndFallthroughs(t *testing.T) {
	script := branchScript(t)
	res, err := disasm.Disassemble(script, disasm.Options{})
	require.NoError(t, err)

	leaders := Leaders(res.Instructions)
	assert.Equal(t, []uint32{0, 3, 5}, leaders, "entry, JMPIF fallthrough, and JMPIF jump target")
}

func TestPartitionAndFinalizeBuildsReachableCfg(t *testing.T) {
	script := branchScript(t)
	res, err := disasm.Disassemble(script, disasm.Options{})
	require.NoError(t, err)

	leaders := Leaders(res.Instructions)
	cfg, blockOf := Partition(res.Instructions, leaders)
	require.Len(t, cfg.Blocks, 3)

	entryID, ok := blockOf[0]
	require.True(t, ok)
	assert.Equal(t, uint32(0), cfg.Blocks[entryID].StartOffset)
	assert.Equal(t, uint32(3), cfg.Blocks[entryID].EndOffset)

	Finalize(cfg, 0, blockOf)
	assert.Equal(t, entryID, cfg.Entry)
	// Partition never wires edges (that's the lifter's job), so at this
	// point only the entry block is reachable; Finalize must still mark
	// the rest dead rather than leaving Dead at its ambiguous zero value.
	assert.False(t, cfg.Blocks[entryID].Dead)
	for id, b := range cfg.Blocks {
		if id == entryID {
			continue
		}
		assert.True(t, b.Dead)
	}
}

func TestLeadersEmptyInstructions(t *testing.T) {
	assert.Nil(t, Leaders(nil))
}

func TestPartitionEmptyLeaders(t *testing.T) {
	cfg, blockOf := Partition(nil, nil)
	assert.Empty(t, cfg.Blocks)
	assert.Empty(t, blockOf)
}
