package decompiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-decompiler/pkg/nef"
)

// pushOneReturn is PUSH1; RET: the smallest script that exercises lift,
// structure, and both render passes without any control flow.
func pushOneReturn(t *testing.T) []byte {
	t.Helper()
	f := &nef.File{Compiler: "test-suite", Script: []byte{0x11, 0x40}}
	raw, err := f.Bytes()
	require.NoError(t, err)
	return raw
}

func TestDecompileMinimalScriptProducesAllViews(t *testing.T) {
	raw := pushOneReturn(t)

	d, err := Decompile(raw, nil, "", Options{})
	require.NoError(t, err)

	assert.Contains(t, d.Pseudocode, "PUSH1")
	assert.Contains(t, d.Pseudocode, "RET")
	assert.Contains(t, d.HighLevel, "return 1;")
	assert.Contains(t, d.CSharp, "public object script_entry()")
	assert.Contains(t, d.CSharp, "return 1;")
	assert.Empty(t, d.Warnings)
	assert.NotNil(t, d.CallGraph)
	assert.NotNil(t, d.Xrefs)
	assert.NotNil(t, d.Types)
}

func TestDecompileRejectsCorruptNef(t *testing.T) {
	raw := pushOneReturn(t)
	raw[0] ^= 0xFF // corrupt the magic

	_, err := Decompile(raw, nil, "", Options{})
	assert.Error(t, err)
}

func TestDecompileSSAIsLazyAndCached(t *testing.T) {
	raw := pushOneReturn(t)
	d, err := Decompile(raw, nil, "", Options{})
	require.NoError(t, err)

	assert.False(t, d.ssaComputed)

	form1, err1 := d.SSA(0)
	require.NoError(t, err1)
	require.NotNil(t, form1)
	assert.True(t, d.ssaComputed)

	form2, err2 := d.SSA(0)
	require.NoError(t, err2)
	assert.Same(t, form1, form2)
}

func TestDecompileLRUCacheReturnsSameInstanceOnHit(t *testing.T) {
	raw := pushOneReturn(t)
	opts := Options{LRUSize: 8}

	first, err := Decompile(raw, nil, "", opts)
	require.NoError(t, err)

	second, err := Decompile(raw, nil, "", opts)
	require.NoError(t, err)

	assert.Same(t, first, second)
}
