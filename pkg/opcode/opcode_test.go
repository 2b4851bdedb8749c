package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupKnownOpcodes(t *testing.T) {
	cases := []struct {
		b     byte
		name  string
		class Class
	}{
		{0x11, "PUSH1", ClassPush},
		{0x21, "NOP", ClassNop},
		{0x22, "JMP", ClassJump},
		{0x24, "JMPIF", ClassBranch},
		{0x40, "RET", ClassReturn},
		{0x41, "SYSCALL", ClassCall},
	}
	for _, c := range cases {
		info, ok := Lookup(c.b)
		assert.Truef(t, ok, "expected opcode 0x%02X to be known", c.b)
		if !ok {
			continue
		}
		assert.Equal(t, c.name, info.Name)
		assert.Equal(t, c.class, info.Class)
	}
}

func TestLookupUnknownOpcodeReturnsFalse(t *testing.T) {
	_, ok := Lookup(0xFF)
	assert.False(t, ok)
}

func TestMustLookupPanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { MustLookup(0xFF) })
}

func TestIsTerminatorAndIsBranch(t *testing.T) {
	jmp := MustLookup(0x22)
	assert.True(t, jmp.IsTerminator())
	assert.False(t, jmp.IsBranch())

	jmpif := MustLookup(0x24)
	assert.True(t, jmpif.IsTerminator())
	assert.True(t, jmpif.IsBranch())

	syscall := MustLookup(0x41)
	assert.False(t, syscall.IsTerminator(), "CALL-class opcodes are not terminators per cfgbuild's own leader logic")

	ret := MustLookup(0x40)
	assert.True(t, ret.IsTerminator())
}
