package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

func TestDisassembleLinearSweep(t *testing.T) {
	// PUSH1 ; PUSHDATA1 "hi" ; JMP +3 ; RET
	script := []byte{0x11, 0x0C, 0x02, 'h', 'i', 0x22, 0x03, 0x40}

	res, err := Disassemble(script, Options{})
	require.NoError(t, err)
	require.Len(t, res.Instructions, 4)
	assert.Empty(t, res.Warnings)

	push1 := res.Instructions[0]
	assert.Equal(t, uint32(0), push1.Offset)
	assert.Equal(t, opcode.OpCode(0x11), push1.Opcode)
	assert.Equal(t, uint8(1), push1.Size)

	pushdata := res.Instructions[1]
	assert.Equal(t, uint32(1), pushdata.Offset)
	require.NotNil(t, pushdata.Operand)
	assert.Equal(t, OperandValBytes, pushdata.Operand.Kind)
	assert.Equal(t, []byte("hi"), pushdata.Operand.Bytes)
	assert.Equal(t, uint8(4), pushdata.Size) // opcode + len byte + 2 data bytes

	jmp := res.Instructions[2]
	assert.Equal(t, uint32(5), jmp.Offset)
	require.NotNil(t, jmp.Operand)
	assert.Equal(t, OperandValJump, jmp.Operand.Kind)
	assert.Equal(t, int32(3), jmp.Operand.JumpOffset)

	ret := res.Instructions[3]
	assert.Equal(t, uint32(7), ret.Offset)
	assert.Equal(t, opcode.OpCode(0x40), ret.Opcode)

	assert.Equal(t, 0, res.ByOffset[0])
	assert.Equal(t, 3, res.ByOffset[7])
}

func TestDisassembleTolerantModeRecordsUnknownOpcode(t *testing.T) {
	script := []byte{0xFF, 0x40}

	res, err := Disassemble(script, Options{})
	require.NoError(t, err)
	require.Len(t, res.Instructions, 2)
	assert.True(t, res.Instructions[0].Unknown)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "unknown_opcode", res.Warnings[0].Kind)
}

func TestDisassembleStrictModeFailsOnUnknownOpcode(t *testing.T) {
	script := []byte{0xFF}

	_, err := Disassemble(script, Options{FailOnUnknown: true})
	require.Error(t, err)
	var unknown *ErrUnknownOpcode
	assert.ErrorAs(t, err, &unknown)
}

func TestDisassembleTruncatedOperand(t *testing.T) {
	script := []byte{0x01} // PUSHINT16 needs 2 operand bytes, script ends right after

	_, err := Disassemble(script, Options{})
	require.Error(t, err)
	var truncated *ErrTruncated
	assert.ErrorAs(t, err, &truncated)
}

func TestDisassemblePushDataTooLarge(t *testing.T) {
	script := []byte{0x0C, 0x05, 'h', 'i'} // claims 5 bytes, only 2 remain

	_, err := Disassemble(script, Options{})
	require.Error(t, err)
	var tooLarge *ErrOperandTooLarge
	assert.ErrorAs(t, err, &tooLarge)
}

func TestNormalizeMessageRejectsInvalidUTF8(t *testing.T) {
	_, err := NormalizeMessage([]byte{0xFF, 0xFE})
	assert.ErrorIs(t, err, ErrMessageNotUTF8)
}

func TestNormalizeMessageNFCNormalizes(t *testing.T) {
	out, err := NormalizeMessage([]byte("café"))
	require.NoError(t, err)
	assert.Equal(t, "café", out)
}
