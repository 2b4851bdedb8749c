// Package disasm performs the linear-sweep disassembly of a Neo N3
// script into an Instruction stream, decoding each opcode's operand
// per pkg/opcode's encoding table (§4.3). Grounded on neo-go's
// pkg/vm/context.go Context.Next for the sweep/operand-length logic,
// adapted from single-step VM execution to an eager, complete pass that
// never panics on adversarial input.
package disasm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

// MaxOperandBytes bounds any single PUSHDATA/PUSHINT-family payload
// (§5: per-operand payload ≤ 1 MiB).
const MaxOperandBytes = 1 << 20

// ErrUnknownOpcode is returned in strict mode when the sweep meets a
// byte with no opcode.Info entry.
type ErrUnknownOpcode struct {
	Offset uint32
	Byte   byte
}

func (e *ErrUnknownOpcode) Error() string {
	return fmt.Sprintf("disasm: unknown opcode 0x%02X at offset %d", e.Byte, e.Offset)
}

// ErrTruncated is returned when an instruction's operand would read
// past the end of the script, or an offset computation would overflow.
type ErrTruncated struct {
	Offset uint32
}

func (e *ErrTruncated) Error() string {
	return fmt.Sprintf("disasm: truncated instruction at offset %d", e.Offset)
}

// ErrOperandTooLarge is returned when a PUSHDATA-family length exceeds
// MaxOperandBytes or the remaining script length.
type ErrOperandTooLarge struct {
	Offset uint32
	Length uint32
}

func (e *ErrOperandTooLarge) Error() string {
	return fmt.Sprintf("disasm: operand at offset %d claims %d bytes", e.Offset, e.Length)
}

// Warning is one non-fatal issue recorded during the sweep (§6's
// warning taxonomy subset the disassembler can produce).
type Warning struct {
	Kind   string
	Offset uint32
	Byte   byte
}

// OperandValueKind tags which field of Operand is populated.
type OperandValueKind int

const (
	OperandValNone OperandValueKind = iota
	OperandValInt
	OperandValBigInt
	OperandValBytes
	OperandValJump
	OperandValSlot
	OperandValSyscall
	OperandValStackItemType
	OperandValTry
	OperandValInitSlot
	OperandValMethodToken
	OperandValCount
)

// Operand is the decoded operand payload of an Instruction (§3's
// Operand tagged union, flattened to one Go struct for simplicity of
// pattern matching by Kind).
type Operand struct {
	Kind OperandValueKind

	Int    int64
	BigInt *big.Int // PUSHINT128/256
	Bytes  []byte    // PUSHDATA1/2/4

	JumpOffset int32 // JumpOffset8/32, sign-extended

	SlotIndex uint8

	SyscallHash uint32

	StackItemType uint8

	TryCatch, TryFinally int32 // Try{Short,Long}; 0 means absent

	InitLocals, InitArgs uint8

	MethodToken uint16
}

// Instruction is one decoded opcode at a byte offset (§3).
type Instruction struct {
	Offset  uint32
	Opcode  opcode.OpCode
	Unknown bool // true when Opcode has no opcode.Info entry (tolerant mode)
	Operand *Operand
	Size    uint8
}

// Options configures one disassembly pass (§9: "strictness [is] a
// configuration of each stage... rather than a global flag").
type Options struct {
	// FailOnUnknown switches from tolerant to strict mode (§4.3).
	FailOnUnknown bool
}

// Result is the output of a sweep: the instruction list plus any
// warnings raised along the way, keyed by offset for O(1) lookup by the
// lifter/CFG builder.
type Result struct {
	Instructions []Instruction
	ByOffset     map[uint32]int // offset -> index into Instructions
	Warnings     []Warning
}

// Disassemble performs a linear sweep over script, decoding every
// instruction in [0, len(script)) (§4.3). In tolerant mode (the
// default) unknown opcodes become a synthetic one-byte Unknown
// instruction and a warning; in strict mode the first unknown opcode
// is a fatal ErrUnknownOpcode.
func Disassemble(script []byte, opts Options) (*Result, error) {
	res := &Result{ByOffset: make(map[uint32]int)}
	offset := uint32(0)
	for int(offset) < len(script) {
		if offset > uint32(len(script)) {
			return nil, &ErrTruncated{Offset: offset}
		}
		startOffset := offset
		b := script[offset]
		info, known := opcode.Lookup(b)
		if !known {
			if opts.FailOnUnknown {
				return nil, &ErrUnknownOpcode{Offset: offset, Byte: b}
			}
			res.Warnings = append(res.Warnings, Warning{Kind: "unknown_opcode", Offset: offset, Byte: b})
			res.ByOffset[startOffset] = len(res.Instructions)
			res.Instructions = append(res.Instructions, Instruction{
				Offset: startOffset, Opcode: opcode.OpCode(b), Unknown: true, Size: 1,
			})
			offset++
			continue
		}

		operand, consumed, err := decodeOperand(script, offset+1, info)
		if err != nil {
			return nil, err
		}
		size := 1 + consumed
		if size > 255 {
			return nil, &ErrTruncated{Offset: startOffset}
		}
		res.ByOffset[startOffset] = len(res.Instructions)
		res.Instructions = append(res.Instructions, Instruction{
			Offset:  startOffset,
			Opcode:  opcode.OpCode(b),
			Operand: operand,
			Size:    uint8(size),
		})
		offset += 1 + consumed
	}
	return res, nil
}

func decodeOperand(script []byte, pos uint32, info *opcode.Info) (*Operand, uint32, error) {
	remaining := func() int64 { return int64(len(script)) - int64(pos) }
	need := func(n int64) error {
		if remaining() < n {
			return &ErrTruncated{Offset: pos}
		}
		return nil
	}

	switch info.Operand {
	case opcode.OperandNone:
		return nil, 0, nil

	case opcode.OperandInt8:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValInt, Int: int64(int8(script[pos]))}, 1, nil

	case opcode.OperandInt16:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValInt, Int: int64(int16(binary.LittleEndian.Uint16(script[pos:])))}, 2, nil

	case opcode.OperandInt32:
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValInt, Int: int64(int32(binary.LittleEndian.Uint32(script[pos:])))}, 4, nil

	case opcode.OperandInt64:
		if err := need(8); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValInt, Int: int64(binary.LittleEndian.Uint64(script[pos:]))}, 8, nil

	case opcode.OperandInt128:
		if err := need(16); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValBigInt, BigInt: leTwosComplementToBig(script[pos : pos+16])}, 16, nil

	case opcode.OperandInt256:
		if err := need(32); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValBigInt, BigInt: leTwosComplementToBig(script[pos : pos+32])}, 32, nil

	case opcode.OperandPushData1, opcode.OperandPushData2, opcode.OperandPushData4:
		return decodePushData(script, pos, info.Operand)

	case opcode.OperandJumpOffset8:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValJump, JumpOffset: int32(int8(script[pos]))}, 1, nil

	case opcode.OperandJumpOffset32:
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValJump, JumpOffset: int32(binary.LittleEndian.Uint32(script[pos:]))}, 4, nil

	case opcode.OperandSlotIndex:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValSlot, SlotIndex: script[pos]}, 1, nil

	case opcode.OperandSyscallHash:
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValSyscall, SyscallHash: binary.LittleEndian.Uint32(script[pos:])}, 4, nil

	case opcode.OperandStackItemType:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValStackItemType, StackItemType: script[pos]}, 1, nil

	case opcode.OperandTryShort:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return &Operand{
			Kind:        OperandValTry,
			TryCatch:    int32(int8(script[pos])),
			TryFinally:  int32(int8(script[pos+1])),
		}, 2, nil

	case opcode.OperandTryLong:
		if err := need(8); err != nil {
			return nil, 0, err
		}
		return &Operand{
			Kind:       OperandValTry,
			TryCatch:   int32(binary.LittleEndian.Uint32(script[pos:])),
			TryFinally: int32(binary.LittleEndian.Uint32(script[pos+4:])),
		}, 8, nil

	case opcode.OperandInitSlot:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValInitSlot, InitLocals: script[pos], InitArgs: script[pos+1]}, 2, nil

	case opcode.OperandMethodToken:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValMethodToken, MethodToken: binary.LittleEndian.Uint16(script[pos:])}, 2, nil

	case opcode.OperandCount:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return &Operand{Kind: OperandValCount, Int: int64(script[pos])}, 1, nil

	default:
		return nil, 0, &ErrTruncated{Offset: pos}
	}
}

func decodePushData(script []byte, pos uint32, kind opcode.OperandKind) (*Operand, uint32, error) {
	var lenBytes uint32
	var length uint64
	switch kind {
	case opcode.OperandPushData1:
		lenBytes = 1
		if int64(len(script))-int64(pos) < 1 {
			return nil, 0, &ErrTruncated{Offset: pos}
		}
		length = uint64(script[pos])
	case opcode.OperandPushData2:
		lenBytes = 2
		if int64(len(script))-int64(pos) < 2 {
			return nil, 0, &ErrTruncated{Offset: pos}
		}
		length = uint64(binary.LittleEndian.Uint16(script[pos:]))
	case opcode.OperandPushData4:
		lenBytes = 4
		if int64(len(script))-int64(pos) < 4 {
			return nil, 0, &ErrTruncated{Offset: pos}
		}
		length = uint64(binary.LittleEndian.Uint32(script[pos:]))
	}
	if length > MaxOperandBytes {
		return nil, 0, &ErrOperandTooLarge{Offset: pos, Length: uint32(length)}
	}
	dataStart := pos + lenBytes
	if int64(len(script))-int64(dataStart) < int64(length) {
		return nil, 0, &ErrOperandTooLarge{Offset: pos, Length: uint32(length)}
	}
	data := make([]byte, length)
	copy(data, script[dataStart:dataStart+uint32(length)])
	return &Operand{Kind: OperandValBytes, Bytes: data}, lenBytes + uint32(length), nil
}

func leTwosComplementToBig(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	neg := len(be) > 0 && be[0]&0x80 != 0
	if !neg {
		return new(big.Int).SetBytes(be)
	}
	inv := make([]byte, len(be))
	for i, v := range be {
		inv[i] = ^v
	}
	magnitude := new(big.Int).SetBytes(inv)
	magnitude.Add(magnitude, big.NewInt(1))
	return new(big.Int).Neg(magnitude)
}

// ErrMessageNotUTF8 is returned by NormalizeMessage when its input is
// not valid UTF-8.
var ErrMessageNotUTF8 = errors.New("disasm: message operand is not valid UTF-8")

// NormalizeMessage UTF-8-validates and NFC-normalizes a string payload.
// Neither the disassembler nor the lifter calls it: ABORTMSG/ASSERTMSG
// messages and NEF compiler/source fields are not passed through it.
func NormalizeMessage(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", ErrMessageNotUTF8
	}
	return string(norm.NFC.Bytes(raw)), nil
}
