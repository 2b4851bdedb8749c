// Package opcode defines the Neo N3 VM instruction set: every opcode
// byte, its mnemonic, its operand encoding, and a terminator/branch
// classification used by the disassembler and CFG builder. Grounded on
// neo-go's pkg/vm/context.go (the operand-length switch inside
// Context.Next, the only current, correct N3 encoding table in the
// pack; see DESIGN.md for why the two legacy pkg/vm/opcode tables were
// not used) and cross-checked against original_source's common/types.go
// opcode list.
package opcode

import "fmt"

// OpCode is a single Neo N3 VM instruction byte.
type OpCode byte

// OperandKind classifies how an opcode's operand bytes are laid out, so
// the disassembler knows how many bytes to consume and how to decode
// them (§3's Operand tagged union).
type OperandKind byte

// Operand encodings. Fixed-N kinds consume exactly N bytes; the
// PushDataN kinds are length-prefixed with an 8/16/32-bit count.
const (
	OperandNone OperandKind = iota
	OperandInt8
	OperandInt16
	OperandInt32
	OperandInt64
	OperandInt128 // 16-byte little-endian BigInt
	OperandInt256 // 32-byte little-endian BigInt
	OperandPushData1
	OperandPushData2
	OperandPushData4
	OperandJumpOffset8  // i8 relative offset
	OperandJumpOffset32 // i32 relative offset
	OperandSlotIndex    // u8 slot index
	OperandSyscallHash  // u32 interop hash
	OperandStackItemType
	OperandTryShort // i8 catch-offset, i8 finally-offset
	OperandTryLong  // i32 catch-offset, i32 finally-offset
	OperandInitSlot // u8 locals count, u8 args count
	OperandMethodToken
	OperandCount // u8; no opcode in the table uses it
)

// Class buckets an opcode for CFG/terminator purposes.
type Class byte

const (
	ClassOther      Class = iota
	ClassPush             // pushes a literal, no control effect
	ClassStack            // stack shuffling
	ClassSlot             // slot load/store
	ClassArith            // arithmetic/bitwise/comparison
	ClassCollection       // array/map/buffer/struct ops
	ClassType             // CONVERT/ISTYPE/ISNULL
	ClassCall             // CALL/CALL_L/CALLA/CALLT/SYSCALL
	ClassJump             // unconditional jump
	ClassBranch           // conditional jump (two successors)
	ClassReturn           // RET
	ClassAbort            // ABORT/ABORTMSG/THROW
	ClassTry              // TRY/TRY_L
	ClassEndTry           // ENDTRY/ENDTRY_L/ENDFINALLY
	ClassNop
)

// Info is the static metadata for one opcode.
type Info struct {
	Op      OpCode
	Name    string
	Operand OperandKind
	Class   Class
}

// IsTerminator reports whether an instruction of this class ends a
// basic block.
func (i Info) IsTerminator() bool {
	switch i.Class {
	case ClassJump, ClassBranch, ClassReturn, ClassAbort, ClassTry, ClassEndTry, ClassCall:
		// Call terminates only for CALLT/CALLA is not true in general;
		// the disassembler/lifter special-case CALL* as non-terminators
		// except where §4.5 requires a split (try regions). Exposed
		// here only informationally; cfgbuild decides leaders from jump
		// targets, not from this flag, for call opcodes.
		return i.Class != ClassCall
	default:
		return false
	}
}

// IsBranch reports whether the opcode has two successors (fallthrough
// and jump target).
func (i Info) IsBranch() bool { return i.Class == ClassBranch }

const numOpcodes = 256

var table [numOpcodes]*Info

func def(op OpCode, name string, operand OperandKind, class Class) {
	table[op] = &Info{Op: op, Name: name, Operand: operand, Class: class}
}

func init() {
	// Constants.
	def(0x00, "PUSHINT8", OperandInt8, ClassPush)
	def(0x01, "PUSHINT16", OperandInt16, ClassPush)
	def(0x02, "PUSHINT32", OperandInt32, ClassPush)
	def(0x03, "PUSHINT64", OperandInt64, ClassPush)
	def(0x04, "PUSHINT128", OperandInt128, ClassPush)
	def(0x05, "PUSHINT256", OperandInt256, ClassPush)
	def(0x0A, "PUSHA", OperandJumpOffset32, ClassPush)
	def(0x0B, "PUSHNULL", OperandNone, ClassPush)
	def(0x0C, "PUSHDATA1", OperandPushData1, ClassPush)
	def(0x0D, "PUSHDATA2", OperandPushData2, ClassPush)
	def(0x0E, "PUSHDATA4", OperandPushData4, ClassPush)
	def(0x0F, "PUSHM1", OperandNone, ClassPush)
	for i, name := range []string{
		"PUSH0", "PUSH1", "PUSH2", "PUSH3", "PUSH4", "PUSH5", "PUSH6", "PUSH7",
		"PUSH8", "PUSH9", "PUSH10", "PUSH11", "PUSH12", "PUSH13", "PUSH14", "PUSH15", "PUSH16",
	} {
		def(OpCode(0x10+i), name, OperandNone, ClassPush)
	}

	// Flow control.
	def(0x21, "NOP", OperandNone, ClassNop)
	jumps := []struct {
		short, long OpCode
		name        string
	}{
		{0x22, 0x23, "JMP"},
		{0x24, 0x25, "JMPIF"},
		{0x26, 0x27, "JMPIFNOT"},
		{0x28, 0x29, "JMPEQ"},
		{0x2A, 0x2B, "JMPNE"},
		{0x2C, 0x2D, "JMPGT"},
		{0x2E, 0x2F, "JMPGE"},
		{0x30, 0x31, "JMPLT"},
		{0x32, 0x33, "JMPLE"},
	}
	for _, j := range jumps {
		class := ClassBranch
		if j.name == "JMP" {
			class = ClassJump
		}
		def(j.short, j.name, OperandJumpOffset8, class)
		def(j.long, j.name+"_L", OperandJumpOffset32, class)
	}
	def(0x34, "CALL", OperandJumpOffset8, ClassCall)
	def(0x35, "CALL_L", OperandJumpOffset32, ClassCall)
	def(0x36, "CALLA", OperandNone, ClassCall)
	def(0x37, "CALLT", OperandMethodToken, ClassCall)
	def(0x38, "ABORT", OperandNone, ClassAbort)
	def(0x39, "ASSERT", OperandNone, ClassOther)
	def(0x3A, "THROW", OperandNone, ClassAbort)
	def(0x3B, "TRY", OperandTryShort, ClassTry)
	def(0x3C, "TRY_L", OperandTryLong, ClassTry)
	def(0x3D, "ENDTRY", OperandJumpOffset8, ClassEndTry)
	def(0x3E, "ENDTRY_L", OperandJumpOffset32, ClassEndTry)
	def(0x3F, "ENDFINALLY", OperandNone, ClassEndTry)
	def(0x40, "RET", OperandNone, ClassReturn)
	def(0x41, "SYSCALL", OperandSyscallHash, ClassCall)

	// Stack.
	def(0x43, "DEPTH", OperandNone, ClassStack)
	def(0x45, "DROP", OperandNone, ClassStack)
	def(0x46, "NIP", OperandNone, ClassStack)
	def(0x48, "XDROP", OperandNone, ClassStack)
	def(0x49, "CLEAR", OperandNone, ClassStack)
	def(0x4A, "DUP", OperandNone, ClassStack)
	def(0x4B, "OVER", OperandNone, ClassStack)
	def(0x4D, "PICK", OperandNone, ClassStack)
	def(0x4E, "TUCK", OperandNone, ClassStack)
	def(0x50, "SWAP", OperandNone, ClassStack)
	def(0x51, "ROT", OperandNone, ClassStack)
	def(0x52, "ROLL", OperandNone, ClassStack)
	def(0x53, "REVERSE3", OperandNone, ClassStack)
	def(0x54, "REVERSE4", OperandNone, ClassStack)
	def(0x55, "REVERSEN", OperandNone, ClassStack)

	// Slots.
	def(0x56, "INITSSLOT", OperandSlotIndex, ClassSlot)
	def(0x57, "INITSLOT", OperandInitSlot, ClassSlot)
	defSlotFamily(0x58, "LDSFLD", ClassSlot)
	defSlotFamily(0x68, "LDLOC", ClassSlot)
	defSlotFamily(0x78, "LDARG", ClassSlot)
	defSlotFamily(0x60, "STSFLD", ClassSlot)
	defSlotFamily(0x70, "STLOC", ClassSlot)
	defSlotFamily(0x80, "STARG", ClassSlot)

	// Splice.
	def(0x88, "NEWBUFFER", OperandNone, ClassCollection)
	def(0x89, "MEMCPY", OperandNone, ClassOther)
	def(0x8B, "CAT", OperandNone, ClassOther)
	def(0x8C, "SUBSTR", OperandNone, ClassOther)
	def(0x8D, "LEFT", OperandNone, ClassOther)
	def(0x8E, "RIGHT", OperandNone, ClassOther)

	// Bitwise logic.
	def(0x90, "INVERT", OperandNone, ClassArith)
	def(0x91, "AND", OperandNone, ClassArith)
	def(0x92, "OR", OperandNone, ClassArith)
	def(0x93, "XOR", OperandNone, ClassArith)
	def(0x97, "EQUAL", OperandNone, ClassArith)
	def(0x98, "NOTEQUAL", OperandNone, ClassArith)

	// Arithmetic.
	for b, name := range map[OpCode]string{
		0x99: "SIGN", 0x9A: "ABS", 0x9B: "NEGATE", 0x9C: "INC", 0x9D: "DEC",
		0x9E: "ADD", 0x9F: "SUB", 0xA0: "MUL", 0xA1: "DIV", 0xA2: "MOD",
		0xA3: "POW", 0xA4: "SQRT", 0xA5: "MODMUL", 0xA6: "MODPOW",
		0xA8: "SHL", 0xA9: "SHR", 0xAA: "NOT", 0xAB: "BOOLAND", 0xAC: "BOOLOR",
		0xB1: "NZ", 0xB3: "NUMEQUAL", 0xB4: "NUMNOTEQUAL",
		0xB5: "LT", 0xB6: "LE", 0xB7: "GT", 0xB8: "GE", 0xB9: "MIN", 0xBA: "MAX",
	} {
		def(b, name, OperandNone, ClassArith)
	}
	def(0xBB, "WITHIN", OperandNone, ClassArith)

	// Compound types.
	def(0xBE, "PACKMAP", OperandNone, ClassCollection)
	def(0xBF, "PACKSTRUCT", OperandNone, ClassCollection)
	def(0xC0, "PACK", OperandNone, ClassCollection)
	def(0xC1, "UNPACK", OperandNone, ClassCollection)
	def(0xC2, "NEWARRAY0", OperandNone, ClassCollection)
	def(0xC3, "NEWARRAY", OperandNone, ClassCollection)
	def(0xC4, "NEWARRAY_T", OperandStackItemType, ClassCollection)
	def(0xC5, "NEWSTRUCT0", OperandNone, ClassCollection)
	def(0xC6, "NEWSTRUCT", OperandNone, ClassCollection)
	def(0xC8, "NEWMAP", OperandNone, ClassCollection)
	def(0xCA, "SIZE", OperandNone, ClassCollection)
	def(0xCB, "HASKEY", OperandNone, ClassCollection)
	def(0xCC, "KEYS", OperandNone, ClassCollection)
	def(0xCD, "VALUES", OperandNone, ClassCollection)
	def(0xCE, "PICKITEM", OperandNone, ClassCollection)
	def(0xCF, "APPEND", OperandNone, ClassCollection)
	def(0xD0, "SETITEM", OperandNone, ClassCollection)
	def(0xD1, "REVERSEITEMS", OperandNone, ClassCollection)
	def(0xD2, "REMOVE", OperandNone, ClassCollection)
	def(0xD3, "CLEARITEMS", OperandNone, ClassCollection)
	def(0xD4, "POPITEM", OperandNone, ClassCollection)

	// Types.
	def(0xD8, "ISNULL", OperandNone, ClassType)
	def(0xD9, "ISTYPE", OperandStackItemType, ClassType)
	def(0xDB, "CONVERT", OperandStackItemType, ClassType)

	// Extensions. ABORTMSG/ASSERTMSG carry zero wire-format operand
	// bytes; the message is popped from the evaluation stack at lift
	// time (§4.4), mirroring original_source's lift_abort/lift_assert;
	// see DESIGN.md for why §3's Message(String) operand kind is never
	// constructed by this package.
	def(0xE0, "ABORTMSG", OperandNone, ClassAbort)
	def(0xE1, "ASSERTMSG", OperandNone, ClassOther)
}

func defSlotFamily(base OpCode, prefix string, class Class) {
	for i := 0; i < 7; i++ {
		def(base+OpCode(i), fmt.Sprintf("%s%d", prefix, i), OperandNone, class)
	}
	def(base+7, prefix, OperandSlotIndex, class)
}

// Lookup returns the static Info for b, or (nil, false) if b is not a
// known opcode. The lookup is O(1): direct array index into a
// process-wide immutable table built once at init (§4.2, §5).
func Lookup(b byte) (*Info, bool) {
	info := table[b]
	return info, info != nil
}

// MustLookup is like Lookup but panics if b is unknown; used only for
// opcodes the caller has already range-checked (e.g. table-driven
// tests), never on untrusted input.
func MustLookup(b byte) *Info {
	info, ok := Lookup(b)
	if !ok {
		panic(fmt.Sprintf("opcode: no entry for byte 0x%02X", b))
	}
	return info
}

// OperandEncodingLength returns the number of operand bytes that follow
// op's opcode byte for fixed-size operand kinds; it returns -1 for the
// variable-length PushDataN kinds, whose length is read from the
// payload itself.
func OperandEncodingLength(kind OperandKind) int {
	switch kind {
	case OperandNone:
		return 0
	case OperandInt8, OperandJumpOffset8, OperandSlotIndex, OperandStackItemType, OperandCount:
		return 1
	case OperandInt16, OperandMethodToken, OperandInitSlot, OperandTryShort:
		return 2
	case OperandInt32, OperandJumpOffset32, OperandSyscallHash:
		return 4
	case OperandInt64:
		return 8
	case OperandTryLong:
		return 8
	case OperandInt128:
		return 16
	case OperandInt256:
		return 32
	default:
		return -1
	}
}

// String implements fmt.Stringer, rendering the mnemonic or a
// synthetic "UNKNOWN(0xNN)" label for unrecognized bytes (§4.3
// tolerant-mode instruction).
func (op OpCode) String() string {
	if info, ok := Lookup(byte(op)); ok {
		return info.Name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))
}
