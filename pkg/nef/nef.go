// Package nef parses and serializes NEF3 contract containers: the
// bit-exact binary format that wraps a compiled Neo N3 contract's bytecode
// alongside its compiler metadata, method-token table, and checksum.
//
// Layout (all integers little-endian), grounded on neo-go's
// pkg/smartcontract/nef and pkg/smartcontract/nef/method_token.go:
//
//	Magic        4 bytes   "NEF3" (0x3346454E)
//	Compiler     64 bytes  zero-padded UTF-8 compiler identifier
//	Source       var       VarString, the compiler's declared source URL
//	Reserved1    1 byte    must be zero
//	Tokens       var       VarArray of MethodToken
//	Reserved2    2 bytes   must be zero
//	Script       var       VarBytes, ≤ MaxScriptLength
//	Checksum     4 bytes   first 4 LE bytes of double-SHA256(everything above)
package nef

import (
	"errors"
	"fmt"

	"github.com/r3e-network/neo-decompiler/pkg/binio"
	"github.com/r3e-network/neo-decompiler/pkg/hash"
	"github.com/r3e-network/neo-decompiler/pkg/util"
)

const (
	// Magic is the fixed 4-byte NEF3 header.
	Magic uint32 = 0x3346454E

	// compilerFieldSize is the fixed width, in bytes, of the Compiler field.
	compilerFieldSize = 64
	// maxSourceLength bounds the Source URL field.
	maxSourceLength = 256
	// MaxScriptLength is the maximum allowed contract script length (§3).
	MaxScriptLength = 10 * 1024 * 1024
	// MaxTokens bounds the method-token array against adversarial inputs.
	MaxTokens = 65535
)

// ChecksumMismatchError reports that the trailing checksum field did not
// match the recomputed double-SHA256 prefix digest.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("nef: checksum mismatch: header declares %08x, computed %08x", e.Expected, e.Actual)
}

// File is a fully parsed NEF3 container (§3 NefFile).
type File struct {
	Compiler string
	Source   string
	Tokens   []MethodToken
	Script   []byte
	Checksum uint32
}

// Parse decodes and validates a raw NEF3 byte slice, verifying the magic,
// field-length limits, and the checksum invariant. Any structural
// violation is fatal and returned as a typed error; Parse never panics
// on adversarial input (§4.1 Failure semantics).
func Parse(data []byte) (*File, error) {
	r := binio.NewReader(data)

	magic := r.ReadU32LE()
	if r.Err != nil {
		return nil, fmt.Errorf("nef: %w", r.Err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("nef: invalid magic %08x, want %08x", magic, Magic)
	}

	compiler := r.ReadFixedString(compilerFieldSize)
	source := r.ReadString(maxSourceLength)
	_ = r.ReadByte() // Reserved1, must be zero but tolerated either way on read

	tokenCount := r.ReadVarUint()
	if r.Err != nil {
		return nil, fmt.Errorf("nef: %w", r.Err)
	}
	if tokenCount > MaxTokens {
		return nil, fmt.Errorf("nef: method-token count %d exceeds limit %d", tokenCount, MaxTokens)
	}
	tokens := make([]MethodToken, tokenCount)
	for i := range tokens {
		if err := tokens[i].decode(r); err != nil {
			return nil, fmt.Errorf("nef: method token %d: %w", i, err)
		}
	}

	_ = r.ReadU16LE() // Reserved2, must be zero

	script := r.ReadVarBytes(MaxScriptLength)
	if r.Err != nil {
		return nil, fmt.Errorf("nef: %w", r.Err)
	}
	if len(script) == 0 {
		return nil, errors.New("nef: empty script")
	}

	prefixEnd := r.Pos
	checksum := r.ReadU32LE()
	if r.Err != nil {
		return nil, fmt.Errorf("nef: %w", r.Err)
	}

	actual := computeChecksum(data[:prefixEnd])
	if actual != checksum {
		return nil, &ChecksumMismatchError{Expected: checksum, Actual: actual}
	}

	return &File{
		Compiler: compiler,
		Source:   source,
		Tokens:   tokens,
		Script:   script,
		Checksum: checksum,
	}, nil
}

// Bytes re-serializes f into its canonical NEF3 byte representation,
// recomputing the checksum over the freshly written prefix.
func (f *File) Bytes() ([]byte, error) {
	if len(f.Compiler) > compilerFieldSize {
		return nil, fmt.Errorf("nef: compiler identifier longer than %d bytes", compilerFieldSize)
	}
	w := binio.NewWriter()
	w.WriteU32LE(Magic)
	w.WriteFixedString(f.Compiler, compilerFieldSize)
	w.WriteString(f.Source)
	w.WriteByte(0)
	w.WriteVarUint(uint64(len(f.Tokens)))
	for i := range f.Tokens {
		f.Tokens[i].encode(w)
	}
	w.WriteU16LE(0)
	w.WriteVarBytes(f.Script)
	if w.Err != nil {
		return nil, w.Err
	}
	prefix := w.Bytes()
	checksum := computeChecksum(prefix)
	w.WriteU32LE(checksum)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// ScriptHash returns RIPEMD160(SHA256(f.Script)), the contract's identity
// hash (§4.1 script_hash operation).
func (f *File) ScriptHash() util.Uint160 {
	return hash.Hash160(f.Script)
}

func computeChecksum(prefix []byte) uint32 {
	sum := hash.Checksum(prefix)
	return uint32(sum[0]) | uint32(sum[1])<<8 | uint32(sum[2])<<16 | uint32(sum[3])<<24
}
