package nef

import (
	"errors"
	"strings"

	"github.com/r3e-network/neo-decompiler/pkg/binio"
	"github.com/r3e-network/neo-decompiler/pkg/callflag"
	"github.com/r3e-network/neo-decompiler/pkg/util"
)

// maxMethodNameLength is the maximum length, in bytes, of a MethodToken's
// method name (§3).
const maxMethodNameLength = 32

var (
	errMethodReservedName = errors.New("nef: method token name must not start with '_'")
	errMethodCallFlag     = errors.New("nef: method token call flag has bits outside callflag.All")
)

// MethodToken is an indirect reference to an external contract method,
// resolved by index when a CALLT operand is decoded (§3).
type MethodToken struct {
	// Hash is the target contract's script hash.
	Hash util.Uint160
	// Method is the target method's name.
	Method string
	// ParamCount is the number of parameters the method expects.
	ParamCount uint16
	// HasReturn is true when the method produces a return value.
	HasReturn bool
	// CallFlag is the set of call flags the token was compiled with.
	CallFlag callflag.CallFlag
}

func (t *MethodToken) decode(r *binio.Reader) error {
	hashBytes := r.ReadBytes(util.Uint160Size)
	if r.Err != nil {
		return r.Err
	}
	h, err := util.Uint160DecodeBytesBE(hashBytes)
	if err != nil {
		return err
	}
	t.Hash = h

	t.Method = r.ReadString(maxMethodNameLength)
	if r.Err != nil {
		return r.Err
	}
	if strings.HasPrefix(t.Method, "_") {
		return errMethodReservedName
	}

	t.ParamCount = r.ReadU16LE()
	t.HasReturn = r.ReadBool()
	t.CallFlag = callflag.CallFlag(r.ReadByte())
	if r.Err != nil {
		return r.Err
	}
	if !t.CallFlag.Valid() {
		return errMethodCallFlag
	}
	return nil
}

func (t *MethodToken) encode(w *binio.Writer) {
	w.WriteBytes(t.Hash.BytesBE())
	w.WriteString(t.Method)
	w.WriteU16LE(t.ParamCount)
	w.WriteBool(t.HasReturn)
	w.WriteByte(byte(t.CallFlag))
}
