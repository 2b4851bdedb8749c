// Package ir holds the lifted intermediate representation a
// decompilation is built from: expressions, statements, basic blocks
// and terminators (§3). Expressions are value-semantics trees built
// once by the stack lifter and never mutated afterwards; statements are
// tagged unions matching §3's catalog one-for-one.
package ir

import "fmt"

// Expr is implemented by every expression node. All implementations are
// small value or pointer-to-immutable-struct types; none hold cycles.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Literal kinds.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitBytes
	LitBool
	LitNull
	LitString
)

// Literal is a constant value: an integer, byte string, boolean,
// string, or null.
type Literal struct {
	Kind  LiteralKind
	Int   int64  // valid when Kind == LitInt and fits an int64
	Big   []byte // little-endian two's-complement magnitude for integers that don't fit int64; nil otherwise
	Bytes []byte // valid when Kind == LitBytes
	Str   string // valid when Kind == LitString
	Bool  bool   // valid when Kind == LitBool
}

func (*Literal) isExpr() {}

func (l *Literal) String() string {
	switch l.Kind {
	case LitInt:
		if l.Big != nil {
			return bigLEHex(l.Big)
		}
		return fmt.Sprintf("%d", l.Int)
	case LitBytes:
		return fmt.Sprintf("0x%x", l.Bytes)
	case LitBool:
		if l.Bool {
			return "true"
		}
		return "false"
	case LitString:
		return fmt.Sprintf("%q", l.Str)
	case LitNull:
		return "null"
	default:
		return "<literal>"
	}
}

func bigLEHex(b []byte) string {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return fmt.Sprintf("0x%x", be)
}

// SlotKind distinguishes which VM slot namespace an Identifier refers to.
type SlotKind int

const (
	SlotLocal SlotKind = iota
	SlotArg
	SlotStatic
	SlotTemp     // synthetic tN binding from a non-idempotent duplication
	SlotRecovered // synthetic recovered_N placeholder from a stack underflow
)

// Identifier references a named slot or a synthetic temporary/recovered
// value (§4.4). Name is the display name ("arg_0", "local_3", "t2",
// "recovered_1"); it may be overridden by a manifest ABI parameter name.
type Identifier struct {
	Kind  SlotKind
	Index int
	Name  string
}

func (*Identifier) isExpr() {}

func (id *Identifier) String() string { return id.Name }

// BinaryOp is a binary operator.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpShl
	OpShr
	OpAnd
	OpOr
	OpXor
	OpBoolAnd
	OpBoolOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpCat
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpPow: "**",
	OpShl: "<<", OpShr: ">>", OpAnd: "&", OpOr: "|", OpXor: "^",
	OpBoolAnd: "&&", OpBoolOr: "||", OpEq: "==", OpNe: "!=",
	OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=", OpCat: "+",
}

// Symbol returns the infix operator text for op.
func (op BinaryOp) Symbol() string { return binaryOpSymbols[op] }

// Binary is a binary expression.
type Binary struct {
	Op          BinaryOp
	Left, Right Expr
}

func (*Binary) isExpr() {}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op.Symbol(), b.Right)
}

// UnaryOp is a unary operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBoolNot
	OpInvert
	OpSign
	OpAbs
	OpSqrt
	OpNz
)

var unaryOpSymbols = map[UnaryOp]string{
	OpNeg: "-", OpNot: "!", OpBoolNot: "!", OpInvert: "~",
}

// Unary is a unary expression; operators without an infix symbol
// (Sign/Abs/Sqrt/Nz) render as a call-like form.
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

func (*Unary) isExpr() {}

func (u *Unary) String() string {
	if sym, ok := unaryOpSymbols[u.Op]; ok {
		return fmt.Sprintf("%s%s", sym, u.Operand)
	}
	return fmt.Sprintf("%s(%s)", unaryOpName(u.Op), u.Operand)
}

func unaryOpName(op UnaryOp) string {
	switch op {
	case OpSign:
		return "sign"
	case OpAbs:
		return "abs"
	case OpSqrt:
		return "sqrt"
	case OpNz:
		return "nz"
	default:
		return "op"
	}
}

// CallKind distinguishes the four call-site shapes §4.4 lifts.
type CallKind int

const (
	CallSyscall CallKind = iota
	CallMethodToken
	CallDirect
	CallComputed
)

// Call is a call expression: a syscall, a method-token call, a direct
// CALL/CALL_L to a resolved offset, or a computed CALLA (§9's "Open
// Question (c)": rendered as call(<expr>), its call-graph edge marked
// unknown).
type Call struct {
	Kind   CallKind
	Name   string // syscall/method-token display name; empty for CallDirect/CallComputed
	Target Expr   // non-nil only for CallComputed
	Offset int    // valid for CallDirect: the resolved target instruction offset
	Args   []Expr
}

func (*Call) isExpr() {}

func (c *Call) String() string {
	name := c.Name
	switch c.Kind {
	case CallDirect:
		name = fmt.Sprintf("sub_%04X", c.Offset)
	case CallComputed:
		if len(c.Args) == 0 {
			return fmt.Sprintf("call(%s)", c.Target)
		}
		return fmt.Sprintf("call(%s)(%s)", c.Target, exprList(c.Args))
	}
	return fmt.Sprintf("%s(%s)", name, exprList(c.Args))
}

func exprList(es []Expr) string {
	s := ""
	for i, e := range es {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s
}

// Index is an `a[b]` PICKITEM-style expression.
type Index struct {
	Base, Key Expr
}

func (*Index) isExpr() {}

func (i *Index) String() string { return fmt.Sprintf("%s[%s]", i.Base, i.Key) }

// Cast is a CONVERT/ISTYPE expression: either a type coercion
// ("(type)expr") or a type predicate ("expr is type"), selected by
// IsPredicate.
type Cast struct {
	Operand     Expr
	Type        string
	IsPredicate bool
}

func (*Cast) isExpr() {}

func (c *Cast) String() string {
	if c.IsPredicate {
		return fmt.Sprintf("%s is %s", c.Operand, c.Type)
	}
	return fmt.Sprintf("(%s)%s", c.Type, c.Operand)
}

// HasKey is the `has_key(a,b)` HASKEY expression.
type HasKey struct {
	Base, Key Expr
}

func (*HasKey) isExpr() {}

func (h *HasKey) String() string { return fmt.Sprintf("has_key(%s, %s)", h.Base, h.Key) }

// Builtin is a generic named builtin-function rendering used for
// collection/splice opcodes with no dedicated node above (KEYS, VALUES,
// SIZE, SUBSTR, LEFT, RIGHT, CAT, APPEND-as-expr contexts, etc.).
type Builtin struct {
	Name string
	Args []Expr
}

func (*Builtin) isExpr() {}

func (b *Builtin) String() string { return fmt.Sprintf("%s(%s)", b.Name, exprList(b.Args)) }

// NewCollection renders NEWARRAY/NEWMAP/NEWSTRUCT/NEWBUFFER family
// constructors.
type NewCollection struct {
	Kind string // "array", "map", "struct", "buffer"
	Size Expr   // nil when unsized (e.g. NEWARRAY0)
	Elem string // element type hint for typed array construction, "" if none
}

func (*NewCollection) isExpr() {}

func (n *NewCollection) String() string {
	if n.Size == nil {
		return fmt.Sprintf("new %s{}", n.Kind)
	}
	if n.Elem != "" {
		return fmt.Sprintf("new %s<%s>[%s]", n.Kind, n.Elem, n.Size)
	}
	return fmt.Sprintf("new %s[%s]", n.Kind, n.Size)
}

// Pack renders PACK/PACKMAP/PACKSTRUCT: a fixed-size literal collection.
type Pack struct {
	Kind  string // "array", "map", "struct"
	Elems []Expr
}

func (*Pack) isExpr() {}

func (p *Pack) String() string { return fmt.Sprintf("%s{%s}", p.Kind, exprList(p.Elems)) }
