package lifter

import (
	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/opcode"
)

// stackItemTypeNames maps the Neo VM StackItemType byte (§3's Operand
// StackItemType variant) to its rendered name, grounded on
// neo-go's pkg/vm/stackitem/type.go.
var stackItemTypeNames = map[uint8]string{
	0x00: "Any",
	0x10: "Pointer",
	0x20: "Boolean",
	0x21: "Integer",
	0x28: "ByteString",
	0x30: "Buffer",
	0x40: "Array",
	0x41: "Struct",
	0x48: "Map",
	0x60: "InteropInterface",
}

func stackItemTypeName(b uint8) string {
	if name, ok := stackItemTypeNames[b]; ok {
		return name
	}
	return "Any"
}

// packItems pops a compile-time-constant count off the stack and
// returns that many further values in push order, or (nil, false) if
// the count is not a literal (§4.4's "dynamic index unresolved"
// fallback, reused here for PACK's item count).
func (s *state) packItems(offset uint32) ([]ir.Expr, bool) {
	countExpr := s.pop(offset)
	n, ok := literalIndex(countExpr)
	if !ok {
		s.warn("dynamic_index_unresolved", offset, "PACK")
		return nil, false
	}
	return s.popN(offset, n), true
}

func (s *state) liftCollection(in disasm.Instruction, info *opcode.Info) {
	switch info.Name {
	case "NEWBUFFER":
		size := s.pop(in.Offset)
		s.push(&ir.NewCollection{Kind: "buffer", Size: size})

	case "PACK":
		if elems, ok := s.packItems(in.Offset); ok {
			s.push(&ir.Pack{Kind: "array", Elems: elems})
		}
	case "PACKSTRUCT":
		if elems, ok := s.packItems(in.Offset); ok {
			s.push(&ir.Pack{Kind: "struct", Elems: elems})
		}
	case "PACKMAP":
		countExpr := s.pop(in.Offset)
		n, ok := literalIndex(countExpr)
		if !ok {
			s.warn("dynamic_index_unresolved", in.Offset, "PACKMAP")
			return
		}
		elems := s.popN(in.Offset, 2*n)
		s.push(&ir.Pack{Kind: "map", Elems: elems})

	case "UNPACK":
		s.pop(in.Offset)
		s.warn("dynamic_index_unresolved", in.Offset, "UNPACK")

	case "NEWARRAY0":
		s.push(&ir.NewCollection{Kind: "array"})
	case "NEWSTRUCT0":
		s.push(&ir.NewCollection{Kind: "struct"})
	case "NEWMAP":
		s.push(&ir.NewCollection{Kind: "map"})
	case "NEWARRAY":
		size := s.pop(in.Offset)
		s.push(&ir.NewCollection{Kind: "array", Size: size})
	case "NEWARRAY_T":
		size := s.pop(in.Offset)
		elem := "Any"
		if in.Operand != nil {
			elem = stackItemTypeName(in.Operand.StackItemType)
		}
		s.push(&ir.NewCollection{Kind: "array", Size: size, Elem: elem})
	case "NEWSTRUCT":
		size := s.pop(in.Offset)
		s.push(&ir.NewCollection{Kind: "struct", Size: size})

	case "SIZE":
		v := s.pop(in.Offset)
		s.push(&ir.Builtin{Name: "size", Args: []ir.Expr{v}})
	case "HASKEY":
		args := s.popN(in.Offset, 2)
		s.push(&ir.HasKey{Base: args[0], Key: args[1]})
	case "KEYS":
		v := s.pop(in.Offset)
		s.push(&ir.Builtin{Name: "keys", Args: []ir.Expr{v}})
	case "VALUES":
		v := s.pop(in.Offset)
		s.push(&ir.Builtin{Name: "values", Args: []ir.Expr{v}})
	case "PICKITEM":
		args := s.popN(in.Offset, 2)
		s.push(&ir.Index{Base: args[0], Key: args[1]})
	case "APPEND":
		args := s.popN(in.Offset, 2)
		s.emit(&ir.ExprStatement{Expr: &ir.Builtin{Name: "append", Args: args}})
	case "SETITEM":
		args := s.popN(in.Offset, 3)
		s.emit(&ir.IndexAssign{Base: args[0], Key: args[1], Value: args[2]})
	case "REVERSEITEMS":
		v := s.pop(in.Offset)
		s.emit(&ir.ExprStatement{Expr: &ir.Builtin{Name: "reverse_items", Args: []ir.Expr{v}}})
	case "REMOVE":
		args := s.popN(in.Offset, 2)
		s.emit(&ir.ExprStatement{Expr: &ir.Builtin{Name: "remove", Args: args}})
	case "CLEARITEMS":
		v := s.pop(in.Offset)
		s.emit(&ir.ExprStatement{Expr: &ir.Builtin{Name: "clear_items", Args: []ir.Expr{v}}})
	case "POPITEM":
		v := s.pop(in.Offset)
		s.push(&ir.Builtin{Name: "pop_item", Args: []ir.Expr{v}})
	}
}

func (s *state) liftType(in disasm.Instruction, info *opcode.Info) {
	switch info.Name {
	case "ISNULL":
		v := s.pop(in.Offset)
		s.push(&ir.Cast{Operand: v, Type: "null", IsPredicate: true})
	case "ISTYPE":
		v := s.pop(in.Offset)
		typ := "Any"
		if in.Operand != nil {
			typ = stackItemTypeName(in.Operand.StackItemType)
		}
		s.push(&ir.Cast{Operand: v, Type: typ, IsPredicate: true})
	case "CONVERT":
		v := s.pop(in.Offset)
		typ := "Any"
		if in.Operand != nil {
			typ = stackItemTypeName(in.Operand.StackItemType)
		}
		s.push(&ir.Cast{Operand: v, Type: typ})
	}
}

// liftOther lowers the splice family and the non-terminating
// exception-adjacent opcodes ASSERT/ASSERTMSG (§4.4).
func (s *state) liftOther(in disasm.Instruction, info *opcode.Info) {
	switch info.Name {
	case "MEMCPY":
		args := s.popN(in.Offset, 5)
		s.emit(&ir.ExprStatement{Expr: &ir.Builtin{Name: "memcpy", Args: args}})
	case "CAT":
		args := s.popN(in.Offset, 2)
		s.push(&ir.Binary{Op: ir.OpCat, Left: args[0], Right: args[1]})
	case "SUBSTR":
		args := s.popN(in.Offset, 3)
		s.push(&ir.Builtin{Name: "substr", Args: args})
	case "LEFT":
		args := s.popN(in.Offset, 2)
		s.push(&ir.Builtin{Name: "left", Args: args})
	case "RIGHT":
		args := s.popN(in.Offset, 2)
		s.push(&ir.Builtin{Name: "right", Args: args})
	case "ASSERT":
		cond := s.pop(in.Offset)
		s.emit(&ir.AssertStmt{Cond: cond})
	case "ASSERTMSG":
		args := s.popN(in.Offset, 2)
		s.emit(&ir.AssertStmt{Cond: args[0], Message: args[1]})
	}
}
