// Package analysis is the best-effort layer that walks an already-built
// Cfg to derive a call graph, slot cross-references, and shallow type
// hints (§4.8). None of these passes can fail the overall decompile: a
// malformed or unresolved call site degrades to an "unknown" edge, never
// an error, matching §7's "Analysis-layer failures never block the main
// decompile."
//
// Grounded on original_source's analysis/callgraph.rs and
// analysis/typeinfer.rs for the overall "walk every flat block statement
// once, fold into a small summary map" shape; neo-go has no equivalent
// pass since it executes bytecode rather than summarizing it, so this
// package's shape (three independent single-pass builders sharing one
// block-walk helper) follows the teacher's general preference for small
// top-level functions over a class hierarchy, applied to a problem the
// teacher itself never solves.
package analysis

import (
	"sort"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/manifest"
)

// ScriptEntryName is the synthetic call-graph node covering bytecode no
// manifest ABI method claims (§9 Open Question (a), SPEC_FULL.md §C.5):
// "the core must still produce a synthetic script_entry covering
// unclaimed bytecode; do not guess where methods begin."
const ScriptEntryName = "script_entry"

// MethodRange is one ABI method's claimed offset span, used to assign
// every block (and therefore every statement/call-site) in the flat Cfg
// to the method that contains it.
type MethodRange struct {
	Name  string
	Start uint32
	End   uint32 // exclusive
}

// MethodRanges partitions [0, scriptEnd) among abi's methods by offset,
// sorted ascending, inserting ScriptEntryName spans to cover any gap
// before the first method, between methods, or after the last one. A
// nil abi (no manifest) yields a single ScriptEntryName span over the
// whole script.
func MethodRanges(abi *manifest.ABI, end uint32) []MethodRange {
	if abi == nil || len(abi.Methods) == 0 {
		return []MethodRange{{Name: ScriptEntryName, Start: 0, End: end}}
	}
	methods := make([]manifest.Method, len(abi.Methods))
	copy(methods, abi.Methods)
	sort.Slice(methods, func(i, j int) bool { return methods[i].Offset < methods[j].Offset })

	var ranges []MethodRange
	cursor := uint32(0)
	for i, m := range methods {
		start := uint32(m.Offset)
		if start > cursor {
			ranges = append(ranges, MethodRange{Name: ScriptEntryName, Start: cursor, End: start})
		}
		rangeEnd := end
		if i+1 < len(methods) {
			rangeEnd = uint32(methods[i+1].Offset)
		}
		if rangeEnd <= start {
			continue // degenerate/duplicate offset, nothing claimed
		}
		ranges = append(ranges, MethodRange{Name: m.Name, Start: start, End: rangeEnd})
		cursor = rangeEnd
	}
	if cursor < end {
		ranges = append(ranges, MethodRange{Name: ScriptEntryName, Start: cursor, End: end})
	}
	return ranges
}

// MethodAt resolves offset to the method range that contains it,
// falling back to ScriptEntryName for anything outside every span (a
// defensive default; MethodRanges never actually leaves a gap).
func MethodAt(ranges []MethodRange, offset uint32) string {
	for _, r := range ranges {
		if offset >= r.Start && offset < r.End {
			return r.Name
		}
	}
	return ScriptEntryName
}

// ScriptEnd returns the offset one past cfg's last block, the upper
// bound MethodRanges needs to close the final span.
func ScriptEnd(cfg *ir.Cfg) uint32 {
	var end uint32
	for _, id := range cfg.Order {
		if b := cfg.Blocks[id]; b.EndOffset > end {
			end = b.EndOffset
		}
	}
	return end
}

// blockVisitor is invoked once per statement (in block order) and once
// per Expr embedded directly in a block's Terminator (a Branch
// condition or a Return/Abort's value), together the complete
// inventory of Expr trees the flat Cfg carries, since structured
// recovery only rearranges these same statements into nested form
// without creating or discarding any of them (§8 property 7).
type blockVisitor func(methodName string, block *ir.BasicBlock, stmt ir.Stmt)

// walkBlocks drives v over every reachable-or-not block of cfg, in
// cfg.Order (increasing start offset), resolving each block's owning
// method via ranges.
func walkBlocks(cfg *ir.Cfg, ranges []MethodRange, v blockVisitor) {
	for _, id := range cfg.Order {
		b := cfg.Blocks[id]
		name := MethodAt(ranges, b.StartOffset)
		for _, st := range b.Statements {
			v(name, b, st)
		}
		if b.Terminator.Cond != nil {
			v(name, b, &ir.ExprStatement{Expr: b.Terminator.Cond})
		}
		if b.Terminator.Value != nil {
			v(name, b, &ir.ExprStatement{Expr: b.Terminator.Value})
		}
	}
}

// Result bundles all three best-effort analyses for one Cfg, the shape
// the aggregate orchestration (pkg/decompiler) attaches to a
// Decompilation (§3's Decompilation.{call_graph, xrefs, types}).
type Result struct {
	CallGraph *CallGraph
	Xrefs     *Xrefs
	Types     *TypeHints
}

// Build runs every analysis pass over cfg once, given abi (nil if the
// decompile has no manifest).
func Build(cfg *ir.Cfg, abi *manifest.ABI) *Result {
	ranges := MethodRanges(abi, ScriptEnd(cfg))
	return &Result{
		CallGraph: BuildCallGraph(cfg, ranges),
		Xrefs:     BuildXrefs(cfg),
		Types:     BuildTypeHints(cfg),
	}
}

// walkExprTree visits e and every expression it transitively contains,
// depth-first, calling visit on each node including e itself. Shared by
// the xref and type-hint passes, both of which need to look inside
// every Expr shape the ir package defines.
func walkExprTree(e ir.Expr, visit func(ir.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch v := e.(type) {
	case *ir.Binary:
		walkExprTree(v.Left, visit)
		walkExprTree(v.Right, visit)
	case *ir.Unary:
		walkExprTree(v.Operand, visit)
	case *ir.Call:
		walkExprTree(v.Target, visit)
		for _, a := range v.Args {
			walkExprTree(a, visit)
		}
	case *ir.Index:
		walkExprTree(v.Base, visit)
		walkExprTree(v.Key, visit)
	case *ir.Cast:
		walkExprTree(v.Operand, visit)
	case *ir.HasKey:
		walkExprTree(v.Base, visit)
		walkExprTree(v.Key, visit)
	case *ir.Builtin:
		for _, a := range v.Args {
			walkExprTree(a, visit)
		}
	case *ir.NewCollection:
		walkExprTree(v.Size, visit)
	case *ir.Pack:
		for _, a := range v.Elems {
			walkExprTree(a, visit)
		}
	}
}

// stmtExprs returns every top-level Expr a statement directly holds (not
// recursing into nested statement lists; If/Loop/Try/Switch bodies are
// walked by walkBlocks at the flat-block level already, since
// structuring never moves a statement out of its originating block).
func stmtExprs(st ir.Stmt) []ir.Expr {
	switch v := st.(type) {
	case *ir.Assign:
		return []ir.Expr{v.Source}
	case *ir.CompoundAssign:
		return []ir.Expr{v.Source}
	case *ir.IndexAssign:
		return []ir.Expr{v.Base, v.Key, v.Value}
	case *ir.ExprStatement:
		return []ir.Expr{v.Expr}
	case *ir.Return:
		return []ir.Expr{v.Value}
	case *ir.Abort:
		return []ir.Expr{v.Message}
	case *ir.Throw:
		return []ir.Expr{v.Value}
	case *ir.AssertStmt:
		return []ir.Expr{v.Cond, v.Message}
	default:
		return nil
	}
}

// stmtTarget returns the Identifier a statement writes, or nil.
func stmtTarget(st ir.Stmt) *ir.Identifier {
	switch v := st.(type) {
	case *ir.Assign:
		return v.Target
	case *ir.CompoundAssign:
		return v.Target
	default:
		return nil
	}
}
