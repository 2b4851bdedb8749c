package analysis

import (
	"sort"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

// EdgeKind classifies a CallEdge by the call-site shape that produced it
// (§4.8: "Edges are derived from CALL/CALL_L/CALLT/CALLA/SYSCALL
// sites").
type EdgeKind int

const (
	EdgeDirect EdgeKind = iota
	EdgeSyscall
	EdgeToken
	EdgeComputed // CALLA: "computed calls produce edges to an unknown sink"
)

// UnknownSink is the call-graph node every EdgeComputed edge targets
// (§4.8, §9 Open Question (c)).
const UnknownSink = "unknown"

// CallEdge is one call-graph edge, from the method containing the call
// site to the method (or syscall/unknown sink) it targets.
type CallEdge struct {
	From, To string
	Kind     EdgeKind
}

// CallGraph is the whole-script call graph (§4.8): Methods lists the
// method-range names (manifest methods plus any synthetic
// ScriptEntryName span); edge targets such as syscall names and
// UnknownSink appear only in Edges.
type CallGraph struct {
	Methods []string
	Edges   []CallEdge
}

// BuildCallGraph walks cfg once, resolving each Call expression it finds
// to a CallEdge from its containing method (per ranges) to its target.
func BuildCallGraph(cfg *ir.Cfg, ranges []MethodRange) *CallGraph {
	g := &CallGraph{}
	methodSet := map[string]bool{}
	for _, r := range ranges {
		if !methodSet[r.Name] {
			methodSet[r.Name] = true
			g.Methods = append(g.Methods, r.Name)
		}
	}
	sort.Strings(g.Methods)

	walkBlocks(cfg, ranges, func(methodName string, block *ir.BasicBlock, stmt ir.Stmt) {
		for _, e := range stmtExprs(stmt) {
			walkExprTree(e, func(node ir.Expr) {
				call, ok := node.(*ir.Call)
				if !ok {
					return
				}
				g.Edges = append(g.Edges, callEdgeFor(methodName, call, ranges))
			})
		}
	})
	return g
}

func callEdgeFor(from string, call *ir.Call, ranges []MethodRange) CallEdge {
	switch call.Kind {
	case ir.CallSyscall:
		return CallEdge{From: from, To: call.Name, Kind: EdgeSyscall}
	case ir.CallMethodToken:
		return CallEdge{From: from, To: call.Name, Kind: EdgeToken}
	case ir.CallDirect:
		return CallEdge{From: from, To: MethodAt(ranges, uint32(call.Offset)), Kind: EdgeDirect}
	default: // ir.CallComputed
		return CallEdge{From: from, To: UnknownSink, Kind: EdgeComputed}
	}
}
