package analysis

import (
	"sort"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

// Hint is a shallow, deliberately weak type guess (§4.8: "This is
// deliberately weak and never used to reject input").
type Hint int

const (
	HintAny Hint = iota
	HintInt
	HintBytes
	HintBool
	HintArray
	HintMap
)

func (h Hint) String() string {
	switch h {
	case HintInt:
		return "int"
	case HintBytes:
		return "bytes"
	case HintBool:
		return "bool"
	case HintArray:
		return "array"
	case HintMap:
		return "map"
	default:
		return "any"
	}
}

// TypeHints maps a slot's display name to its inferred hint (§4.8:
// "Hints flow through assignments and merges (unification to Any on
// conflict)"). Keyed by display name rather than SlotRef so a temp
// (SlotTemp) or recovered placeholder gets a hint too, not just frame
// slots.
type TypeHints struct {
	Names map[string]Hint
}

// BuildTypeHints walks cfg once, seeding a hint from each assignment's
// source expression and unifying repeated assignments to the same name.
func BuildTypeHints(cfg *ir.Cfg) *TypeHints {
	hints := map[string]Hint{}
	seen := map[string]bool{}

	unify := func(name string, h Hint) {
		if !seen[name] {
			seen[name] = true
			hints[name] = h
			return
		}
		if hints[name] != h {
			hints[name] = HintAny
		}
	}

	walkBlocks(cfg, nil, func(_ string, _ *ir.BasicBlock, stmt ir.Stmt) {
		target := stmtTarget(stmt)
		if target == nil {
			return
		}
		var source ir.Expr
		switch v := stmt.(type) {
		case *ir.Assign:
			source = v.Source
		case *ir.CompoundAssign:
			source = nil // the result type is unchanged by a compound op on a known-typed slot
		}
		if source == nil {
			return
		}
		unify(target.Name, inferExprHint(source))
	})

	return &TypeHints{Names: hints}
}

// inferExprHint classifies e's shallow runtime shape per §4.8's seed
// list: "PUSHINT* (integer), PUSHDATA* (bytes), NEWARRAY/PACK* (array
// with element hint), NEWMAP/PACKMAP (map)". Expressions the lifter
// never reduces to one of those shapes (calls, casts, index reads) stay
// HintAny, the pass never guesses past what a literal or constructor
// already states outright.
func inferExprHint(e ir.Expr) Hint {
	switch v := e.(type) {
	case *ir.Literal:
		switch v.Kind {
		case ir.LitInt:
			return HintInt
		case ir.LitBytes, ir.LitString:
			return HintBytes
		case ir.LitBool:
			return HintBool
		default:
			return HintAny
		}
	case *ir.NewCollection:
		switch v.Kind {
		case "map":
			return HintMap
		case "array", "struct", "buffer":
			return HintArray
		default:
			return HintAny
		}
	case *ir.Pack:
		if v.Kind == "map" {
			return HintMap
		}
		return HintArray
	default:
		return HintAny
	}
}

// SortedNames returns hints.Names's keys in sorted order, for deterministic
// JSON/text rendering (§8 property 8).
func (h *TypeHints) SortedNames() []string {
	out := make([]string, 0, len(h.Names))
	for n := range h.Names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
