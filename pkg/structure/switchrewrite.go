package structure

import "github.com/r3e-network/neo-decompiler/pkg/ir"

// recognizeSwitch collapses a chain of `if (subject == v1) {...} else if
// (subject == v2) {...} else {...}` into a single Switch statement
// (§4.6 pattern 8, SPEC_FULL.md §C.4). Only chains whose scrutinee is a
// bare slot read compared against a literal are rewritten; any other
// subject is left as an ordinary if/else-if chain (for a call subject,
// evaluating it once per case would change how many times its side
// effects run). Requires at least two
// cases so a lone `if (x == 1)` is never turned into a degenerate
// single-arm switch.
func recognizeSwitch(stmts []ir.Stmt) []ir.Stmt {
	out := make([]ir.Stmt, 0, len(stmts))
	for _, st := range stmts {
		if ifStmt, ok := st.(*ir.If); ok {
			if sw, ok := tryBuildSwitch(ifStmt); ok {
				out = append(out, sw)
				continue
			}
		}
		recurseSwitchInto(st)
		out = append(out, st)
	}
	return out
}

func recurseSwitchInto(st ir.Stmt) {
	switch v := st.(type) {
	case *ir.If:
		v.Then = recognizeSwitch(v.Then)
		v.Else = recognizeSwitch(v.Else)
	case *ir.Loop:
		v.Body = recognizeSwitch(v.Body)
	case *ir.Try:
		v.Body = recognizeSwitch(v.Body)
		v.Catch = recognizeSwitch(v.Catch)
		v.Finally = recognizeSwitch(v.Finally)
	case *ir.Switch:
		for i := range v.Cases {
			v.Cases[i].Body = recognizeSwitch(v.Cases[i].Body)
		}
	}
}

// tryBuildSwitch walks top's else-if spine collecting one case per link,
// stopping at the first link that isn't an equality test against the
// same subject. A trailing non-if else becomes the default arm.
func tryBuildSwitch(top *ir.If) (*ir.Switch, bool) {
	subject, _, ok := extractCase(top.Cond)
	if !ok {
		return nil, false
	}

	var cases []ir.SwitchCase
	var defaultCase *ir.SwitchCase
	cur := top
	for {
		s, v, ok := extractCase(cur.Cond)
		if !ok || !sameIdentifier(s, subject) {
			return nil, false
		}
		cases = append(cases, ir.SwitchCase{Value: v, Body: cur.Then})

		if len(cur.Else) == 1 {
			if next, ok := cur.Else[0].(*ir.If); ok {
				if ns, _, ok := extractCase(next.Cond); ok && sameIdentifier(ns, subject) {
					cur = next
					continue
				}
			}
		}
		if len(cur.Else) > 0 {
			defaultCase = &ir.SwitchCase{Value: nil, Body: cur.Else}
		}
		break
	}

	// The default arm never counts toward the minimum: a lone `if (x ==
	// 1) {...} else {...}` stays a plain if/else, since a switch with one
	// real case reads worse than the if it came from.
	if len(cases) < 2 {
		return nil, false
	}
	if defaultCase != nil {
		cases = append(cases, *defaultCase)
	}
	sw := &ir.Switch{Subject: subject, Cases: cases}
	for i := range sw.Cases {
		sw.Cases[i].Body = recognizeSwitch(sw.Cases[i].Body)
	}
	return sw, true
}

// extractCase recognizes `subject == literal` (either operand order) and
// returns the slot being compared and the literal it's compared against.
func extractCase(cond ir.Expr) (*ir.Identifier, ir.Expr, bool) {
	bin, ok := cond.(*ir.Binary)
	if !ok || bin.Op != ir.OpEq {
		return nil, nil, false
	}
	if lit, ok := bin.Right.(*ir.Literal); ok {
		if id, ok := bin.Left.(*ir.Identifier); ok {
			return id, lit, true
		}
	}
	if lit, ok := bin.Left.(*ir.Literal); ok {
		if id, ok := bin.Right.(*ir.Identifier); ok {
			return id, lit, true
		}
	}
	return nil, nil, false
}

func sameIdentifier(a, b *ir.Identifier) bool {
	return a.Kind == b.Kind && a.Index == b.Index
}
