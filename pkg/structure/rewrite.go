package structure

import "github.com/r3e-network/neo-decompiler/pkg/ir"

// recognizeForLoops collapses the adjacent `init; while (cond) { ...;
// step }` shape into a single LoopFor statement (§4.6 pattern 5): a
// plain assignment immediately preceding a LoopWhile, whose body's last
// statement assigns the same target, is folded into the loop header.
// Runs once over the top-level list and recurses into every nested
// statement list so the pattern is found at any nesting depth.
func recognizeForLoops(stmts []ir.Stmt) []ir.Stmt {
	out := make([]ir.Stmt, 0, len(stmts))
	for i := 0; i < len(stmts); i++ {
		st := stmts[i]
		if loop, ok := st.(*ir.Loop); ok && loop.Kind == ir.LoopWhile && len(out) > 0 && len(loop.Body) > 0 {
			if init, ok2 := out[len(out)-1].(*ir.Assign); ok2 {
				if step, ok3 := loop.Body[len(loop.Body)-1].(*ir.Assign); ok3 && step.Target.Name == init.Target.Name {
					out = out[:len(out)-1] // absorb the init statement into the loop header
					loop.Kind = ir.LoopFor
					loop.Init = init
					loop.Step = step
					loop.Body = loop.Body[:len(loop.Body)-1]
				}
			}
		}
		recurseInto(st)
		out = append(out, st)
	}
	return out
}

// recurseInto applies recognizeForLoops to every nested statement list
// a structured statement carries.
func recurseInto(st ir.Stmt) {
	switch v := st.(type) {
	case *ir.If:
		v.Then = recognizeForLoops(v.Then)
		v.Else = recognizeForLoops(v.Else)
	case *ir.Loop:
		v.Body = recognizeForLoops(v.Body)
	case *ir.Try:
		v.Body = recognizeForLoops(v.Body)
		v.Catch = recognizeForLoops(v.Catch)
		v.Finally = recognizeForLoops(v.Finally)
	case *ir.Switch:
		for i := range v.Cases {
			v.Cases[i].Body = recognizeForLoops(v.Cases[i].Body)
		}
	}
}

// rewriteCompoundAssign folds `x = x op y` into `x op= y` (§4.6's
// readability-pass list, "also inside for headers": Loop.Step is
// visited too). Only the left-operand form is recognized; the
// commutative right-operand form (`x = y + x`) is left as-is, matching
// how rarely compilers emit operands in that order.
func rewriteCompoundAssign(stmts []ir.Stmt) []ir.Stmt {
	out := make([]ir.Stmt, len(stmts))
	for i, st := range stmts {
		out[i] = rewriteCompoundAssignStmt(st)
	}
	return out
}

func rewriteCompoundAssignStmt(st ir.Stmt) ir.Stmt {
	switch v := st.(type) {
	case *ir.Assign:
		if bin, ok := v.Source.(*ir.Binary); ok {
			if left, ok2 := bin.Left.(*ir.Identifier); ok2 && left.Kind == v.Target.Kind && left.Index == v.Target.Index {
				return &ir.CompoundAssign{Target: v.Target, Op: bin.Op, Source: bin.Right}
			}
		}
		return v
	case *ir.If:
		v.Then = rewriteCompoundAssign(v.Then)
		v.Else = rewriteCompoundAssign(v.Else)
		return v
	case *ir.Loop:
		v.Body = rewriteCompoundAssign(v.Body)
		if v.Step != nil {
			v.Step = rewriteCompoundAssignStmt(v.Step)
		}
		return v
	case *ir.Try:
		v.Body = rewriteCompoundAssign(v.Body)
		v.Catch = rewriteCompoundAssign(v.Catch)
		v.Finally = rewriteCompoundAssign(v.Finally)
		return v
	case *ir.Switch:
		for i := range v.Cases {
			v.Cases[i].Body = rewriteCompoundAssign(v.Cases[i].Body)
		}
		return v
	default:
		return st
	}
}

// inlineSingleUseTemps drops every `tN = expr` assignment whose temp is
// read exactly once elsewhere in the whole tree and whose expr is safe
// to re-evaluate at that use site, substituting expr directly in place
// of the read (§4.6's closing list, opt-in).
func inlineSingleUseTemps(stmts []ir.Stmt) []ir.Stmt {
	counts := map[string]int{}
	defs := map[string]ir.Expr{}
	countUsesList(stmts, counts)
	collectTempDefsList(stmts, defs)

	candidates := map[string]ir.Expr{}
	for name, e := range defs {
		if counts[name] == 1 && exprIsIdempotent(e) {
			candidates[name] = e
		}
	}
	if len(candidates) == 0 {
		return stmts
	}
	return substituteList(stmts, candidates)
}

func collectTempDefsList(stmts []ir.Stmt, defs map[string]ir.Expr) {
	for _, st := range stmts {
		switch v := st.(type) {
		case *ir.Assign:
			if v.Target.Kind == ir.SlotTemp {
				defs[v.Target.Name] = v.Source
			}
		case *ir.If:
			collectTempDefsList(v.Then, defs)
			collectTempDefsList(v.Else, defs)
		case *ir.Loop:
			collectTempDefsList(v.Body, defs)
		case *ir.Try:
			collectTempDefsList(v.Body, defs)
			collectTempDefsList(v.Catch, defs)
			collectTempDefsList(v.Finally, defs)
		case *ir.Switch:
			for _, c := range v.Cases {
				collectTempDefsList(c.Body, defs)
			}
		}
	}
}

func countUsesList(stmts []ir.Stmt, counts map[string]int) {
	for _, st := range stmts {
		countUsesStmt(st, counts)
	}
}

func countUsesStmt(st ir.Stmt, counts map[string]int) {
	switch v := st.(type) {
	case *ir.Assign:
		countUsesExpr(v.Source, counts)
	case *ir.CompoundAssign:
		countUsesExpr(v.Source, counts)
	case *ir.IndexAssign:
		countUsesExpr(v.Base, counts)
		countUsesExpr(v.Key, counts)
		countUsesExpr(v.Value, counts)
	case *ir.ExprStatement:
		countUsesExpr(v.Expr, counts)
	case *ir.Return:
		countUsesExpr(v.Value, counts)
	case *ir.Abort:
		countUsesExpr(v.Message, counts)
	case *ir.Throw:
		countUsesExpr(v.Value, counts)
	case *ir.AssertStmt:
		countUsesExpr(v.Cond, counts)
		countUsesExpr(v.Message, counts)
	case *ir.If:
		countUsesExpr(v.Cond, counts)
		countUsesList(v.Then, counts)
		countUsesList(v.Else, counts)
	case *ir.Loop:
		countUsesExpr(v.Cond, counts)
		countUsesList(v.Body, counts)
		if v.Init != nil {
			countUsesStmt(v.Init, counts)
		}
		if v.Step != nil {
			countUsesStmt(v.Step, counts)
		}
	case *ir.Try:
		countUsesList(v.Body, counts)
		countUsesList(v.Catch, counts)
		countUsesList(v.Finally, counts)
	case *ir.Switch:
		countUsesExpr(v.Subject, counts)
		for _, c := range v.Cases {
			countUsesExpr(c.Value, counts)
			countUsesList(c.Body, counts)
		}
	}
}

func countUsesExpr(e ir.Expr, counts map[string]int) {
	switch v := e.(type) {
	case nil:
	case *ir.Identifier:
		counts[v.Name]++
	case *ir.Binary:
		countUsesExpr(v.Left, counts)
		countUsesExpr(v.Right, counts)
	case *ir.Unary:
		countUsesExpr(v.Operand, counts)
	case *ir.Call:
		countUsesExpr(v.Target, counts)
		for _, a := range v.Args {
			countUsesExpr(a, counts)
		}
	case *ir.Index:
		countUsesExpr(v.Base, counts)
		countUsesExpr(v.Key, counts)
	case *ir.Cast:
		countUsesExpr(v.Operand, counts)
	case *ir.HasKey:
		countUsesExpr(v.Base, counts)
		countUsesExpr(v.Key, counts)
	case *ir.Builtin:
		for _, a := range v.Args {
			countUsesExpr(a, counts)
		}
	case *ir.NewCollection:
		countUsesExpr(v.Size, counts)
	case *ir.Pack:
		for _, a := range v.Elems {
			countUsesExpr(a, counts)
		}
	}
}

func substituteList(stmts []ir.Stmt, candidates map[string]ir.Expr) []ir.Stmt {
	out := make([]ir.Stmt, 0, len(stmts))
	for _, st := range stmts {
		if a, ok := st.(*ir.Assign); ok && a.Target.Kind == ir.SlotTemp {
			if _, drop := candidates[a.Target.Name]; drop {
				continue
			}
		}
		out = append(out, substituteStmt(st, candidates))
	}
	return out
}

func substituteStmt(st ir.Stmt, candidates map[string]ir.Expr) ir.Stmt {
	switch v := st.(type) {
	case *ir.Assign:
		v.Source = substituteExpr(v.Source, candidates)
		return v
	case *ir.CompoundAssign:
		v.Source = substituteExpr(v.Source, candidates)
		return v
	case *ir.IndexAssign:
		v.Base = substituteExpr(v.Base, candidates)
		v.Key = substituteExpr(v.Key, candidates)
		v.Value = substituteExpr(v.Value, candidates)
		return v
	case *ir.ExprStatement:
		v.Expr = substituteExpr(v.Expr, candidates)
		return v
	case *ir.Return:
		v.Value = substituteExpr(v.Value, candidates)
		return v
	case *ir.Abort:
		v.Message = substituteExpr(v.Message, candidates)
		return v
	case *ir.Throw:
		v.Value = substituteExpr(v.Value, candidates)
		return v
	case *ir.AssertStmt:
		v.Cond = substituteExpr(v.Cond, candidates)
		v.Message = substituteExpr(v.Message, candidates)
		return v
	case *ir.If:
		v.Cond = substituteExpr(v.Cond, candidates)
		v.Then = substituteList(v.Then, candidates)
		v.Else = substituteList(v.Else, candidates)
		return v
	case *ir.Loop:
		v.Cond = substituteExpr(v.Cond, candidates)
		v.Body = substituteList(v.Body, candidates)
		return v
	case *ir.Try:
		v.Body = substituteList(v.Body, candidates)
		v.Catch = substituteList(v.Catch, candidates)
		v.Finally = substituteList(v.Finally, candidates)
		return v
	case *ir.Switch:
		v.Subject = substituteExpr(v.Subject, candidates)
		for i := range v.Cases {
			v.Cases[i].Body = substituteList(v.Cases[i].Body, candidates)
		}
		return v
	default:
		return st
	}
}

func substituteExpr(e ir.Expr, candidates map[string]ir.Expr) ir.Expr {
	switch v := e.(type) {
	case nil:
		return nil
	case *ir.Identifier:
		if rep, ok := candidates[v.Name]; ok {
			return rep
		}
		return v
	case *ir.Binary:
		v.Left = substituteExpr(v.Left, candidates)
		v.Right = substituteExpr(v.Right, candidates)
		return v
	case *ir.Unary:
		v.Operand = substituteExpr(v.Operand, candidates)
		return v
	case *ir.Call:
		v.Target = substituteExpr(v.Target, candidates)
		for i := range v.Args {
			v.Args[i] = substituteExpr(v.Args[i], candidates)
		}
		return v
	case *ir.Index:
		v.Base = substituteExpr(v.Base, candidates)
		v.Key = substituteExpr(v.Key, candidates)
		return v
	case *ir.Cast:
		v.Operand = substituteExpr(v.Operand, candidates)
		return v
	case *ir.HasKey:
		v.Base = substituteExpr(v.Base, candidates)
		v.Key = substituteExpr(v.Key, candidates)
		return v
	case *ir.Builtin:
		for i := range v.Args {
			v.Args[i] = substituteExpr(v.Args[i], candidates)
		}
		return v
	case *ir.NewCollection:
		v.Size = substituteExpr(v.Size, candidates)
		return v
	case *ir.Pack:
		for i := range v.Elems {
			v.Elems[i] = substituteExpr(v.Elems[i], candidates)
		}
		return v
	default:
		return e
	}
}

// exprIsIdempotent mirrors the lifter's own non-idempotence check
// (anything containing a Call is unsafe to move to a new evaluation
// point), duplicated here since lifter's is unexported and the two
// packages intentionally don't share internals.
func exprIsIdempotent(e ir.Expr) bool {
	switch v := e.(type) {
	case nil:
		return true
	case *ir.Call:
		return false
	case *ir.Binary:
		return exprIsIdempotent(v.Left) && exprIsIdempotent(v.Right)
	case *ir.Unary:
		return exprIsIdempotent(v.Operand)
	case *ir.Index:
		return exprIsIdempotent(v.Base) && exprIsIdempotent(v.Key)
	case *ir.Cast:
		return exprIsIdempotent(v.Operand)
	case *ir.HasKey:
		return exprIsIdempotent(v.Base) && exprIsIdempotent(v.Key)
	case *ir.Builtin:
		for _, a := range v.Args {
			if !exprIsIdempotent(a) {
				return false
			}
		}
		return true
	case *ir.NewCollection:
		return v.Size == nil || exprIsIdempotent(v.Size)
	case *ir.Pack:
		for _, a := range v.Elems {
			if !exprIsIdempotent(a) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
