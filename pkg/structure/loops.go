package structure

import "github.com/r3e-network/neo-decompiler/pkg/ir"

// detectLoops finds every natural loop in cfg: one per distinct back-
// edge target (a block dominating the edge's own source), body computed
// by walking predecessors backward from each back-edge source until
// the header is reached, keeping only nodes the header dominates (the
// classic natural-loop construction, §4.6 patterns 3/4).
func detectLoops(cfg *ir.Cfg, dom *ir.DominanceInfo) []*loopInfo {
	sourcesByHeader := map[ir.BlockId][]ir.BlockId{}
	for _, e := range cfg.Edges {
		if dom.Dominates(e.To, e.From) {
			sourcesByHeader[e.To] = append(sourcesByHeader[e.To], e.From)
		}
	}

	var loops []*loopInfo
	for _, header := range cfg.Order {
		sources, ok := sourcesByHeader[header]
		if !ok {
			continue
		}
		body := map[ir.BlockId]bool{header: true}
		worklist := append([]ir.BlockId{}, sources...)
		for len(worklist) > 0 {
			n := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			if body[n] {
				continue
			}
			if !dom.Dominates(header, n) {
				continue
			}
			body[n] = true
			worklist = append(worklist, cfg.Predecessors(n)...)
		}
		loop := &loopInfo{header: header, body: body, tail: sources[len(sources)-1]}
		classifyLoop(cfg, loop)
		loops = append(loops, loop)
	}
	return loops
}

// classifyLoop decides whether a loop's exit condition is tested at its
// header (LoopWhile) or at its tail (LoopDoWhile), per §4.6 patterns 3
// and 4. A loop whose header and tail are both unconditional defaults
// to LoopWhile with no discovered exit, rendered as `while (true)`.
func classifyLoop(cfg *ir.Cfg, loop *loopInfo) {
	headerBlk := cfg.Blocks[loop.header]

	// A single-block loop (the back edge's own source is the header) is
	// always a do-while: the header's Statements run, then its own
	// Terminator tests the exit condition, so the body always executes
	// at least once before the first test. There's no separate "test
	// before any body statement" entry the while-loop shape requires.
	if loop.header == loop.tail {
		if headerBlk.Terminator.Kind == ir.TermBranch {
			then, els := headerBlk.Terminator.Then, headerBlk.Terminator.Else
			switch {
			case then == loop.header:
				loop.kind, loop.exit, loop.hasExit = ir.LoopDoWhile, els, true
			case els == loop.header:
				loop.kind, loop.exit, loop.hasExit = ir.LoopDoWhile, then, true
			default:
				loop.kind = ir.LoopWhile
			}
			return
		}
		loop.kind = ir.LoopWhile
		return
	}

	if headerBlk.Terminator.Kind == ir.TermBranch {
		then, els := headerBlk.Terminator.Then, headerBlk.Terminator.Else
		if loop.body[then] != loop.body[els] {
			loop.kind = ir.LoopWhile
			if loop.body[then] {
				loop.exit, loop.hasExit = els, true
			} else {
				loop.exit, loop.hasExit = then, true
			}
			return
		}
	}

	tailBlk := cfg.Blocks[loop.tail]
	if tailBlk.Terminator.Kind == ir.TermBranch {
		then, els := tailBlk.Terminator.Then, tailBlk.Terminator.Else
		if then == loop.header && !loop.body[els] {
			loop.kind, loop.exit, loop.hasExit = ir.LoopDoWhile, els, true
			return
		}
		if els == loop.header && !loop.body[then] {
			loop.kind, loop.exit, loop.hasExit = ir.LoopDoWhile, then, true
			return
		}
	}

	loop.kind = ir.LoopWhile
}

// scheduleLoop builds the Loop statement for loop and reports the block
// control reaches once it exits (noStop if none was found). The
// header's own pre-branch statements (the comparison operands'
// computation, almost always empty since LDLOC/LDARG push expressions
// rather than emitting statements) are appended to the end of Body so
// they re-run before every re-test, matching the header's actual
// re-execution on every iteration.
func (b *builder) scheduleLoop(loop *loopInfo) ([]ir.Stmt, ir.BlockId) {
	b.loopStack = append(b.loopStack, loopCtx{header: loop.header, exit: loop.exit, hasExit: loop.hasExit})
	defer func() { b.loopStack = b.loopStack[:len(b.loopStack)-1] }()

	stop := loop.exit
	if !loop.hasExit {
		stop = noStop
	}

	if loop.kind == ir.LoopDoWhile {
		tailBlk := b.cfg.Blocks[loop.tail]
		body := b.schedule(loop.header, loop.tail, nil)
		body = append(body, tailBlk.Statements...)
		cond := tailBlk.Terminator.Cond
		if tailBlk.Terminator.Else == loop.header {
			cond = &ir.Unary{Op: ir.OpBoolNot, Operand: cond}
		}
		return []ir.Stmt{&ir.Loop{Kind: ir.LoopDoWhile, Cond: cond, Body: body}}, stop
	}

	headerBlk := b.cfg.Blocks[loop.header]
	var cond ir.Expr
	var bodyStart ir.BlockId
	if headerBlk.Terminator.Kind == ir.TermBranch {
		then, els := headerBlk.Terminator.Then, headerBlk.Terminator.Else
		cond = headerBlk.Terminator.Cond
		if loop.body[then] {
			bodyStart = then
		} else {
			bodyStart = els
			cond = &ir.Unary{Op: ir.OpBoolNot, Operand: cond}
		}
	} else {
		cond = &ir.Literal{Kind: ir.LitBool, Bool: true}
		bodyStart = headerBlk.Terminator.Target
	}
	body := b.schedule(bodyStart, loop.header, nil)
	body = append(body, headerBlk.Statements...)
	return []ir.Stmt{&ir.Loop{Kind: ir.LoopWhile, Cond: cond, Body: body}}, stop
}
