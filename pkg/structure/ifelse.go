package structure

import "github.com/r3e-network/neo-decompiler/pkg/ir"

// scheduleBranch lowers a two-successor Branch terminator into an If
// statement (§4.6 pattern 1). Either arm is replaced by a single
// Break/Continue when it targets the innermost enclosing loop's exit or
// header instead of being recursively scheduled as ordinary code.
func (b *builder) scheduleBranch(term ir.Terminator) (ir.Stmt, ir.BlockId) {
	join := b.findJoin([]ir.BlockId{term.Then, term.Else})

	thenStmts := b.branchArm(term.Then, join)
	var elseStmts []ir.Stmt
	if term.Else != join {
		elseStmts = b.branchArm(term.Else, join)
	}

	return &ir.If{Cond: term.Cond, Then: thenStmts, Else: elseStmts}, join
}

// branchArm schedules one arm of a branch, short-circuiting to a single
// Break/Continue statement when the arm's target is itself the
// enclosing loop's exit or header (common for a while-loop's own
// condition test, where one arm falls straight through to the loop
// exit with no other statements in between).
func (b *builder) branchArm(target, join ir.BlockId) []ir.Stmt {
	if len(b.loopStack) > 0 {
		inner := b.loopStack[len(b.loopStack)-1]
		if target == inner.header {
			return []ir.Stmt{&ir.Continue{}}
		}
		if inner.hasExit && target == inner.exit {
			return []ir.Stmt{&ir.Break{}}
		}
	}
	return b.schedule(target, join, nil)
}

// findJoin returns the nearest block reachable from every entry in
// starts, or noStop if their forward reachable sets never intersect
// (common for arms that each end in their own Return/Abort/Throw).
func (b *builder) findJoin(starts []ir.BlockId) ir.BlockId {
	if len(starts) == 0 {
		return noStop
	}
	orders := make([][]ir.BlockId, len(starts))
	for i, s := range starts {
		orders[i] = b.bfsOrder(s)
	}
	for _, id := range orders[0] {
		inAll := true
		for i := 1; i < len(orders); i++ {
			if !containsBlock(orders[i], id) {
				inAll = false
				break
			}
		}
		if inAll {
			return id
		}
	}
	return noStop
}

func containsBlock(ids []ir.BlockId, id ir.BlockId) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// bfsOrder returns every block forward-reachable from start, in BFS
// order, without crossing into dead blocks.
func (b *builder) bfsOrder(start ir.BlockId) []ir.BlockId {
	visited := map[ir.BlockId]bool{start: true}
	queue := []ir.BlockId{start}
	var order []ir.BlockId
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, s := range b.cfg.Successors(id) {
			if visited[s] {
				continue
			}
			if blk, ok := b.cfg.Blocks[s]; !ok || blk.Dead {
				continue
			}
			visited[s] = true
			queue = append(queue, s)
		}
	}
	return order
}
