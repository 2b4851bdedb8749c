// Package structure turns a Cfg into nested structured statements:
// if/else, while/do-while/for, try/catch/finally, break/continue, with a
// conservative switch rewrite and a Label/Goto fallback when a region
// doesn't match any pattern (§4.6). Grounded on original_source's
// analysis/structure.rs for the overall "schedule a region, recognize
// loops via natural-loop back edges, recognize branches via dominance-
// bounded join search" shape; neo-go has no direct analogue since it
// interprets bytecode rather than re-deriving source structure from it.
package structure

import (
	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

// Warning is one non-fatal issue raised while structuring (§6's
// structured_recovery_fallback).
type Warning struct {
	Kind   string
	Detail string
}

// Options configures one Recover pass.
type Options struct {
	// InlineSingleUseTemps enables the opt-in single-use-temp-inlining
	// readability pass (§4.6's closing list, "opt-in").
	InlineSingleUseTemps bool
}

// Recover builds cfg's structured statement tree (§4.6). dom must be
// cfg's own dominance info (ir.ComputeDominance, shared with ssaform so
// neither pass computes it twice); structure never needs SSA itself, so
// it can run even when SSA construction hit its iteration cap and was
// skipped.
func Recover(cfg *ir.Cfg, dom *ir.DominanceInfo, opts Options) ([]ir.Stmt, []Warning) {
	b := &builder{cfg: cfg, dom: dom, labeled: map[ir.BlockId]bool{}}
	b.loops = detectLoops(cfg, dom)
	b.loopOf = map[ir.BlockId]*loopInfo{}
	for _, l := range b.loops {
		for id := range l.body {
			b.loopOf[id] = l
		}
	}
	out := b.schedule(cfg.Entry, noStop, nil)
	out = append(out, b.pendingLabels()...)
	out = recognizeForLoops(out)
	out = rewriteCompoundAssign(out)
	out = recognizeSwitch(out)
	if opts.InlineSingleUseTemps {
		out = inlineSingleUseTemps(out)
	}
	return out, b.warnings
}

// noStop is the sentinel "no bound" stop block id: BlockId is a dense
// 0-based index (§3), so -1 never collides with a real block.
const noStop ir.BlockId = -1

type loopInfo struct {
	header  ir.BlockId
	body    map[ir.BlockId]bool
	kind    ir.LoopKind
	exit    ir.BlockId // the block control reaches after the loop, noStop if none found
	hasExit bool
	tail    ir.BlockId // block containing the back edge to header
}

type loopCtx struct {
	header, exit ir.BlockId
	hasExit      bool
}

type builder struct {
	cfg       *ir.Cfg
	dom       *ir.DominanceInfo
	loops     []*loopInfo
	loopOf    map[ir.BlockId]*loopInfo // block -> the loop it belongs to (body or header)
	loopStack []loopCtx
	labeled   map[ir.BlockId]bool
	warnings  []Warning
}

func (b *builder) warn(kind, detail string) {
	b.warnings = append(b.warnings, Warning{Kind: kind, Detail: detail})
}

// enteringOwnHeader reports whether id is the header of the loop
// currently being scheduled by scheduleLoop (only true for a do-while
// loop's body, which legitimately starts at its own header block); it
// guards schedule from re-dispatching to scheduleLoop for the very loop
// that's already on the stack, which would recurse forever.
func (b *builder) enteringOwnHeader(id ir.BlockId) bool {
	if len(b.loopStack) == 0 {
		return false
	}
	return b.loopStack[len(b.loopStack)-1].header == id
}

// schedule emits the structured statement sequence starting at cur and
// ending the moment control would reach stop (or has nowhere left to
// go).
func (b *builder) schedule(cur, stop ir.BlockId, extra []ir.Stmt) []ir.Stmt {
	var out []ir.Stmt
	visited := map[ir.BlockId]bool{}
	for cur != stop {
		blk, ok := b.cfg.Blocks[cur]
		if !ok || blk.Dead {
			break
		}
		if visited[cur] {
			out = append(out, b.gotoFallback(cur))
			break
		}
		visited[cur] = true

		if loop, isHeader := b.loopOf[cur]; isHeader && loop.header == cur && !b.enteringOwnHeader(cur) {
			stmts, next := b.scheduleLoop(loop)
			out = append(out, stmts...)
			if next == noStop {
				cur = stop
				break
			}
			cur = next
			continue
		}

		out = append(out, blk.Statements...)

		switch blk.Terminator.Kind {
		case ir.TermFallthrough:
			cur = blk.Terminator.Target
		case ir.TermJump:
			next, done := b.followJump(blk.Terminator.Target, stop, &out)
			if done {
				cur = stop
				break
			}
			cur = next
		case ir.TermLeave:
			cur = blk.Terminator.Target
		case ir.TermBranch:
			stmt, join := b.scheduleBranch(blk.Terminator)
			out = append(out, stmt)
			cur = join
		case ir.TermTryEnter:
			stmt, resume := b.scheduleTry(blk.Terminator)
			out = append(out, stmt)
			cur = resume
		case ir.TermReturn:
			// The lifter already emits a Return statement for RET; only
			// synthesize one when the block does not end in it.
			var last ir.Stmt
			if n := len(out); n > 0 {
				last = out[n-1]
			}
			if _, ok := last.(*ir.Return); !ok {
				out = append(out, &ir.Return{Value: blk.Terminator.Value})
			}
			cur = stop
		case ir.TermAbort:
			cur = stop
		default:
			cur = stop
		}
	}
	if cur != stop && extra != nil {
		out = append(out, extra...)
	}
	return out
}

// followJump resolves an unconditional jump target, turning it into a
// Break/Continue when it targets the innermost enclosing loop's header
// or exit (§4.6 pattern 6); returns done=true when the jump was
// consumed as a break/continue (nothing more to schedule on this path).
// When target is simply this call's own stop block, the generic
// cur==stop check already ends the region with no statement needed, so
// no Break/Continue is emitted for that case; only an "early" jump to
// the header/exit from a point that isn't already the region boundary
// needs an explicit statement.
func (b *builder) followJump(target, stop ir.BlockId, out *[]ir.Stmt) (ir.BlockId, bool) {
	if target == stop {
		return target, false
	}
	if len(b.loopStack) > 0 {
		inner := b.loopStack[len(b.loopStack)-1]
		if target == inner.header {
			*out = append(*out, &ir.Continue{})
			return noStop, true
		}
		if inner.hasExit && target == inner.exit {
			*out = append(*out, &ir.Break{})
			return noStop, true
		}
	}
	return target, false
}

func (b *builder) gotoFallback(target ir.BlockId) ir.Stmt {
	b.labeled[target] = true
	offset := b.cfg.Blocks[target].StartOffset
	b.warn("structured_recovery_fallback", (&ir.Label{Offset: offset}).Name())
	return &ir.Goto{Offset: offset}
}

// pendingLabels appends a Label statement (and the block's own
// statements) for every block a gotoFallback referenced, so every Goto
// has a matching Label somewhere in the output (§4.6's closing
// paragraph). This is a best-effort rendition only: it does not itself
// re-attach the labeled block's own control flow, since by construction
// it's only reached via Goto once normal structuring gave up on it.
func (b *builder) pendingLabels() []ir.Stmt {
	var out []ir.Stmt
	for _, id := range b.cfg.Order {
		if b.labeled[id] {
			out = append(out, &ir.Label{Offset: b.cfg.Blocks[id].StartOffset})
			out = append(out, b.cfg.Blocks[id].Statements...)
		}
	}
	return out
}
