package ir

import "errors"

// DominanceInfo is the dominator tree and dominance-frontier sets for a
// Cfg's reachable blocks (§3, §4.7). Unreachable blocks are excluded
// entirely, per the DominanceInfo invariant.
type DominanceInfo struct {
	Idom     map[BlockId]BlockId // no entry for Entry (idom[entry] = None per §3)
	DomTree  map[BlockId][]BlockId
	Frontier map[BlockId]map[BlockId]bool
}

// Dominates reports whether dom dominates b (every path from entry to b
// passes through dom); every block dominates itself (§8 property 3).
func (d *DominanceInfo) Dominates(dom, b BlockId) bool {
	for cur := b; ; {
		if cur == dom {
			return true
		}
		parent, ok := d.Idom[cur]
		if !ok {
			return false
		}
		cur = parent
	}
}

// ErrAnalysisLimitExceeded is returned by ComputeDominance when the
// fixed-point iteration exceeds its cap (§4.7 "Safety limits", §5,
// §7's Error::AnalysisLimitExceeded).
var ErrAnalysisLimitExceeded = errors.New("ir: dominance computation exceeded its iteration cap")

// ComputeDominance computes cfg's dominator tree via the iterative
// Cooper-Harvey-Kennedy algorithm (§4.7): reverse-post-order processing,
// idom as the intersection of all processed predecessors' idoms, until a
// fixed point. maxIterations bounds the total number of block visits
// across all passes of the fixed-point loop, against
// adversarial/irreducible input (§5's 10^6 default cap, passed in by the
// caller rather than hardcoded so tests can exercise the limit cheaply).
func ComputeDominance(cfg *Cfg, maxIterations int) (*DominanceInfo, error) {
	rpo := cfg.ReversePostOrder()
	reached := cfg.ReachableSet()

	// postNum gives each reachable block its reverse-post-order rank,
	// used by intersect to walk two idom chains toward their meeting
	// point without an explicit depth computation.
	postNum := make(map[BlockId]int, len(rpo))
	var order []BlockId
	for _, id := range rpo {
		if reached[id] {
			postNum[id] = len(order)
			order = append(order, id)
		}
	}
	if len(order) == 0 {
		return &DominanceInfo{Idom: map[BlockId]BlockId{}, DomTree: map[BlockId][]BlockId{}, Frontier: map[BlockId]map[BlockId]bool{}}, nil
	}

	idom := make(map[BlockId]BlockId, len(order))
	idom[cfg.Entry] = cfg.Entry // sentinel: entry's idom is itself until finalized

	changed := true
	iterations := 0
	for changed {
		changed = false
		for _, b := range order {
			if b == cfg.Entry {
				continue
			}
			var newIdom BlockId
			set := false
			for _, p := range cfg.Predecessors(b) {
				if _, ok := idom[p]; !ok {
					continue
				}
				if !set {
					newIdom, set = p, true
					continue
				}
				newIdom = intersect(idom, postNum, newIdom, p)
			}
			iterations++
			if iterations > maxIterations {
				return nil, ErrAnalysisLimitExceeded
			}
			if !set {
				continue
			}
			if cur, ok := idom[b]; !ok || cur != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	delete(idom, cfg.Entry) // restore the §3 invariant idom[entry] = None

	domTree := make(map[BlockId][]BlockId, len(order))
	for _, b := range order {
		if b == cfg.Entry {
			continue
		}
		p := idom[b]
		domTree[p] = append(domTree[p], b)
	}

	frontier := make(map[BlockId]map[BlockId]bool, len(order))
	for _, b := range order {
		frontier[b] = map[BlockId]bool{}
	}
	for _, b := range order {
		preds := cfg.Predecessors(b)
		if len(preds) < 2 {
			continue
		}
		bIdom, hasIdom := idom[b]
		for _, p := range preds {
			if _, ok := idom[p]; !ok && p != cfg.Entry {
				continue
			}
			runner := p
			for {
				if hasIdom && runner == bIdom {
					break
				}
				frontier[runner][b] = true
				if runner == cfg.Entry {
					break
				}
				next, ok := idom[runner]
				if !ok {
					break
				}
				runner = next
			}
		}
	}

	return &DominanceInfo{Idom: idom, DomTree: domTree, Frontier: frontier}, nil
}

// intersect walks two idom chains upward by reverse-post-order rank
// until they meet, the classic Cooper-Harvey-Kennedy finger algorithm.
func intersect(idom map[BlockId]BlockId, postNum map[BlockId]int, a, b BlockId) BlockId {
	for a != b {
		for postNum[a] > postNum[b] {
			a = idom[a]
		}
		for postNum[b] > postNum[a] {
			b = idom[b]
		}
	}
	return a
}

// IteratedFrontier returns the iterated dominance frontier of defBlocks:
// the fixed point of repeatedly unioning in each member's own frontier
// (§4.7 "φ placement": "add a φ at every block in DF+(d)").
func (d *DominanceInfo) IteratedFrontier(defBlocks []BlockId) map[BlockId]bool {
	result := map[BlockId]bool{}
	worklist := append([]BlockId{}, defBlocks...)
	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for f := range d.Frontier[b] {
			if !result[f] {
				result[f] = true
				worklist = append(worklist, f)
			}
		}
	}
	return result
}
