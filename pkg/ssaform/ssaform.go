// Package ssaform builds Static Single Assignment form over a lifted
// Cfg: Cooper-Harvey-Kennedy dominance (delegated to ir.ComputeDominance,
// since DominanceInfo is a shared core data-model type per §3), iterated
// dominance frontiers, φ placement, and dominator-tree-order variable
// renaming (§4.7). Grounded on original_source's analysis/ssa.rs for the
// renaming-stack shape of the algorithm; this module computes SSA lazily
// and independently of structured recovery, which consumes the same
// flat per-block statement lists without ever seeing φ nodes.
package ssaform

import (
	"sort"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

// DefaultMaxIterations is the §5 safety-limit default (10^6 steps)
// guarding dominance and renaming against adversarial/irreducible
// input.
const DefaultMaxIterations = 1_000_000

// Build computes cfg's SSA form. maxIterations <= 0 selects
// DefaultMaxIterations. On ErrAnalysisLimitExceeded, Build returns
// (nil, ir.ErrAnalysisLimitExceeded) and the caller is expected to
// record a warning and proceed without SSA (§4.7, §7): the rest of a
// decompile never depends on SSA having succeeded.
func Build(cfg *ir.Cfg, maxIterations int) (*ir.SsaForm, error) {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	dom, err := ir.ComputeDominance(cfg, maxIterations)
	if err != nil {
		return nil, err
	}

	reached := cfg.ReachableSet()
	b := &builder{
		cfg:         cfg,
		dom:         dom,
		reached:     reached,
		blocks:      map[ir.BlockId]*ir.SsaBlock{},
		definitions: map[ir.SsaVariable]ir.BlockId{},
		uses:        map[ir.SsaVariable][]ir.UseSite{},
		versions:    map[string]int{},
		stacks:      map[string][]ir.SsaVariable{},
	}
	for id := range cfg.Blocks {
		if reached[id] {
			b.blocks[id] = &ir.SsaBlock{ID: id, Terminator: cfg.Blocks[id].Terminator}
		}
	}

	b.placePhis()
	b.seedUndefinedReads()
	b.rename(cfg.Entry)

	stats := ir.SsaStats{Blocks: len(b.blocks), Variables: len(b.versions)}
	for _, blk := range b.blocks {
		stats.PhiNodes += len(blk.Phis)
	}

	return &ir.SsaForm{
		Cfg:         cfg,
		Dominance:   dom,
		Blocks:      b.blocks,
		Definitions: b.definitions,
		Uses:        b.uses,
		Stats:       stats,
	}, nil
}

type builder struct {
	cfg     *ir.Cfg
	dom     *ir.DominanceInfo
	reached map[ir.BlockId]bool
	blocks  map[ir.BlockId]*ir.SsaBlock

	definitions map[ir.SsaVariable]ir.BlockId
	uses        map[ir.SsaVariable][]ir.UseSite

	versions map[string]int               // next version to allocate per base
	stacks   map[string][]ir.SsaVariable // current live version per base
}

func (b *builder) newVersion(base string) ir.SsaVariable {
	v := ir.SsaVariable{Base: base, Version: b.versions[base]}
	b.versions[base]++
	return v
}

// placePhis computes, for every base variable assigned anywhere in a
// reachable block, its iterated dominance frontier and installs an
// empty φ (operands filled in during renaming) at each frontier block
// (§4.7 "φ placement").
func (b *builder) placePhis() {
	defSites := map[string][]ir.BlockId{}
	for id, blk := range b.cfg.Blocks {
		if !b.reached[id] {
			continue
		}
		for _, st := range blk.Statements {
			if base, ok := definedBase(st); ok {
				defSites[base] = append(defSites[base], id)
			}
		}
	}
	bases := make([]string, 0, len(defSites))
	for base := range defSites {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	for _, base := range bases {
		frontier := b.dom.IteratedFrontier(defSites[base])
		targets := make([]ir.BlockId, 0, len(frontier))
		for id := range frontier {
			targets = append(targets, id)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		for _, id := range targets {
			preds := append([]ir.BlockId{}, b.cfg.Predecessors(id)...)
			sort.Slice(preds, func(i, j int) bool { return preds[i] < preds[j] })
			b.blocks[id].Phis = append(b.blocks[id].Phis, &ir.PhiNode{
				Target:   ir.SsaVariable{Base: base},
				Operands: map[ir.BlockId]ir.SsaVariable{},
				Order:    preds,
			})
		}
	}
}

// seedUndefinedReads gives every base that's read but never written
// anywhere in the function a single implicit version 0, "defined" at
// the entry block, the initial parameter/static binding the VM frame
// starts with (§4.4's INITSLOT-sized slot model). This version is
// pushed before renaming begins and is never popped.
func (b *builder) seedUndefinedReads() {
	defined := map[string]bool{}
	read := map[string]bool{}
	for id, blk := range b.cfg.Blocks {
		if !b.reached[id] {
			continue
		}
		for _, st := range blk.Statements {
			if base, ok := definedBase(st); ok {
				defined[base] = true
			}
			walkStmtIdentifiers(st, func(ident *ir.Identifier) {
				read[ident.Name] = true
			})
		}
	}
	bases := make([]string, 0, len(read))
	for base := range read {
		if !defined[base] {
			bases = append(bases, base)
		}
	}
	sort.Strings(bases)
	for _, base := range bases {
		v := b.newVersion(base)
		b.definitions[v] = b.cfg.Entry
		b.stacks[base] = append(b.stacks[base], v)
	}
}

// rename performs the dominator-tree depth-first renaming pass (§4.7
// "Variable renaming"). blockId's own phi targets and statement writes
// get fresh versions pushed onto their base's stack; every CFG successor
// (not just dominator-tree children) has its matching φ operand filled
// from the current stack top before descending into dom-tree children.
func (b *builder) rename(blockId ir.BlockId) {
	blk := b.blocks[blockId]
	var pushed []string

	for _, phi := range blk.Phis {
		v := b.newVersion(phi.Target.Base)
		phi.Target = v
		b.definitions[v] = blockId
		b.stacks[v.Base] = append(b.stacks[v.Base], v)
		pushed = append(pushed, v.Base)
	}

	for i, st := range b.cfg.Blocks[blockId].Statements {
		b.renameUses(st, blockId, i)
		if base, ok := definedBase(st); ok {
			v := b.newVersion(base)
			b.definitions[v] = blockId
			b.stacks[base] = append(b.stacks[base], v)
			pushed = append(pushed, base)
		}
		blk.Statements = append(blk.Statements, ir.SsaStmt{Stmt: st, Defines: definedVar(b, st)})
	}

	for _, succ := range b.cfg.Successors(blockId) {
		for _, phi := range b.blocks[succ].Phis {
			if top := b.top(phi.Target.Base); top != nil {
				phi.Operands[blockId] = *top
			}
		}
	}

	children := append([]ir.BlockId{}, b.dom.DomTree[blockId]...)
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	for _, c := range children {
		b.rename(c)
	}

	for i := len(pushed) - 1; i >= 0; i-- {
		base := pushed[i]
		b.stacks[base] = b.stacks[base][:len(b.stacks[base])-1]
	}
}

func (b *builder) top(base string) *ir.SsaVariable {
	s := b.stacks[base]
	if len(s) == 0 {
		return nil
	}
	return &s[len(s)-1]
}

// renameUses records a UseSite for every tracked identifier read by st
// at its current stack-top version, skipping the write target of an
// Assign/CompoundAssign (which isn't a "use" of its own prior value,
// except CompoundAssign's target which is also an operand read).
func (b *builder) renameUses(st ir.Stmt, blockId ir.BlockId, index int) {
	switch v := st.(type) {
	case *ir.CompoundAssign:
		b.recordUse(v.Target, blockId, index)
		b.walkExprUses(v.Source, blockId, index)
	case *ir.Assign:
		b.walkExprUses(v.Source, blockId, index)
	default:
		walkStmtIdentifiers(st, func(ident *ir.Identifier) {
			b.recordUse(ident, blockId, index)
		})
	}
}

func (b *builder) walkExprUses(e ir.Expr, blockId ir.BlockId, index int) {
	walkExprIdentifiers(e, func(ident *ir.Identifier) {
		b.recordUse(ident, blockId, index)
	})
}

func (b *builder) recordUse(ident *ir.Identifier, blockId ir.BlockId, index int) {
	if ident.Kind == ir.SlotRecovered {
		return
	}
	top := b.top(ident.Name)
	if top == nil {
		return
	}
	b.uses[*top] = append(b.uses[*top], ir.UseSite{Block: blockId, Index: index})
}

func definedVar(b *builder, st ir.Stmt) *ir.SsaVariable {
	base, ok := definedBase(st)
	if !ok {
		return nil
	}
	return b.top(base)
}

// definedBase reports the base variable name a flat (pre-structuring)
// statement writes, if any.
func definedBase(st ir.Stmt) (string, bool) {
	switch v := st.(type) {
	case *ir.Assign:
		return v.Target.Name, true
	case *ir.CompoundAssign:
		return v.Target.Name, true
	}
	return "", false
}

// walkStmtIdentifiers visits every Identifier reachable from st's
// expression fields, including the write target of an Assign (callers
// that need to exclude it, like renameUses, special-case those variants
// themselves).
func walkStmtIdentifiers(st ir.Stmt, visit func(*ir.Identifier)) {
	switch v := st.(type) {
	case *ir.Assign:
		walkExprIdentifiers(v.Source, visit)
	case *ir.CompoundAssign:
		visit(v.Target)
		walkExprIdentifiers(v.Source, visit)
	case *ir.IndexAssign:
		walkExprIdentifiers(v.Base, visit)
		walkExprIdentifiers(v.Key, visit)
		walkExprIdentifiers(v.Value, visit)
	case *ir.ExprStatement:
		walkExprIdentifiers(v.Expr, visit)
	case *ir.Return:
		walkExprIdentifiers(v.Value, visit)
	case *ir.Abort:
		walkExprIdentifiers(v.Message, visit)
	case *ir.Throw:
		walkExprIdentifiers(v.Value, visit)
	case *ir.AssertStmt:
		walkExprIdentifiers(v.Cond, visit)
		walkExprIdentifiers(v.Message, visit)
	}
}

func walkExprIdentifiers(e ir.Expr, visit func(*ir.Identifier)) {
	switch v := e.(type) {
	case nil:
	case *ir.Identifier:
		visit(v)
	case *ir.Binary:
		walkExprIdentifiers(v.Left, visit)
		walkExprIdentifiers(v.Right, visit)
	case *ir.Unary:
		walkExprIdentifiers(v.Operand, visit)
	case *ir.Call:
		walkExprIdentifiers(v.Target, visit)
		for _, a := range v.Args {
			walkExprIdentifiers(a, visit)
		}
	case *ir.Index:
		walkExprIdentifiers(v.Base, visit)
		walkExprIdentifiers(v.Key, visit)
	case *ir.Cast:
		walkExprIdentifiers(v.Operand, visit)
	case *ir.HasKey:
		walkExprIdentifiers(v.Base, visit)
		walkExprIdentifiers(v.Key, visit)
	case *ir.Builtin:
		for _, a := range v.Args {
			walkExprIdentifiers(a, visit)
		}
	case *ir.NewCollection:
		walkExprIdentifiers(v.Size, visit)
	case *ir.Pack:
		for _, a := range v.Elems {
			walkExprIdentifiers(a, visit)
		}
	}
}
