// Package decompiler is the aggregate orchestration layer: it drives
// every other package through the fixed pipeline order (§5) and bundles
// their outputs into one Decompilation value. Grounded on neo-go's
// pkg/compiler.Compile and pkg/rpcclient's client-side orchestration
// style (a single entry function threading typed intermediate results
// through a strict stage order, logging and collecting warnings as it
// goes) since the teacher has no direct decompile-shaped analogue.
package decompiler

import (
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/r3e-network/neo-decompiler/pkg/analysis"
	"github.com/r3e-network/neo-decompiler/pkg/cache"
	"github.com/r3e-network/neo-decompiler/pkg/cfgbuild"
	"github.com/r3e-network/neo-decompiler/pkg/disasm"
	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/lifter"
	"github.com/r3e-network/neo-decompiler/pkg/manifest"
	"github.com/r3e-network/neo-decompiler/pkg/nef"
	"github.com/r3e-network/neo-decompiler/pkg/render"
	"github.com/r3e-network/neo-decompiler/pkg/ssaform"
	"github.com/r3e-network/neo-decompiler/pkg/structure"
	"github.com/r3e-network/neo-decompiler/pkg/util"
)

// Decompilation is the complete result of one Decompile call (§3's
// Decompilation aggregate).
type Decompilation struct {
	Nef          *nef.File
	Manifest     *manifest.Manifest
	ManifestPath string

	Instructions []disasm.Instruction
	Cfg          *ir.Cfg

	CallGraph *analysis.CallGraph
	Xrefs     *analysis.Xrefs
	Types     *analysis.TypeHints

	Pseudocode string
	HighLevel  string
	CSharp     string

	Warnings []Warning

	ssa         *ir.SsaForm
	ssaComputed bool
	ssaErr      error
}

// SSA lazily builds and caches this decompilation's SSA form (§4.7,
// §9 Open Question (c)): the first call runs ssaform.Build and records
// either the result or ir.ErrAnalysisLimitExceeded; every later call
// returns the cached outcome without recomputing. Not safe for
// concurrent use, matching §5's single-threaded design.
func (d *Decompilation) SSA(maxIterations int) (*ir.SsaForm, error) {
	if d.ssaComputed {
		return d.ssa, d.ssaErr
	}
	d.ssaComputed = true
	start := time.Now()
	d.ssa, d.ssaErr = ssaform.Build(d.Cfg, maxIterations)
	ssaDuration.Observe(time.Since(start).Seconds())
	return d.ssa, d.ssaErr
}

var inProcessCache *lru.Cache

// cacheFor returns the package-wide in-process LRU, creating it at size
// on first use; a size <= 0 disables caching by returning nil. The
// cache is sized once, by whichever call first requests a positive
// size (§5: single-threaded, so no lock is needed here).
func cacheFor(size int) *lru.Cache {
	if size <= 0 {
		return nil
	}
	if inProcessCache == nil {
		inProcessCache, _ = lru.New(size)
	}
	return inProcessCache
}

// Decompile runs the full pipeline over a raw NEF container (and an
// optional manifest sidecar) and returns the assembled Decompilation
// (§4.1's top-level decompile operation). manifestPath is carried
// through unchanged for diagnostics only; pass "" when there is no
// manifest file.
func Decompile(nefBytes, manifestBytes []byte, manifestPath string, opts Options) (*Decompilation, error) {
	log := opts.logger().With(zap.String("invocation_id", uuid.NewString()))
	decompilesTotal.Inc()

	nefFile, err := nef.Parse(nefBytes)
	if err != nil {
		return nil, fmt.Errorf("decompiler: parsing nef: %w", err)
	}
	scriptHash := nefFile.ScriptHash()

	if c := cacheFor(opts.LRUSize); c != nil {
		if v, ok := c.Get(scriptHash); ok {
			cacheResults.WithLabelValues("hit").Inc()
			return v.(*Decompilation), nil
		}
		cacheResults.WithLabelValues("miss").Inc()
	}

	var mf *manifest.Manifest
	if len(manifestBytes) > 0 {
		mf, err = manifest.Parse(manifestBytes, opts.StrictManifest)
		if err != nil {
			return nil, fmt.Errorf("decompiler: parsing manifest: %w", err)
		}
	}

	disResult, err := disasm.Disassemble(nefFile.Script, disasm.Options{FailOnUnknown: opts.FailOnUnknownOpcodes})
	if err != nil {
		return nil, fmt.Errorf("decompiler: disassembling script: %w", err)
	}

	leaders := cfgbuild.Leaders(disResult.Instructions)
	cfg, blockOf := cfgbuild.Partition(disResult.Instructions, leaders)

	var abi *manifest.ABI
	if mf != nil {
		abi = &mf.ABI
	}
	liftWarnings := lifter.Lift(cfg, blockOf, disResult.Instructions, lifter.Options{
		Resolver: &abiResolver{abi: abi},
		Tokens:   nefFile.Tokens,
	})
	cfgbuild.Finalize(cfg, disResult.Instructions[0].Offset, blockOf)

	warnings := fromDisasm(disResult.Warnings)
	warnings = append(warnings, fromLifter(liftWarnings)...)

	pseudocode := render.RenderPseudocode(disResult.Instructions)

	dom, err := ir.ComputeDominance(cfg, maxIterationsOrDefault(opts.MaxIterations))
	if err != nil {
		log.Warn("dominance computation gave up", zap.Error(err))
		warnings = append(warnings, Warning{Kind: "analysis_limit_exceeded", Detail: err.Error()})
	}

	var highLevel, csharpOut string
	if dom != nil {
		stmts, structWarnings := structure.Recover(cfg, dom, structure.Options{InlineSingleUseTemps: opts.InlineSingleUseTemps})
		warnings = append(warnings, fromStructure(structWarnings)...)
		highLevel = render.RenderHighLevel(stmts)
		csharpOut = render.RenderCSharp(csharpSignature(abi), stmts)
	}

	result := analysis.Build(cfg, abi)

	recordWarnings(warnings)
	for _, w := range warnings {
		log.Warn("decompile warning", zap.String("kind", w.Kind), zap.Uint32("offset", w.Offset), zap.String("detail", w.Detail))
	}

	d := &Decompilation{
		Nef:          nefFile,
		Manifest:     mf,
		ManifestPath: manifestPath,
		Instructions: disResult.Instructions,
		Cfg:          cfg,
		CallGraph:    result.CallGraph,
		Xrefs:        result.Xrefs,
		Types:        result.Types,
		Pseudocode:   pseudocode,
		HighLevel:    highLevel,
		CSharp:       csharpOut,
		Warnings:     warnings,
	}

	if c := cacheFor(opts.LRUSize); c != nil {
		c.Add(scriptHash, d)
	}
	if opts.PersistentCache != nil {
		if err := writeThrough(opts.PersistentCache, scriptHash, d); err != nil {
			log.Warn("persistent cache write-through failed", zap.Error(err))
		}
	}

	return d, nil
}

// csharpSignature picks the method the C# rendering's signature wrapper
// describes: the first ABI method whose name doesn't start with "_"
// (skipping lifecycle hooks like _initialize/_deploy), or a
// zero-parameter fallback named analysis.ScriptEntryName when there's no
// manifest or no such method.
func csharpSignature(abi *manifest.ABI) manifest.Method {
	if abi != nil {
		for _, m := range abi.Methods {
			if len(m.Name) > 0 && m.Name[0] != '_' {
				return m
			}
		}
	}
	return manifest.Method{Name: analysis.ScriptEntryName}
}

// maxIterationsOrDefault mirrors ssaform.Build's own "<=0 selects the
// default" rule, since dominance computation shares the same §5 safety
// limit regardless of whether SSA is ever requested.
func maxIterationsOrDefault(n int) int {
	if n <= 0 {
		return ssaform.DefaultMaxIterations
	}
	return n
}

// writeThrough persists d's rendered text outputs (never the
// unserializable ir.Expr/ir.Stmt trees) to store, keyed by the
// contract's script hash in little-endian hex, so a later process can
// read back the text views without repeating the pipeline.
func writeThrough(store cache.Store, scriptHash util.Uint160, d *Decompilation) error {
	snapshot := struct {
		Pseudocode string    `json:"pseudocode"`
		HighLevel  string    `json:"high_level"`
		CSharp     string    `json:"csharp"`
		Warnings   []Warning `json:"warnings"`
	}{d.Pseudocode, d.HighLevel, d.CSharp, d.Warnings}
	blob, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return store.Put([]byte(scriptHash.StringLE()), blob)
}
