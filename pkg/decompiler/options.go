package decompiler

import (
	"go.uber.org/zap"

	"github.com/r3e-network/neo-decompiler/pkg/cache"
)

// Options configures one Decompile call, threaded by value the way
// neo-go's compiler.Options/vm.Options are (§9's "strict vs tolerant"
// design note: strictness is a per-stage configuration, not a global
// flag).
type Options struct {
	// FailOnUnknownOpcodes switches the disassembler from tolerant to
	// strict mode (§4.3).
	FailOnUnknownOpcodes bool
	// StrictManifest enables the manifest validator's extra wildcard and
	// duplicate-trust checks (§C.3).
	StrictManifest bool
	// InlineSingleUseTemps enables structured recovery's opt-in
	// single-use-temp-inlining readability pass (§4.6).
	InlineSingleUseTemps bool
	// MaxIterations bounds dominance/SSA construction (§5); <= 0 selects
	// ssaform.DefaultMaxIterations.
	MaxIterations int

	// Logger receives a Debug/Warn line per warning, tagged with a
	// per-invocation "invocation_id" field. Defaults to zap.NewNop().
	Logger *zap.Logger

	// LRUSize bounds the in-process cache of whole *Decompilation
	// results keyed by script hash; <= 0 disables it.
	LRUSize int
	// PersistentCache, if non-nil, receives a write-through copy of
	// each decompile's rendered text outputs, keyed by script hash, so
	// a later process (or a CLI invocation that never imports the full
	// pipeline) can read them back without recomputing.
	PersistentCache cache.Store
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
