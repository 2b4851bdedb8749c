// Package render turns a structured statement tree (post
// pkg/structure.Recover) or a flat instruction stream into text, in the
// three variants the aggregate orchestration exposes: a raw
// offset+mnemonic disassembly listing ("pseudocode"), a structured
// C-like high-level form, and a C#-ish skeleton. Grounded on
// original_source's decompiler::pseudocode (offset/mnemonic listing),
// decompiler::ir::render (expression/statement-to-text shape) and
// decompiler::high_level/csharp render modules (contract-skeleton
// wrapping); neo-go carries no renderer of its own to lift from, since
// it executes bytecode rather than describing it.
package render

import (
	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

// renderExpr renders e the same way in every text format; ir.Expr's own
// String() methods already produce the infix/call-style text §3 and §9
// describe, so this just guards against a nil Expr (a bare `return;`).
func renderExpr(e ir.Expr) string {
	if e == nil {
		return ""
	}
	return e.String()
}
