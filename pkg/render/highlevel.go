package render

import "github.com/r3e-network/neo-decompiler/pkg/ir"

// RenderHighLevel renders a structured statement tree as a C-like block
// body, declaring each slot with `var` on its first write (§4.4).
func RenderHighLevel(stmts []ir.Stmt) string {
	r := newRenderer()
	r.block(stmts)
	return r.buf.String()
}
