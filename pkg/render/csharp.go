package render

import (
	"fmt"
	"strings"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
	"github.com/r3e-network/neo-decompiler/pkg/manifest"
)

// RenderCSharp wraps stmts in a C#-ish method skeleton: Allman-style
// bracing for the signature (grounded on original_source's
// csharp::render::header), then the same K&R-braced body the high-level
// renderer produces, with every slot declared `object` instead of `var`
// (original_source's csharp::helpers::csharpize_statement does this same
// let->var swap as a post-hoc text rewrite; Go's typed renderer just
// parameterizes the keyword instead of rewriting text after the fact).
func RenderCSharp(method manifest.Method, stmts []ir.Stmt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "public object %s(%s)\n{\n", method.Name, csharpParams(method.Parameters))

	body := newRenderer()
	body.declKeyword = "object"
	body.indent = 1
	body.block(stmts)
	b.WriteString(body.buf.String())

	b.WriteString("}\n")
	return b.String()
}

func csharpParams(params []manifest.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("object %s", p.Name)
	}
	return strings.Join(parts, ", ")
}
