package render

import (
	"fmt"
	"strings"

	"github.com/r3e-network/neo-decompiler/pkg/ir"
)

const indentUnit = "    "

// renderer walks a structured statement tree once, tracking which slot
// names have already been declared so the first write to any of them
// gets a `var` prefix and every later write doesn't (§4.4: "First write
// to a slot marks it as declared").
type renderer struct {
	declared    map[string]bool
	indent      int
	buf         strings.Builder
	declKeyword string
}

func newRenderer() *renderer {
	return &renderer{declared: map[string]bool{}, declKeyword: "var"}
}

func (r *renderer) line(s string) {
	r.buf.WriteString(strings.Repeat(indentUnit, r.indent))
	r.buf.WriteString(s)
	r.buf.WriteByte('\n')
}

func (r *renderer) block(stmts []ir.Stmt) {
	for _, st := range stmts {
		r.stmt(st)
	}
}

func (r *renderer) stmt(st ir.Stmt) {
	switch v := st.(type) {
	case *ir.Assign:
		r.line(r.assignText(v.Target, v.Source))
	case *ir.CompoundAssign:
		r.declared[v.Target.Name] = true
		r.line(fmt.Sprintf("%s %s= %s;", v.Target.Name, v.Op.Symbol(), renderExpr(v.Source)))
	case *ir.IndexAssign:
		r.line(fmt.Sprintf("%s[%s] = %s;", renderExpr(v.Base), renderExpr(v.Key), renderExpr(v.Value)))
	case *ir.ExprStatement:
		r.line(renderExpr(v.Expr) + ";")
	case *ir.Return:
		if v.Value == nil {
			r.line("return;")
		} else {
			r.line("return " + renderExpr(v.Value) + ";")
		}
	case *ir.Abort:
		if v.Message == nil {
			r.line("abort();")
		} else {
			r.line("abort(" + renderExpr(v.Message) + ");")
		}
	case *ir.Throw:
		r.line("throw " + renderExpr(v.Value) + ";")
	case *ir.AssertStmt:
		if v.Message == nil {
			r.line(fmt.Sprintf("assert(%s);", renderExpr(v.Cond)))
		} else {
			r.line(fmt.Sprintf("assert(%s, %s);", renderExpr(v.Cond), renderExpr(v.Message)))
		}
	case *ir.If:
		r.ifStmt(v)
	case *ir.Loop:
		r.loopStmt(v)
	case *ir.Break:
		r.line("break;")
	case *ir.Continue:
		r.line("continue;")
	case *ir.Try:
		r.tryStmt(v)
	case *ir.Switch:
		r.switchStmt(v)
	case *ir.Label:
		r.line(v.Name() + ":")
	case *ir.Goto:
		r.line(fmt.Sprintf("goto label_0x%04X;", v.Offset))
	case *ir.Raw:
		r.line("// " + v.Comment)
	}
}

func (r *renderer) assignText(target *ir.Identifier, source ir.Expr) string {
	expr := renderExpr(source)
	if r.declared[target.Name] {
		return fmt.Sprintf("%s = %s;", target.Name, expr)
	}
	r.declared[target.Name] = true
	return fmt.Sprintf("%s %s = %s;", r.declKeyword, target.Name, expr)
}

// inlineStmt renders a single Assign/CompoundAssign without its own
// indent or trailing newline, for composing a `for` header.
func (r *renderer) inlineStmt(st ir.Stmt) string {
	switch v := st.(type) {
	case *ir.Assign:
		return strings.TrimSuffix(r.assignText(v.Target, v.Source), ";")
	case *ir.CompoundAssign:
		r.declared[v.Target.Name] = true
		return fmt.Sprintf("%s %s= %s", v.Target.Name, v.Op.Symbol(), renderExpr(v.Source))
	default:
		return ""
	}
}

// ifStmt renders v, collapsing a trailing `else { if (...) {...} }` arm
// into `else if (...) {...}` (§4.6 pattern 2) rather than nesting it one
// brace level deeper.
func (r *renderer) ifStmt(v *ir.If) {
	r.line(fmt.Sprintf("if (%s) {", renderExpr(v.Cond)))
	r.indent++
	r.block(v.Then)
	r.indent--
	r.elseArm(v.Else)
}

func (r *renderer) elseArm(elseStmts []ir.Stmt) {
	if len(elseStmts) == 1 {
		if nested, ok := elseStmts[0].(*ir.If); ok {
			r.line(fmt.Sprintf("} else if (%s) {", renderExpr(nested.Cond)))
			r.indent++
			r.block(nested.Then)
			r.indent--
			r.elseArm(nested.Else)
			return
		}
	}
	if len(elseStmts) == 0 {
		r.line("}")
		return
	}
	r.line("} else {")
	r.indent++
	r.block(elseStmts)
	r.indent--
	r.line("}")
}

func (r *renderer) loopStmt(v *ir.Loop) {
	switch v.Kind {
	case ir.LoopDoWhile:
		r.line("do {")
		r.indent++
		r.block(v.Body)
		r.indent--
		r.line(fmt.Sprintf("} while (%s);", renderExpr(v.Cond)))
	case ir.LoopFor:
		init := r.inlineStmt(v.Init)
		step := r.inlineStmt(v.Step)
		r.line(fmt.Sprintf("for (%s; %s; %s) {", init, renderExpr(v.Cond), step))
		r.indent++
		r.block(v.Body)
		r.indent--
		r.line("}")
	default: // LoopWhile
		r.line(fmt.Sprintf("while (%s) {", renderExpr(v.Cond)))
		r.indent++
		r.block(v.Body)
		r.indent--
		r.line("}")
	}
}

func (r *renderer) tryStmt(v *ir.Try) {
	r.line("try {")
	r.indent++
	r.block(v.Body)
	r.indent--

	if len(v.Catch) > 0 {
		varPart := ""
		if v.CatchVar != "" {
			varPart = fmt.Sprintf("(%s)", v.CatchVar)
		}
		r.line(fmt.Sprintf("} catch%s {", varPart))
		r.indent++
		r.block(v.Catch)
		r.indent--
	}
	if len(v.Finally) > 0 {
		r.line("} finally {")
		r.indent++
		r.block(v.Finally)
		r.indent--
	}
	r.line("}")
}

// switchStmt renders v with an explicit `break;` closing every case
// (§4.6 pattern 8): the cases came from mutually exclusive if/else-if
// arms that never fell through to one another, so the rewrite must not
// introduce fallthrough by omitting it.
func (r *renderer) switchStmt(v *ir.Switch) {
	r.line(fmt.Sprintf("switch (%s) {", renderExpr(v.Subject)))
	r.indent++
	for _, c := range v.Cases {
		if c.Value == nil {
			r.line("default:")
		} else {
			r.line(fmt.Sprintf("case %s:", renderExpr(c.Value)))
		}
		r.indent++
		r.block(c.Body)
		r.line("break;")
		r.indent--
	}
	r.indent--
	r.line("}")
}
