package structure

import "github.com/r3e-network/neo-decompiler/pkg/ir"

// scheduleTry lowers a TryEnter terminator into a structured Try
// statement directly (§4.6 pattern 7): "realized directly from TryEnter
// terminators; ENDTRY/ENDFINALLY close the regions". Those two
// opcodes already became Leave terminators in the lifter, so by the
// time structure sees them they've collapsed into ordinary forward
// edges that resume is found by the same join search used for if/else.
func (b *builder) scheduleTry(term ir.Terminator) (ir.Stmt, ir.BlockId) {
	starts := []ir.BlockId{term.Try}
	if term.HasCatch {
		starts = append(starts, term.Catch)
	}
	if term.HasFinally {
		starts = append(starts, term.Finally)
	}
	resume := b.findJoin(starts)

	body := b.schedule(term.Try, resume, nil)
	var catch, fin []ir.Stmt
	if term.HasCatch {
		catch = b.schedule(term.Catch, resume, nil)
	}
	if term.HasFinally {
		fin = b.schedule(term.Finally, resume, nil)
	}

	return &ir.Try{Body: body, Catch: catch, Finally: fin}, resume
}
