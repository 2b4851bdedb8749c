package ir

import "strconv"

// BlockId identifies a BasicBlock; ids are dense integers starting at 0
// (§3's Cfg invariant).
type BlockId int

// TermKind tags a Terminator's shape.
type TermKind int

const (
	TermFallthrough TermKind = iota
	TermJump
	TermBranch
	TermReturn
	TermAbort
	TermTryEnter
	TermLeave
	TermNone // block has no successors and is not a recognized terminal (malformed input tail)
)

// Terminator is the control-transfer at the end of a BasicBlock (§3).
type Terminator struct {
	Kind TermKind

	// Fallthrough, Jump, Leave.
	Target BlockId

	// Branch.
	Cond       Expr
	Then, Else BlockId

	// TryEnter.
	Try, Catch, Finally BlockId
	HasCatch, HasFinally bool

	// Return/Abort payload, mirrored from the owning block's last
	// statement for renderers that only look at the terminator.
	Value Expr
}

// EdgeKind labels a Cfg edge with why it exists.
type EdgeKind int

const (
	EdgeFallthrough EdgeKind = iota
	EdgeJump
	EdgeTrue
	EdgeFalse
	EdgeTryBody
	EdgeTryCatch
	EdgeTryFinally
	EdgeLeave
)

// Edge is one directed Cfg edge.
type Edge struct {
	From, To BlockId
	Kind     EdgeKind
}

// BasicBlock is a maximal straight-line run of statements (§3).
type BasicBlock struct {
	ID                     BlockId
	StartOffset, EndOffset uint32
	Statements             []Stmt
	Terminator             Terminator
	Dead                   bool // unreachable from the entry block (§4.5)
}

// Cfg is the control-flow graph over a lifted instruction stream (§3).
type Cfg struct {
	Blocks  map[BlockId]*BasicBlock
	Order   []BlockId // insertion order, i.e. increasing start offset
	Edges   []Edge
	Entry   BlockId
	succs   map[BlockId][]BlockId
	preds   map[BlockId][]BlockId
}

// NewCfg returns an empty Cfg ready for AddBlock/AddEdge calls.
func NewCfg() *Cfg {
	return &Cfg{
		Blocks: map[BlockId]*BasicBlock{},
		succs:  map[BlockId][]BlockId{},
		preds:  map[BlockId][]BlockId{},
	}
}

// AddBlock registers b, keeping Order sorted by insertion.
func (c *Cfg) AddBlock(b *BasicBlock) {
	c.Blocks[b.ID] = b
	c.Order = append(c.Order, b.ID)
}

// AddEdge records a directed edge and updates the successor/predecessor
// indices that Successors/Predecessors serve from.
func (c *Cfg) AddEdge(from, to BlockId, kind EdgeKind) {
	c.Edges = append(c.Edges, Edge{From: from, To: to, Kind: kind})
	c.succs[from] = append(c.succs[from], to)
	c.preds[to] = append(c.preds[to], from)
}

// Successors returns id's successor block ids in edge-insertion order.
func (c *Cfg) Successors(id BlockId) []BlockId { return c.succs[id] }

// Predecessors returns id's predecessor block ids in edge-insertion order.
func (c *Cfg) Predecessors(id BlockId) []BlockId { return c.preds[id] }

// ReversePostOrder returns block ids in reverse post-order from Entry,
// the deterministic traversal order §5 requires for SSA and render
// passes. Unreachable blocks are appended afterward in Order, so every
// block id still appears exactly once.
func (c *Cfg) ReversePostOrder() []BlockId {
	visited := map[BlockId]bool{}
	var postOrder []BlockId
	var visit func(BlockId)
	visit = func(id BlockId) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, s := range c.succs[id] {
			visit(s)
		}
		postOrder = append(postOrder, id)
	}
	if _, ok := c.Blocks[c.Entry]; ok {
		visit(c.Entry)
	}
	rpo := make([]BlockId, len(postOrder))
	for i, id := range postOrder {
		rpo[len(postOrder)-1-i] = id
	}
	for _, id := range c.Order {
		if !visited[id] {
			rpo = append(rpo, id)
		}
	}
	return rpo
}

// ReachableSet returns the set of block ids reachable from Entry via
// BFS (§4.5, §8 property 6).
func (c *Cfg) ReachableSet() map[BlockId]bool {
	reached := map[BlockId]bool{}
	if _, ok := c.Blocks[c.Entry]; !ok {
		return reached
	}
	queue := []BlockId{c.Entry}
	reached[c.Entry] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, s := range c.succs[id] {
			if !reached[s] {
				reached[s] = true
				queue = append(queue, s)
			}
		}
	}
	return reached
}

// MarkDead sets Dead=true on every block ReachableSet doesn't reach,
// leaving reachable blocks untouched (§4.5: unreachable blocks stay in
// the map, tagged, not removed).
func (c *Cfg) MarkDead() {
	reached := c.ReachableSet()
	for id, b := range c.Blocks {
		b.Dead = !reached[id]
	}
}

// DOT renders the Cfg as a Graphviz DOT graph, styling dead blocks
// distinctly (§4.5's "distinct style in the optional DOT export").
func (c *Cfg) DOT() string {
	out := "digraph cfg {\n"
	for _, id := range c.Order {
		b := c.Blocks[id]
		style := ""
		if b.Dead {
			style = ` [style=dashed,color=gray]`
		}
		out += blockNodeLine(id, style)
	}
	for _, e := range c.Edges {
		out += edgeLine(e)
	}
	out += "}\n"
	return out
}

func blockNodeLine(id BlockId, style string) string {
	return "  b" + strconv.Itoa(int(id)) + style + ";\n"
}

func edgeLine(e Edge) string {
	return "  b" + strconv.Itoa(int(e.From)) + " -> b" + strconv.Itoa(int(e.To)) + ";\n"
}
