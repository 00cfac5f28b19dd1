package syntax

import (
	"slices"
	"sort"

	m "github.com/mouse-blink/sigcov/internal/model"
)

// NodeID addresses a node record inside its Tree.
type NodeID int32

// NoNode is the zero NodeID.
const NoNode NodeID = 0

// Node is an immutable syntax record. Role fields (Body, Then, Else) point
// at members of Children.
type Node struct {
	Kind  Kind
	Jump  JumpKind
	Flags Flags

	Span    Span
	TermEnd Pos  // end including a trailing terminator
	Inner   Span // brace interior of a Compound, path literal of an Include

	Parent   NodeID
	Children []NodeID

	Body NodeID
	Then NodeID
	Else NodeID

	Name     string // function, callee or label name
	Target   string // jump label or resolved include path
	Coercion string // spelling of the type an operand must be coerced to
}

// Tree is the arena of one parsed file.
type Tree struct {
	Path      m.Path
	Lang      m.Language
	Src       []byte
	Header    Pos // where a preamble may be inserted
	Generated bool

	nodes  []Node
	begins []int
}

// Root returns the File node.
func (t *Tree) Root() NodeID {
	return 1
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Node returns the record for id.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Valid reports whether id addresses a node of t.
func (t *Tree) Valid(id NodeID) bool {
	return id > NoNode && int(id) < len(t.nodes)
}

// Text returns the source text of s.
func (t *Tree) Text(s Span) string {
	return string(t.Src[s.Begin.Offset:s.End.Offset])
}

// HasNodeIn reports whether any node begins in [a, b).
func (t *Tree) HasNodeIn(a, b Pos) bool {
	if a.Offset >= b.Offset {
		return false
	}

	i := sort.SearchInts(t.begins, a.Offset)

	return i < len(t.begins) && t.begins[i] < b.Offset
}

// ContainingStatement climbs from id to the outermost ancestor that is
// still a member of a statement sequence. The climb stops early at stop.
func (t *Tree) ContainingStatement(id, stop NodeID) NodeID {
	for id != stop {
		parent := t.nodes[id].Parent
		if parent == NoNode {
			return id
		}

		switch t.nodes[parent].Kind {
		case KindCompound, KindStmtList, KindFile:
			return id
		}

		id = parent
	}

	return id
}

// Ancestor reports whether a is a proper ancestor of id.
func (t *Tree) Ancestor(a, id NodeID) bool {
	for p := t.nodes[id].Parent; p != NoNode; p = t.nodes[p].Parent {
		if p == a {
			return true
		}
	}

	return false
}

// Walk visits id and its descendants depth first. Returning false from
// fn skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(NodeID, Node) bool) {
	n := t.nodes[id]
	if !fn(id, n) {
		return
	}

	for _, c := range n.Children {
		t.Walk(c, fn)
	}
}

// Find returns the ids of all nodes of the given kind in preorder.
func (t *Tree) Find(kind Kind) []NodeID {
	var ids []NodeID

	t.Walk(t.Root(), func(id NodeID, n Node) bool {
		if n.Kind == kind {
			ids = append(ids, id)
		}

		return true
	})

	return ids
}

// Builder assembles a Tree. Nodes are appended parent first.
type Builder struct {
	t     *Tree
	lines []int
}

// NewBuilder starts a tree for src with a File root spanning all of it.
func NewBuilder(path m.Path, lang m.Language, src []byte) *Builder {
	b := &Builder{
		t: &Tree{
			Path:  path,
			Lang:  lang,
			Src:   src,
			nodes: make([]Node, 2, 64),
		},
		lines: []int{0},
	}

	for i, c := range src {
		if c == '\n' {
			b.lines = append(b.lines, i+1)
		}
	}

	end := b.Pos(len(src))
	b.t.nodes[1] = Node{
		Kind:    KindFile,
		Span:    Span{Begin: b.Pos(0), End: end},
		TermEnd: end,
	}
	b.t.Header = b.Pos(0)

	return b
}

// Pos converts a byte offset into a position.
func (b *Builder) Pos(offset int) Pos {
	offset = min(max(offset, 0), len(b.t.Src))
	line := sort.Search(len(b.lines), func(i int) bool { return b.lines[i] > offset })

	return Pos{Offset: offset, Line: line, Col: offset - b.lines[line-1] + 1}
}

// Span converts a byte range into a span.
func (b *Builder) Span(begin, end int) Span {
	return Span{Begin: b.Pos(begin), End: b.Pos(end)}
}

// Root returns the File node.
func (b *Builder) Root() NodeID {
	return 1
}

// Add appends n as the last child of parent and returns its id. A zero
// TermEnd defaults to the span end.
func (b *Builder) Add(parent NodeID, n Node) NodeID {
	if n.TermEnd == (Pos{}) {
		n.TermEnd = n.Span.End
	}

	n.Parent = parent
	id := NodeID(len(b.t.nodes))
	b.t.nodes = append(b.t.nodes, n)
	b.t.nodes[parent].Children = append(b.t.nodes[parent].Children, id)

	return id
}

// Update edits a node while the tree is being built.
func (b *Builder) Update(id NodeID, fn func(*Node)) {
	fn(&b.t.nodes[id])
}

// Kind returns the kind of a node added so far.
func (b *Builder) Kind(id NodeID) Kind {
	return b.t.nodes[id].Kind
}

// SetHeader records where a preamble may be inserted.
func (b *Builder) SetHeader(p Pos) {
	b.t.Header = p
}

// SetGenerated marks the whole file as generated code.
func (b *Builder) SetGenerated() {
	b.t.Generated = true
	b.t.nodes[1].Flags |= Generated
}

// Exclude marks the file root excluded.
func (b *Builder) Exclude() {
	b.t.nodes[1].Flags |= Excluded
}

// Finish freezes the tree.
func (b *Builder) Finish() *Tree {
	t := b.t
	t.begins = make([]int, 0, len(t.nodes))

	for _, n := range t.nodes[2:] {
		t.begins = append(t.begins, n.Span.Begin.Offset)
	}

	slices.Sort(t.begins)
	b.t = nil

	return t
}
