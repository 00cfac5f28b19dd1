package domain

import (
	"github.com/mouse-blink/sigcov/internal/syntax"
)

// Context is the traversal state of one file walk: the open blocks,
// innermost last, and the enclosing function definitions.
type Context struct {
	tree      *syntax.Tree
	blocks    []*Block
	functions []syntax.NodeID
}

// JumpGap describes the code a jump skips: from Span.Begin up to the end
// of the handler block that receives the jump.
type JumpGap struct {
	Handler *Block
	Span    syntax.Span
}

// NewContext starts an empty traversal state for t.
func NewContext(t *syntax.Tree) *Context {
	return &Context{tree: t}
}

// Tree returns the tree being walked.
func (c *Context) Tree() *syntax.Tree {
	return c.tree
}

// StartBlock opens b.
func (c *Context) StartBlock(b *Block) {
	c.blocks = append(c.blocks, b)
}

// EndBlock closes the innermost non-label block together with any label
// blocks opened above it. The closed blocks are returned innermost first;
// each pushed block is returned exactly once.
func (c *Context) EndBlock() []*Block {
	var closed []*Block

	for len(c.blocks) > 0 {
		b := c.blocks[len(c.blocks)-1]
		c.blocks = c.blocks[:len(c.blocks)-1]
		closed = append(closed, b)

		if !b.IsLabel() {
			return closed
		}
	}

	invariant("%s: end of block without an open block", c.tree.Path)

	return nil
}

// Depth returns the number of open blocks.
func (c *Context) Depth() int {
	return len(c.blocks)
}

// Parent returns the innermost open block, or nil.
func (c *Context) Parent() *Block {
	if len(c.blocks) == 0 {
		return nil
	}

	return c.blocks[len(c.blocks)-1]
}

// Enclosing returns the innermost open block that owns a statement
// scope. Labels and expression operands are skipped.
func (c *Context) Enclosing() *Block {
	for i := len(c.blocks) - 1; i >= 0; i-- {
		b := c.blocks[i]
		if !b.IsLabel() && !b.IsExpression() {
			return b
		}
	}

	return nil
}

// PushFunction records entry into a function definition.
func (c *Context) PushFunction(fn syntax.NodeID) {
	c.functions = append(c.functions, fn)
}

// PopFunction records the exit from the innermost function definition.
func (c *Context) PopFunction() {
	if len(c.functions) == 0 {
		invariant("%s: function stack underflow", c.tree.Path)
	}

	c.functions = c.functions[:len(c.functions)-1]
}

// Function returns the innermost function definition, or NoNode.
func (c *Context) Function() syntax.NodeID {
	if len(c.functions) == 0 {
		return syntax.NoNode
	}

	return c.functions[len(c.functions)-1]
}

// FindHandler returns the innermost open block that accepts the jump.
func (c *Context) FindHandler(kind syntax.JumpKind, label string) *Block {
	for i := len(c.blocks) - 1; i >= 0; i-- {
		if c.blocks[i].Accepts(kind, label) {
			return c.blocks[i]
		}
	}

	return nil
}

// ResolveJump finds the handler of the jump node and the gap it skips.
// When the handler is the block the jump sits in, the gap starts after
// the statement holding the jump; otherwise after the enclosing block's
// owner. It reports false when no open block accepts the jump.
func (c *Context) ResolveJump(jump syntax.NodeID) (JumpGap, bool) {
	n := c.tree.Node(jump)

	kind := n.Jump
	if n.Kind == syntax.KindCall {
		kind = syntax.JumpCall
	}

	handler := c.FindHandler(kind, n.Target)
	if handler == nil {
		return JumpGap{}, false
	}

	var start syntax.Pos

	if enclosing := c.Enclosing(); enclosing == handler {
		stmt := c.tree.ContainingStatement(jump, handler.Scope)
		start = c.tree.Node(stmt).TermEnd
	} else {
		start = enclosing.After
	}

	return JumpGap{Handler: handler, Span: syntax.Span{Begin: start, End: handler.End}}, true
}

// Containing returns the innermost open statement block, labels
// included, whose covered region extends past p.
func (c *Context) Containing(p syntax.Pos) *Block {
	for i := len(c.blocks) - 1; i >= 0; i-- {
		b := c.blocks[i]
		if !b.IsExpression() && b.End.Compare(p) > 0 {
			return b
		}
	}

	return nil
}
