package domain

import (
	"github.com/mouse-blink/sigcov/internal/syntax"
)

// Shape classifies a Block. The set of shapes is closed: every
// classification query switches over all of them.
type Shape interface {
	shape()
}

// StatementShape is a plain statement region (try body).
type StatementShape struct{}

// ExpressionShape is a ternary arm or a short-circuit operand.
type ExpressionShape struct {
	Coercion string
}

// FunctionBodyShape is the body of a function or lambda.
type FunctionBodyShape struct {
	Lambda bool
	Main   bool
}

// LabelShape is a goto target or a switch case.
type LabelShape struct {
	Case bool
	Name string
}

// ConditionalShape is the then or else arm of an if statement.
type ConditionalShape struct {
	Else bool
}

// LoopBodyShape is a loop body. Label names the loop for labeled jumps.
type LoopBodyShape struct {
	Label string
}

// SwitchBodyShape is the body of a switch or select.
type SwitchBodyShape struct {
	Label string
}

// HandlerShape is an exception handler body.
type HandlerShape struct{}

func (StatementShape) shape()    {}
func (ExpressionShape) shape()   {}
func (FunctionBodyShape) shape() {}
func (LabelShape) shape()        {}
func (ConditionalShape) shape()  {}
func (LoopBodyShape) shape()     {}
func (SwitchBodyShape) shape()   {}
func (HandlerShape) shape()      {}

// Block is the region descriptor of one open construct during traversal.
// Before and After bound the construct that owns the region, Start and End
// bound the covered code itself.
type Block struct {
	Context syntax.NodeID
	Node    syntax.NodeID
	Scope   syntax.NodeID

	Before syntax.Pos
	Start  syntax.Pos
	End    syntax.Pos
	After  syntax.Pos

	// Braced is set when the covered code already sits between braces.
	Braced bool
	Shape  Shape
}

// NewStatementBlock builds the region of node covering scope. A braced
// scope contributes its interior, anything else its own extent including
// the terminator.
func NewStatementBlock(t *syntax.Tree, context, node, scope syntax.NodeID, shape Shape) *Block {
	ctx := t.Node(context)
	sc := t.Node(scope)

	b := &Block{
		Context: context,
		Node:    node,
		Scope:   scope,
		Before:  ctx.Span.Begin,
		After:   ctx.TermEnd,
		Shape:   shape,
	}

	if sc.Kind == syntax.KindCompound {
		b.Start, b.End = sc.Inner.Begin, sc.Inner.End
		b.Braced = true
	} else {
		b.Start, b.End = sc.Span.Begin, sc.TermEnd
	}

	b.check(t)

	return b
}

// NewExpressionBlock builds the region of operand inside expr.
func NewExpressionBlock(t *syntax.Tree, expr, operand syntax.NodeID) *Block {
	e := t.Node(expr)
	op := t.Node(operand)

	b := &Block{
		Context: expr,
		Node:    operand,
		Scope:   operand,
		Before:  e.Span.Begin,
		Start:   op.Span.Begin,
		End:     op.Span.End,
		After:   e.Span.End,
		Shape:   ExpressionShape{Coercion: op.Coercion},
	}
	b.check(t)

	return b
}

// NewFunctionBodyBlock builds the body region of a function or lambda.
func NewFunctionBodyBlock(t *syntax.Tree, fn syntax.NodeID) *Block {
	f := t.Node(fn)
	body := t.Node(f.Body)

	b := &Block{
		Context: fn,
		Node:    fn,
		Scope:   f.Body,
		Before:  f.Span.Begin,
		Start:   body.Inner.Begin,
		End:     body.Inner.End,
		After:   f.TermEnd,
		Braced:  true,
		Shape: FunctionBodyShape{
			Lambda: f.Kind == syntax.KindLambda,
			Main:   f.Flags.Has(syntax.Main),
		},
	}
	b.check(t)

	return b
}

// NewLabelBlock builds the region of a goto label or switch case inside
// the enclosing block. Labels introduce no scope: the context is the
// enclosing block's context and the region runs to the enclosing end. A
// case region stops at the next sibling case.
func NewLabelBlock(t *syntax.Tree, enclosing *Block, label syntax.NodeID) *Block {
	l := t.Node(label)
	sub := t.Node(l.Body)

	b := &Block{
		Context: enclosing.Context,
		Node:    label,
		Scope:   l.Body,
		Before:  l.Span.Begin,
		Start:   sub.Span.Begin,
		End:     enclosing.End,
		After:   enclosing.After,
		Shape: LabelShape{
			Case: l.Kind == syntax.KindCase,
			Name: l.Name,
		},
	}

	if next := nextCase(t, label); next != syntax.NoNode {
		b.After = t.Node(next).Span.Begin
	}

	// A case's After is the next case, which lies before the enclosing
	// end; End is clamped there to keep start <= end <= after.
	if b.End.Compare(b.After) > 0 {
		b.End = b.After
	}

	b.check(t)

	return b
}

func nextCase(t *syntax.Tree, label syntax.NodeID) syntax.NodeID {
	if t.Node(label).Kind != syntax.KindCase {
		return syntax.NoNode
	}

	siblings := t.Node(t.Node(label).Parent).Children
	for i, id := range siblings {
		if id != label {
			continue
		}

		for _, next := range siblings[i+1:] {
			if t.Node(next).Kind == syntax.KindCase {
				return next
			}
		}
	}

	return syntax.NoNode
}

func (b *Block) check(t *syntax.Tree) {
	if b.Before.Compare(b.Start) > 0 || b.Start.Compare(b.End) > 0 || b.End.Compare(b.After) > 0 {
		invariant("%s: block %s ordering broken: before %s start %s end %s after %s",
			t.Path, t.Node(b.Node).Kind, b.Before, b.Start, b.End, b.After)
	}
}

// Span returns the covered region.
func (b *Block) Span() syntax.Span {
	return syntax.Span{Begin: b.Start, End: b.End}
}

// IsExpression reports whether the region is rewritten inline.
func (b *Block) IsExpression() bool {
	switch b.Shape.(type) {
	case ExpressionShape:
		return true
	case StatementShape, FunctionBodyShape, LabelShape, ConditionalShape,
		LoopBodyShape, SwitchBodyShape, HandlerShape:
		return false
	}

	invariant("unknown block shape %T", b.Shape)

	return false
}

// IsLabel reports whether the block is a goto label or case.
func (b *Block) IsLabel() bool {
	switch b.Shape.(type) {
	case LabelShape:
		return true
	case StatementShape, ExpressionShape, FunctionBodyShape, ConditionalShape,
		LoopBodyShape, SwitchBodyShape, HandlerShape:
		return false
	}

	invariant("unknown block shape %T", b.Shape)

	return false
}

// IsFunctionBody reports whether the block is a function or lambda body.
func (b *Block) IsFunctionBody() bool {
	switch b.Shape.(type) {
	case FunctionBodyShape:
		return true
	case StatementShape, ExpressionShape, LabelShape, ConditionalShape,
		LoopBodyShape, SwitchBodyShape, HandlerShape:
		return false
	}

	invariant("unknown block shape %T", b.Shape)

	return false
}

// IsExceptional reports whether the region is only entered by a throw.
func (b *Block) IsExceptional() bool {
	switch b.Shape.(type) {
	case HandlerShape:
		return true
	case StatementShape, ExpressionShape, FunctionBodyShape, LabelShape,
		ConditionalShape, LoopBodyShape, SwitchBodyShape:
		return false
	}

	invariant("unknown block shape %T", b.Shape)

	return false
}

// Accepts reports whether a jump of the given kind, optionally aimed at
// a label, lands at the end of this block.
func (b *Block) Accepts(kind syntax.JumpKind, label string) bool {
	switch s := b.Shape.(type) {
	case FunctionBodyShape:
		switch kind {
		case syntax.JumpReturn, syntax.JumpThrow, syntax.JumpGoto, syntax.JumpCall:
			return true
		}

		return false
	case LoopBodyShape:
		return (kind == syntax.JumpBreak || kind == syntax.JumpContinue) && (label == "" || label == s.Label)
	case SwitchBodyShape:
		return kind == syntax.JumpBreak && (label == "" || label == s.Label)
	case StatementShape, ExpressionShape, LabelShape, ConditionalShape, HandlerShape:
		return false
	}

	invariant("unknown block shape %T", b.Shape)

	return false
}
