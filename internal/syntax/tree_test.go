package syntax

import (
	"testing"

	m "github.com/mouse-blink/sigcov/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "f() {\n  if (x) return;\n  y();\n}\n"

// buildSample mirrors what a front end emits for sample.
func buildSample(t *testing.T) (*Tree, map[string]NodeID) {
	t.Helper()

	b := NewBuilder("sample.c", m.LanguageC, []byte(sample))
	ids := map[string]NodeID{}

	ids["fn"] = b.Add(b.Root(), Node{Kind: KindFunction, Span: b.Span(0, 31), Flags: Definition})
	ids["body"] = b.Add(ids["fn"], Node{Kind: KindCompound, Span: b.Span(4, 31), Inner: b.Span(5, 30)})
	b.Update(ids["fn"], func(n *Node) { n.Body = ids["body"] })

	ids["if"] = b.Add(ids["body"], Node{Kind: KindIf, Span: b.Span(8, 22)})
	ids["cond"] = b.Add(ids["if"], Node{Kind: KindExpression, Span: b.Span(12, 13)})
	ids["ret"] = b.Add(ids["if"], Node{Kind: KindJump, Jump: JumpReturn, Span: b.Span(15, 21), TermEnd: b.Pos(22)})
	b.Update(ids["if"], func(n *Node) { n.Then = ids["ret"] })
	ids["call"] = b.Add(ids["body"], Node{Kind: KindStatement, Span: b.Span(25, 29)})

	tree := b.Finish()
	require.Equal(t, 7, tree.Len())

	return tree, ids
}

func TestBuilder_Pos(t *testing.T) {
	b := NewBuilder("x", m.LanguageC, []byte(sample))

	assert.Equal(t, Pos{Offset: 0, Line: 1, Col: 1}, b.Pos(0))
	assert.Equal(t, Pos{Offset: 5, Line: 1, Col: 6}, b.Pos(5))
	assert.Equal(t, Pos{Offset: 6, Line: 2, Col: 1}, b.Pos(6))
	assert.Equal(t, Pos{Offset: 25, Line: 3, Col: 3}, b.Pos(25))
	assert.Equal(t, b.Pos(len(sample)), b.Pos(len(sample)+10))
}

func TestTree_Structure(t *testing.T) {
	tree, ids := buildSample(t)

	assert.Equal(t, KindFile, tree.Node(tree.Root()).Kind)
	assert.Equal(t, []NodeID{ids["fn"]}, tree.Node(tree.Root()).Children)
	assert.Equal(t, ids["if"], tree.Node(ids["ret"]).Parent)
	assert.True(t, tree.Ancestor(ids["fn"], ids["ret"]))
	assert.False(t, tree.Ancestor(ids["ret"], ids["fn"]))
	assert.Equal(t, "return;", tree.Text(Span{Begin: tree.Node(ids["ret"]).Span.Begin, End: tree.Node(ids["ret"]).TermEnd}))
	assert.Equal(t, []NodeID{ids["ret"]}, tree.Find(KindJump))
}

func TestTree_HasNodeIn(t *testing.T) {
	tree, ids := buildSample(t)
	ret := tree.Node(ids["ret"])
	body := tree.Node(ids["body"])

	assert.True(t, tree.HasNodeIn(ret.TermEnd, body.Inner.End), "y() follows the if")
	assert.False(t, tree.HasNodeIn(tree.Node(ids["call"]).Span.End, body.Inner.End))
	assert.False(t, tree.HasNodeIn(body.Inner.End, body.Inner.Begin))
}

func TestTree_ContainingStatement(t *testing.T) {
	tree, ids := buildSample(t)

	assert.Equal(t, ids["if"], tree.ContainingStatement(ids["ret"], NoNode))
	assert.Equal(t, ids["ret"], tree.ContainingStatement(ids["ret"], ids["ret"]))
	assert.Equal(t, ids["call"], tree.ContainingStatement(ids["call"], NoNode))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "logical", KindLogical.String())
	assert.Equal(t, "goto", JumpGoto.String())
	assert.True(t, (Definition | Main).Has(Main))
	assert.False(t, Definition.Has(Definition|Main))
}
