package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"

	m "github.com/mouse-blink/sigcov/internal/model"
	"github.com/mouse-blink/sigcov/internal/syntax"
)

// LocalCFileAdapter is the C and C++ front end backed by tree-sitter.
type LocalCFileAdapter struct {
	includePaths []string
}

// NewLocalCFileAdapter constructs a LocalCFileAdapter. Quoted includes
// that are not found next to the including file are looked up in
// includePaths, in order.
func NewLocalCFileAdapter(includePaths []string) *LocalCFileAdapter {
	return &LocalCFileAdapter{includePaths: includePaths}
}

// Parse implements FrontEnd.
func (a *LocalCFileAdapter) Parse(ctx context.Context, filename m.Path, lang m.Language, src []byte) (*syntax.Tree, error) {
	// A new parser per call keeps the adapter safe for concurrent use.
	parser := sitter.NewParser()

	switch lang {
	case m.LanguageC:
		parser.SetLanguage(c.GetLanguage())
	case m.LanguageCPP:
		parser.SetLanguage(cpp.GetLanguage())
	default:
		return nil, fmt.Errorf("%w: %s is not C or C++", ErrParse, filename)
	}

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, fmt.Errorf("%w: %s contains syntax errors", ErrParse, filename)
	}

	conv := &cConverter{
		a:    a,
		b:    syntax.NewBuilder(filename, lang, src),
		src:  src,
		dir:  filepath.Dir(string(filename)),
		line: make(map[int]bool),
	}

	return conv.convertFile(root), nil
}

func (a *LocalCFileAdapter) resolve(dir, name string) m.Path {
	candidates := make([]string, 0, len(a.includePaths)+1)
	candidates = append(candidates, filepath.Join(dir, name))

	for _, p := range a.includePaths {
		candidates = append(candidates, filepath.Join(p, name))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return m.Path(candidate)
		}
	}

	return ""
}

type cConverter struct {
	a    *LocalCFileAdapter
	b    *syntax.Builder
	src  []byte
	dir  string
	line map[int]bool
}

func (c *cConverter) convertFile(root *sitter.Node) *syntax.Tree {
	c.b.SetHeader(c.b.Pos(0))
	c.collectIgnores(root)

	code := false

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)

		if child.Type() == "comment" {
			// A directive ahead of all code excludes the file.
			if !code && parseIgnoreDirective(c.text(child)) {
				c.b.Exclude()
			}

			continue
		}

		code = true

		c.convert(c.b.Root(), child)
	}

	return c.b.Finish()
}

// collectIgnores maps a trailing directive to its own line and a
// directive on a line of its own to the following line.
func (c *cConverter) collectIgnores(n *sitter.Node) {
	if n.Type() == "comment" {
		if !parseIgnoreDirective(n.Content(c.src)) {
			return
		}

		line := int(n.StartPoint().Row) + 1
		start := int(n.StartByte())
		lineStart := strings.LastIndexByte(string(c.src[:start]), '\n') + 1

		if strings.TrimSpace(string(c.src[lineStart:start])) == "" {
			line++
		}

		c.line[line] = true

		return
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c.collectIgnores(n.NamedChild(i))
	}
}

func (c *cConverter) add(parent syntax.NodeID, n *sitter.Node, node syntax.Node) syntax.NodeID {
	node.Span = c.span(n)

	if node.Kind != syntax.KindExpression && c.line[node.Span.Begin.Line] {
		node.Flags |= syntax.Excluded
	}

	return c.b.Add(parent, node)
}

func (c *cConverter) span(n *sitter.Node) syntax.Span {
	return c.b.Span(int(n.StartByte()), int(n.EndByte()))
}

func (c *cConverter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}

	return n.Content(c.src)
}

// children converts the named children of n, except comments.
func (c *cConverter) children(id syntax.NodeID, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c.convert(id, n.NamedChild(i))
	}
}

// childrenWith converts the named children of n and returns the id of
// the one matching field.
func (c *cConverter) childrenWith(id syntax.NodeID, n *sitter.Node, field string) syntax.NodeID {
	target := n.ChildByFieldName(field)

	var found syntax.NodeID

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		cid := c.convert(id, child)

		if target != nil && sameNode(child, target) {
			found = cid
		}
	}

	return found
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// excludedTypes hold constant expressions or declarations only.
var excludedTypes = map[string]bool{
	"enum_specifier":            true,
	"static_assert_declaration": true,
	"array_declarator":          true,
	"bitfield_clause":           true,
	"sizeof_expression":         true,
	"alignof_expression":        true,
	"type_descriptor":           true,
	"template_parameter_list":   true,
	"template_argument_list":    true,
	"preproc_def":               true,
	"preproc_function_def":      true,
	"preproc_call":              true,
	"using_declaration":         true,
	"alias_declaration":         true,
	"type_definition":           true,
}

// scopeTypes are the declaration lists where non-function declarations
// are at file or class scope.
var scopeTypes = map[string]bool{
	"translation_unit":       true,
	"declaration_list":       true,
	"field_declaration_list": true,
}

//nolint:cyclop // one case per syntactic form
func (c *cConverter) convert(parent syntax.NodeID, n *sitter.Node) syntax.NodeID {
	typ := n.Type()

	switch typ {
	case "comment":
		return syntax.NoNode
	case "preproc_include":
		return c.include(parent, n)
	case "function_definition":
		return c.function(parent, n)
	case "lambda_expression":
		id := c.add(parent, n, syntax.Node{Kind: syntax.KindLambda})
		body := c.childrenWith(id, n, "body")
		c.b.Update(id, func(x *syntax.Node) { x.Body = body })

		return id
	case "compound_statement":
		id := c.add(parent, n, syntax.Node{Kind: syntax.KindCompound, Inner: c.inner(n)})
		c.children(id, n)

		return id
	case "if_statement":
		return c.ifStmt(parent, n)
	case "for_statement", "for_range_loop", "while_statement", "do_statement":
		return c.withBody(parent, n, syntax.KindLoop)
	case "switch_statement":
		return c.withBody(parent, n, syntax.KindSwitch)
	case "case_statement":
		return c.caseStmt(parent, n)
	case "labeled_statement":
		return c.labeled(parent, n)
	case "conditional_expression":
		return c.conditional(parent, n)
	case "binary_expression":
		if op := c.operator(n); op == "&&" || op == "||" || op == "and" || op == "or" {
			return c.logical(parent, n)
		}
	case "return_statement", "co_return_statement":
		return c.jump(parent, n, syntax.JumpReturn)
	case "break_statement":
		return c.jump(parent, n, syntax.JumpBreak)
	case "continue_statement":
		return c.jump(parent, n, syntax.JumpContinue)
	case "goto_statement":
		return c.jump(parent, n, syntax.JumpGoto)
	case "throw_statement":
		return c.jump(parent, n, syntax.JumpThrow)
	case "call_expression":
		id := c.add(parent, n, syntax.Node{Kind: syntax.KindCall, Name: c.text(n.ChildByFieldName("function"))})
		c.children(id, n)

		return id
	case "try_statement":
		id := c.add(parent, n, syntax.Node{Kind: syntax.KindTry})
		body := c.childrenWith(id, n, "body")
		c.b.Update(id, func(x *syntax.Node) { x.Body = body })

		return id
	case "catch_clause":
		id := c.add(parent, n, syntax.Node{Kind: syntax.KindHandler})
		body := c.childrenWith(id, n, "body")
		c.b.Update(id, func(x *syntax.Node) { x.Body = body })

		return id
	case "preproc_if", "preproc_elif":
		id := c.add(parent, n, syntax.Node{Kind: syntax.KindStatement})
		cond := n.ChildByFieldName("condition")

		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if cond != nil && sameNode(child, cond) {
				c.add(id, child, syntax.Node{Kind: syntax.KindExpression, Flags: syntax.Excluded})

				continue
			}

			c.convert(id, child)
		}

		return id
	case "declaration", "field_declaration":
		if p := n.Parent(); p != nil && scopeTypes[p.Type()] {
			return c.add(parent, n, syntax.Node{Kind: syntax.KindStatement, Flags: syntax.Excluded})
		}
	}

	node := syntax.Node{Kind: syntax.KindExpression}
	if isCStatement(typ) {
		node.Kind = syntax.KindStatement
	}

	if excludedTypes[typ] {
		node.Flags |= syntax.Excluded

		return c.add(parent, n, node)
	}

	id := c.add(parent, n, node)
	c.children(id, n)

	return id
}

func isCStatement(typ string) bool {
	return strings.HasSuffix(typ, "_statement") ||
		strings.HasSuffix(typ, "declaration") ||
		strings.HasSuffix(typ, "_definition") ||
		strings.HasSuffix(typ, "_specifier") ||
		strings.HasPrefix(typ, "preproc_")
}

// inner returns the span between the braces of a compound statement.
func (c *cConverter) inner(n *sitter.Node) syntax.Span {
	begin, end := int(n.StartByte())+1, int(n.EndByte())-1

	if last := n.Child(int(n.ChildCount()) - 1); last == nil || last.Type() != "}" {
		end = int(n.EndByte())
	}

	return c.b.Span(begin, end)
}

func (c *cConverter) operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}

	return ""
}

func (c *cConverter) function(parent syntax.NodeID, n *sitter.Node) syntax.NodeID {
	node := syntax.Node{Kind: syntax.KindFunction, Name: c.functionName(n)}

	if n.ChildByFieldName("body") != nil {
		node.Flags |= syntax.Definition
	}

	if node.Name == "main" {
		node.Flags |= syntax.Main
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		switch c.text(n.Child(i)) {
		case "constexpr", "consteval":
			node.Flags |= syntax.ConstEval
		}
	}

	id := c.add(parent, n, node)
	body := c.childrenWith(id, n, "body")
	c.b.Update(id, func(x *syntax.Node) { x.Body = body })

	return id
}

// functionName follows the declarator chain down to the declared name.
func (c *cConverter) functionName(n *sitter.Node) string {
	d := n.ChildByFieldName("declarator")

	for d != nil {
		next := d.ChildByFieldName("declarator")
		if next == nil {
			break
		}

		d = next
	}

	return c.text(d)
}

func (c *cConverter) withBody(parent syntax.NodeID, n *sitter.Node, kind syntax.Kind) syntax.NodeID {
	id := c.add(parent, n, syntax.Node{Kind: kind})
	body := c.childrenWith(id, n, "body")
	c.b.Update(id, func(x *syntax.Node) { x.Body = body })

	return id
}

func (c *cConverter) ifStmt(parent syntax.NodeID, n *sitter.Node) syntax.NodeID {
	id := c.add(parent, n, syntax.Node{Kind: syntax.KindIf})
	consequence := n.ChildByFieldName("consequence")
	alternative := n.ChildByFieldName("alternative")

	if alternative != nil && alternative.Type() == "else_clause" {
		alternative = alternative.NamedChild(0)
	}

	var then, els syntax.NodeID

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)

		switch {
		case consequence != nil && sameNode(child, consequence):
			then = c.convert(id, child)
		case child.Type() == "else_clause":
			if alternative != nil {
				els = c.convert(id, alternative)
			}
		case alternative != nil && sameNode(child, alternative):
			els = c.convert(id, child)
		default:
			c.convert(id, child)
		}
	}

	c.b.Update(id, func(x *syntax.Node) {
		x.Then = then
		x.Else = els
	})

	return id
}

func (c *cConverter) caseStmt(parent syntax.NodeID, n *sitter.Node) syntax.NodeID {
	id := c.add(parent, n, syntax.Node{Kind: syntax.KindCase})
	value := n.ChildByFieldName("value")

	var stmts []*sitter.Node

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)

		switch {
		case value != nil && sameNode(child, value):
			// Case values are constant expressions.
			c.add(id, child, syntax.Node{Kind: syntax.KindExpression, Flags: syntax.Excluded})
		case child.Type() != "comment":
			stmts = append(stmts, child)
		}
	}

	span := c.b.Span(c.colonEnd(n), c.colonEnd(n))
	if len(stmts) > 0 {
		span = c.b.Span(int(stmts[0].StartByte()), int(stmts[len(stmts)-1].EndByte()))
	}

	list := c.b.Add(id, syntax.Node{Kind: syntax.KindStmtList, Span: span})
	for _, s := range stmts {
		c.convert(list, s)
	}

	c.b.Update(id, func(x *syntax.Node) { x.Body = list })

	return id
}

func (c *cConverter) colonEnd(n *sitter.Node) int {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.Type() == ":" {
			return int(child.EndByte())
		}
	}

	return int(n.EndByte())
}

func (c *cConverter) labeled(parent syntax.NodeID, n *sitter.Node) syntax.NodeID {
	label := n.ChildByFieldName("label")
	id := c.add(parent, n, syntax.Node{Kind: syntax.KindLabel, Name: c.text(label)})

	var body syntax.NodeID

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if label != nil && sameNode(child, label) {
			continue
		}

		if cid := c.convert(id, child); cid != syntax.NoNode && body == syntax.NoNode {
			body = cid
		}
	}

	c.b.Update(id, func(x *syntax.Node) { x.Body = body })

	return id
}

func (c *cConverter) conditional(parent syntax.NodeID, n *sitter.Node) syntax.NodeID {
	id := c.add(parent, n, syntax.Node{Kind: syntax.KindConditional})
	consequence := n.ChildByFieldName("consequence")
	alternative := n.ChildByFieldName("alternative")

	var then, els syntax.NodeID

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		cid := c.convert(id, child)

		switch {
		case consequence != nil && sameNode(child, consequence):
			then = cid
		case alternative != nil && sameNode(child, alternative):
			els = cid
		}
	}

	// A null pointer constant stops being one once wrapped; it takes the
	// type of the other arm instead.
	if then != syntax.NoNode && els != syntax.NoNode {
		if isNullConstant(c.text(consequence)) && !isNullConstant(c.text(alternative)) {
			coercion := "__typeof__(" + c.text(alternative) + ")"
			c.b.Update(then, func(x *syntax.Node) { x.Coercion = coercion })
		}

		if isNullConstant(c.text(alternative)) && !isNullConstant(c.text(consequence)) {
			coercion := "__typeof__(" + c.text(consequence) + ")"
			c.b.Update(els, func(x *syntax.Node) { x.Coercion = coercion })
		}
	}

	c.b.Update(id, func(x *syntax.Node) {
		x.Then = then
		x.Else = els
	})

	return id
}

func isNullConstant(s string) bool {
	switch strings.TrimSpace(s) {
	case "0", "NULL", "nullptr", "(void*)0", "((void*)0)":
		return true
	}

	return false
}

func (c *cConverter) logical(parent syntax.NodeID, n *sitter.Node) syntax.NodeID {
	id := c.add(parent, n, syntax.Node{Kind: syntax.KindLogical})
	rhs := c.childrenWith(id, n, "right")
	c.b.Update(id, func(x *syntax.Node) { x.Then = rhs })

	return id
}

func (c *cConverter) jump(parent syntax.NodeID, n *sitter.Node, kind syntax.JumpKind) syntax.NodeID {
	node := syntax.Node{Kind: syntax.KindJump, Jump: kind}
	if kind == syntax.JumpGoto {
		node.Target = c.text(n.ChildByFieldName("label"))
	}

	id := c.add(parent, n, node)
	c.children(id, n)

	return id
}

// include records quoted includes that resolve to a file on disk.
func (c *cConverter) include(parent syntax.NodeID, n *sitter.Node) syntax.NodeID {
	node := syntax.Node{Kind: syntax.KindStatement, Flags: syntax.Excluded}

	if p := n.ChildByFieldName("path"); p != nil && p.Type() == "string_literal" {
		if name, err := strconv.Unquote(c.text(p)); err == nil {
			if target := c.a.resolve(c.dir, name); target != "" {
				node = syntax.Node{Kind: syntax.KindInclude, Inner: c.span(p), Target: string(target)}
			}
		}
	}

	return c.add(parent, n, node)
}
