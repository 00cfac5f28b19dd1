package adapter

import (
	"context"
	"fmt"
	"go/ast"
	"go/build"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/tools/go/ast/astutil"

	m "github.com/mouse-blink/sigcov/internal/model"
	"github.com/mouse-blink/sigcov/internal/syntax"
)

// LocalGoFileAdapter is the Go front end backed by go/parser. With type
// checking enabled, untyped constant operands of && and || record the type
// they are converted to so the rewrite can spell the coercion.
type LocalGoFileAdapter struct {
	typeCheck bool

	mu       sync.Mutex
	packages map[string]*goPackage
}

// GoFileOption configures a LocalGoFileAdapter.
type GoFileOption func(*LocalGoFileAdapter)

// WithTypeCheck enables type checking of the package around each file.
func WithTypeCheck(enabled bool) GoFileOption {
	return func(a *LocalGoFileAdapter) {
		a.typeCheck = enabled
	}
}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter(opts ...GoFileOption) *LocalGoFileAdapter {
	a := &LocalGoFileAdapter{packages: make(map[string]*goPackage)}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

type goPackage struct {
	fset  *token.FileSet
	files map[string]*ast.File
	pkg   *types.Package
	info  *types.Info
}

// Parse implements FrontEnd.
func (a *LocalGoFileAdapter) Parse(ctx context.Context, filename m.Path, _ m.Language, src []byte) (*syntax.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if gp, file := a.typed(filename, src); file != nil {
		return newGoConverter(filename, src, gp.fset, file, gp.pkg, gp.info).convertFile(), nil
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, string(filename), src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	return newGoConverter(filename, src, fset, file, nil, nil).convertFile(), nil
}

// typed returns the type-checked AST of filename when type checking is
// enabled and the package on disk matches src.
func (a *LocalGoFileAdapter) typed(filename m.Path, src []byte) (*goPackage, *ast.File) {
	if !a.typeCheck {
		return nil, nil
	}

	abs, err := filepath.Abs(string(filename))
	if err != nil {
		return nil, nil
	}

	gp := a.load(filepath.Dir(abs))
	if gp == nil {
		return nil, nil
	}

	file, ok := gp.files[abs]
	if !ok || gp.fset.File(file.Pos()).Size() != len(src) {
		return nil, nil
	}

	return gp, file
}

func (a *LocalGoFileAdapter) load(dir string) *goPackage {
	a.mu.Lock()
	defer a.mu.Unlock()

	if gp, ok := a.packages[dir]; ok {
		return gp
	}

	gp := loadGoPackage(dir)
	a.packages[dir] = gp

	return gp
}

func loadGoPackage(dir string) *goPackage {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	fset := token.NewFileSet()
	files := make(map[string]*ast.File)

	var (
		list []*ast.File
		name string
	)

	for _, e := range entries {
		base := e.Name()
		if e.IsDir() || !strings.HasSuffix(base, ".go") || strings.HasSuffix(base, "_test.go") {
			continue
		}

		if ok, err := build.Default.MatchFile(dir, base); err != nil || !ok {
			continue
		}

		full := filepath.Join(dir, base)

		f, err := parser.ParseFile(fset, full, nil, parser.ParseComments)
		if err != nil {
			continue
		}

		if name == "" {
			name = f.Name.Name
		} else if f.Name.Name != name {
			continue
		}

		files[full] = f
		list = append(list, f)
	}

	if len(list) == 0 {
		return nil
	}

	info := &types.Info{
		Types:     make(map[ast.Expr]types.TypeAndValue),
		Defs:      make(map[*ast.Ident]types.Object),
		Uses:      make(map[*ast.Ident]types.Object),
		Implicits: make(map[ast.Node]types.Object),
	}
	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error:    func(error) {},
	}

	// Errors are collected by the Error hook; partial information is
	// still usable.
	pkg, _ := conf.Check(name, fset, list, info)

	return &goPackage{fset: fset, files: files, pkg: pkg, info: info}
}

type goConverter struct {
	b       *syntax.Builder
	tf      *token.File
	file    *ast.File
	pkg     *types.Package
	info    *types.Info
	ignore  ignoreIndex
	imports map[string]string
	main    bool
	label   string
}

func newGoConverter(
	filename m.Path,
	src []byte,
	fset *token.FileSet,
	file *ast.File,
	pkg *types.Package,
	info *types.Info,
) *goConverter {
	c := &goConverter{
		b:       syntax.NewBuilder(filename, m.LanguageGo, src),
		tf:      fset.File(file.Pos()),
		file:    file,
		pkg:     pkg,
		info:    info,
		ignore:  buildIgnoreIndex(file, fset, src),
		imports: make(map[string]string),
		main:    file.Name.Name == "main",
	}

	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		var name string

		switch {
		case imp.Name != nil:
			name = imp.Name.Name
		case info != nil && info.PkgNameOf(imp) != nil:
			name = info.PkgNameOf(imp).Imported().Name()
		default:
			name = path.Base(p)
		}

		if name != "_" {
			c.imports[p] = name
		}
	}

	return c
}

func (c *goConverter) convertFile() *syntax.Tree {
	if ast.IsGenerated(c.file) {
		c.b.SetGenerated()
	}

	if c.ignore.file {
		c.b.Exclude()
	}

	c.b.SetHeader(c.b.Pos(c.offset(c.file.Name.End())))

	for _, decl := range c.file.Decls {
		c.convert(c.b.Root(), decl)
	}

	return c.b.Finish()
}

func (c *goConverter) offset(p token.Pos) int {
	return c.tf.Offset(p)
}

func (c *goConverter) add(parent syntax.NodeID, n ast.Node, node syntax.Node) syntax.NodeID {
	node.Span = c.b.Span(c.offset(n.Pos()), c.offset(n.End()))

	if _, ok := n.(ast.Stmt); ok && c.ignore.lineIgnored(node.Span.Begin.Line) {
		node.Flags |= syntax.Excluded
	}

	return c.b.Add(parent, node)
}

func (c *goConverter) convertAll(parent syntax.NodeID, nodes ...ast.Node) {
	for _, n := range nodes {
		if n != nil {
			c.convert(parent, n)
		}
	}
}

// children converts the direct children of n in source order.
func (c *goConverter) children(id syntax.NodeID, n ast.Node) {
	ast.Inspect(n, func(child ast.Node) bool {
		if child == n {
			return true
		}

		if child != nil {
			c.convert(id, child)
		}

		return false
	})
}

//nolint:cyclop // one case per syntactic form
func (c *goConverter) convert(parent syntax.NodeID, n ast.Node) syntax.NodeID {
	if !n.Pos().IsValid() {
		return syntax.NoNode
	}

	switch x := n.(type) {
	case *ast.CommentGroup, *ast.Comment:
		return syntax.NoNode
	case *ast.FuncDecl:
		return c.funcDecl(parent, x)
	case *ast.FuncLit:
		id := c.add(parent, x, syntax.Node{Kind: syntax.KindLambda})
		body := c.convert(id, x.Body)
		c.b.Update(id, func(n *syntax.Node) { n.Body = body })

		return id
	case *ast.BlockStmt:
		return c.block(parent, x)
	case *ast.IfStmt:
		return c.ifStmt(parent, x)
	case *ast.ForStmt:
		id := c.add(parent, x, syntax.Node{Kind: syntax.KindLoop, Name: c.takeLabel()})
		c.convertAll(id, x.Init, x.Cond, x.Post)

		return c.withBody(id, x.Body)
	case *ast.RangeStmt:
		id := c.add(parent, x, syntax.Node{Kind: syntax.KindLoop, Name: c.takeLabel()})
		c.convertAll(id, x.Key, x.Value, x.X)

		return c.withBody(id, x.Body)
	case *ast.SwitchStmt:
		id := c.add(parent, x, syntax.Node{Kind: syntax.KindSwitch, Name: c.takeLabel()})
		c.convertAll(id, x.Init, x.Tag)

		return c.withBody(id, x.Body)
	case *ast.TypeSwitchStmt:
		id := c.add(parent, x, syntax.Node{Kind: syntax.KindSwitch, Name: c.takeLabel()})
		c.convertAll(id, x.Init, x.Assign)

		return c.withBody(id, x.Body)
	case *ast.SelectStmt:
		id := c.add(parent, x, syntax.Node{Kind: syntax.KindSwitch, Name: c.takeLabel()})

		return c.withBody(id, x.Body)
	case *ast.CaseClause:
		id := c.add(parent, x, syntax.Node{Kind: syntax.KindCase})
		for _, e := range x.List {
			c.convert(id, e)
		}

		return c.caseBody(id, x.Colon, x.Body)
	case *ast.CommClause:
		id := c.add(parent, x, syntax.Node{Kind: syntax.KindCase})
		c.convertAll(id, x.Comm)

		return c.caseBody(id, x.Colon, x.Body)
	case *ast.LabeledStmt:
		return c.labeled(parent, x)
	case *ast.BranchStmt:
		return c.branch(parent, x)
	case *ast.ReturnStmt:
		id := c.add(parent, x, syntax.Node{Kind: syntax.KindJump, Jump: syntax.JumpReturn})
		c.children(id, x)

		return id
	case *ast.CallExpr:
		return c.call(parent, x)
	case *ast.DeferStmt:
		return c.deferred(parent, x, x.Call)
	case *ast.GoStmt:
		return c.deferred(parent, x, x.Call)
	case *ast.BinaryExpr:
		if x.Op == token.LAND || x.Op == token.LOR {
			return c.logical(parent, x)
		}
	case *ast.GenDecl:
		if x.Tok == token.CONST {
			// Constant expressions must stay constant.
			return c.add(parent, x, syntax.Node{Kind: syntax.KindStatement, Flags: syntax.Excluded})
		}
	}

	kind := syntax.KindExpression

	switch n.(type) {
	case ast.Stmt, ast.Decl, ast.Spec:
		kind = syntax.KindStatement
	}

	id := c.add(parent, n, syntax.Node{Kind: kind})
	c.children(id, n)

	return id
}

func (c *goConverter) funcDecl(parent syntax.NodeID, x *ast.FuncDecl) syntax.NodeID {
	node := syntax.Node{Kind: syntax.KindFunction, Name: x.Name.Name}

	if x.Recv != nil && len(x.Recv.List) > 0 {
		node.Name = types.ExprString(x.Recv.List[0].Type) + "." + x.Name.Name
	}

	if x.Body != nil {
		node.Flags |= syntax.Definition
	}

	if c.main && x.Recv == nil && x.Name.Name == "main" && x.Type.TypeParams == nil {
		node.Flags |= syntax.Main
	}

	if c.ignore.function(x) {
		node.Flags |= syntax.Excluded
	}

	id := c.add(parent, x, node)

	if x.Body != nil {
		body := c.convert(id, x.Body)
		c.b.Update(id, func(n *syntax.Node) { n.Body = body })
	}

	return id
}

func (c *goConverter) block(parent syntax.NodeID, x *ast.BlockStmt) syntax.NodeID {
	end := c.offset(x.End())
	if x.Rbrace.IsValid() {
		end = c.offset(x.Rbrace)
	}

	id := c.add(parent, x, syntax.Node{
		Kind:  syntax.KindCompound,
		Inner: c.b.Span(c.offset(x.Lbrace)+1, end),
	})

	for _, s := range x.List {
		c.convert(id, s)
	}

	return id
}

func (c *goConverter) withBody(id syntax.NodeID, body *ast.BlockStmt) syntax.NodeID {
	b := c.convert(id, body)
	c.b.Update(id, func(n *syntax.Node) { n.Body = b })

	return id
}

func (c *goConverter) ifStmt(parent syntax.NodeID, x *ast.IfStmt) syntax.NodeID {
	id := c.add(parent, x, syntax.Node{Kind: syntax.KindIf})
	c.convertAll(id, x.Init, x.Cond)

	then := c.convert(id, x.Body)

	var els syntax.NodeID
	if x.Else != nil {
		els = c.convert(id, x.Else)
	}

	c.b.Update(id, func(n *syntax.Node) {
		n.Then = then
		n.Else = els
	})

	return id
}

func (c *goConverter) caseBody(id syntax.NodeID, colon token.Pos, body []ast.Stmt) syntax.NodeID {
	start := c.offset(colon) + 1
	span := c.b.Span(start, start)

	if len(body) > 0 {
		span = c.b.Span(c.offset(body[0].Pos()), c.offset(body[len(body)-1].End()))
	}

	list := c.b.Add(id, syntax.Node{Kind: syntax.KindStmtList, Span: span})
	for _, s := range body {
		c.convert(list, s)
	}

	c.b.Update(id, func(n *syntax.Node) { n.Body = list })

	return id
}

// labeled converts a labeled statement. Labels of loops, switches and
// selects name the statement for break and continue; inserting code
// between such a label and its statement would detach it, so they are
// carried on the statement instead of forming a label region.
func (c *goConverter) labeled(parent syntax.NodeID, x *ast.LabeledStmt) syntax.NodeID {
	switch x.Stmt.(type) {
	case *ast.ForStmt, *ast.RangeStmt, *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt:
		c.label = x.Label.Name

		return c.convert(parent, x.Stmt)
	}

	id := c.add(parent, x, syntax.Node{Kind: syntax.KindLabel, Name: x.Label.Name})
	body := c.convert(id, x.Stmt)
	c.b.Update(id, func(n *syntax.Node) { n.Body = body })

	return id
}

func (c *goConverter) takeLabel() string {
	label := c.label
	c.label = ""

	return label
}

func (c *goConverter) branch(parent syntax.NodeID, x *ast.BranchStmt) syntax.NodeID {
	node := syntax.Node{Kind: syntax.KindJump}

	switch x.Tok {
	case token.BREAK:
		node.Jump = syntax.JumpBreak
	case token.CONTINUE:
		node.Jump = syntax.JumpContinue
	case token.GOTO:
		node.Jump = syntax.JumpGoto
	default:
		node.Kind = syntax.KindStatement
	}

	if x.Label != nil {
		node.Target = x.Label.Name
	}

	return c.add(parent, x, node)
}

func (c *goConverter) call(parent syntax.NodeID, x *ast.CallExpr) syntax.NodeID {
	fun := astutil.Unparen(x.Fun)
	node := syntax.Node{Kind: syntax.KindCall, Name: types.ExprString(fun)}

	switch {
	case c.isBuiltin(fun, "panic"):
		node.Kind = syntax.KindJump
		node.Jump = syntax.JumpThrow
	case c.isSafe(fun):
		node.Flags |= syntax.SafeCall
	}

	id := c.add(parent, x, node)
	c.children(id, x)

	return id
}

// deferred converts go and defer statements. Their call does not run in
// place, so it never ends the current region.
func (c *goConverter) deferred(parent syntax.NodeID, stmt ast.Stmt, call *ast.CallExpr) syntax.NodeID {
	id := c.add(parent, stmt, syntax.Node{Kind: syntax.KindStatement})
	callID := c.convert(id, call)

	c.b.Update(callID, func(n *syntax.Node) {
		n.Kind = syntax.KindCall
		n.Jump = syntax.JumpNone
		n.Flags |= syntax.SafeCall
	})

	return id
}

func (c *goConverter) logical(parent syntax.NodeID, x *ast.BinaryExpr) syntax.NodeID {
	id := c.add(parent, x, syntax.Node{Kind: syntax.KindLogical})
	c.convert(id, x.X)

	rhs := c.convert(id, x.Y)
	coercion := c.coercion(x.Y)

	c.b.Update(rhs, func(n *syntax.Node) { n.Coercion = coercion })
	c.b.Update(id, func(n *syntax.Node) { n.Then = rhs })

	return id
}

var goBuiltins = map[string]bool{
	"append": true, "cap": true, "clear": true, "close": true, "complex": true,
	"copy": true, "delete": true, "imag": true, "len": true, "make": true,
	"max": true, "min": true, "new": true, "print": true, "println": true,
	"real": true, "recover": true,
}

var goBasicTypes = map[string]bool{
	"bool": true, "byte": true, "complex64": true, "complex128": true, "error": true,
	"float32": true, "float64": true, "int": true, "int8": true, "int16": true,
	"int32": true, "int64": true, "rune": true, "string": true, "uint": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"any": true,
}

func (c *goConverter) isBuiltin(fun ast.Expr, name string) bool {
	ident, ok := fun.(*ast.Ident)
	if !ok || ident.Name != name {
		return false
	}

	if c.info != nil {
		if obj, ok := c.info.Uses[ident]; ok {
			_, builtin := obj.(*types.Builtin)

			return builtin
		}
	}

	return true
}

// isSafe reports calls that always return: builtins other than panic and
// type conversions.
func (c *goConverter) isSafe(fun ast.Expr) bool {
	if c.info != nil {
		if tv, ok := c.info.Types[fun]; ok {
			return tv.IsType() || tv.IsBuiltin()
		}
	}

	switch f := fun.(type) {
	case *ast.Ident:
		return goBuiltins[f.Name] || goBasicTypes[f.Name]
	case *ast.ArrayType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType, *ast.MapType, *ast.StructType, *ast.StarExpr:
		return true
	}

	return false
}

// coercion returns the spelling of the type an untyped constant operand
// is converted to, when that type is not plain bool.
func (c *goConverter) coercion(e ast.Expr) string {
	if c.info == nil {
		return ""
	}

	tv, ok := c.info.Types[e]
	if !ok || tv.Value == nil || tv.Type == nil {
		return ""
	}

	if basic, ok := tv.Type.(*types.Basic); ok && (basic.Kind() == types.Bool || basic.Kind() == types.UntypedBool) {
		return ""
	}

	return types.TypeString(tv.Type, c.qualifier)
}

func (c *goConverter) qualifier(p *types.Package) string {
	if p == c.pkg {
		return ""
	}

	if name, ok := c.imports[p.Path()]; ok {
		if name == "." {
			return ""
		}

		return name
	}

	return p.Name()
}
