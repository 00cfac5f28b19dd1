package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mouse-blink/sigcov/internal/adapter"
	m "github.com/mouse-blink/sigcov/internal/model"
	"github.com/mouse-blink/sigcov/internal/syntax"
)

// Instrumentor drives the traversal of parsed files and the textual
// inclusion stack.
type Instrumentor struct {
	frontEnd adapter.FrontEnd
	fs       adapter.SourceFSAdapter
	opts     InstrumentOptions
	logger   *slog.Logger
}

// NewInstrumentor returns an instrumentor writing through fs.
func NewInstrumentor(frontEnd adapter.FrontEnd, fs adapter.SourceFSAdapter, opts InstrumentOptions, logger *slog.Logger) *Instrumentor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if opts.Policy.Calls == "" {
		opts.Policy = DefaultJumpPolicy()
	}

	return &Instrumentor{frontEnd: frontEnd, fs: fs, opts: opts, logger: logger}
}

// Options returns the effective options.
func (in *Instrumentor) Options() InstrumentOptions {
	return in.opts
}

// InstrumentFile instruments one source file and everything it includes.
// The instances are returned in finalize order, included files first.
// An internal invariant violation is returned as an InvariantError.
func (in *Instrumentor) InstrumentFile(ctx context.Context, src m.Source, output, mapPath m.Path) (results []m.InstrumentedFile, err error) {
	defer func() {
		if r := recover(); r != nil {
			var ie InvariantError
			if e, ok := r.(error); ok && errors.As(e, &ie) {
				err = ie

				return
			}

			panic(r)
		}
	}()

	content, err := in.fs.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Path, err)
	}

	tree, err := in.frontEnd.Parse(ctx, src.Path, src.Language, content)
	if err != nil {
		return nil, err
	}

	fi, err := newFileInstrumentation(tree, src.Path, output, mapPath, &in.opts, in.fs)
	if err != nil {
		return nil, err
	}

	w := &walk{
		in:      in,
		ctx:     ctx,
		fi:      fi,
		tree:    tree,
		c:       NewContext(tree),
		active:  map[m.Path]bool{src.Path: true},
		results: &results,
	}
	w.run()

	res, err := fi.Finalize()
	if err != nil {
		return results, err
	}

	results = append(results, res)

	return results, nil
}

// walk is the traversal of one compiled file instance.
type walk struct {
	in      *Instrumentor
	ctx     context.Context
	fi      *FileInstrumentation
	tree    *syntax.Tree
	c       *Context
	active  map[m.Path]bool
	results *[]m.InstrumentedFile
}

func (w *walk) run() {
	root := w.tree.Root()
	if w.tree.Generated || w.tree.Node(root).Flags.Has(syntax.Excluded) {
		w.in.logger.Debug("skipping file", slog.String("path", string(w.tree.Path)))

		return
	}

	w.children(root)

	if w.c.Depth() != 0 {
		invariant("%s: %d blocks left open", w.tree.Path, w.c.Depth())
	}
}

func (w *walk) children(id syntax.NodeID, skip ...syntax.NodeID) {
	for _, child := range w.tree.Node(id).Children {
		if !skipped(child, skip) {
			w.traverse(child)
		}
	}
}

func skipped(id syntax.NodeID, skip []syntax.NodeID) bool {
	for _, s := range skip {
		if s == id {
			return true
		}
	}

	return false
}

//nolint:cyclop // one case per node kind
func (w *walk) traverse(id syntax.NodeID) {
	n := w.tree.Node(id)
	if n.Flags.Has(syntax.Excluded) {
		return
	}

	switch n.Kind {
	case syntax.KindFunction, syntax.KindLambda:
		if !w.fi.TryBeginFunction(id) {
			return
		}

		w.c.PushFunction(id)
		w.block(NewFunctionBodyBlock(w.tree, id), n.Body)
		w.c.PopFunction()
	case syntax.KindIf:
		w.children(id, n.Then, n.Else)
		w.statement(id, n.Then, ConditionalShape{})

		if w.tree.Valid(n.Else) {
			w.statement(id, n.Else, ConditionalShape{Else: true})
		}
	case syntax.KindConditional:
		w.children(id, n.Then, n.Else)
		w.operand(id, n.Then)
		w.operand(id, n.Else)
	case syntax.KindLogical:
		w.children(id, n.Then)
		w.operand(id, n.Then)
	case syntax.KindLoop:
		w.children(id, n.Body)
		w.statement(id, n.Body, LoopBodyShape{Label: n.Name})
	case syntax.KindSwitch:
		w.children(id, n.Body)
		w.statement(id, n.Body, SwitchBodyShape{Label: n.Name})
	case syntax.KindCase, syntax.KindLabel:
		w.children(id, n.Body)
		w.label(id, n)
	case syntax.KindTry:
		w.try(id, n)
	case syntax.KindJump, syntax.KindCall:
		w.fi.HandleJump(w.c, id)
		w.children(id)
	case syntax.KindInclude:
		w.include(id, n)
	default:
		w.children(id)
	}
}

// block opens b, walks scope and closes b again.
func (w *walk) block(b *Block, scope syntax.NodeID) {
	w.fi.BeginBlock(w.c, b)
	w.traverse(scope)

	closed := w.fi.EndBlock(w.c)
	if len(closed) == 0 || closed[len(closed)-1] != b {
		invariant("%s: closed block does not match %s at %s", w.tree.Path, w.tree.Node(b.Node).Kind, b.Start)
	}
}

func (w *walk) statement(context, scope syntax.NodeID, shape Shape) {
	if !w.tree.Valid(scope) || w.tree.Node(scope).Flags.Has(syntax.Excluded) {
		return
	}

	w.block(NewStatementBlock(w.tree, context, context, scope, shape), scope)
}

func (w *walk) operand(expr, operand syntax.NodeID) {
	if !w.tree.Valid(operand) || w.tree.Node(operand).Flags.Has(syntax.Excluded) {
		return
	}

	w.block(NewExpressionBlock(w.tree, expr, operand), operand)
}

// label opens the region of a case or goto label. It stays open until
// the enclosing block closes.
func (w *walk) label(id syntax.NodeID, n syntax.Node) {
	if !w.tree.Valid(n.Body) {
		return
	}

	enclosing := w.c.Enclosing()
	if enclosing == nil {
		invariant("%s: %s outside of any block at %s", w.tree.Path, n.Kind, n.Span.Begin)
	}

	w.fi.BeginBlock(w.c, NewLabelBlock(w.tree, enclosing, id))
	w.traverse(n.Body)
}

func (w *walk) try(id syntax.NodeID, n syntax.Node) {
	var handlers []syntax.NodeID

	for _, child := range n.Children {
		if w.tree.Node(child).Kind == syntax.KindHandler {
			handlers = append(handlers, child)
		}
	}

	w.children(id, append(handlers, n.Body)...)
	w.statement(id, n.Body, StatementShape{})

	for _, h := range handlers {
		hn := w.tree.Node(h)
		if hn.Flags.Has(syntax.Excluded) || !w.tree.Valid(hn.Body) {
			continue
		}

		w.children(h, hn.Body)
		w.block(NewStatementBlock(w.tree, id, h, hn.Body, HandlerShape{}), hn.Body)
	}
}

// include instruments an included file as a new compiled file instance.
// The includer's walk resumes only after the child is finalized.
func (w *walk) include(id syntax.NodeID, n syntax.Node) {
	path := m.Path(n.Target)
	log := w.in.logger.With(slog.String("includer", string(w.tree.Path)), slog.String("include", string(path)))

	if w.active[path] {
		log.Warn("skipping cyclic include")

		return
	}

	content, err := w.in.fs.ReadFile(path)
	if err != nil {
		log.Warn("skipping unreadable include", slog.Any("error", err))

		return
	}

	// A header is compiled in the language of its includer.
	tree, err := w.in.frontEnd.Parse(w.ctx, path, w.tree.Lang, content)
	if err != nil {
		log.Warn("skipping include", slog.Any("error", err))

		return
	}

	child, err := w.fi.newChild(tree, id)
	if err != nil {
		log.Warn("skipping include", slog.Any("error", err))

		return
	}

	sub := &walk{
		in:      w.in,
		ctx:     w.ctx,
		fi:      child,
		tree:    tree,
		c:       NewContext(tree),
		active:  w.active,
		results: w.results,
	}

	w.active[path] = true
	sub.run()
	delete(w.active, path)

	res, err := child.Finalize()
	if err != nil {
		log.Warn("include not instrumented", slog.Any("error", err))
		res.Err = err
	}

	*w.results = append(*w.results, res)
}
