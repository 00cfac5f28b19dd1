package domain

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mouse-blink/sigcov/internal/adapter"
	m "github.com/mouse-blink/sigcov/internal/model"
	"github.com/mouse-blink/sigcov/internal/syntax"
)

// StdoutOutput selects the combined stream instead of output files.
const StdoutOutput = "-"

// InstrumentOptions configure an instrumentation run.
type InstrumentOptions struct {
	// Output is the directory receiving instrumented sources, or "-".
	Output m.Path
	// Maps is the directory receiving map files. Empty means Output.
	Maps        m.Path
	OmitSources bool
	OmitMaps    bool
	// AutoDump makes the entry point dump counters on exit.
	AutoDump bool
	// Runtime is the Go import path of the counter runtime.
	Runtime string
	Policy  JumpPolicy
	Stdout  io.Writer
}

type pendingInsert struct {
	pos  syntax.Pos
	text string
}

// FileInstrumentation rewrites one compiled-file-instance. It owns the
// signal registry and the edits of that instance.
type FileInstrumentation struct {
	tree     *syntax.Tree
	display  m.Path
	output   m.Path
	mapPath  m.Path
	registry *SignalRegistry
	rewriter adapter.Rewriter
	dialect  Dialect
	table    string
	opts     *InstrumentOptions
	fs       adapter.SourceFSAdapter

	parent  *FileInstrumentation
	include syntax.NodeID
	root    *FileInstrumentation
	derived int

	suffixes  map[*Block]string
	implicits []pendingInsert
	gaps      map[syntax.Span]struct{}
	sawMain   bool
	implicit  int
	declined  int
}

func newFileInstrumentation(
	tree *syntax.Tree,
	display, output, mapPath m.Path,
	opts *InstrumentOptions,
	fs adapter.SourceFSAdapter,
) (*FileInstrumentation, error) {
	dialect, err := DialectFor(tree.Lang)
	if err != nil {
		return nil, err
	}

	id := NewFileID()
	fi := &FileInstrumentation{
		tree:     tree,
		display:  display,
		output:   output,
		mapPath:  mapPath,
		registry: NewSignalRegistry(id, display),
		rewriter: adapter.NewTextRewriter(tree.Src),
		dialect:  dialect,
		table:    TableName(id),
		opts:     opts,
		fs:       fs,
		suffixes: make(map[*Block]string),
		gaps:     make(map[syntax.Span]struct{}),
	}
	fi.root = fi

	return fi, nil
}

// newChild creates the instance of an included file. Its output sits
// next to the parent's and is named after the root output.
func (fi *FileInstrumentation) newChild(tree *syntax.Tree, include syntax.NodeID) (*FileInstrumentation, error) {
	fi.root.derived++

	rootOut := string(fi.root.output)
	stem := strings.TrimSuffix(filepath.Base(rootOut), filepath.Ext(rootOut))
	name := fmt.Sprintf("%s_f%d%s", stem, fi.root.derived, filepath.Ext(string(tree.Path)))
	output := m.Path(filepath.Join(filepath.Dir(string(fi.output)), name))

	var mapPath m.Path
	if fi.mapPath != "" {
		mapPath = m.Path(filepath.Join(filepath.Dir(string(fi.mapPath)), name+MapExt))
	}

	child, err := newFileInstrumentation(tree, tree.Path, output, mapPath, fi.opts, fi.fs)
	if err != nil {
		return nil, err
	}

	child.parent = fi
	child.include = include
	child.root = fi.root

	return child, nil
}

// Registry returns the signal registry of the instance.
func (fi *FileInstrumentation) Registry() *SignalRegistry {
	return fi.registry
}

// TryBeginFunction reports whether fn gets instrumented: only definitions
// with a braced body that are neither implicit nor evaluated at compile
// time.
func (fi *FileInstrumentation) TryBeginFunction(fn syntax.NodeID) bool {
	n := fi.tree.Node(fn)

	switch n.Kind {
	case syntax.KindFunction:
		if !n.Flags.Has(syntax.Definition) {
			return false
		}
	case syntax.KindLambda:
	default:
		return false
	}

	if n.Flags.Has(syntax.Excluded) || n.Flags.Has(syntax.ConstEval) || n.Flags.Has(syntax.Implicit) {
		return false
	}

	return fi.tree.Valid(n.Body) && fi.tree.Node(n.Body).Kind == syntax.KindCompound
}

// BeginBlock opens b and emits its increment. Switch bodies only route
// breaks: code between the brace and the first case is unreachable.
func (fi *FileInstrumentation) BeginBlock(ctx *Context, b *Block) {
	ctx.StartBlock(b)

	if _, ok := b.Shape.(SwitchBodyShape); ok {
		return
	}

	sig, ok := fi.registry.CreateSignal(b.Span().Range(), false, b.IsExceptional())
	if !ok {
		invariant("%s: invalid region %s for %s", fi.tree.Path, b.Span().Range(), fi.tree.Node(b.Node).Kind)
	}

	if shape, ok := b.Shape.(FunctionBodyShape); ok {
		var entry string

		if shape.Main && fi.opts.AutoDump {
			_, entry = fi.dialect.AutoDump()
			fi.sawMain = true
		}

		fi.rewriter.InsertAt(b.Start, entry+fi.dialect.Link(fi.table))
	}

	switch {
	case b.IsExpression():
		prefix, suffix := fi.dialect.Wrap(fi.table, sig.ID, b.Shape.(ExpressionShape).Coercion)
		fi.rewriter.InsertAt(b.Start, prefix)
		fi.suffixes[b] = suffix
	case b.Braced || b.IsLabel():
		fi.rewriter.InsertAt(b.Start, fi.dialect.Increment(fi.table, sig.ID))
	default:
		fi.rewriter.InsertAt(b.Start, "{"+fi.dialect.Increment(fi.table, sig.ID))
		fi.suffixes[b] = "}"
	}
}

// EndBlock closes the innermost block together with the labels opened
// inside it and emits their closing text. The closed blocks are returned
// innermost first.
func (fi *FileInstrumentation) EndBlock(ctx *Context) []*Block {
	closed := ctx.EndBlock()

	for _, b := range closed {
		if suffix, ok := fi.suffixes[b]; ok {
			fi.rewriter.InsertAt(b.End, suffix)
			delete(fi.suffixes, b)
		}
	}

	return closed
}

// HandleJump registers the implicit region skipped by a jump. Calls the
// policy does not treat as jumps, unresolvable calls and gaps holding no
// code are declined.
func (fi *FileInstrumentation) HandleJump(ctx *Context, jump syntax.NodeID) {
	n := fi.tree.Node(jump)
	if !fi.opts.Policy.IsJump(n) {
		return
	}

	gap, ok := ctx.ResolveJump(jump)
	if !ok {
		if n.Kind == syntax.KindCall {
			fi.declined++

			return
		}

		invariant("%s: no handler for %s at %s", fi.tree.Path, n.Jump, n.Span.Begin)
	}

	if !fi.gapHasCode(ctx, gap.Span) {
		fi.declined++

		return
	}

	if _, dup := fi.gaps[gap.Span]; dup {
		return
	}

	sig, ok := fi.registry.CreateSignal(gap.Span.Range(), true, false)
	if !ok {
		invariant("%s: invalid jump gap %s", fi.tree.Path, gap.Span.Range())
	}

	fi.gaps[gap.Span] = struct{}{}
	fi.implicit++

	// Applied at finalize so the increment lands after any closing text
	// emitted at the same position.
	fi.implicits = append(fi.implicits, pendingInsert{pos: gap.Span.Begin, text: fi.dialect.Implicit(fi.table, sig.ID)})
}

// gapHasCode reports whether any node begins inside the gap, looking no
// further than the end of the region the gap starts in.
func (fi *FileInstrumentation) gapHasCode(ctx *Context, gap syntax.Span) bool {
	end := gap.End

	if b := ctx.Containing(gap.Begin); b != nil && b.End.Compare(end) < 0 {
		end = b.End
	}

	return fi.tree.HasNodeIn(gap.Begin, end)
}

// RedirectInclude points the include directive at the generated copy.
func (fi *FileInstrumentation) RedirectInclude(include syntax.NodeID, name string) {
	fi.rewriter.Replace(fi.tree.Node(include).Inner, fi.dialect.IncludePath(name))
}

// Finalize emits the preamble and writes the instrumented source and the
// map. A child instance finally redirects its parent's directive.
func (fi *FileInstrumentation) Finalize() (m.InstrumentedFile, error) {
	for _, ins := range fi.implicits {
		fi.rewriter.InsertAt(ins.pos, ins.text)
	}

	fi.implicits = nil

	if !fi.registry.Empty() {
		var header string
		if fi.sawMain {
			header, _ = fi.dialect.AutoDump()
		}

		head, tail := fi.dialect.Preamble(fi.registry.File(), fi.registry.Len(), fi.display, fi.opts.Runtime)
		fi.rewriter.InsertBefore(fi.tree.Header, header+head)

		if tail != "" {
			fi.rewriter.InsertAt(fi.tree.Node(fi.tree.Root()).Span.End, tail)
		}
	}

	result := m.InstrumentedFile{
		Source:   fi.display,
		Output:   fi.output,
		File:     fi.registry.File(),
		Signals:  fi.registry.Len(),
		Implicit: fi.implicit,
		Declined: fi.declined,
	}

	if fi.parent != nil {
		result.Parent = fi.parent.registry.File()
	}

	out, err := fi.rewriter.Apply()
	if err != nil {
		return result, fmt.Errorf("%s: %w", fi.tree.Path, err)
	}

	var mapData bytes.Buffer
	if _, err := fi.registry.WriteTo(&mapData); err != nil {
		return result, err
	}

	if fi.opts.Output == StdoutOutput {
		if err := fi.stream(out, mapData.Bytes()); err != nil {
			return result, err
		}
	} else {
		if !fi.opts.OmitSources {
			if err := fi.fs.WriteFile(fi.output, out, 0o644); err != nil {
				return result, fmt.Errorf("write %s: %w", fi.output, err)
			}
		}

		if !fi.opts.OmitMaps && fi.mapPath != "" && !fi.registry.Empty() {
			if err := fi.fs.WriteFile(fi.mapPath, mapData.Bytes(), 0o644); err != nil {
				return result, fmt.Errorf("write %s: %w", fi.mapPath, err)
			}

			result.Map = fi.mapPath
		}
	}

	if fi.parent != nil && fi.include != syntax.NoNode {
		fi.parent.RedirectInclude(fi.include, filepath.Base(string(fi.output)))
	}

	return result, nil
}

func (fi *FileInstrumentation) stream(out, mapData []byte) error {
	w := fi.opts.Stdout
	if w == nil {
		return fmt.Errorf("no stream to write %s to", fi.output)
	}

	if !fi.opts.OmitSources {
		if _, err := fmt.Fprintf(w, "\n$$File: %s (%s)\n\n", fi.output, fi.display); err != nil {
			return err
		}

		if _, err := w.Write(out); err != nil {
			return err
		}
	}

	if !fi.opts.OmitMaps && !fi.registry.Empty() {
		if _, err := io.WriteString(w, "\n$$Signals:\n\n"); err != nil {
			return err
		}

		if _, err := w.Write(mapData); err != nil {
			return err
		}
	}

	return nil
}
