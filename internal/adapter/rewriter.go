package adapter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/mouse-blink/sigcov/internal/syntax"
)

// ErrOverlappingEdit is returned when two edits touch the same bytes.
var ErrOverlappingEdit = errors.New("overlapping edits")

// Rewriter accumulates text edits against one source buffer.
type Rewriter interface {
	// InsertAt inserts text at pos, after text inserted there earlier.
	InsertAt(pos syntax.Pos, text string)
	// InsertBefore inserts text at pos, before text inserted there earlier.
	InsertBefore(pos syntax.Pos, text string)
	// Replace substitutes the bytes of span.
	Replace(span syntax.Span, text string)
	// Apply returns the rewritten buffer.
	Apply() ([]byte, error)
}

type editClass int

const (
	editBefore editClass = iota
	editAt
	editReplace
)

type edit struct {
	start int
	end   int
	text  string
	class editClass
	seq   int
}

// TextRewriter is the in-memory Rewriter. Edits are composed in source
// order when applied; edits at the same offset keep their insertion
// order (reversed for InsertBefore).
type TextRewriter struct {
	src   []byte
	edits []edit
}

// NewTextRewriter returns a rewriter over src. src is not modified.
func NewTextRewriter(src []byte) *TextRewriter {
	return &TextRewriter{src: src}
}

// InsertAt implements Rewriter.
func (r *TextRewriter) InsertAt(pos syntax.Pos, text string) {
	r.add(edit{start: pos.Offset, end: pos.Offset, text: text, class: editAt})
}

// InsertBefore implements Rewriter.
func (r *TextRewriter) InsertBefore(pos syntax.Pos, text string) {
	r.add(edit{start: pos.Offset, end: pos.Offset, text: text, class: editBefore})
}

// Replace implements Rewriter.
func (r *TextRewriter) Replace(span syntax.Span, text string) {
	r.add(edit{start: span.Begin.Offset, end: span.End.Offset, text: text, class: editReplace})
}

func (r *TextRewriter) add(e edit) {
	e.seq = len(r.edits)
	r.edits = append(r.edits, e)
}

// Len returns the number of recorded edits.
func (r *TextRewriter) Len() int {
	return len(r.edits)
}

// Apply implements Rewriter.
func (r *TextRewriter) Apply() ([]byte, error) {
	edits := make([]edit, len(r.edits))
	copy(edits, r.edits)

	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.start != b.start {
			return a.start < b.start
		}

		if a.class != b.class {
			return a.class < b.class
		}

		if a.class == editBefore {
			return a.seq > b.seq
		}

		return a.seq < b.seq
	})

	var out bytes.Buffer

	out.Grow(len(r.src) + len(edits)*24)

	cursor := 0

	for _, e := range edits {
		if e.start < cursor || e.end < e.start || e.end > len(r.src) {
			return nil, fmt.Errorf("%w: edit at [%d,%d) after offset %d", ErrOverlappingEdit, e.start, e.end, cursor)
		}

		out.Write(r.src[cursor:e.start])
		out.WriteString(e.text)

		cursor = e.start
		if e.class == editReplace {
			cursor = e.end
		}
	}

	out.Write(r.src[cursor:])

	return out.Bytes(), nil
}
