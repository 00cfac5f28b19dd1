package syntax

import (
	"fmt"

	m "github.com/mouse-blink/sigcov/internal/model"
)

// Pos is a position in a source buffer. Offset is a byte offset, Line and
// Col are 1-based with Col counted in bytes.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// Valid reports whether p points into a file.
func (p Pos) Valid() bool {
	return p.Line > 0 && p.Col > 0 && p.Offset >= 0
}

// Location drops the offset.
func (p Pos) Location() m.Location {
	return m.Location{Line: p.Line, Column: p.Col}
}

// Advance moves p forward by n bytes on the same line.
func (p Pos) Advance(n int) Pos {
	return Pos{Offset: p.Offset + n, Line: p.Line, Col: p.Col + n}
}

// Compare orders positions by offset.
func (p Pos) Compare(o Pos) int {
	switch {
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	}

	return 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is the half-open region [Begin, End).
type Span struct {
	Begin Pos
	End   Pos
}

// Range converts the span to a line/column range.
func (s Span) Range() m.Range {
	return m.Range{Begin: s.Begin.Location(), End: s.End.Location()}
}
