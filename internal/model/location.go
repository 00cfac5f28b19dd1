package model

import "fmt"

// Location is a (line, column) position in a source file. Lines and columns
// are 1-based; the zero Location is invalid.
type Location struct {
	Line   int
	Column int
}

// Valid reports whether the location points into a file.
func (l Location) Valid() bool {
	return l.Line > 0 && l.Column > 0
}

// Compare orders locations by line, then column.
func (l Location) Compare(o Location) int {
	switch {
	case l.Line < o.Line:
		return -1
	case l.Line > o.Line:
		return 1
	case l.Column < o.Column:
		return -1
	case l.Column > o.Column:
		return 1
	}

	return 0
}

// Less reports whether l precedes o.
func (l Location) Less(o Location) bool {
	return l.Compare(o) < 0
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Range is a half-open region [Begin, End) of a source file.
type Range struct {
	Begin Location
	End   Location
}

// Valid reports whether both ends are valid and Begin does not follow End.
func (r Range) Valid() bool {
	return r.Begin.Valid() && r.End.Valid() && r.Begin.Compare(r.End) <= 0
}

// Compare orders ranges earlier-start first; on equal starts the longer
// range comes first. Identical ranges compare equal.
func (r Range) Compare(o Range) int {
	if c := r.Begin.Compare(o.Begin); c != 0 {
		return c
	}

	return -r.End.Compare(o.End)
}

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool {
	return r.Begin.Compare(o.Begin) <= 0 && o.End.Compare(r.End) <= 0
}

// ContainsLine reports whether any part of r lies on line.
func (r Range) ContainsLine(line int) bool {
	return r.Begin.Line <= line && line <= r.End.Line
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Begin, r.End)
}
