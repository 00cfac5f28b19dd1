// Package model defines the data structures shared by instrumentation and
// coverage reporting.
package model

// FileID identifies one compiled instance of a source file for one
// instrumentation run. It is opaque outside of equality.
type FileID string

// SignalID numbers a Signal inside its registry. Ids are 1-based and dense.
type SignalID uint32

// NoSignal is the reserved invalid id.
const NoSignal SignalID = 0

// Signal is a numbered coverage point bound to a source range.
type Signal struct {
	ID          SignalID
	Range       Range
	Implicit    bool // covers code skipped by a jump
	Exceptional bool // reached only through an exception handler
}

// SignalMapping is one entry of a region map: a signal of a specific
// compiled file instance.
type SignalMapping struct {
	File  FileID
	ID    SignalID
	Range Range
}

// Compare orders mappings by range, then file, then id, so identical
// ranges from different instances stay distinct and ordered.
func (s SignalMapping) Compare(o SignalMapping) int {
	if c := s.Range.Compare(o.Range); c != 0 {
		return c
	}

	switch {
	case s.File < o.File:
		return -1
	case s.File > o.File:
		return 1
	case s.ID < o.ID:
		return -1
	case s.ID > o.ID:
		return 1
	}

	return 0
}
