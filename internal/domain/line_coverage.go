package domain

import (
	m "github.com/mouse-blink/sigcov/internal/model"
)

// LineCoverage sweeps signals line by line. Each signal enters the active
// set on its first line and leaves it after its last line.
type LineCoverage struct {
	signals []m.SignalMapping
	next    int
	line    int

	active  map[int]struct{}
	expires map[int][]int
	started []int
}

// NewLineCoverage starts a sweep before line 1. signals must be ordered
// by SignalMapping.Compare.
func NewLineCoverage(signals []m.SignalMapping) *LineCoverage {
	return &LineCoverage{
		signals: signals,
		active:  make(map[int]struct{}),
		expires: make(map[int][]int),
	}
}

// Line returns the current line, 0 before the first NextLine.
func (lc *LineCoverage) Line() int {
	return lc.line
}

// NextLine advances to the next line. It reports whether signals are
// active or still ahead.
func (lc *LineCoverage) NextLine() bool {
	lc.line++

	for _, i := range lc.expires[lc.line-1] {
		delete(lc.active, i)
	}

	delete(lc.expires, lc.line-1)
	lc.started = lc.started[:0]

	for lc.next < len(lc.signals) && lc.signals[lc.next].Range.Begin.Line <= lc.line {
		i := lc.next
		lc.next++

		end := max(lc.signals[i].Range.End.Line, lc.line)
		lc.active[i] = struct{}{}
		lc.expires[end] = append(lc.expires[end], i)
		lc.started = append(lc.started, i)
	}

	return len(lc.active) > 0 || lc.next < len(lc.signals)
}

// Covered reports whether any signal covers the current line.
func (lc *LineCoverage) Covered() bool {
	return len(lc.active) > 0
}

// Active returns the signals covering the current line in input order.
func (lc *LineCoverage) Active() []m.SignalMapping {
	out := make([]m.SignalMapping, 0, len(lc.active))

	for i := range lc.signals[:lc.next] {
		if _, ok := lc.active[i]; ok {
			out = append(out, lc.signals[i])
		}
	}

	return out
}

// MostSpecific returns the signals beginning on the current line or,
// when none does, the active signal ending first.
func (lc *LineCoverage) MostSpecific() []m.SignalMapping {
	if len(lc.started) > 0 {
		out := make([]m.SignalMapping, len(lc.started))
		for k, i := range lc.started {
			out[k] = lc.signals[i]
		}

		return out
	}

	narrowest := -1

	for i := range lc.active {
		if narrowest < 0 || narrower(lc.signals[i], lc.signals[narrowest], i, narrowest) {
			narrowest = i
		}
	}

	if narrowest < 0 {
		return nil
	}

	return []m.SignalMapping{lc.signals[narrowest]}
}

// narrower orders by end, later begin first, then input order.
func narrower(a, b m.SignalMapping, ai, bi int) bool {
	if c := a.Range.End.Compare(b.Range.End); c != 0 {
		return c < 0
	}

	if c := a.Range.Begin.Compare(b.Range.Begin); c != 0 {
		return c > 0
	}

	return ai < bi
}
