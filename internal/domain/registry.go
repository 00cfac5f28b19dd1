package domain

import (
	"bufio"
	"fmt"
	"io"

	"fortio.org/safecast"

	"github.com/mouse-blink/sigcov/internal/fastint"
	m "github.com/mouse-blink/sigcov/internal/model"
)

// SignalRegistry allocates the signals of one compiled file instance and
// serializes them as a region map.
type SignalRegistry struct {
	file    m.FileID
	path    m.Path
	signals []m.Signal
}

// NewSignalRegistry returns an empty registry for the given instance.
func NewSignalRegistry(file m.FileID, path m.Path) *SignalRegistry {
	return &SignalRegistry{file: file, path: path}
}

// File returns the instance identifier.
func (r *SignalRegistry) File() m.FileID {
	return r.file
}

// Path returns the physical source path.
func (r *SignalRegistry) Path() m.Path {
	return r.path
}

// CreateSignal allocates the next id for rng. It reports false for an
// invalid range and allocates nothing.
func (r *SignalRegistry) CreateSignal(rng m.Range, implicit, exceptional bool) (m.Signal, bool) {
	if !rng.Valid() {
		return m.Signal{}, false
	}

	s := m.Signal{
		ID:          m.SignalID(len(r.signals) + 1),
		Range:       rng,
		Implicit:    implicit,
		Exceptional: exceptional,
	}
	r.signals = append(r.signals, s)

	return s, true
}

// Len returns the number of allocated signals.
func (r *SignalRegistry) Len() int {
	return len(r.signals)
}

// Empty reports whether no signal was allocated.
func (r *SignalRegistry) Empty() bool {
	return len(r.signals) == 0
}

// Signal returns the signal with the given id.
func (r *SignalRegistry) Signal(id m.SignalID) (m.Signal, bool) {
	if id == m.NoSignal || int(id) > len(r.signals) {
		return m.Signal{}, false
	}

	return r.signals[id-1], true
}

// Signals returns the signals in id order.
func (r *SignalRegistry) Signals() []m.Signal {
	return r.signals
}

// WriteTo writes the region map: the identifier and path line, the
// signal count, then one line per signal.
func (r *SignalRegistry) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	buf := make([]byte, 0, 96)
	buf = append(buf, r.file...)
	buf = append(buf, ' ')
	buf = append(buf, r.path...)
	buf = append(buf, '\n')
	buf = fastint.Append(buf, uint64(len(r.signals)))
	buf = append(buf, '\n')

	if _, err := bw.Write(buf); err != nil {
		return cw.n, err
	}

	for _, s := range r.signals {
		buf = fastint.Append(buf[:0], uint64(s.ID))

		for _, v := range []int{s.Range.Begin.Line, s.Range.Begin.Column, s.Range.End.Line, s.Range.End.Column} {
			u, err := safecast.Conv[uint64](v)
			if err != nil {
				return cw.n, fmt.Errorf("signal %d: %w", s.ID, err)
			}

			buf = append(buf, ' ')
			buf = fastint.Append(buf, u)
		}

		buf = append(buf, '\n')

		if _, err := bw.Write(buf); err != nil {
			return cw.n, err
		}
	}

	err := bw.Flush()

	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)

	return n, err
}
