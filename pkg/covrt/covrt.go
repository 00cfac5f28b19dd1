//sigcov:ignore

// Package covrt is the counter library linked into instrumented Go
// programs. Each instrumented file declares one File table; functions link
// their table on entry and Dump appends the non-zero counters of every
// linked table to the dump file.
//
// The package only depends on the standard library so it can be copied
// into a module under test.
package covrt

import (
	"bufio"
	"io"
	"os"
	"sync"
)

const (
	// DumpEnv names the environment variable holding the dump path.
	DumpEnv = "SIGCOV_DUMP"
	// DefaultDump is the dump path used when DumpEnv is unset.
	DefaultDump = "coverage.sigd"
)

// File is the counter table of one instrumented file instance. Index 0 is
// unused; signal ids start at 1.
type File struct {
	id     string
	counts []uint64
	linked bool
}

var (
	mu     sync.Mutex
	linked []*File
)

// NewFile returns the table of file instance id holding n signals.
func NewFile(id string, n int) *File {
	return &File{id: id, counts: make([]uint64, n+1)}
}

// ID returns the file instance id.
func (f *File) ID() string {
	return f.id
}

// Link registers the table for dumping. It is called on every function
// entry and is cheap once linked.
func (f *File) Link() {
	mu.Lock()
	if !f.linked {
		f.linked = true
		linked = append(linked, f)
	}
	mu.Unlock()
}

// Hit counts one entry of signal n.
func (f *File) Hit(n int) {
	f.counts[n]++
}

// Count returns the current counter of signal n.
func (f *File) Count(n int) uint64 {
	return f.counts[n]
}

// Pass counts signal n and returns v unchanged.
func Pass[B ~bool](f *File, n int, v B) B {
	f.counts[n]++

	return v
}

// Dump appends the counters to the file named by $SIGCOV_DUMP, or
// coverage.sigd, and resets them.
func Dump() error {
	path := os.Getenv(DumpEnv)
	if path == "" {
		path = DefaultDump
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}

	if err := DumpTo(out); err != nil {
		_ = out.Close()

		return err
	}

	return out.Close()
}

// DumpTo writes one block per linked table with non-zero counters to w and
// resets the counters.
func DumpTo(w io.Writer) error {
	mu.Lock()
	defer mu.Unlock()

	bw := bufio.NewWriter(w)

	var buf []byte

	for _, f := range linked {
		buf = appendBlock(buf[:0], f)
		if len(buf) == 0 {
			continue
		}

		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return err
	}

	resetLocked()

	return nil
}

// Reset zeroes every linked counter.
func Reset() {
	mu.Lock()
	resetLocked()
	mu.Unlock()
}

func resetLocked() {
	for _, f := range linked {
		clear(f.counts)
	}
}

func appendBlock(dst []byte, f *File) []byte {
	start := len(dst)
	dst = append(dst, f.id...)
	dst = append(dst, '\n')
	hit := false

	for id := 1; id < len(f.counts); id++ {
		if f.counts[id] == 0 {
			continue
		}

		hit = true
		dst = appendHex(dst, uint64(id))
		dst = append(dst, ' ')
		dst = appendHex(dst, f.counts[id])
		dst = append(dst, '\n')
	}

	if !hit {
		return dst[:start]
	}

	return append(dst, ";\n"...)
}

// appendHex writes v as uppercase hex digits, least significant first.
func appendHex(dst []byte, v uint64) []byte {
	const digits = "0123456789ABCDEF"

	for {
		dst = append(dst, digits[v&0xF])
		v >>= 4

		if v == 0 {
			return dst
		}
	}
}
