package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mouse-blink/sigcov/internal/fastint"
	m "github.com/mouse-blink/sigcov/internal/model"
)

const dumpTerminator = ";"

// CoverageData holds the hit counts of all dumps read, summed per file
// instance and signal.
type CoverageData struct {
	counts map[m.FileID]map[m.SignalID]uint64
	logger *slog.Logger
}

// NewCoverageData returns empty coverage data.
func NewCoverageData(logger *slog.Logger) *CoverageData {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &CoverageData{counts: make(map[m.FileID]map[m.SignalID]uint64), logger: logger}
}

// Add adds n hits of one signal.
func (d *CoverageData) Add(file m.FileID, id m.SignalID, n uint64) {
	fc, ok := d.counts[file]
	if !ok {
		fc = make(map[m.SignalID]uint64)
		d.counts[file] = fc
	}

	fc[id] += n
}

// HitCount returns the summed hits of one signal.
func (d *CoverageData) HitCount(file m.FileID, id m.SignalID) uint64 {
	return d.counts[file][id]
}

// Files returns the number of file instances with recorded hits.
func (d *CoverageData) Files() int {
	return len(d.counts)
}

// Read parses a dump stream. Malformed or truncated blocks are logged
// and skipped; the number skipped is returned. Only read errors fail.
func (d *CoverageData) Read(r io.Reader, source string) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		skipped int
		line    int
		block   *dumpBlock
	)

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())

		switch {
		case block == nil && text == "":
		case block == nil:
			block = newDumpBlock(text, line)
		case text == dumpTerminator:
			if block.err != nil {
				skipped++
				d.warn(source, block.err)
			} else {
				d.commit(block)
			}

			block = nil
		default:
			block.parse(text, line)
		}
	}

	if err := sc.Err(); err != nil {
		return skipped, fmt.Errorf("read coverage dump %s: %w", source, err)
	}

	if block != nil {
		skipped++
		d.warn(source, fmt.Errorf("%w: block of %s at line %d is truncated", ErrMalformedDump, block.file, block.line))
	}

	return skipped, nil
}

func (d *CoverageData) warn(source string, err error) {
	d.logger.Warn("skipping coverage dump block", slog.String("dump", source), slog.Any("error", err))
}

func (d *CoverageData) commit(b *dumpBlock) {
	for id, n := range b.counts {
		d.Add(b.file, id, n)
	}

	if _, ok := d.counts[b.file]; !ok {
		d.counts[b.file] = make(map[m.SignalID]uint64)
	}
}

// Merge adds the counts of a merged profile.
func (d *CoverageData) Merge(p m.Profile) {
	for file, fc := range p.Counts {
		for id, n := range fc {
			d.Add(file, id, n)
		}
	}
}

// Profile snapshots the counts as a merged profile.
func (d *CoverageData) Profile() m.Profile {
	p := m.Profile{Schema: m.ProfileSchema, Counts: make(map[m.FileID]map[m.SignalID]uint64, len(d.counts))}

	for file, fc := range d.counts {
		cp := make(map[m.SignalID]uint64, len(fc))
		for id, n := range fc {
			cp[id] = n
		}

		p.Counts[file] = cp
	}

	return p
}

// dumpBlock is one file-id block of a dump. Within a block a repeated
// id overrides the earlier count.
type dumpBlock struct {
	file   m.FileID
	line   int
	counts map[m.SignalID]uint64
	err    error
}

func newDumpBlock(header string, line int) *dumpBlock {
	b := &dumpBlock{file: m.FileID(header), line: line, counts: make(map[m.SignalID]uint64)}

	if strings.ContainsAny(header, " \t") || header == dumpTerminator {
		b.err = fmt.Errorf("%w: line %d: invalid file id %q", ErrMalformedDump, line, header)
	}

	return b
}

func (b *dumpBlock) parse(text string, line int) {
	if b.err != nil {
		return
	}

	idText, countText, ok := strings.Cut(text, " ")
	if !ok {
		b.err = fmt.Errorf("%w: line %d: want \"<id> <count>\"", ErrMalformedDump, line)

		return
	}

	id, err := fastint.Decode(idText)
	if err == nil && (id == 0 || id > uint64(^uint32(0))) {
		err = errors.New("signal id out of range")
	}

	if err != nil {
		b.err = fmt.Errorf("%w: line %d: %w", ErrMalformedDump, line, err)

		return
	}

	count, err := fastint.Decode(strings.TrimSpace(countText))
	if err != nil {
		b.err = fmt.Errorf("%w: line %d: %w", ErrMalformedDump, line, err)

		return
	}

	b.counts[m.SignalID(id)] = count
}
