package domain

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"fortio.org/safecast"

	"github.com/mouse-blink/sigcov/internal/fastint"
	m "github.com/mouse-blink/sigcov/internal/model"
)

// File extensions of the persisted artifacts.
const (
	MapExt     = ".sigm"
	DumpExt    = ".sigd"
	ProfileExt = ".sigp"
	GcovExt    = ".gcov"
)

const maxLineSize = 1 << 20

// SignalMap is the region map of one compiled file instance.
type SignalMap struct {
	File    m.FileID
	Path    m.Path
	Signals []m.Signal
}

// ReadSignalMaps parses one or more concatenated region maps. On a
// malformed section it returns the sections read before it together with
// a *MapError naming the section's physical path.
func ReadSignalMaps(r io.Reader) ([]*SignalMap, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		maps []*SignalMap
		line int
	)

	next := func() (string, bool) {
		for sc.Scan() {
			line++
			if text := strings.TrimRight(sc.Text(), "\r"); text != "" {
				return text, true
			}
		}

		return "", false
	}

	for {
		header, ok := next()
		if !ok {
			break
		}

		id, path, found := strings.Cut(header, " ")
		if !found || id == "" || path == "" {
			return maps, &MapError{Err: fmt.Errorf("%w: line %d: want \"<file-id> <path>\"", ErrMalformedMap, line)}
		}

		countText, ok := next()
		if !ok {
			return maps, &MapError{Source: m.Path(path), Err: fmt.Errorf("%w: %s: missing signal count", ErrMalformedMap, id)}
		}

		count, err := fastint.Decode(countText)
		if err != nil {
			return maps, &MapError{Source: m.Path(path), Err: fmt.Errorf("%w: line %d: %w", ErrMalformedMap, line, err)}
		}

		sm := &SignalMap{File: m.FileID(id), Path: m.Path(path)}

		for range count {
			text, ok := next()
			if !ok {
				return maps, &MapError{Source: sm.Path, Err: fmt.Errorf("%w: %s: want %d signals, got %d", ErrMalformedMap, id, count, len(sm.Signals))}
			}

			sig, err := parseSignal(text)
			if err != nil {
				return maps, &MapError{Source: sm.Path, Err: fmt.Errorf("%w: line %d: %w", ErrMalformedMap, line, err)}
			}

			sm.Signals = append(sm.Signals, sig)
		}

		maps = append(maps, sm)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read signal map: %w", err)
	}

	return maps, nil
}

func parseSignal(text string) (m.Signal, error) {
	fields := strings.Fields(text)
	if len(fields) != 5 {
		return m.Signal{}, fmt.Errorf("want 5 fields, got %d", len(fields))
	}

	var v [5]int

	for i, f := range fields {
		n, err := fastint.Decode(f)
		if err != nil {
			return m.Signal{}, err
		}

		if v[i], err = safecast.Conv[int](n); err != nil {
			return m.Signal{}, err
		}
	}

	id, err := safecast.Conv[uint32](v[0])
	if err != nil || id == 0 {
		return m.Signal{}, fmt.Errorf("invalid signal id %q", fields[0])
	}

	sig := m.Signal{
		ID: m.SignalID(id),
		Range: m.Range{
			Begin: m.Location{Line: v[1], Column: v[2]},
			End:   m.Location{Line: v[3], Column: v[4]},
		},
	}

	if !sig.Range.Valid() {
		return m.Signal{}, fmt.Errorf("invalid range %s", sig.Range)
	}

	return sig, nil
}

// SourceFileMap collects the signals of every compiled instance of one
// physical file. Instances stay distinct even for identical ranges.
type SourceFileMap struct {
	path     m.Path
	files    map[m.FileID]bool
	mappings []m.SignalMapping
	sorted   bool
}

// NewSourceFileMap returns an empty map for path.
func NewSourceFileMap(path m.Path) *SourceFileMap {
	return &SourceFileMap{path: path, files: make(map[m.FileID]bool)}
}

// Path returns the physical source path.
func (s *SourceFileMap) Path() m.Path {
	return s.path
}

// AddSignalMap merges the signals of one instance. Adding the same
// instance twice is a no-op.
func (s *SourceFileMap) AddSignalMap(sm *SignalMap) error {
	if sm.Path != s.path {
		return fmt.Errorf("%w: %s into %s", ErrPathMismatch, sm.Path, s.path)
	}

	if s.files[sm.File] {
		return nil
	}

	s.files[sm.File] = true

	for _, sig := range sm.Signals {
		s.mappings = append(s.mappings, m.SignalMapping{File: sm.File, ID: sig.ID, Range: sig.Range})
	}

	s.sorted = false

	return nil
}

// Instances returns the number of compiled instances merged.
func (s *SourceFileMap) Instances() int {
	return len(s.files)
}

// Mappings returns all signals ordered earlier-start first, longer first.
func (s *SourceFileMap) Mappings() []m.SignalMapping {
	if !s.sorted {
		slices.SortStableFunc(s.mappings, m.SignalMapping.Compare)
		s.sorted = true
	}

	return s.mappings
}

// SourceFileMaps indexes SourceFileMaps by physical path.
type SourceFileMaps map[m.Path]*SourceFileMap

// Add routes sm to the map of its physical file.
func (s SourceFileMaps) Add(sm *SignalMap) error {
	sfm, ok := s[sm.Path]
	if !ok {
		sfm = NewSourceFileMap(sm.Path)
		s[sm.Path] = sfm
	}

	return sfm.AddSignalMap(sm)
}

// Paths returns the physical paths in sorted order.
func (s SourceFileMaps) Paths() []m.Path {
	paths := make([]m.Path, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	return paths
}
