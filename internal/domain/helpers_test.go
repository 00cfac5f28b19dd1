package domain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/sigcov/internal/adapter"
	m "github.com/mouse-blink/sigcov/internal/model"
)

// scenarioSource holds the Go scenario programs: a short-circuit
// condition, a counted loop and a break out of a switch default.
const scenarioSource = `package scen

func classify(x int) int {
	if x == 0 || x > 42 {
		return 1
	}
	return 0
}

func loop(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += i
	}
	return total
}

func pick(x int) int {
	r := 0
	switch x {
	case 1:
		r = 1
	default:
		if x > 10 {
			break
		}
		r = 2
	}
	return r
}
`

type instrumented struct {
	dir     string
	results []m.InstrumentedFile
	out     string
	maps    []*SignalMap
}

func writeSource(t *testing.T, dir, name, content string) m.Path {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return m.Path(path)
}

// instrumentSource instruments one file with the real front ends into a
// temporary output directory and reads back the outputs of the root
// instance.
func instrumentSource(t *testing.T, name, content string, opts InstrumentOptions) instrumented {
	t.Helper()

	return instrumentSourceIn(t, t.TempDir(), name, content, opts)
}

// instrumentSourceIn is instrumentSource with the sources placed under
// dir/src next to files written there earlier.
func instrumentSourceIn(t *testing.T, dir, name, content string, opts InstrumentOptions) instrumented {
	t.Helper()

	path := writeSource(t, filepath.Join(dir, "src"), name, content)

	fs := adapter.NewLocalSourceFSAdapter()
	fe := adapter.NewFrontEnds(adapter.NewLocalGoFileAdapter(), adapter.NewLocalCFileAdapter(nil))

	if opts.Output == "" {
		opts.Output = m.Path(filepath.Join(dir, "out"))
	}

	output := m.Path(filepath.Join(string(opts.Output), name))
	mapPath := m.Path(filepath.Join(dir, "maps", name+MapExt))

	in := NewInstrumentor(fe, fs, opts, nil)
	results, err := in.InstrumentFile(context.Background(), m.Source{Path: path, Language: m.LanguageOf(path)}, output, mapPath)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	res := instrumented{dir: dir, results: results}

	if opts.Output == StdoutOutput || opts.OmitSources {
		return res
	}

	out, err := os.ReadFile(string(output))
	require.NoError(t, err)
	res.out = string(out)

	for _, r := range results {
		if r.Map == "" {
			continue
		}

		f, err := os.Open(string(r.Map))
		require.NoError(t, err)

		maps, err := ReadSignalMaps(f)
		_ = f.Close()
		require.NoError(t, err)

		res.maps = append(res.maps, maps...)
	}

	return res
}

// locate returns the position of the first occurrence of needle.
func locate(t *testing.T, src, needle string) m.Location {
	t.Helper()

	i := strings.Index(src, needle)
	require.GreaterOrEqual(t, i, 0, "%q not found", needle)

	line := strings.Count(src[:i], "\n") + 1
	col := i - (strings.LastIndex(src[:i], "\n") + 1) + 1

	return m.Location{Line: line, Column: col}
}

// regionAt returns the narrowest signal whose range holds loc.
func regionAt(t *testing.T, signals []m.Signal, loc m.Location) m.Signal {
	t.Helper()

	var (
		best  m.Signal
		found bool
	)

	for _, s := range signals {
		if s.Range.Begin.Compare(loc) > 0 || loc.Compare(s.Range.End) >= 0 {
			continue
		}

		if !found || best.Range.Contains(s.Range) {
			best, found = s, true
		}
	}

	require.True(t, found, "no signal covers %s", loc)

	return best
}
