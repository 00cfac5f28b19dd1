package domain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	m "github.com/mouse-blink/sigcov/internal/model"
)

const (
	gcovFieldWidth = 5
	gcovNoData     = "-"
)

var gcovUnexecuted = strings.Repeat("#", gcovFieldWidth)

// GcovOptions tune the line report.
type GcovOptions struct {
	// SimpleHitCount prints 0 instead of the unexecuted marker.
	SimpleHitCount bool
	// PreservePaths names reports after the full source path.
	PreservePaths bool
}

// GcovWriter renders the line coverage of one physical file in the gcov
// text format.
type GcovWriter struct {
	sources *SourceFileMap
	data    *CoverageData
	opts    GcovOptions
}

// NewGcovWriter returns a writer for one physical file.
func NewGcovWriter(sources *SourceFileMap, data *CoverageData, opts GcovOptions) *GcovWriter {
	return &GcovWriter{sources: sources, data: data, opts: opts}
}

// ReportName returns the report file name of the source.
func (g *GcovWriter) ReportName() string {
	return GcovName(g.sources.Path(), g.opts.PreservePaths)
}

// GcovName names the report of path. With preserve the directory parts
// are kept, separated by '#'.
func GcovName(path m.Path, preserve bool) string {
	if !preserve {
		return filepath.Base(string(path)) + GcovExt
	}

	p := filepath.ToSlash(filepath.Clean(string(path)))
	p = strings.TrimPrefix(p, "/")

	return strings.ReplaceAll(p, "/", "#") + GcovExt
}

// Write reads the original source from src and writes the report to w.
func (g *GcovWriter) Write(w io.Writer, src io.Reader) (m.FileCoverageSummary, error) {
	mappings := g.sources.Mappings()
	summary := m.FileCoverageSummary{
		Path:    g.sources.Path(),
		Report:  g.ReportName(),
		Signals: len(mappings),
	}

	for _, s := range mappings {
		if g.data.HitCount(s.File, s.ID) > 0 {
			summary.Hit++
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%*s:%*d:Source:%s\n", gcovFieldWidth, gcovNoData, gcovFieldWidth, 0, filepath.Base(string(g.sources.Path())))

	lc := NewLineCoverage(mappings)
	br := bufio.NewReaderSize(src, 64*1024)

	for {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return summary, fmt.Errorf("read %s: %w", g.sources.Path(), err)
		}

		if text == "" && err != nil {
			break
		}

		lc.NextLine()
		text = strings.TrimRight(text, "\r\n")

		count := gcovNoData

		if lc.Covered() && !isEmptyLine(text) {
			var hits uint64
			for _, s := range lc.MostSpecific() {
				hits = max(hits, g.data.HitCount(s.File, s.ID))
			}

			summary.Lines++

			switch {
			case hits > 0:
				summary.Executed++
				count = fmt.Sprint(hits)
			case g.opts.SimpleHitCount:
				count = "0"
			default:
				count = gcovUnexecuted
			}
		}

		fmt.Fprintf(bw, "%*s:%*d:%s\n", gcovFieldWidth, count, gcovFieldWidth, lc.Line(), text)

		if err != nil {
			break
		}
	}

	return summary, bw.Flush()
}

// isEmptyLine reports whether a line holds no code worth a count.
func isEmptyLine(line string) bool {
	for _, c := range line {
		switch c {
		case ' ', '\t', '\v', '\f', '\r', '\n', ';', '{', '}':
		default:
			return false
		}
	}

	return true
}
