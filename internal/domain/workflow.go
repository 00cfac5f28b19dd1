package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/sigcov/internal/adapter"
	"github.com/mouse-blink/sigcov/internal/controller"
	m "github.com/mouse-blink/sigcov/internal/model"
	"github.com/mouse-blink/sigcov/pkg/covrt"
)

// Workflow defines the sigcov operations driven by the CLI.
type Workflow interface {
	Instrument(ctx context.Context, args InstrumentArgs) error
	List(ctx context.Context, args ListArgs) error
	Test(ctx context.Context, args TestArgs) error
	Report(ctx context.Context, args ReportArgs) error
	Merge(ctx context.Context, args MergeArgs) error
	View(ctx context.Context, args ViewArgs) error
}

// ListArgs select the sources to look at.
type ListArgs struct {
	Paths   []m.Path
	Exclude []string
	Policy  JumpPolicy
}

// InstrumentArgs configure an instrument run.
type InstrumentArgs struct {
	ListArgs
	Options InstrumentOptions
	Threads int
}

// ReportArgs configure a report run.
type ReportArgs struct {
	// Inputs are map, dump and profile files or directories holding them.
	Inputs         []m.Path
	Output         m.Path
	Gcov           GcovOptions
	OmitUnexecuted bool
	Jobs           int
	Stdout         io.Writer
}

// MergeArgs configure a merge run.
type MergeArgs struct {
	Inputs []m.Path
	Output m.Path
}

// ViewArgs configure the report viewer.
type ViewArgs struct {
	Reports m.Path
}

type workflow struct {
	fsAdapter   adapter.SourceFSAdapter
	frontEnd    adapter.FrontEnd
	reportStore adapter.ReportStore
	ui          controller.UI
	orch        Orchestrator
	logger      *slog.Logger
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	frontEnd adapter.FrontEnd,
	reportStore adapter.ReportStore,
	ui controller.UI,
	orch Orchestrator,
	logger *slog.Logger,
) Workflow {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &workflow{
		fsAdapter:   fsAdapter,
		frontEnd:    frontEnd,
		reportStore: reportStore,
		ui:          ui,
		orch:        orch,
		logger:      logger,
	}
}

// List instruments every source in memory and shows the region counts.
// Nothing is written.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	if err := w.ui.Start(controller.WithListMode()); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}
	defer w.ui.Close()

	sources, err := w.sources(args)
	if err != nil {
		_ = w.ui.DisplayInstrumentation(nil, err)

		return err
	}

	in := NewInstrumentor(w.frontEnd, w.fsAdapter, InstrumentOptions{
		OmitSources: true,
		OmitMaps:    true,
		Policy:      args.Policy,
	}, w.logger)

	files := make([][]m.InstrumentedFile, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, src := range sources {
		g.Go(func() error {
			results, err := in.InstrumentFile(gctx, src, src.Rel, "")
			if err != nil {
				results = append(results, m.InstrumentedFile{Source: src.Path, Err: err})
			}

			files[i] = results

			return nil
		})
	}

	_ = g.Wait()

	return w.ui.DisplayInstrumentation(slices.Concat(files...), nil)
}

// Instrument rewrites the sources into the output directory and writes
// their region maps.
func (w *workflow) Instrument(ctx context.Context, args InstrumentArgs) error {
	opts := args.Options
	opts.Policy = args.Policy

	if opts.Output == "" {
		return errors.New("no output directory given")
	}

	if opts.Maps == "" {
		opts.Maps = opts.Output
	}

	if opts.Output == StdoutOutput && opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	sources, err := w.sources(args.ListArgs)
	if err != nil {
		return err
	}

	if err := w.writeCRuntime(sources, opts); err != nil {
		return err
	}

	results := w.instrumentAll(ctx, sources, opts, args.Threads)

	var errs []error

	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Source, r.Err))
		}
	}

	if err := w.ui.DisplayInstrumentation(results, errors.Join(errs...)); err != nil {
		return err
	}

	return errors.Join(errs...)
}

func (w *workflow) instrumentAll(ctx context.Context, sources []m.Source, opts InstrumentOptions, threads int) []m.InstrumentedFile {
	// The combined stream is written in source order.
	if threads <= 0 || opts.Output == StdoutOutput {
		threads = 1
	}

	in := NewInstrumentor(w.frontEnd, w.fsAdapter, opts, w.logger)

	jobs := make(chan int, len(sources))
	perSource := make([][]m.InstrumentedFile, len(sources))

	var wg sync.WaitGroup

	for range threads {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				perSource[i] = w.instrumentOne(ctx, in, sources[i], opts)
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	return slices.Concat(perSource...)
}

func (w *workflow) instrumentOne(ctx context.Context, in *Instrumentor, src m.Source, opts InstrumentOptions) []m.InstrumentedFile {
	output := src.Rel
	mapPath := m.Path("")

	if opts.Output != StdoutOutput {
		output = w.fsAdapter.JoinPath(string(opts.Output), string(src.Rel))
	}

	if opts.Maps != StdoutOutput {
		mapPath = w.fsAdapter.JoinPath(string(opts.Maps), string(src.Rel)+MapExt)
	}

	results, err := in.InstrumentFile(ctx, src, output, mapPath)
	if err != nil {
		w.logger.Error("instrumentation failed", slog.String("path", string(src.Path)), slog.Any("error", err))

		results = append(results, m.InstrumentedFile{Source: src.Path, Output: output, Err: err})
	}

	for _, r := range results {
		w.logger.Debug("instrumented",
			slog.String("path", string(r.Source)),
			slog.String("output", string(r.Output)),
			slog.Int("signals", r.Signals),
			slog.Int("implicit", r.Implicit),
			slog.Int("declined", r.Declined))
	}

	return results
}

// writeCRuntime places the C runtime next to instrumented C and C++ files.
func (w *workflow) writeCRuntime(sources []m.Source, opts InstrumentOptions) error {
	if opts.Output == StdoutOutput || opts.OmitSources {
		return nil
	}

	needed := slices.ContainsFunc(sources, func(s m.Source) bool {
		return s.Language == m.LanguageC || s.Language == m.LanguageCPP
	})
	if !needed {
		return nil
	}

	for name, content := range covrt.CRuntime() {
		path := w.fsAdapter.JoinPath(string(opts.Output), name)
		if err := w.fsAdapter.WriteFile(path, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	return nil
}

func (w *workflow) sources(args ListArgs) ([]m.Source, error) {
	sources, err := w.fsAdapter.Get(args.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to collect sources: %w", err)
	}

	return filterSources(sources, args.Exclude)
}

func filterSources(sources []m.Source, exclude []string) ([]m.Source, error) {
	if len(exclude) == 0 {
		return sources, nil
	}

	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, re)
	}

	kept := sources[:0:0]

	for _, src := range sources {
		if !slices.ContainsFunc(patterns, func(re *regexp.Regexp) bool { return re.MatchString(string(src.Path)) }) {
			kept = append(kept, src)
		}
	}

	return kept, nil
}

// Test runs the Go tests of a module against instrumented sources and
// reports the coverage.
func (w *workflow) Test(ctx context.Context, args TestArgs) error {
	if err := w.ui.Start(controller.WithTestMode()); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}
	defer w.ui.Close()

	run, err := w.orch.RunTests(ctx, args, w.ui.DisplayStage)
	if err != nil {
		_ = w.ui.DisplayCoverage(m.CoverageSummary{}, err)

		return err
	}

	if run.Output != "" {
		w.logger.Debug("go test output", slog.String("output", run.Output))
	}

	reportErr := w.report(ctx, ReportArgs{
		Inputs: []m.Path{run.Maps, run.Dump},
		Output: args.Reports,
		Gcov:   args.Gcov,
		Jobs:   args.Jobs,
	})

	if run.TestErr != nil {
		return errors.Join(fmt.Errorf("go test failed: %w", run.TestErr), reportErr)
	}

	return reportErr
}

// Report turns maps and dumps into gcov reports.
func (w *workflow) Report(ctx context.Context, args ReportArgs) error {
	if err := w.ui.Start(controller.WithListMode()); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}
	defer w.ui.Close()

	return w.report(ctx, args)
}

type reportInputs struct {
	maps     []m.Path
	dumps    []m.Path
	profiles []m.Path
}

func (w *workflow) report(ctx context.Context, args ReportArgs) error {
	inputs, err := w.collectInputs(args.Inputs)
	if err != nil {
		_ = w.ui.DisplayCoverage(m.CoverageSummary{}, err)

		return err
	}

	var errs []error

	maps := SourceFileMaps{}
	failed := map[m.Path]struct{}{}

	for _, path := range inputs.maps {
		if err := w.readMap(path, maps, failed); err != nil {
			w.logger.Error("unusable signal map", slog.String("map", string(path)), slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	// Sources with a malformed map section get no report at all.
	for path := range failed {
		w.logger.Warn("no report for source with a malformed map", slog.String("source", string(path)))
		delete(maps, path)
	}

	data, err := w.readCoverage(inputs)
	if err != nil {
		errs = append(errs, err)
	}

	summary, err := w.writeReports(ctx, maps, data, args)
	if err != nil {
		errs = append(errs, err)
	}

	if args.Output != StdoutOutput && args.Output != "" {
		if err := w.reportStore.SaveIndex(args.Output, summary); err != nil {
			errs = append(errs, err)
		}
	}

	runErr := errors.Join(errs...)

	if err := w.ui.DisplayCoverage(summary, runErr); err != nil && runErr == nil {
		return err
	}

	return runErr
}

func (w *workflow) collectInputs(paths []m.Path) (reportInputs, error) {
	var in reportInputs

	add := func(path string) {
		switch filepath.Ext(path) {
		case MapExt:
			in.maps = append(in.maps, m.Path(path))
		case DumpExt:
			in.dumps = append(in.dumps, m.Path(path))
		case ProfileExt:
			in.profiles = append(in.profiles, m.Path(path))
		}
	}

	for _, p := range paths {
		info, err := w.fsAdapter.FileInfo(p)
		if err != nil {
			return in, fmt.Errorf("report input: %w", err)
		}

		if !info.IsDir() {
			if ext := filepath.Ext(string(p)); ext != MapExt && ext != DumpExt && ext != ProfileExt {
				w.logger.Warn("ignoring input with unknown extension", slog.String("path", string(p)))
			}

			add(string(p))

			continue
		}

		err = w.fsAdapter.Walk(p, true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() {
				add(path)
			}

			return nil
		})
		if err != nil {
			return in, err
		}
	}

	return in, nil
}

// readMap adds the sections of one map file to maps. Sources whose
// section is malformed are recorded in failed.
func (w *workflow) readMap(path m.Path, maps SourceFileMaps, failed map[m.Path]struct{}) error {
	content, err := w.fsAdapter.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	sms, readErr := ReadSignalMaps(bytes.NewReader(content))

	var errs []error

	if readErr != nil {
		errs = append(errs, fmt.Errorf("%s: %w", path, readErr))

		var mapErr *MapError
		if errors.As(readErr, &mapErr) && mapErr.Source != "" {
			failed[mapErr.Source] = struct{}{}
		}
	}

	for _, sm := range sms {
		if err := maps.Add(sm); err != nil {
			failed[sm.Path] = struct{}{}
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}

	return errors.Join(errs...)
}

func (w *workflow) readCoverage(in reportInputs) (*CoverageData, error) {
	data := NewCoverageData(w.logger)

	for _, path := range in.dumps {
		content, err := w.fsAdapter.ReadFile(path)
		if err != nil {
			w.logger.Warn("skipping unreadable dump", slog.String("dump", string(path)), slog.Any("error", err))

			continue
		}

		if _, err := data.Read(bytes.NewReader(content), string(path)); err != nil {
			w.logger.Warn("skipping dump", slog.String("dump", string(path)), slog.Any("error", err))
		}
	}

	var errs []error

	for _, path := range in.profiles {
		profile, err := w.reportStore.LoadProfile(path)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		data.Merge(profile)
	}

	return data, errors.Join(errs...)
}

type fileReport struct {
	summary m.FileCoverageSummary
	content []byte
	skip    bool
}

func (w *workflow) writeReports(ctx context.Context, maps SourceFileMaps, data *CoverageData, args ReportArgs) (m.CoverageSummary, error) {
	toStdout := args.Output == StdoutOutput

	if !toStdout {
		if args.Output == "" {
			return m.CoverageSummary{}, errors.New("no report directory given")
		}

		if err := w.fsAdapter.MkdirAll(args.Output); err != nil {
			return m.CoverageSummary{}, fmt.Errorf("create report directory: %w", err)
		}

		if err := w.reportStore.CleanReports(args.Output); err != nil {
			return m.CoverageSummary{}, err
		}
	}

	paths := maps.Paths()
	reports := make([]fileReport, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if args.Jobs > 0 {
		g.SetLimit(args.Jobs)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			reports[i], errs[i] = w.reportFile(maps[path], data, args)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return m.CoverageSummary{}, err
	}

	var summary m.CoverageSummary

	for i, r := range reports {
		if errs[i] != nil {
			w.logger.Error("report failed", slog.String("path", string(paths[i])), slog.Any("error", errs[i]))

			continue
		}

		if r.skip {
			continue
		}

		if toStdout {
			if err := w.streamReport(args.Stdout, r); err != nil {
				errs = append(errs, err)
			}
		}

		summary.Add(r.summary)
	}

	return summary, errors.Join(errs...)
}

func (w *workflow) reportFile(sfm *SourceFileMap, data *CoverageData, args ReportArgs) (fileReport, error) {
	src, err := w.fsAdapter.ReadFile(sfm.Path())
	if err != nil {
		return fileReport{}, fmt.Errorf("open original source: %w", err)
	}

	writer := NewGcovWriter(sfm, data, args.Gcov)

	var buf bytes.Buffer

	summary, err := writer.Write(&buf, bytes.NewReader(src))
	if err != nil {
		return fileReport{}, err
	}

	if args.OmitUnexecuted && summary.Executed == 0 {
		return fileReport{skip: true}, nil
	}

	if digest, err := w.fsAdapter.HashFile(sfm.Path()); err == nil {
		summary.Digest = digest
	}

	r := fileReport{summary: summary, content: buf.Bytes()}

	if args.Output != StdoutOutput {
		path := w.fsAdapter.JoinPath(string(args.Output), summary.Report)
		if err := w.fsAdapter.WriteFile(path, r.content, 0o644); err != nil {
			return fileReport{}, fmt.Errorf("write %s: %w", path, err)
		}
	}

	return r, nil
}

func (w *workflow) streamReport(out io.Writer, r fileReport) error {
	if out == nil {
		out = os.Stdout
	}

	if _, err := fmt.Fprintf(out, "$$File: %s\n", r.summary.Report); err != nil {
		return err
	}

	_, err := out.Write(r.content)

	return err
}

// Merge aggregates dumps and profiles into one profile.
func (w *workflow) Merge(_ context.Context, args MergeArgs) error {
	if args.Output == "" {
		return errors.New("no profile output given")
	}

	if !strings.HasSuffix(string(args.Output), ProfileExt) {
		w.logger.Warn("profile output without "+ProfileExt+" extension", slog.String("path", string(args.Output)))
	}

	inputs, err := w.collectInputs(args.Inputs)
	if err != nil {
		return err
	}

	data, err := w.readCoverage(inputs)
	if err != nil {
		return err
	}

	if err := w.reportStore.SaveProfile(args.Output, data.Profile()); err != nil {
		return err
	}

	w.logger.Info("merged coverage",
		slog.Int("dumps", len(inputs.dumps)),
		slog.Int("profiles", len(inputs.profiles)),
		slog.Int("files", data.Files()),
		slog.String("output", string(args.Output)))

	return nil
}

// View shows a previously generated report directory.
func (w *workflow) View(_ context.Context, args ViewArgs) error {
	summary, err := w.reportStore.LoadIndex(args.Reports)
	if err != nil {
		return fmt.Errorf("failed to load reports: %w", err)
	}

	if err := w.ui.Start(controller.WithViewMode()); err != nil {
		return fmt.Errorf("failed to start UI: %w", err)
	}
	defer w.ui.Close()

	if err := w.ui.DisplayReport(args.Reports, summary); err != nil {
		return err
	}

	w.ui.Wait()

	return nil
}
