package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mouse-blink/sigcov/internal/adapter"
	m "github.com/mouse-blink/sigcov/internal/model"
	"github.com/mouse-blink/sigcov/pkg/covrt"
)

const (
	// RuntimeDir is the workspace directory the Go runtime is vendored to.
	RuntimeDir = "sigcovrt_gen"
	// DumpEnv names the dump file of an instrumented process.
	DumpEnv = covrt.DumpEnv

	testMainFile = "sigcov_main_gen_test.go"
	mapsDir      = "maps"
	dumpFile     = "coverage" + DumpExt
)

// TestArgs configure a coverage test run.
type TestArgs struct {
	// Project is any path inside the Go module under test.
	Project  m.Path
	Packages []string
	Reports  m.Path
	Exclude  []string
	Policy   JumpPolicy
	Gcov     GcovOptions
	Jobs     int
	// Keep leaves the instrumented workspace on disk.
	Keep bool
}

// TestRun is the outcome of one orchestrated go test run.
type TestRun struct {
	Workspace    m.Path
	Maps         m.Path
	Dump         m.Path
	Instrumented int
	Output       string
	// TestErr is set when go test itself failed.
	TestErr error
}

// ProgressFunc receives the stages of a run.
type ProgressFunc func(stage string, step, total int)

// Orchestrator coordinates instrumenting a temporary copy of a Go module
// and running its tests so that the counters get dumped.
type Orchestrator interface {
	RunTests(ctx context.Context, args TestArgs, progress ProgressFunc) (TestRun, error)
}

type orchestrator struct {
	fsAdapter   adapter.SourceFSAdapter
	testAdapter adapter.TestRunnerAdapter
	frontEnd    adapter.FrontEnd
	logger      *slog.Logger
}

// NewOrchestrator constructs an Orchestrator backed by the provided
// filesystem, test runner and front end adapters.
func NewOrchestrator(
	fsAdapter adapter.SourceFSAdapter,
	testAdapter adapter.TestRunnerAdapter,
	frontEnd adapter.FrontEnd,
	logger *slog.Logger,
) Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &orchestrator{
		fsAdapter:   fsAdapter,
		testAdapter: testAdapter,
		frontEnd:    frontEnd,
		logger:      logger,
	}
}

const runStages = 5

func (to *orchestrator) RunTests(ctx context.Context, args TestArgs, progress ProgressFunc) (TestRun, error) {
	if progress == nil {
		progress = func(string, int, int) {}
	}

	if args.Reports == "" {
		return TestRun{}, errors.New("no report directory given")
	}

	project := args.Project
	if project == "" {
		project = "."
	}

	progress("preparing workspace", 1, runStages)

	projectRoot, tmpDir, err := to.prepareWorkspace(project)
	if tmpDir != "" {
		if args.Keep {
			to.logger.Info("keeping workspace", slog.String("path", string(tmpDir)))
		} else {
			defer to.cleanupTempDir(tmpDir)
		}
	}

	if err != nil {
		return TestRun{}, err
	}

	run, err := to.prepareOutputs(args.Reports)
	if err != nil {
		return TestRun{}, err
	}

	run.Workspace = tmpDir

	modulePath, err := to.testAdapter.ModulePath(to.fsAdapter.JoinPath(string(tmpDir), "go.mod"))
	if err != nil {
		return TestRun{}, fmt.Errorf("failed to read module path: %w", err)
	}

	progress("instrumenting sources", 2, runStages)

	run.Instrumented, err = to.instrument(ctx, projectRoot, tmpDir, run.Maps, modulePath+"/"+RuntimeDir, args)
	if err != nil {
		return TestRun{}, err
	}

	progress("installing runtime", 3, runStages)

	if err := to.installRuntime(tmpDir, modulePath); err != nil {
		return TestRun{}, err
	}

	progress("running go test", 4, runStages)

	run.Output, run.TestErr = to.testAdapter.RunGoTest(ctx, tmpDir, args.Packages, []string{DumpEnv + "=" + string(run.Dump)})

	progress("collecting coverage", 5, runStages)

	return run, nil
}

func (to *orchestrator) prepareWorkspace(sourcePath m.Path) (m.Path, m.Path, error) {
	projectRoot, err := to.fsAdapter.FindProjectRoot(sourcePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to find project root: %w", err)
	}

	tmpDir, err := to.fsAdapter.CreateTempDir("sigcov-test-*")
	if err != nil {
		return "", "", fmt.Errorf("failed to create temp dir: %w", err)
	}

	if err := to.fsAdapter.CopyDir(projectRoot, tmpDir); err != nil {
		return projectRoot, tmpDir, fmt.Errorf("failed to copy project: %w", err)
	}

	return projectRoot, tmpDir, nil
}

// prepareOutputs resolves the map directory and dump file under reports
// and removes those of an earlier run.
func (to *orchestrator) prepareOutputs(reports m.Path) (TestRun, error) {
	abs, err := filepath.Abs(string(reports))
	if err != nil {
		return TestRun{}, err
	}

	run := TestRun{
		Maps: to.fsAdapter.JoinPath(abs, mapsDir),
		Dump: to.fsAdapter.JoinPath(abs, dumpFile),
	}

	for _, stale := range []m.Path{run.Maps, run.Dump} {
		if err := to.fsAdapter.RemoveAll(stale); err != nil {
			return TestRun{}, fmt.Errorf("failed to remove %s: %w", stale, err)
		}
	}

	if err := to.fsAdapter.MkdirAll(run.Maps); err != nil {
		return TestRun{}, fmt.Errorf("failed to create map directory: %w", err)
	}

	return run, nil
}

// instrument rewrites the module's Go sources inside the workspace. The
// maps keep pointing at the original sources. A file that cannot be
// instrumented keeps its plain copy.
func (to *orchestrator) instrument(ctx context.Context, projectRoot, tmpDir, maps m.Path, runtime string, args TestArgs) (int, error) {
	sources, err := to.fsAdapter.Get([]m.Path{m.Path(filepath.Join(string(projectRoot), "..."))})
	if err != nil {
		return 0, fmt.Errorf("failed to collect sources: %w", err)
	}

	sources = slices.DeleteFunc(sources, func(s m.Source) bool { return s.Language != m.LanguageGo })

	sources, err = filterSources(sources, args.Exclude)
	if err != nil {
		return 0, err
	}

	in := NewInstrumentor(to.frontEnd, to.fsAdapter, InstrumentOptions{
		Output:  tmpDir,
		Maps:    maps,
		Runtime: runtime,
		Policy:  args.Policy,
	}, to.logger)

	instrumented := 0

	for _, src := range sources {
		rel, err := to.fsAdapter.RelPath(projectRoot, src.Path)
		if err != nil {
			return instrumented, fmt.Errorf("failed to get relative source path: %w", err)
		}

		if strings.HasPrefix(string(rel), RuntimeDir+string(filepath.Separator)) {
			continue
		}

		output := to.fsAdapter.JoinPath(string(tmpDir), string(rel))
		mapPath := to.fsAdapter.JoinPath(string(maps), string(rel)+MapExt)

		results, err := in.InstrumentFile(ctx, src, output, mapPath)
		if err != nil {
			if ctx.Err() != nil {
				return instrumented, ctx.Err()
			}

			to.logger.Warn("file left uninstrumented", slog.String("path", string(src.Path)), slog.Any("error", err))

			continue
		}

		for _, r := range results {
			if r.Err == nil && r.Signals > 0 {
				instrumented++
			}
		}
	}

	return instrumented, nil
}

// installRuntime vendors the Go runtime into the workspace and adds a
// TestMain dumping the counters to every test package lacking one.
func (to *orchestrator) installRuntime(tmpDir m.Path, modulePath string) error {
	runtimePath := to.fsAdapter.JoinPath(string(tmpDir), RuntimeDir, covrt.GoRuntimeFile)
	if err := to.fsAdapter.WriteFile(runtimePath, covrt.GoRuntime(), 0o644); err != nil {
		return fmt.Errorf("failed to install runtime: %w", err)
	}

	dirs, err := to.testDirs(tmpDir)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		pkg, err := to.testAdapter.Package(dir)
		if err != nil {
			to.logger.Warn("skipping test package", slog.String("dir", string(dir)), slog.Any("error", err))

			continue
		}

		switch {
		case pkg.HasTestMain:
			to.logger.Warn("package has its own TestMain, coverage of its tests is not dumped",
				slog.String("dir", string(dir)))
		case pkg.Name == "":
			to.logger.Debug("skipping test-only package", slog.String("dir", string(dir)))
		default:
			path := to.fsAdapter.JoinPath(string(dir), testMainFile)
			if err := to.fsAdapter.WriteFile(path, testMain(pkg.Name, modulePath+"/"+RuntimeDir), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	}

	return nil
}

// testDirs lists the workspace directories holding Go test files.
func (to *orchestrator) testDirs(root m.Path) ([]m.Path, error) {
	seen := make(map[m.Path]bool)

	var dirs []m.Path

	err := to.fsAdapter.Walk(root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			switch info.Name() {
			case ".git", "vendor", "testdata", "node_modules", RuntimeDir:
				if path != string(root) {
					return filepath.SkipDir
				}
			}

			return nil
		}

		if dir := m.Path(filepath.Dir(path)); strings.HasSuffix(path, "_test.go") && !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}

		return nil
	})

	return dirs, err
}

func testMain(pkg, runtime string) []byte {
	return fmt.Appendf(nil, `// Code generated by sigcov. DO NOT EDIT.

package %s

import (
	"fmt"
	"os"
	"testing"

	_sigcovrt %q
)

func TestMain(m *testing.M) {
	code := m.Run()
	if err := _sigcovrt.Dump(); err != nil {
		fmt.Fprintln(os.Stderr, "sigcov:", err)
	}

	os.Exit(code)
}
`, pkg, runtime)
}

// cleanupTempDir removes the temporary directory, logging errors if cleanup fails.
func (to *orchestrator) cleanupTempDir(tmpDir m.Path) {
	if err := to.fsAdapter.RemoveAll(tmpDir); err != nil {
		to.logger.Warn("failed to remove workspace", slog.String("path", string(tmpDir)), slog.Any("error", err))
	}
}
