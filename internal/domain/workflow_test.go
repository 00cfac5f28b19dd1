package domain_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/sigcov/internal/adapter"
	adaptermocks "github.com/mouse-blink/sigcov/internal/adapter/mocks"
	controllermocks "github.com/mouse-blink/sigcov/internal/controller/mocks"
	"github.com/mouse-blink/sigcov/internal/domain"
	domainmocks "github.com/mouse-blink/sigcov/internal/domain/mocks"
	m "github.com/mouse-blink/sigcov/internal/model"
)

const workflowSource = `package demo

func Sign(x int) int {
	if x < 0 {
		return -1
	}
	return 1
}
`

const reportSource = "func f() {\n\tif x {\n\t\ty()\n\t}\n\tz()\n}\n"

type workflowFixture struct {
	fs    *adapter.LocalSourceFSAdapter
	store *adaptermocks.MockReportStore
	ui    *controllermocks.MockUI
	orch  *domainmocks.MockOrchestrator
	wf    domain.Workflow
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	f := &workflowFixture{
		fs:    adapter.NewLocalSourceFSAdapter(),
		store: adaptermocks.NewMockReportStore(t),
		ui:    controllermocks.NewMockUI(t),
		orch:  domainmocks.NewMockOrchestrator(t),
	}

	frontEnds := adapter.NewFrontEnds(adapter.NewLocalGoFileAdapter(), adapter.NewLocalCFileAdapter(nil))
	f.wf = domain.NewWorkflow(f.fs, frontEnds, f.store, f.ui, f.orch, nil)

	return f
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// reportInputs lays out a source with its map and one dump. Signal 2
// (the then-branch) is never hit.
func reportInputs(t *testing.T) (dir, source string) {
	t.Helper()

	dir = t.TempDir()
	source = writeFile(t, filepath.Join(dir, "src", "a.go"), reportSource)

	writeFile(t, filepath.Join(dir, "in", "maps", "a.go"+domain.MapExt),
		fmt.Sprintf("f1 %s\n3\n1 1 B 6 1\n2 2 9 4 2\n3 4 3 6 1\n", source))
	writeFile(t, filepath.Join(dir, "in", "run"+domain.DumpExt), "f1\n1 4\n3 4\n;\n")

	return dir, source
}

const wantReport = "" +
	"    -:    0:Source:a.go\n" +
	"    4:    1:func f() {\n" +
	"#####:    2:\tif x {\n" +
	"#####:    3:\t\ty()\n" +
	"    -:    4:\t}\n" +
	"    4:    5:\tz()\n" +
	"    -:    6:}\n"

func TestWorkflow_List(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sign.go"), workflowSource)

	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayInstrumentation(mock.MatchedBy(func(files []m.InstrumentedFile) bool {
		return len(files) == 1 && files[0].Signals == 3 && files[0].Implicit == 1 && files[0].Err == nil
	}), nil).Return(nil)

	err := f.wf.List(t.Context(), domain.ListArgs{
		Paths:  []m.Path{m.Path(dir + "/...")},
		Policy: domain.DefaultJumpPolicy(),
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "list writes nothing")
}

func TestWorkflow_List_CollectError(t *testing.T) {
	fsMock := adaptermocks.NewMockSourceFSAdapter(t)
	ui := controllermocks.NewMockUI(t)
	wf := domain.NewWorkflow(fsMock, nil, nil, ui, nil, nil)

	fsMock.EXPECT().Get(mock.Anything).Return(nil, errors.New("boom"))
	ui.EXPECT().Start(mock.Anything).Return(nil)
	ui.EXPECT().Close()
	ui.EXPECT().DisplayInstrumentation([]m.InstrumentedFile(nil), mock.Anything).Return(nil)

	err := wf.List(t.Context(), domain.ListArgs{Paths: []m.Path{"x"}})
	assert.ErrorContains(t, err, "boom")
}

func TestWorkflow_List_Exclude(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sign.go"), workflowSource)
	writeFile(t, filepath.Join(dir, "gen", "other.go"), workflowSource)

	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayInstrumentation(mock.MatchedBy(func(files []m.InstrumentedFile) bool {
		return len(files) == 1 && filepath.Base(string(files[0].Source)) == "sign.go"
	}), nil).Return(nil)

	require.NoError(t, f.wf.List(t.Context(), domain.ListArgs{
		Paths:   []m.Path{m.Path(dir + "/...")},
		Exclude: []string{`/gen/`},
	}))
}

func TestWorkflow_Instrument(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "sign.go"), workflowSource)
	writeFile(t, filepath.Join(dir, "src", "lib", "sign.go"), workflowSource)
	out := filepath.Join(dir, "out")

	f.ui.EXPECT().DisplayInstrumentation(mock.MatchedBy(func(files []m.InstrumentedFile) bool {
		return len(files) == 2
	}), nil).Return(nil)

	err := f.wf.Instrument(t.Context(), domain.InstrumentArgs{
		ListArgs: domain.ListArgs{Paths: []m.Path{m.Path(filepath.Join(dir, "src") + "/...")}},
		Options:  domain.InstrumentOptions{Output: m.Path(out)},
		Threads:  2,
	})
	require.NoError(t, err)

	for _, rel := range []string{"sign.go", "sign.go" + domain.MapExt, "lib/sign.go", "lib/sign.go" + domain.MapExt} {
		assert.FileExists(t, filepath.Join(out, rel))
	}

	assert.NoFileExists(t, filepath.Join(out, "sigcovrt.h"), "no C sources")
}

func TestWorkflow_Instrument_SeparateMapsAndCRuntime(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.c"), "int main(void) {\n  return 0;\n}\n")
	out := filepath.Join(dir, "out")
	maps := filepath.Join(dir, "maps")

	f.ui.EXPECT().DisplayInstrumentation(mock.Anything, nil).Return(nil)

	err := f.wf.Instrument(t.Context(), domain.InstrumentArgs{
		ListArgs: domain.ListArgs{Paths: []m.Path{m.Path(filepath.Join(dir, "src"))}},
		Options:  domain.InstrumentOptions{Output: m.Path(out), Maps: m.Path(maps)},
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "main.c"))
	assert.FileExists(t, filepath.Join(out, "sigcovrt.h"))
	assert.FileExists(t, filepath.Join(out, "sigcovrt.c"))
	assert.FileExists(t, filepath.Join(maps, "main.c"+domain.MapExt))
	assert.NoFileExists(t, filepath.Join(out, "main.c"+domain.MapExt))
}

func TestWorkflow_Instrument_Errors(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.wf.Instrument(t.Context(), domain.InstrumentArgs{})
	require.ErrorContains(t, err, "no output directory")

	err = f.wf.Instrument(t.Context(), domain.InstrumentArgs{
		ListArgs: domain.ListArgs{Paths: []m.Path{m.Path(t.TempDir())}, Exclude: []string{"("}},
		Options:  domain.InstrumentOptions{Output: "out"},
	})
	require.ErrorContains(t, err, "invalid exclude pattern")
}

func TestWorkflow_Instrument_ParseFailureIsReported(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.go"), "package demo\nfunc {")

	f.ui.EXPECT().DisplayInstrumentation(mock.MatchedBy(func(files []m.InstrumentedFile) bool {
		return len(files) == 1 && files[0].Err != nil
	}), mock.Anything).Return(nil)

	err := f.wf.Instrument(t.Context(), domain.InstrumentArgs{
		ListArgs: domain.ListArgs{Paths: []m.Path{m.Path(dir)}},
		Options:  domain.InstrumentOptions{Output: m.Path(filepath.Join(dir, "out"))},
	})
	assert.ErrorContains(t, err, "bad.go")
}

func TestWorkflow_Report(t *testing.T) {
	f := newWorkflowFixture(t)
	dir, source := reportInputs(t)
	reports := m.Path(filepath.Join(dir, "reports"))

	f.store.EXPECT().CleanReports(reports).Return(nil)
	f.store.EXPECT().SaveIndex(reports, mock.MatchedBy(func(s m.CoverageSummary) bool {
		return len(s.Files) == 1 &&
			s.Files[0].Path == m.Path(source) &&
			s.Files[0].Digest != "" &&
			s.Totals.Lines == 4 && s.Totals.Executed == 2
	})).Return(nil)
	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayCoverage(mock.Anything, nil).Return(nil)

	err := f.wf.Report(t.Context(), domain.ReportArgs{
		Inputs: []m.Path{m.Path(filepath.Join(dir, "in"))},
		Output: reports,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(string(reports), "a.go.gcov"))
	require.NoError(t, err)
	assert.Equal(t, wantReport, string(content))
}

func TestWorkflow_Report_Stdout(t *testing.T) {
	f := newWorkflowFixture(t)
	dir, _ := reportInputs(t)

	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayCoverage(mock.Anything, nil).Return(nil)

	var out bytes.Buffer

	err := f.wf.Report(t.Context(), domain.ReportArgs{
		Inputs: []m.Path{
			m.Path(filepath.Join(dir, "in", "maps", "a.go"+domain.MapExt)),
			m.Path(filepath.Join(dir, "in", "run"+domain.DumpExt)),
		},
		Output: domain.StdoutOutput,
		Stdout: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "$$File: a.go.gcov\n"+wantReport, out.String())
}

func TestWorkflow_Report_OmitUnexecuted(t *testing.T) {
	f := newWorkflowFixture(t)
	dir, _ := reportInputs(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "in", "run"+domain.DumpExt)))
	reports := m.Path(filepath.Join(dir, "reports"))

	f.store.EXPECT().CleanReports(reports).Return(nil)
	f.store.EXPECT().SaveIndex(reports, m.CoverageSummary{}).Return(nil)
	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayCoverage(m.CoverageSummary{}, nil).Return(nil)

	err := f.wf.Report(t.Context(), domain.ReportArgs{
		Inputs:         []m.Path{m.Path(filepath.Join(dir, "in"))},
		Output:         reports,
		OmitUnexecuted: true,
	})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(string(reports), "a.go.gcov"))
}

func TestWorkflow_Report_BadMapStillReportsOthers(t *testing.T) {
	f := newWorkflowFixture(t)
	dir, _ := reportInputs(t)
	writeFile(t, filepath.Join(dir, "in", "maps", "broken"+domain.MapExt), "f9 x.go\nnot-a-count\n")
	reports := m.Path(filepath.Join(dir, "reports"))

	f.store.EXPECT().CleanReports(reports).Return(nil)
	f.store.EXPECT().SaveIndex(reports, mock.Anything).Return(nil)
	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayCoverage(mock.MatchedBy(func(s m.CoverageSummary) bool {
		return len(s.Files) == 1
	}), mock.Anything).Return(nil)

	err := f.wf.Report(t.Context(), domain.ReportArgs{
		Inputs: []m.Path{m.Path(filepath.Join(dir, "in"))},
		Output: reports,
	})
	require.ErrorIs(t, err, domain.ErrMalformedMap)
	assert.FileExists(t, filepath.Join(string(reports), "a.go.gcov"))
}

func TestWorkflow_Report_BadInstanceMapFailsItsSource(t *testing.T) {
	f := newWorkflowFixture(t)
	dir, source := reportInputs(t)
	writeFile(t, filepath.Join(dir, "in", "maps", "b"+domain.MapExt),
		fmt.Sprintf("f2 %s\n1\n1 2 9 zz 2\n", source))
	reports := m.Path(filepath.Join(dir, "reports"))

	f.store.EXPECT().CleanReports(reports).Return(nil)
	f.store.EXPECT().SaveIndex(reports, mock.Anything).Return(nil)
	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayCoverage(mock.MatchedBy(func(s m.CoverageSummary) bool {
		return len(s.Files) == 0
	}), mock.Anything).Return(nil)

	err := f.wf.Report(t.Context(), domain.ReportArgs{
		Inputs: []m.Path{m.Path(filepath.Join(dir, "in"))},
		Output: reports,
	})
	require.ErrorIs(t, err, domain.ErrMalformedMap)
	assert.NoFileExists(t, filepath.Join(string(reports), "a.go.gcov"))
}

func TestWorkflow_Report_MissingInput(t *testing.T) {
	f := newWorkflowFixture(t)

	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayCoverage(m.CoverageSummary{}, mock.Anything).Return(nil)

	err := f.wf.Report(t.Context(), domain.ReportArgs{
		Inputs: []m.Path{m.Path(filepath.Join(t.TempDir(), "nope"))},
		Output: "reports",
	})
	assert.ErrorContains(t, err, "report input")
}

func TestWorkflow_Merge(t *testing.T) {
	f := newWorkflowFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a"+domain.DumpExt), "f1\n1 2\n;\n")
	writeFile(t, filepath.Join(dir, "b"+domain.DumpExt), "f1\n1 3\n2 1\n;\n")
	profile := m.Path(writeFile(t, filepath.Join(dir, "old"+domain.ProfileExt), ""))
	out := m.Path(filepath.Join(dir, "merged"+domain.ProfileExt))

	f.store.EXPECT().LoadProfile(profile).Return(m.Profile{Counts: map[m.FileID]map[m.SignalID]uint64{
		"f1": {1: 10},
		"f2": {1: 7},
	}}, nil)
	f.store.EXPECT().SaveProfile(out, mock.MatchedBy(func(p m.Profile) bool {
		return p.Counts["f1"][1] == 15 && p.Counts["f1"][2] == 1 && p.Counts["f2"][1] == 7
	})).Return(nil)

	err := f.wf.Merge(t.Context(), domain.MergeArgs{
		Inputs: []m.Path{
			m.Path(filepath.Join(dir, "a"+domain.DumpExt)),
			m.Path(filepath.Join(dir, "b"+domain.DumpExt)),
			profile,
		},
		Output: out,
	})
	require.NoError(t, err)
}

func TestWorkflow_Merge_Errors(t *testing.T) {
	f := newWorkflowFixture(t)

	err := f.wf.Merge(t.Context(), domain.MergeArgs{Inputs: []m.Path{"x"}})
	require.ErrorContains(t, err, "no profile output")

	dir := t.TempDir()
	profile := m.Path(writeFile(t, filepath.Join(dir, "p"+domain.ProfileExt), "garbage"))
	f.store.EXPECT().LoadProfile(profile).Return(m.Profile{}, errors.New("bad schema"))

	err = f.wf.Merge(t.Context(), domain.MergeArgs{Inputs: []m.Path{profile}, Output: "out.sigp"})
	require.ErrorContains(t, err, "bad schema")
}

func TestWorkflow_View(t *testing.T) {
	f := newWorkflowFixture(t)
	summary := m.CoverageSummary{Files: []m.FileCoverageSummary{{Path: "a.go", Lines: 2}}}

	f.store.EXPECT().LoadIndex(m.Path("reports")).Return(summary, nil)
	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayReport(m.Path("reports"), summary).Return(nil)
	f.ui.EXPECT().Wait()

	require.NoError(t, f.wf.View(t.Context(), domain.ViewArgs{Reports: "reports"}))
}

func TestWorkflow_View_MissingIndex(t *testing.T) {
	f := newWorkflowFixture(t)
	f.store.EXPECT().LoadIndex(m.Path("reports")).Return(m.CoverageSummary{}, os.ErrNotExist)

	err := f.wf.View(t.Context(), domain.ViewArgs{Reports: "reports"})
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "failed to load reports")
}

func TestWorkflow_Test(t *testing.T) {
	f := newWorkflowFixture(t)
	dir, _ := reportInputs(t)
	reports := m.Path(filepath.Join(dir, "reports"))
	args := domain.TestArgs{Project: m.Path(dir), Reports: reports}

	f.orch.EXPECT().RunTests(mock.Anything, args, mock.Anything).Return(domain.TestRun{
		Maps: m.Path(filepath.Join(dir, "in", "maps")),
		Dump: m.Path(filepath.Join(dir, "in", "run"+domain.DumpExt)),
	}, nil)
	f.store.EXPECT().CleanReports(reports).Return(nil)
	f.store.EXPECT().SaveIndex(reports, mock.Anything).Return(nil)
	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayCoverage(mock.MatchedBy(func(s m.CoverageSummary) bool {
		return s.Totals.Executed == 2
	}), nil).Return(nil)

	require.NoError(t, f.wf.Test(t.Context(), args))
	assert.FileExists(t, filepath.Join(string(reports), "a.go.gcov"))
}

func TestWorkflow_Test_FailingTestsStillReport(t *testing.T) {
	f := newWorkflowFixture(t)
	dir, _ := reportInputs(t)
	reports := m.Path(filepath.Join(dir, "reports"))

	f.orch.EXPECT().RunTests(mock.Anything, mock.Anything, mock.Anything).Return(domain.TestRun{
		Maps:    m.Path(filepath.Join(dir, "in", "maps")),
		Dump:    m.Path(filepath.Join(dir, "in", "run"+domain.DumpExt)),
		TestErr: errors.New("exit status 1"),
	}, nil)
	f.store.EXPECT().CleanReports(reports).Return(nil)
	f.store.EXPECT().SaveIndex(reports, mock.Anything).Return(nil)
	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayCoverage(mock.Anything, nil).Return(nil)

	err := f.wf.Test(t.Context(), domain.TestArgs{Reports: reports})
	require.ErrorContains(t, err, "go test failed")
	assert.FileExists(t, filepath.Join(string(reports), "a.go.gcov"))
}

func TestWorkflow_Test_OrchestratorError(t *testing.T) {
	f := newWorkflowFixture(t)

	f.orch.EXPECT().RunTests(mock.Anything, mock.Anything, mock.Anything).Return(domain.TestRun{}, errors.New("no go.mod"))
	f.ui.EXPECT().Start(mock.Anything).Return(nil)
	f.ui.EXPECT().Close()
	f.ui.EXPECT().DisplayCoverage(m.CoverageSummary{}, mock.Anything).Return(nil)

	err := f.wf.Test(t.Context(), domain.TestArgs{Reports: "r"})
	assert.ErrorContains(t, err, "no go.mod")
}
