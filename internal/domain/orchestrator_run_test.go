package domain

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/sigcov/internal/adapter"
	m "github.com/mouse-blink/sigcov/internal/model"
)

func TestOrchestrator_RunTests_JumpsExample(t *testing.T) {
	if testing.Short() {
		t.Skip("runs go test on an example module")
	}

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}

	project, err := filepath.Abs(filepath.Join("..", "..", "examples", "jumps"))
	require.NoError(t, err)

	fs := adapter.NewLocalSourceFSAdapter()
	orch := NewOrchestrator(fs, adapter.NewLocalTestRunnerAdapter(), adapter.NewLocalGoFileAdapter(), nil)

	run, err := orch.RunTests(t.Context(), TestArgs{
		Project: m.Path(project),
		Reports: m.Path(t.TempDir()),
	}, nil)
	require.NoError(t, err)
	require.NoError(t, run.TestErr, "%s", run.Output)
	assert.Equal(t, 1, run.Instrumented)

	source := filepath.Join(project, "main.go")

	content, err := os.ReadFile(filepath.Join(string(run.Maps), "main.go"+MapExt))
	require.NoError(t, err)

	sms, err := ReadSignalMaps(bytes.NewReader(content))
	require.NoError(t, err)

	maps := SourceFileMaps{}
	for _, sm := range sms {
		require.NoError(t, maps.Add(sm))
	}

	dump, err := os.ReadFile(string(run.Dump))
	require.NoError(t, err)

	data := NewCoverageData(nil)
	skipped, err := data.Read(bytes.NewReader(dump), string(run.Dump))
	require.NoError(t, err)
	require.Zero(t, skipped)

	src, err := os.ReadFile(source)
	require.NoError(t, err)

	var report bytes.Buffer
	_, err = NewGcovWriter(maps[m.Path(source)], data, GcovOptions{}).Write(&report, bytes.NewReader(src))
	require.NoError(t, err)

	count := func(text string) string {
		for _, line := range strings.Split(report.String(), "\n") {
			if len(line) > 12 && strings.TrimSpace(line[12:]) == text {
				return strings.TrimSpace(line[:5])
			}
		}

		t.Fatalf("line %q not in report:\n%s", text, report.String())

		return ""
	}

	assert.Equal(t, "1", count("panic(errNegative)"))
	assert.Equal(t, "1", count(`return "zero"`))
	assert.Equal(t, "#####", count(`return "huge"`))
	assert.Equal(t, "1", count("goto again"))
	assert.Equal(t, "#####", count("fmt.Println(sumUntil(10, 5), sumOdd(6))"), "main never runs under go test")
}
