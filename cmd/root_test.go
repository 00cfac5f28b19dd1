package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/sigcov/internal/adapter"
	"github.com/mouse-blink/sigcov/internal/domain"
	domainmocks "github.com/mouse-blink/sigcov/internal/domain/mocks"
	m "github.com/mouse-blink/sigcov/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sigcov.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRootCmd_ConfigFile(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newReportCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	path := writeConfig(t, `
[report]
output = "from-config"
simple_hitcount = true
jobs = 6
`)

	mockWorkflow.On("Report", mock.Anything, mock.MatchedBy(func(args domain.ReportArgs) bool {
		return args.Output == m.Path("from-config") &&
			args.Gcov.SimpleHitCount &&
			args.Jobs == 6
	})).Return(nil)

	cmd.SetArgs([]string{"--config", path, "report", "in"})
	err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestRootCmd_FlagsOverrideConfig(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newReportCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	path := writeConfig(t, `
[report]
output = "from-config"
simple_hitcount = true
`)

	mockWorkflow.On("Report", mock.Anything, mock.MatchedBy(func(args domain.ReportArgs) bool {
		return args.Output == m.Path("from-flag") && !args.Gcov.SimpleHitCount
	})).Return(nil)

	cmd.SetArgs([]string{"-c", path, "report", "-o", "from-flag", "--simple-hitcount=false", "in"})
	err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestRootCmd_ConfigJumps(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	path := writeConfig(t, `
[instrument]
exclude = ["_gen\\.go$"]

[jumps]
calls = "all"
exempt = ["fmt.*"]
`)

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.ListArgs) bool {
		return args.Policy.Calls == domain.CallsAll &&
			len(args.Policy.Exempt) == 1 &&
			len(args.Exclude) == 2 &&
			args.Exclude[0] == `_gen\.go$` &&
			args.Exclude[1] == "^vendor/"
	})).Return(nil)

	cmd.SetArgs([]string{"--config", path, "list", "-x", "^vendor/"})
	err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	path := writeConfig(t, "[report]\ncolour = true\n")

	cmd.SetArgs([]string{"--config", path, "list"})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Execute() expected error for unknown configuration key")
	}
}

func TestRootCmd_Verbose(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() {
		workflow = originalWorkflow
		logLevel.Set(slog.LevelInfo)
	}()

	mockWorkflow.On("List", mock.Anything, mock.Anything).Return(nil)

	cmd.SetArgs([]string{"-v", "list"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, slog.LevelDebug, logLevel.Level())
}

func TestConfigure_ReplacesFrontEnds(t *testing.T) {
	originalGo, originalC := frontEnds.Go, frontEnds.C
	defer func() {
		frontEnds.Go, frontEnds.C = originalGo, originalC
		configFlag = ""
	}()

	configFlag = writeConfig(t, "[instrument]\ntypecheck = false\ninclude_paths = [\"include\"]\n")

	require.NoError(t, configure())
	assert.False(t, cfg.Instrument.TypeCheck)
	assert.Equal(t, []string{"include"}, cfg.Instrument.IncludePaths)
	assert.NotNil(t, frontEnds.Go)
	assert.NotNil(t, frontEnds.C)
	assert.IsType(t, &adapter.FrontEnds{}, frontEnds)
}

func TestParsePaths(t *testing.T) {
	assert.Equal(t, []m.Path{"./..."}, parsePaths(nil))
	assert.Equal(t, []m.Path{"./cmd", "./pkg"}, parsePaths([]string{"./cmd", "./pkg"}))
}

func TestOption(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var flagValue string
	cmd.Flags().StringVar(&flagValue, "output", "", "")

	assert.Equal(t, "config", option(cmd, "output", flagValue, "config"))

	require.NoError(t, cmd.Flags().Set("output", ""))
	assert.Equal(t, "", option(cmd, "output", flagValue, "config"))
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Use != "sigcov" {
		t.Errorf("newRootCmd() Use = %v, want %v", cmd.Use, "sigcov")
	}
	if cmd.Short == "" {
		t.Error("newRootCmd() Short should not be empty")
	}
	if cmd.Long == "" {
		t.Error("newRootCmd() Long should not be empty")
	}

	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("newRootCmd() missing --config flag")
	}
	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("newRootCmd() missing --verbose flag")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"instrument", "list", "test", "report", "merge", "view"} {
		if !names[want] {
			t.Errorf("rootCmd missing %q command", want)
		}
	}
}

func TestInit(t *testing.T) {
	// Test that init() created all the necessary instances
	if ui == nil {
		t.Error("init() ui is nil")
	}
	if fsAdapter == nil {
		t.Error("init() fsAdapter is nil")
	}
	if testAdapter == nil {
		t.Error("init() testAdapter is nil")
	}
	if reportStore == nil {
		t.Error("init() reportStore is nil")
	}
	if frontEnds == nil {
		t.Error("init() frontEnds is nil")
	}
	if orchestrator == nil {
		t.Error("init() orchestrator is nil")
	}
	if workflow == nil {
		t.Error("init() workflow is nil")
	}
}

func TestExecute(t *testing.T) {
	originalRootCmd := rootCmd

	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})
	mockCmd.SetArgs([]string{})

	rootCmd = mockCmd

	Execute()

	rootCmd = originalRootCmd
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		mockCmd.SetArgs([]string{})
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute() // exits with 1
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected process to exit with error")
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		if exitErr.ExitCode() != 1 {
			t.Errorf("Expected exit code 1, got %d", exitErr.ExitCode())
		}
	} else {
		t.Errorf("Expected exec.ExitError, got %T", err)
	}

	if !strings.Contains(string(output), "error occurred") {
		t.Logf("Output: %s", output)
	}
}
