package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/sigcov/internal/domain"
	domainmocks "github.com/mouse-blink/sigcov/internal/domain/mocks"
	m "github.com/mouse-blink/sigcov/internal/model"
)

func TestReportCmd_Defaults(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newReportCmd())
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Report", mock.Anything, mock.MatchedBy(func(args domain.ReportArgs) bool {
		return args.Output == m.Path("sigcov-report") &&
			len(args.Inputs) == 2 &&
			args.Inputs[0] == m.Path("maps") &&
			args.Inputs[1] == m.Path("coverage.sigd") &&
			args.Stdout == out &&
			!args.OmitUnexecuted
	})).Return(nil)

	cmd.SetArgs([]string{"report", "maps", "coverage.sigd"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestReportCmd_Flags(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newReportCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Report", mock.Anything, mock.MatchedBy(func(args domain.ReportArgs) bool {
		return args.Output == m.Path("-") &&
			args.Gcov.SimpleHitCount &&
			args.Gcov.PreservePaths &&
			args.OmitUnexecuted &&
			args.Jobs == 4
	})).Return(nil)

	cmd.SetArgs([]string{"report", "-o", "-", "--simple-hitcount", "--preserve-paths", "--omit-unexecuted", "-j", "4", "in"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestReportCmd_RequiresInputs(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newReportCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	cmd.SetArgs([]string{"report"})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestNewReportCmd(t *testing.T) {
	cmd := newReportCmd()

	assert.Equal(t, "report [inputs...]", cmd.Use)
	assert.Equal(t, reportLongDescription, cmd.Long)
	assert.Contains(t, cmd.Long, domain.MapExt)

	for _, name := range []string{"output", "simple-hitcount", "omit-unexecuted", "preserve-paths", "jobs"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
