package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/sigcov/internal/domain"
	domainmocks "github.com/mouse-blink/sigcov/internal/domain/mocks"
	m "github.com/mouse-blink/sigcov/internal/model"
)

func TestMergeCmd(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newMergeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.EXPECT().Merge(mock.Anything, domain.MergeArgs{
		Inputs: []m.Path{"a.sigd", "b.sigd"},
		Output: "all.sigp",
	}).Return(nil)

	cmd.SetArgs([]string{"merge", "-o", "all.sigp", "a.sigd", "b.sigd"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestMergeCmd_RequiresOutput(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newMergeCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	cmd.SetArgs([]string{"merge", "a.sigd"})
	err := cmd.Execute()
	require.Error(t, err)
}
