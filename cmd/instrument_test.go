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

func TestInstrumentCmd_Defaults(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newInstrumentCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.EXPECT().Instrument(mock.Anything, mock.MatchedBy(func(args domain.InstrumentArgs) bool {
		return args.Options.Output == m.Path("sigcov-out") &&
			args.Options.Maps == "" &&
			!args.Options.AutoDump &&
			args.Options.Runtime == "" &&
			args.Threads == 0 &&
			len(args.Paths) == 1 && args.Paths[0] == m.Path("./...")
	})).Return(nil)

	cmd.SetArgs([]string{"instrument"})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestInstrumentCmd_Flags(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newInstrumentCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.EXPECT().Instrument(mock.Anything, mock.MatchedBy(func(args domain.InstrumentArgs) bool {
		o := args.Options

		return o.Output == m.Path("-") &&
			o.Maps == m.Path("maps") &&
			o.AutoDump &&
			o.OmitSources &&
			o.OmitMaps &&
			o.Runtime == "example.com/rt" &&
			args.Policy.Calls == domain.CallsIgnore &&
			args.Threads == 3 &&
			len(args.Exclude) == 2 &&
			len(args.Paths) == 2
	})).Return(nil)

	cmd.SetArgs([]string{
		"instrument",
		"-o", "-",
		"--maps", "maps",
		"--auto-dump",
		"--omit-sources",
		"--omit-maps",
		"--runtime", "example.com/rt",
		"--calls", "ignore",
		"-j", "3",
		"-x", "_gen\\.go$",
		"-x", "^vendor/",
		"./cmd", "./pkg",
	})
	err := cmd.Execute()
	require.NoError(t, err)
}

func TestNewInstrumentCmd(t *testing.T) {
	cmd := newInstrumentCmd()

	assert.Equal(t, "instrument [paths...]", cmd.Use)
	assert.Equal(t, instrumentLongDescription, cmd.Long)

	for _, name := range []string{"output", "maps", "exclude", "auto-dump", "omit-sources", "omit-maps", "runtime", "calls", "jobs"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
	assert.Equal(t, "j", cmd.Flags().Lookup("jobs").Shorthand)
}
