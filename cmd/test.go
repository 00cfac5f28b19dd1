package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/sigcov/internal/domain"
	m "github.com/mouse-blink/sigcov/internal/model"
)

const testLongDescription = `Run the tests of a Go module against instrumented sources.

The module is copied to a temporary workspace, its non-test sources are
instrumented in place and the counter runtime is vendored into the copy.
Test packages without a TestMain get one that dumps the counters when
the tests finish. After go test returns, gcov reports are written to the
reports directory together with the signal maps and the dump.

Packages are passed to go test unchanged (default: ./...).`

// testCmd represents the test command.
var testCmd = newTestCmd()
var (
	testProjectFlag       string
	testReportsFlag       string
	testExcludeFlags      []string
	testKeepFlag          bool
	testSimpleHitFlag     bool
	testPreservePathsFlag bool
	testCallsFlag         string
	testJobsFlag          int
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [packages...]",
		Short: "Run go test with coverage signals and report the result",
		Long:  testLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := jumpPolicy(cmd, testCallsFlag)
			if err != nil {
				return err
			}

			gcov := cfg.Gcov()
			gcov.SimpleHitCount = option(cmd, "simple-hitcount", testSimpleHitFlag, gcov.SimpleHitCount)
			gcov.PreservePaths = option(cmd, "preserve-paths", testPreservePathsFlag, gcov.PreservePaths)

			return workflow.Test(cmd.Context(), domain.TestArgs{
				Project:  m.Path(testProjectFlag),
				Packages: args,
				Reports:  m.Path(option(cmd, "reports", testReportsFlag, cfg.Report.Output)),
				Exclude:  append(append([]string(nil), cfg.Instrument.Exclude...), testExcludeFlags...),
				Policy:   policy,
				Gcov:     gcov,
				Jobs:     option(cmd, "jobs", testJobsFlag, cfg.Report.Jobs),
				Keep:     testKeepFlag,
			})
		},
	}
	cmd.Flags().StringVar(&testProjectFlag, "project", ".", "directory inside the Go module to test")
	cmd.Flags().StringVarP(&testReportsFlag, "reports", "r", "", "output directory for reports, maps and the dump")
	cmd.Flags().StringArrayVarP(&testExcludeFlags, "exclude", "x", nil, "exclude files matching regex from instrumentation (can be repeated)")
	cmd.Flags().BoolVar(&testKeepFlag, "keep", false, "keep the temporary workspace")
	cmd.Flags().BoolVar(&testSimpleHitFlag, "simple-hitcount", false, "print 0 instead of ##### for unexecuted lines")
	cmd.Flags().BoolVar(&testPreservePathsFlag, "preserve-paths", false, "name reports after the full source path")
	cmd.Flags().StringVar(&testCallsFlag, "calls", "", "which calls end a region: ignore, non-returning or all")
	cmd.Flags().IntVarP(&testJobsFlag, "jobs", "j", 0, "number of reports written in parallel (default: number of CPUs)")

	return cmd
}

func init() {
	rootCmd.AddCommand(testCmd)
}
