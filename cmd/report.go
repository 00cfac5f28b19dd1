package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/sigcov/internal/domain"
	m "github.com/mouse-blink/sigcov/internal/model"
)

const reportLongDescription = `Generate gcov-style line reports from signal maps and coverage dumps.

Inputs are signal maps (` + domain.MapExt + `), dumps (` + domain.DumpExt + `) and merged
profiles (` + domain.ProfileExt + `). Directories are scanned for all three. One
.gcov file is written per source file, and index.yaml summarizes the run
for "sigcov view". Use "-o -" to print the reports to stdout.

A source whose map cannot be read is skipped; the others are still
reported.`

// reportCmd represents the report command.
var reportCmd = newReportCmd()
var (
	reportOutputFlag         string
	reportSimpleHitFlag      bool
	reportOmitUnexecutedFlag bool
	reportPreservePathsFlag  bool
	reportJobsFlag           int
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [inputs...]",
		Short: "Write gcov reports from maps and dumps",
		Long:  reportLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := cfg.Report
			gcov := cfg.Gcov()
			gcov.SimpleHitCount = option(cmd, "simple-hitcount", reportSimpleHitFlag, gcov.SimpleHitCount)
			gcov.PreservePaths = option(cmd, "preserve-paths", reportPreservePathsFlag, gcov.PreservePaths)

			return workflow.Report(cmd.Context(), domain.ReportArgs{
				Inputs:         parsePaths(args),
				Output:         m.Path(option(cmd, "output", reportOutputFlag, rc.Output)),
				Gcov:           gcov,
				OmitUnexecuted: option(cmd, "omit-unexecuted", reportOmitUnexecutedFlag, rc.OmitUnexecuted),
				Jobs:           option(cmd, "jobs", reportJobsFlag, rc.Jobs),
				Stdout:         cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringVarP(&reportOutputFlag, "output", "o", "", "output directory for reports, - for stdout")
	cmd.Flags().BoolVar(&reportSimpleHitFlag, "simple-hitcount", false, "print 0 instead of ##### for unexecuted lines")
	cmd.Flags().BoolVar(&reportOmitUnexecutedFlag, "omit-unexecuted", false, "skip sources without any executed line")
	cmd.Flags().BoolVar(&reportPreservePathsFlag, "preserve-paths", false, "name reports after the full source path")
	cmd.Flags().IntVarP(&reportJobsFlag, "jobs", "j", 0, "number of reports written in parallel (default: number of CPUs)")

	return cmd
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
