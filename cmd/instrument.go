package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/sigcov/internal/domain"
	m "github.com/mouse-blink/sigcov/internal/model"
)

const instrumentLongDescription = `Instrument Go, C and C++ sources for coverage.

Every instrumented source is written below the output directory with the
same relative path, together with a signal map (` + domain.MapExt + `) describing
the counters inserted into it. Use "-o -" to print instrumented sources
to stdout instead.

Go sources import the counter runtime from --runtime; C and C++ sources
include sigcovrt.h, which is written next to them with sigcovrt.c.`

// instrumentCmd represents the instrument command.
var instrumentCmd = newInstrumentCmd()
var (
	instrumentOutputFlag      string
	instrumentMapsFlag        string
	instrumentExcludeFlags    []string
	instrumentAutoDumpFlag    bool
	instrumentOmitSourcesFlag bool
	instrumentOmitMapsFlag    bool
	instrumentRuntimeFlag     string
	instrumentCallsFlag       string
	instrumentJobsFlag        int
)

func newInstrumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instrument [paths...]",
		Short: "Instrument sources and write signal maps",
		Long:  instrumentLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := jumpPolicy(cmd, instrumentCallsFlag)
			if err != nil {
				return err
			}

			ic := cfg.Instrument

			return workflow.Instrument(cmd.Context(), domain.InstrumentArgs{
				ListArgs: domain.ListArgs{
					Paths:   parsePaths(args),
					Exclude: append(append([]string(nil), ic.Exclude...), instrumentExcludeFlags...),
					Policy:  policy,
				},
				Options: domain.InstrumentOptions{
					Output:      m.Path(option(cmd, "output", instrumentOutputFlag, ic.Output)),
					Maps:        m.Path(option(cmd, "maps", instrumentMapsFlag, ic.Maps)),
					AutoDump:    option(cmd, "auto-dump", instrumentAutoDumpFlag, ic.AutoDump),
					OmitSources: option(cmd, "omit-sources", instrumentOmitSourcesFlag, ic.OmitSources),
					OmitMaps:    option(cmd, "omit-maps", instrumentOmitMapsFlag, ic.OmitMaps),
					Runtime:     option(cmd, "runtime", instrumentRuntimeFlag, ic.RuntimeImport),
				},
				Threads: instrumentJobsFlag,
			})
		},
	}
	cmd.Flags().StringVarP(&instrumentOutputFlag, "output", "o", "", "output directory for instrumented sources, - for stdout")
	cmd.Flags().StringVar(&instrumentMapsFlag, "maps", "", "output directory for signal maps (default: the output directory)")
	cmd.Flags().StringArrayVarP(&instrumentExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")
	cmd.Flags().BoolVar(&instrumentAutoDumpFlag, "auto-dump", false, "dump counters when main returns")
	cmd.Flags().BoolVar(&instrumentOmitSourcesFlag, "omit-sources", false, "write signal maps only")
	cmd.Flags().BoolVar(&instrumentOmitMapsFlag, "omit-maps", false, "write instrumented sources only")
	cmd.Flags().StringVar(&instrumentRuntimeFlag, "runtime", "", "import path of the Go counter runtime")
	cmd.Flags().StringVar(&instrumentCallsFlag, "calls", "", "which calls end a region: ignore, non-returning or all")
	cmd.Flags().IntVarP(&instrumentJobsFlag, "jobs", "j", 0, "number of files instrumented in parallel (default: number of CPUs)")

	return cmd
}

func init() {
	rootCmd.AddCommand(instrumentCmd)
}
