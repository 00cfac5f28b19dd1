package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/sigcov/internal/domain"
)

const listLongDescription = `List source files and the number of coverage signals each would get.

Sources are parsed and instrumented in memory only; nothing is written.
The counts split into signals, implicit regions (ends of functions and
loop bodies) and regions declined because they are unreachable.`

// listCmd represents the list command.
var listCmd = newListCmd()
var listExcludeFlags []string
var listCallsFlag string

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source files and signal counts",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := jumpPolicy(cmd, listCallsFlag)
			if err != nil {
				return err
			}

			return workflow.List(cmd.Context(), domain.ListArgs{
				Paths:   parsePaths(args),
				Exclude: append(append([]string(nil), cfg.Instrument.Exclude...), listExcludeFlags...),
				Policy:  policy,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&listExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")
	cmd.Flags().StringVar(&listCallsFlag, "calls", "", "which calls end a region: ignore, non-returning or all")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
