package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/sigcov/internal/domain"
	m "github.com/mouse-blink/sigcov/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()
var mergeOutputFlag string

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge -o profile" + domain.ProfileExt + " [dumps...]",
		Short: "Merge coverage dumps into one profile",
		Long: `Merge coverage dumps and profiles into a single profile.
Counters of the same file and signal are added up. The profile can be
passed to "sigcov report" in place of the dumps.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([]m.Path, 0, len(args))
			for _, arg := range args {
				inputs = append(inputs, m.Path(arg))
			}

			return workflow.Merge(cmd.Context(), domain.MergeArgs{
				Inputs: inputs,
				Output: m.Path(mergeOutputFlag),
			})
		},
	}
	cmd.Flags().StringVarP(&mergeOutputFlag, "output", "o", "", "profile to write")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
