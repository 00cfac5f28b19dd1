package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/sigcov/internal/domain"
	m "github.com/mouse-blink/sigcov/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [report-dir]",
		Short: "View previously generated coverage reports",
		Long: `View previously generated coverage reports from a report directory.
Without an argument the [report] output directory of the configuration is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.Report.Output
			if len(args) == 1 {
				dir = args[0]
			}

			return workflow.View(cmd.Context(), domain.ViewArgs{Reports: m.Path(dir)})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
