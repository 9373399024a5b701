package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutiny.dev/pkg/mutiny/internal/domain"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [reports-dir]",
		Short: "View a previously generated mutation report",
		Long: `View the report saved by an earlier run. The reports directory defaults to
--output; a positional argument takes precedence over it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportsPath := m.Path(viper.GetString(outputFlagName))
			if len(args) == 1 {
				reportsPath = m.Path(args[0])
			}

			return workflow.View(cmd.Context(), domain.ViewArgs{
				Reports: reportsPath,
				Top:     viper.GetInt(reportTopKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
