package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutiny.dev/pkg/mutiny/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [root]",
		Short: "List source files and mutation counts",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := parseRoot(args)
			if err != nil {
				return err
			}

			kinds, err := parseOperators(viper.GetStringSlice(operatorsConfigKey))
			if err != nil {
				return err
			}

			return workflow.Estimate(cmd.Context(), domain.EstimateArgs{
				Root:       root,
				Extensions: viper.GetStringSlice(extensionsConfigKey),
				Exclude:    viper.GetStringSlice(excludeConfigKey),
				Operators:  kinds,
				Threads:    viper.GetInt(runParallelConfigKey),
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
