package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const forceFlagName = "force"

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a mutiny.yaml with the current defaults",
		Long: `Write mutiny.yaml into the current directory. The file holds every
configuration key (paths, operators, run and log settings) with the value
mutiny would use right now, so it can be trimmed and edited by hand.

An existing file is left alone unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			write := viper.SafeWriteConfigAs
			if force {
				write = viper.WriteConfigAs
			}

			if err := write(targetPath); err != nil {
				return fmt.Errorf("write %s: %w", targetPath, err)
			}

			cmd.Printf("wrote %s (config version %d)\n", targetPath, viper.GetInt(configVersionKey))

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, forceFlagName, false, "overwrite an existing "+configFileName)

	return cmd
}

func init() {
	rootCmd.AddCommand(initCmd)
}
