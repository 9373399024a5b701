package cmd

import (
	"errors"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mutiny.dev/pkg/mutiny/internal/domain"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

var runParallelFlag int
var runCommandFlag string
var runTimeoutFlag int
var runRetriesFlag int
var runTimeoutKilledFlag bool

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [root] [-- test-command [args...]]",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, argv := splitAtDash(args, cmd.ArgsLenAtDash())

			root, err := parseRoot(positional)
			if err != nil {
				return err
			}

			command, err := parseTestCommand(argv, viper.GetString(runCommandKey))
			if err != nil {
				return err
			}

			kinds, err := parseOperators(viper.GetStringSlice(operatorsConfigKey))
			if err != nil {
				return err
			}

			session := m.Session{
				Root:                  root,
				Extensions:            viper.GetStringSlice(extensionsConfigKey),
				Exclude:               viper.GetStringSlice(excludeConfigKey),
				Operators:             kinds,
				Command:               command,
				Parallelism:           viper.GetInt(runParallelConfigKey),
				Timeout:               time.Duration(viper.GetInt64(mutationTimeoutKey)) * time.Second,
				RetryBudget:           viper.GetInt(retryBudgetKey),
				TimeoutCountsAsKilled: viper.GetBool(timeoutKilledKey),
				WorkspaceDir:          m.Path(viper.GetString(workspaceDirKey)),
				WorkspaceIgnore:       viper.GetStringSlice(workspaceIgnoreKey),
			}

			return workflow.Test(cmd.Context(), domain.TestArgs{
				Session: session,
				Reports: m.Path(viper.GetString(outputFlagName)),
				Top:     viper.GetInt(reportTopKey),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&runCommandFlag, commandFlagName, "c", viper.GetString(runCommandKey), "test command, run through the shell; exit code 0 means tests passed")
	bindFlagToConfig(cmd.Flags().Lookup(commandFlagName), runCommandKey)

	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of parallel workers for mutation testing")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().IntVarP(&runTimeoutFlag, timeoutFlagName, "t", viper.GetInt(mutationTimeoutKey), "per-mutant timeout in seconds")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), mutationTimeoutKey)

	cmd.Flags().IntVar(&runRetriesFlag, retriesFlagName, viper.GetInt(retryBudgetKey), "retries for workspace or launch failures before a mutant is errored")
	bindFlagToConfig(cmd.Flags().Lookup(retriesFlagName), retryBudgetKey)

	cmd.Flags().BoolVar(&runTimeoutKilledFlag, timeoutKilledFlagName, viper.GetBool(timeoutKilledKey), "count timed-out mutants as detected in the score")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutKilledFlagName), timeoutKilledKey)
}

func splitAtDash(args []string, dash int) ([]string, []string) {
	if dash < 0 || dash > len(args) {
		return args, nil
	}

	return args[:dash], args[dash:]
}

// parseTestCommand prefers an argv given after "--" over the shell command
// string from flags or config.
func parseTestCommand(argv []string, shellCommand string) ([]string, error) {
	if len(argv) > 0 {
		return argv, nil
	}

	shellCommand = strings.TrimSpace(shellCommand)
	if shellCommand == "" {
		return nil, errors.New("no test command: pass --command or arguments after --")
	}

	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C", shellCommand}, nil
	}

	return []string{"/bin/sh", "-c", shellCommand}, nil
}
