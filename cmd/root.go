// Package cmd provides the root command and CLI setup for mutiny.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mutiny.dev/pkg/mutiny/internal/adapter"
	"mutiny.dev/pkg/mutiny/internal/controller"
	"mutiny.dev/pkg/mutiny/internal/domain"
	"mutiny.dev/pkg/mutiny/internal/domain/mutagens"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var testAdapter adapter.TestRunnerAdapter
var mutagen domain.Mutagen
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var extensionsFlag []string
var operatorsFlag []string
var topFlag int
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	mutagen = domain.NewMutagen(fsAdapter)
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		testAdapter,
		ui,
		mutagen,
	)
}

const rootLongDescription = `Mutiny is a mutation testing tool for C code bases. It introduces small
semantic defects (mutants) into source lines, re-runs your test command
against each mutant in an isolated copy of the project, and reports which
mutants your tests caught and which survived.

The test command is an opaque oracle: exit code 0 means the tests passed.`

const runLongDescription = `Run a mutation testing session against ROOT (default: current directory).

The unmodified tree is tested first; if that baseline run fails, no mutant is
run. The test command is given with --command (run through the shell) or as
arguments after "--":

  mutiny run . --command "make test"
  mutiny run ./driver -- make -C tests check`

const listLongDescription = `List source files and the number of mutations each operator would produce,
without running any tests.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "mutiny",
		Short:         "Mutation testing for C code bases",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringSliceVarP(&extensionsFlag, extensionFlagName, "e", viper.GetStringSlice(extensionsConfigKey), "source file extensions to mutate")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(extensionFlagName), extensionsConfigKey)

	cmd.PersistentFlags().StringSliceVar(&operatorsFlag, operatorFlagName, viper.GetStringSlice(operatorsConfigKey), fmt.Sprintf("mutation operators to apply (default all: %v)", mutagens.Kinds()))
	bindFlagToConfig(cmd.PersistentFlags().Lookup(operatorFlagName), operatorsConfigKey)

	cmd.PersistentFlags().IntVar(&topFlag, topFlagName, viper.GetInt(reportTopKey), "number of hotspots and survivors shown in the summary")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(topFlagName), reportTopKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "write debug logs to the log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// SIGINT and SIGTERM cancel the running session, which still writes its report.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func parseOperators(values []string) ([]m.OperatorKind, error) {
	var kinds []m.OperatorKind

	for _, value := range values {
		if value == "" {
			continue
		}

		kinds = append(kinds, m.OperatorKind(value))
	}

	if _, err := mutagens.ForKinds(kinds...); err != nil {
		return nil, err
	}

	return kinds, nil
}

func parseRoot(args []string) (m.Path, error) {
	switch len(args) {
	case 0:
		return ".", nil
	case 1:
		return m.Path(args[0]), nil
	default:
		return "", fmt.Errorf("expected at most one root directory, got %d", len(args))
	}
}
