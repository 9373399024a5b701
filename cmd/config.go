package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"mutiny.dev/pkg/mutiny/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "mutiny"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName        = "output"
	excludeFlagName       = "exclude"
	extensionFlagName     = "ext"
	operatorFlagName      = "operator"
	topFlagName           = "top"
	verboseFlagName       = "verbose"
	commandFlagName       = "command"
	runParallelFlagName   = "parallel"
	timeoutFlagName       = "timeout"
	retriesFlagName       = "retries"
	timeoutKilledFlagName = "timeout-killed"

	excludeConfigKey       = "paths.exclude"
	extensionsConfigKey    = "paths.extensions"
	operatorsConfigKey     = "operators"
	runCommandKey          = "run.command"
	runParallelConfigKey   = "run.parallel"
	mutationTimeoutKey     = "run.mutation_timeout"
	retryBudgetKey         = "run.retry_budget"
	timeoutKilledKey       = "run.timeout_counts_as_killed"
	workspaceDirKey        = "workspace.dir"
	workspaceIgnoreKey     = "workspace.ignore"
	reportTopKey           = "report.top"
	defaultMutationTimeout = domain.DefaultTimeout
	defaultRetryBudget     = domain.DefaultRetryBudget
	defaultTimeoutKilled   = true
	defaultReportTop       = 10

	defaultReportsDir = ".mutiny-reports"

	envPrefix = "MUTINY"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutiny.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	defaultExtensions      = []string{".c", ".h"}
	defaultWorkspaceIgnore = []string{".git", "node_modules", defaultReportsDir}
	defaultRunParallel     = runtime.NumCPU()
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(excludeConfigKey, []string{})
	viper.SetDefault(extensionsConfigKey, defaultExtensions)
	viper.SetDefault(operatorsConfigKey, []string{})
	viper.SetDefault(runCommandKey, "")
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(mutationTimeoutKey, int64(defaultMutationTimeout.Seconds()))
	viper.SetDefault(retryBudgetKey, defaultRetryBudget)
	viper.SetDefault(timeoutKilledKey, defaultTimeoutKilled)
	viper.SetDefault(workspaceDirKey, "")
	viper.SetDefault(workspaceIgnoreKey, defaultWorkspaceIgnore)
	viper.SetDefault(reportTopKey, defaultReportTop)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		_, _ = fmt.Fprintf(os.Stderr, "mutiny: ignoring unreadable config %s: %v\n", configFileName, err)
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
