package cmd

import (
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"mutiny.dev/pkg/mutiny/internal/domain/mutagens"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build and operator information",
		Long:  "Prints the mutiny build version, the VCS revision when known, the Go toolchain and the operator kinds this build supports.",
		Run: func(cmd *cobra.Command, _ []string) {
			version, revision, goVersion := "unknown", "", ""
			if info, ok := debug.ReadBuildInfo(); ok {
				if info.Main.Version != "" {
					version = info.Main.Version
				}

				goVersion = info.GoVersion
				revision = buildSetting(info, "vcs.revision")
			}

			cmd.Println("mutiny version\t", version)

			if revision != "" {
				cmd.Println("revision\t", revision)
			}

			if goVersion != "" {
				cmd.Println("go version\t", goVersion)
			}

			kinds := make([]string, 0, len(mutagens.Kinds()))
			for _, kind := range mutagens.Kinds() {
				kinds = append(kinds, string(kind))
			}

			cmd.Println("operators\t", strings.Join(kinds, ", "))
		},
	}
}

func buildSetting(info *debug.BuildInfo, key string) string {
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}

	return ""
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
