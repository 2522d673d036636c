package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"

	"clar.dev/pkg/clargen/internal/adapter"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the clargen build version, the Go version it was built with and the cache format it reads and writes.",
		Run: func(cmd *cobra.Command, _ []string) {
			version := "unknown"
			goVersion := "unknown"

			if info, ok := debug.ReadBuildInfo(); ok {
				if info.Main.Version != "" {
					version = info.Main.Version
				}

				goVersion = info.GoVersion
			}

			cmd.Printf("clargen version\t%s\n", version)
			cmd.Printf("go version\t%s\n", goVersion)
			cmd.Printf("cache format\t%d\n", adapter.CacheFormatVersion)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
