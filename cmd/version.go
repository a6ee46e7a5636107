package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leetpc/virtbot/internal/config"
	"github.com/leetpc/virtbot/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("virtbot %s\n", displayVersion(version.Current(config.AppDir())))
		if version.BuildCommit != "" {
			fmt.Printf("commit: %s\n", version.BuildCommit)
		}
		fmt.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
