package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leetpc/virtbot/internal/config"
	"github.com/leetpc/virtbot/internal/packaging"
	"github.com/leetpc/virtbot/internal/version"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the distributable client into dist/",
	Long:  "Runs the configured build command (if any), stages the client binary as\ndist/" + packaging.ArtifactBase + ", and writes checksums and a manifest for the update server.",
	Annotations: map[string]string{
		"skipUpdateCheck": "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		appDir := config.AppDir()
		dirs := config.Layout(appDir)
		cfg, err := config.Load(appDir)
		if err != nil {
			return err
		}

		fmt.Println("Building VirtBot client...")

		artifact, buildErr := packaging.Build(cmd.Context(), packaging.Options{
			AppDir:  appDir,
			DistDir: dirs.Dist,
			Command: cfg.Build.Command,
			Version: version.Current(appDir),
			Commit:  version.BuildCommit,
		})
		if buildErr != nil {
			PrintError(buildErr)
		}

		// The artifact on disk is the contract, not the build's exit
		// status. A stale dist from a failed build must not pass.
		if _, err := packaging.Verify(dirs.Dist); err != nil {
			fmt.Fprintln(os.Stderr, "BUILD FAILED!")
			PrintError(err)
			os.Exit(1)
		}
		if buildErr != nil {
			os.Exit(1)
		}

		PrintSuccess(fmt.Sprintf("Build complete: %s", artifact))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
