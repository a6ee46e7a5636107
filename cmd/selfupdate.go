package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/leetpc/virtbot/internal/config"
	"github.com/leetpc/virtbot/internal/version"
)

func getCurrentBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

// self-update installs from GitHub releases and exists as a fallback for
// machines that cannot reach the control server. Ordinary updates go
// through `virtbot update`.
var selfUpdateCmd = &cobra.Command{
	Use:   "self-update",
	Short: "Update virtbot from GitHub releases",
	Annotations: map[string]string{
		"skipUpdateCheck": "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("VIRTBOT_NO_SELFUPDATE") == "1" {
			fmt.Println("Self-update disabled by VIRTBOT_NO_SELFUPDATE=1")
			return nil
		}

		appDir := config.AppDir()
		cfg, err := config.Load(appDir)
		if err != nil {
			return err
		}

		currentVersion := strings.TrimSpace(version.BuildVersion)
		if currentVersion == "dev" || currentVersion == "" {
			fmt.Println("Development build detected. Cannot check for updates.")
			fmt.Printf("Download a release from https://github.com/%s/releases\n", cfg.ReleaseSlug)
			return nil
		}

		fmt.Printf("Current version: %s\n", currentVersion)
		fmt.Println("Checking GitHub releases...")

		ctx := cmd.Context()
		slug := selfupdate.ParseSlug(cfg.ReleaseSlug)

		latest, found, err := selfupdate.DetectLatest(ctx, slug)
		if err != nil {
			return fmt.Errorf("error occurred while detecting version: %w", err)
		}
		if !found {
			return fmt.Errorf("no release found for %s/%s", runtime.GOOS, runtime.GOARCH)
		}

		if latest.LessOrEqual(currentVersion) {
			fmt.Printf("Already up to date (version %s)\n", currentVersion)
			return nil
		}

		fmt.Printf("New version available: %s\n", latest.Version())
		fmt.Println("Downloading update...")

		exe, err := getCurrentBinaryPath()
		if err != nil {
			return fmt.Errorf("could not locate executable path: %w", err)
		}

		if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
			return fmt.Errorf("error occurred while updating binary: %w", err)
		}

		fmt.Printf("Successfully updated to version %s\n", latest.Version())
		fmt.Println("Restart the client to use the new version")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selfUpdateCmd)
}
