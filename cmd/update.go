package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leetpc/virtbot/api"
	"github.com/leetpc/virtbot/internal/autoupdate"
	"github.com/leetpc/virtbot/internal/config"
	"github.com/leetpc/virtbot/internal/updatecheck"
	"github.com/leetpc/virtbot/internal/version"
	"github.com/leetpc/virtbot/tui"
)

var updateNoRestart bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the client to the latest build",
	Long:  "In a git checkout the update is a pull when the branch is behind origin.\nRelease installs ask the control server for a newer build and swap the\nbinary in place. The client relaunches after a successful update unless\n--no-restart is given.",
	Annotations: map[string]string{
		"skipUpdateCheck": "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("VIRTBOT_NO_SELFUPDATE") == "1" {
			return fmt.Errorf("self-update is disabled (VIRTBOT_NO_SELFUPDATE=1)")
		}
		return runUpdate(cmd.Context(), !updateNoRestart)
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateNoRestart, "no-restart", false, "do not restart the client after a successful update")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(parentCtx context.Context, restart bool) error {
	appDir := config.AppDir()

	if err := autoupdate.FinalizeStagedSwap(); err != nil {
		PrintWarning(fmt.Sprintf("failed to finalize staged update: %v", err))
	}

	if autoupdate.InGitWorkTree(appDir) {
		return runGitUpdate(parentCtx, appDir, restart)
	}
	return runReleaseUpdate(parentCtx, appDir, restart)
}

func runGitUpdate(parentCtx context.Context, appDir string, restart bool) error {
	fmt.Println("Git checkout detected, checking origin...")

	ctx, cancel := context.WithTimeout(parentCtx, 3*time.Minute)
	defer cancel()

	behind, err := autoupdate.GitBehind(ctx, appDir)
	if err != nil {
		return fmt.Errorf("git update check failed: %w", err)
	}
	if !behind {
		PrintSuccessSimple("Already up to date.")
		return nil
	}

	fmt.Println("Branch is behind origin, pulling...")
	if err := autoupdate.GitPull(ctx, appDir); err != nil {
		return fmt.Errorf("git pull failed: %w", err)
	}
	PrintSuccess("Updated from origin.")

	if restart {
		return autoupdate.Restart(appDir)
	}
	fmt.Println("Restart the client to pick up the new code.")
	return nil
}

func runReleaseUpdate(parentCtx context.Context, appDir string, restart bool) error {
	cfg, err := config.Load(appDir)
	if err != nil {
		return err
	}

	current := version.Current(appDir)
	fmt.Printf("Current version: %s\n", displayVersion(current))
	fmt.Println("Checking for updates...")

	ctx, cancel := context.WithTimeout(parentCtx, 5*time.Minute)
	defer cancel()

	res, err := updatecheck.Check(ctx, api.NewClient(cfg.APIURL), current, true)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if res.Skipped {
		fmt.Printf("Update check skipped (%s). Use 'virtbot self-update' for release installs.\n", res.Reason)
		return nil
	}
	if !res.Outdated {
		PrintSuccessSimple(fmt.Sprintf("Already up to date (%s).", displayVersion(current)))
		return nil
	}

	fmt.Printf("New version available: %s\n", displayVersion(res.LatestVersion))

	if err := downloadWithSpinner(ctx, autoupdate.Source{
		Version:  res.LatestVersion,
		AssetURL: res.DownloadURL,
		SHA256:   res.SHA256,
	}); err != nil {
		return err
	}

	if runtime.GOOS == "windows" {
		fmt.Println("Update staged. It is applied on the next run.")
	} else {
		PrintSuccess(fmt.Sprintf("Updated to %s.", displayVersion(res.LatestVersion)))
	}

	if restart {
		return autoupdate.Restart(appDir)
	}
	return nil
}

// downloadWithSpinner runs the download behind a busy view. Pressing 'q'
// cancels the download and surfaces as a cancellation, not a failure.
func downloadWithSpinner(parentCtx context.Context, src autoupdate.Source) error {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	p := tea.NewProgram(tui.NewBusyModel("Downloading update " + displayVersion(src.Version)))

	result := make(chan error, 1)
	go func() {
		result <- autoupdate.PerformUpdate(ctx, src)
		p.Send(tui.BusyDoneMsg{})
	}()

	model, runErr := p.Run()
	tui.ResetLine(os.Stdout)
	tui.ShowCursor(os.Stdout)
	if runErr != nil {
		cancel()
		<-result
		return runErr
	}

	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("update failed: %w", err)
		}
		return nil
	default:
	}

	if bm, ok := model.(tui.BusyModel); ok && bm.Quitting {
		cancel()
		<-result
		return tui.NewCancellationError("update cancelled")
	}

	err := <-result
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	return nil
}
