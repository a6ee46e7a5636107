package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/leetpc/virtbot/api"
	"github.com/leetpc/virtbot/internal/config"
	"github.com/leetpc/virtbot/internal/ipcheck"
	"github.com/leetpc/virtbot/internal/launcher"
	"github.com/leetpc/virtbot/internal/updatecheck"
	"github.com/leetpc/virtbot/internal/version"
	"github.com/leetpc/virtbot/tui"
)

var statusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the machine's farm status",
	RunE: func(cmd *cobra.Command, args []string) error {
		appDir := config.AppDir()
		dirs := config.Layout(appDir)

		poll := func() tui.StatusSnapshot {
			ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
			defer cancel()

			ipStatus, ip := ipcheck.Check(ctx)
			host, _ := os.Hostname()
			snap := tui.StatusSnapshot{
				MachineName: host,
				Version:     displayVersion(version.Current(appDir)),
				IPStatus:    string(ipStatus),
				ExternalIP:  ip,
				GameRunning: launcher.IsGameRunning(),
				RageRunning: launcher.IsRageMPRunning(),
				Supervisor:  launcher.SupervisorRunning(dirs.Data),
			}

			// Unforced, so the 24h cache keeps repeated polls cheap.
			if cfg, err := config.Load(appDir); err == nil {
				res, err := updatecheck.Check(ctx, api.NewClient(cfg.APIURL), version.Current(appDir), false)
				if err == nil && !res.Skipped {
					snap.UpdateAvailable = res.Outdated
					snap.LatestVersion = displayVersion(res.LatestVersion)
				}
			}
			return snap
		}

		if statusWatch {
			model := tui.NewStatusModel(poll)
			_, err := tea.NewProgram(model).Run()
			return err
		}

		snap := poll()
		fmt.Printf("Machine:     %s\n", snap.MachineName)
		fmt.Printf("Version:     %s\n", snap.Version)
		fmt.Printf("Update:      %s\n", updateWord(snap))
		fmt.Printf("External IP: %s\n", snap.ExternalIP)
		fmt.Printf("IP status:   %s\n", snap.IPStatus)
		fmt.Printf("Supervisor:  %s\n", runningWord(snap.Supervisor))
		fmt.Printf("RageMP:      %s\n", runningWord(snap.RageRunning))
		fmt.Printf("GTA5:        %s\n", runningWord(snap.GameRunning))
		return nil
	},
}

func runningWord(v bool) string {
	if v {
		return "running"
	}
	return "not running"
}

func updateWord(s tui.StatusSnapshot) string {
	if s.UpdateAvailable {
		return s.LatestVersion + " available"
	}
	if s.LatestVersion == "" {
		return "unknown"
	}
	return "up to date"
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "refresh continuously")
	rootCmd.AddCommand(statusCmd)
}
