package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/leetpc/virtbot/api"
	"github.com/leetpc/virtbot/internal/config"
	"github.com/leetpc/virtbot/internal/logmonitor"
)

var monitorLevels []string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Tail the client log and ship notable lines to the server",
	Long:  "Follows the current daily log file, reports crash indicators with the\npreceding context lines, and forwards matching levels to the control server.\nRuns until interrupted.",
	Annotations: map[string]string{
		"skipUpdateCheck": "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		appDir := config.AppDir()
		dirs := config.Layout(appDir)
		if err := dirs.Ensure(); err != nil {
			return err
		}
		cfg, err := config.Load(appDir)
		if err != nil {
			return err
		}

		client := api.NewClient(cfg.APIURL)
		shipper := logmonitor.NewShipper(client, client.MachineName(), monitorLevels)
		monitor := logmonitor.New(dirs.Logs)

		fmt.Printf("Monitoring %s (levels: %s)\n", monitor.CurrentFile(), strings.Join(monitorLevels, ", "))

		crash := color.New(color.FgRed, color.Bold)
		sent := color.New(color.FgGreen)

		err = monitor.Run(cmd.Context(), func(raw string, entry logmonitor.Entry, contextLines []string) {
			switch shipper.Handle(cmd.Context(), raw, entry, contextLines) {
			case "crash":
				crash.Printf("CRASH %s\n", raw)
			case "sent":
				sent.Printf("sent  %s\n", raw)
			default:
				fmt.Printf("      %s\n", raw)
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	monitorCmd.Flags().StringSliceVar(&monitorLevels, "levels", logmonitor.DefaultShipLevels, "log levels to forward")
	rootCmd.AddCommand(monitorCmd)
}
