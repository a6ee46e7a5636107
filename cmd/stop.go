package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leetpc/virtbot/internal/config"
	"github.com/leetpc/virtbot/internal/launcher"
	"github.com/leetpc/virtbot/internal/logging"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Kill the game and all launcher processes",
	Long:  "Terminates GTA5, RageMP, and the Epic/Rockstar launcher helpers. Processes\nthat ignore a polite terminate get force killed on a second pass.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := config.Layout(config.AppDir())
		if err := dirs.Ensure(); err != nil {
			return err
		}
		log, err := logging.New(dirs.Logs)
		if err != nil {
			return err
		}
		defer log.Close()

		fmt.Println("Stopping game processes...")
		killed, survivors := launcher.KillAll(cmd.Context(), launcher.GameProcesses, log)

		for _, name := range killed {
			PrintSuccessSimple("killed " + name)
		}
		if len(survivors) > 0 {
			for _, name := range survivors {
				PrintWarningSimple("still running: " + name)
			}
			os.Exit(1)
		}
		if len(killed) == 0 {
			fmt.Println("Nothing to stop.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
