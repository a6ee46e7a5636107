package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leetpc/virtbot/api"
	"github.com/leetpc/virtbot/internal/autoupdate"
	"github.com/leetpc/virtbot/internal/config"
	"github.com/leetpc/virtbot/internal/updatecheck"
	"github.com/leetpc/virtbot/internal/version"
	"github.com/leetpc/virtbot/tui"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "virtbot",
	Short:         "LeetPC GTA5RP farm client",
	Long:          "virtbot keeps a farm machine alive: it launches the game through RageMP,\nheartbeats to the control server, ships logs, and keeps itself up to date.",
	Version:       version.BuildVersion,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	for _, c := range rootCmd.Commands() {
		WrapCommandWithSentry(c)
	}

	executed, err := rootCmd.ExecuteC()
	if err != nil {
		var cancellation *tui.CancellationError
		if errors.As(err, &cancellation) {
			fmt.Println(cancellation.Error())
			return
		}
		CaptureCommandError(executed, err)
		PrintError(err)
		os.Exit(1)
	}
}

func init() {
	tui.InitCommonStyles(os.Stdout)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		notifyIfOutdated(cmd)
		return nil
	}

	completionCmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate the autocompletion script for virtbot for the specified shell",
		Run: func(cmd *cobra.Command, args []string) {
			_ = rootCmd.GenBashCompletionV2(os.Stdout, true) //nolint:errcheck // completion generation error is non-fatal
		},
	}

	completionCmd.AddCommand(&cobra.Command{
		Use:   "bash",
		Short: "Generate the autocompletion script for bash",
		Run: func(cmd *cobra.Command, args []string) {
			_ = rootCmd.GenBashCompletionV2(os.Stdout, true) //nolint:errcheck // completion generation error is non-fatal
		},
	})

	completionCmd.AddCommand(&cobra.Command{
		Use:   "zsh",
		Short: "Generate the autocompletion script for zsh",
		Run: func(cmd *cobra.Command, args []string) {
			_ = rootCmd.GenZshCompletion(os.Stdout) //nolint:errcheck // completion generation error is non-fatal
		},
	})

	completionCmd.AddCommand(&cobra.Command{
		Use:   "fish",
		Short: "Generate the autocompletion script for fish",
		Run: func(cmd *cobra.Command, args []string) {
			_ = rootCmd.GenFishCompletion(os.Stdout, true) //nolint:errcheck // completion generation error is non-fatal
		},
	})

	completionCmd.AddCommand(&cobra.Command{
		Use:   "powershell",
		Short: "Generate the autocompletion script for powershell",
		Run: func(cmd *cobra.Command, args []string) {
			_ = rootCmd.GenPowerShellCompletion(os.Stdout) //nolint:errcheck // completion generation error is non-fatal
		},
	})

	rootCmd.AddCommand(completionCmd)
}

// notifyIfOutdated runs before most commands. It finalizes any staged
// Windows swap left by a previous update and prints a one-line notice when
// the server offers a newer build. Installing is left to `virtbot update`
// and the start supervisor; a notice must never block the command the
// operator actually asked for.
func notifyIfOutdated(cmd *cobra.Command) {
	if shouldSkipUpdateCheck(cmd) {
		return
	}

	if os.Getenv("VIRTBOT_NO_SELFUPDATE") == "1" {
		return
	}

	if err := autoupdate.FinalizeStagedSwap(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to finalize staged update: %v\n", err)
	}

	appDir := config.AppDir()
	if autoupdate.InGitWorkTree(appDir) {
		// Checkout installs update via git, not release downloads.
		return
	}

	cfg, err := config.Load(appDir)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	res, err := updatecheck.Check(ctx, api.NewClient(cfg.APIURL), version.Current(appDir), false)
	if err != nil || res.Skipped || !res.Outdated {
		return
	}

	fmt.Printf("⚠ Update available: %s → %s. Run 'virtbot update' to install.\n",
		displayVersion(res.CurrentVersion), displayVersion(res.LatestVersion))
}

func displayVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		return v
	}
	return "v" + v
}

func shouldSkipUpdateCheck(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	for current := cmd; current != nil; current = current.Parent() {
		switch current.Name() {
		case "help", "completion", "version", "stop", "status":
			return true
		}

		if current.Annotations != nil && current.Annotations["skipUpdateCheck"] == "true" {
			return true
		}
	}

	if helpFlag := cmd.Flags().Lookup("help"); helpFlag != nil && helpFlag.Changed {
		return true
	}

	return false
}
