package cmd

import (
	"errors"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/leetpc/virtbot/internal/version"
	"github.com/leetpc/virtbot/sentry"
	"github.com/leetpc/virtbot/tui"
)

// WrapCommandWithSentry wraps a cobra.Command's Run and RunE functions to
// capture panics before the process dies.
func WrapCommandWithSentry(cmd *cobra.Command) {
	panicOpts := func() *sentry.EventOptions {
		return &sentry.EventOptions{
			Tags: sentry.NewTags().
				Set("command", cmd.Name()).
				Set("version", version.BuildVersion),
		}
	}

	if cmd.Run != nil {
		originalRun := cmd.Run
		cmd.Run = func(c *cobra.Command, args []string) {
			defer sentry.CapturePanic(panicOpts())
			originalRun(c, args)
		}
	}

	if cmd.RunE != nil {
		originalRunE := cmd.RunE
		cmd.RunE = func(c *cobra.Command, args []string) error {
			defer sentry.CapturePanic(panicOpts())
			return originalRunE(c, args)
		}
	}
}

// CaptureCommandError reports a command failure to Sentry. User
// cancellations are not failures and are dropped.
func CaptureCommandError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}

	var cancellationErr *tui.CancellationError
	if errors.As(err, &cancellationErr) {
		return
	}

	eventID := sentry.CaptureError(err, &sentry.EventOptions{
		Tags: sentry.NewTags().
			Set("command", cmd.Name()).
			Set("version", version.BuildVersion).
			Set("error_type", getErrorType(err)),
		Extra: sentry.NewExtra().
			Set("args", cmd.Flags().Args()),
		Level: ptr(levelForError(err)),
	})

	if eventID != nil {
		// os.Exit skips deferred flushes, so flush here.
		sentry.Flush(2 * time.Second)
	}
}

func ptr[T any](v T) *T {
	return &v
}

func levelForError(err error) sentrygo.Level {
	errType := getErrorType(err)
	switch errType {
	case "network_error", "not_found":
		return sentrygo.LevelWarning
	case "ip_blocked":
		return sentrygo.LevelWarning
	default:
		return sentrygo.LevelError
	}
}
