package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	sentrygo "github.com/getsentry/sentry-go"

	"github.com/leetpc/virtbot/cmd"
	"github.com/leetpc/virtbot/internal/console"
	"github.com/leetpc/virtbot/internal/version"
	"github.com/leetpc/virtbot/sentry"
)

func main() {
	console.Init()

	if err := initSentry(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer sentry.Flush(5 * time.Second)

	defer func() {
		if r := recover(); r != nil {
			sentrygo.CurrentHub().Recover(r)
			sentry.Flush(5 * time.Second)
			panic(r)
		}
	}()

	cmd.Execute()
}

func initSentry() error {
	// DSN is injected at build time. Empty disables reporting.
	if version.SentryDSN == "" {
		return nil
	}

	machine := os.Getenv("COMPUTERNAME")
	if machine == "" {
		machine, _ = os.Hostname()
	}

	err := sentry.Init(sentry.Config{
		DSN:            version.SentryDSN,
		Environment:    sentry.Environment(version.IsDev()),
		Release:        fmt.Sprintf("virtbot@%s", version.BuildVersion),
		SampleRate:     1.0,
		FilteredErrors: sentry.DefaultFilteredErrors,
		MachineName:    machine,
	})
	if err != nil {
		return err
	}

	sentrygo.ConfigureScope(func(scope *sentrygo.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
		scope.SetTag("go_version", runtime.Version())
		scope.SetTag("build_commit", version.BuildCommit)
	})
	return nil
}
