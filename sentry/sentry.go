// Package sentry wraps sentry-go for crash and error reporting. Events are
// tagged with the machine name so the farm dashboard can group reports per
// box. An empty DSN disables reporting entirely, which is the default for
// dev builds.
package sentry

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds reporting configuration.
type Config struct {
	DSN         string
	Environment string // "dev" or "production"
	Release     string // e.g. "virtbot-v1.4.0"
	Debug       bool
	SampleRate  float64

	// FilteredErrors drops events whose message contains any of these
	// substrings. Used for expected network blips that would otherwise
	// dominate the project.
	FilteredErrors []string

	MachineName string
}

// DefaultFilteredErrors are transient conditions not worth a Sentry event.
var DefaultFilteredErrors = []string{
	"context canceled",
	"connection refused",
	"no such host",
	"i/o timeout",
	"TLS handshake timeout",
}

// Init initializes the Sentry client. A missing DSN is not an error; the
// client simply stays disabled.
func Init(cfg Config) error {
	if cfg.DSN == "" {
		return nil
	}
	if cfg.MachineName == "" {
		if host, err := os.Hostname(); err == nil {
			cfg.MachineName = host
		}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
		SampleRate:       cfg.SampleRate,

		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			for _, filtered := range cfg.FilteredErrors {
				if event.Message != "" && strings.Contains(event.Message, filtered) {
					return nil
				}
				for _, exception := range event.Exception {
					if strings.Contains(exception.Value, filtered) {
						return nil
					}
				}
			}
			if event.Extra == nil {
				event.Extra = make(map[string]interface{})
			}
			event.Extra["machine_name"] = cfg.MachineName
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize Sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("service", "virtbot")
		scope.SetTag("environment", cfg.Environment)
		if cfg.MachineName != "" {
			scope.SetTag("machine_name", cfg.MachineName)
		}
	})
	return nil
}

// Flush flushes buffered events with timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// CaptureError captures an error with typed options.
func CaptureError(err error, opts *EventOptions) *sentry.EventID {
	if err == nil {
		return nil
	}

	var eventID *sentry.EventID
	sentry.WithScope(func(scope *sentry.Scope) {
		applyOptions(scope, opts)
		eventID = sentry.CaptureException(err)
	})
	return eventID
}

// AddBreadcrumb adds a breadcrumb for context tracking. Breadcrumbs attach
// to all subsequent events in the same scope.
func AddBreadcrumb(category, message string, data map[string]interface{}, level Level) {
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:      "default",
		Category:  category,
		Message:   message,
		Data:      data,
		Level:     sentry.Level(level),
		Timestamp: time.Now(),
	})
}

// CapturePanic is deferred at process entry. It recovers, reports with fatal
// level, flushes, and re-panics so the process still dies visibly.
func CapturePanic(opts *EventOptions) {
	if r := recover(); r != nil {
		sentry.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(sentry.LevelFatal)
			applyOptions(scope, opts)
			sentry.CurrentHub().Recover(r)
		})
		sentry.Flush(5 * time.Second)
		panic(r)
	}
}

func applyOptions(scope *sentry.Scope, opts *EventOptions) {
	if opts == nil {
		return
	}
	if opts.Tags != nil {
		for k, v := range opts.Tags.ToMap() {
			scope.SetTag(k, v)
		}
	}
	if opts.Extra != nil {
		for k, v := range opts.Extra.ToMap() {
			scope.SetExtra(k, v)
		}
	}
	if opts.Level != nil {
		scope.SetLevel(*opts.Level)
	}
	if opts.Fingerprint != nil {
		scope.SetFingerprint(opts.Fingerprint)
	}
}

// Level is a Sentry severity level (re-exported for convenience).
type Level = sentry.Level

const (
	LevelDebug   = sentry.LevelDebug
	LevelInfo    = sentry.LevelInfo
	LevelWarning = sentry.LevelWarning
	LevelError   = sentry.LevelError
	LevelFatal   = sentry.LevelFatal
)

// Environment maps a dev build to the "dev" environment, anything else to
// "production" unless ENVIRONMENT overrides it.
func Environment(dev bool) string {
	if dev {
		return "dev"
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		return env
	}
	return "production"
}
