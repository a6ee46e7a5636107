package logmonitor

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// LogSender ships a log line upstream. *api.Client satisfies it.
type LogSender interface {
	SendLog(ctx context.Context, level, message string, extra map[string]any) error
}

// Shipper forwards parsed log entries to the server. Ordinary lines are rate
// limited so a log storm cannot flood the server; crash reports always go
// through.
type Shipper struct {
	sender  LogSender
	levels  map[string]bool
	limiter *rate.Limiter
	machine string
	now     func() time.Time
}

// DefaultShipLevels mirrors the debug-mode monitor: everything goes upstream.
var DefaultShipLevels = []string{"DEBUG", "INFO", "WARN", "WARNING", "ERROR", "CRITICAL"}

func NewShipper(sender LogSender, machineName string, levels []string) *Shipper {
	lv := make(map[string]bool, len(levels))
	for _, l := range levels {
		lv[strings.ToUpper(l)] = true
	}
	return &Shipper{
		sender:  sender,
		levels:  lv,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		machine: machineName,
		now:     time.Now,
	}
}

// Handle is the Monitor handler: crash indicators become crash reports with
// context, everything else ships subject to level filter and rate limit.
// Returns what it did for console feedback ("crash", "sent", "").
func (s *Shipper) Handle(ctx context.Context, raw string, entry Entry, contextLines []string) string {
	if IsCrashIndicator(raw) {
		s.sendCrashReport(ctx, raw, contextLines)
		return "crash"
	}
	if !s.levels[entry.Level] {
		return ""
	}
	if !s.limiter.Allow() {
		return ""
	}
	if err := s.sender.SendLog(ctx, strings.ToLower(entry.Level), entry.Message, nil); err != nil {
		return ""
	}
	return "sent"
}

func (s *Shipper) sendCrashReport(ctx context.Context, crashLine string, contextLines []string) {
	msg := crashLine
	if len(msg) > 200 {
		msg = msg[:200]
	}
	_ = s.sender.SendLog(ctx, "error", "CRASH DETECTED: "+msg, map[string]any{
		"context":    strings.Join(contextLines, "\n"),
		"crash_line": crashLine,
		"pc_name":    s.machine,
		"timestamp":  s.now().Format(time.RFC3339),
	})
}
