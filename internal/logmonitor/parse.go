package logmonitor

import "strings"

// Entry is a parsed log line.
type Entry struct {
	Timestamp string
	Level     string
	Message   string
}

// ParseLine splits a `ts | LEVEL | message` line. Lines in any other shape
// come back as INFO with the raw text as the message.
func ParseLine(line string) Entry {
	line = strings.TrimSpace(line)
	parts := strings.SplitN(line, " | ", 3)
	if len(parts) == 3 {
		return Entry{
			Timestamp: strings.TrimSpace(parts[0]),
			Level:     strings.ToUpper(strings.TrimSpace(parts[1])),
			Message:   strings.TrimSpace(parts[2]),
		}
	}
	return Entry{Level: "INFO", Message: line}
}

var crashPatterns = []string{
	"panic:",
	"fatal error:",
	"runtime error:",
	"CRITICAL",
	"Fatal error",
	"Segmentation fault",
	"killed",
}

// IsCrashIndicator reports whether a line looks like the client went down
// hard rather than logging an ordinary error.
func IsCrashIndicator(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range crashPatterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
