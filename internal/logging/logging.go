package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// TimeFormat is the timestamp layout used in log lines. The monitor parses
// lines back with the same `ts | LEVEL | message` shape.
const TimeFormat = "2006-01-02 15:04:05"

// FilePath returns the daily log file for t under dir.
func FilePath(dir string, t time.Time) string {
	return filepath.Join(dir, t.Format("2006-01-02")+".log")
}

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

// Logger writes pipe-delimited lines to the console and to a daily file under
// the logs directory. The file rolls over at date change.
type Logger struct {
	mu      sync.Mutex
	dir     string
	console io.Writer
	file    *os.File
	fileDay string
	now     func() time.Time
}

// New creates a logger writing files under logsDir and console output to
// stdout. The logs directory must already exist.
func New(logsDir string) (*Logger, error) {
	l := &Logger{
		dir:     logsDir,
		console: os.Stdout,
		now:     time.Now,
	}
	if err := l.rotate(l.now()); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Logger) rotate(t time.Time) error {
	day := t.Format("2006-01-02")
	if l.file != nil && day == l.fileDay {
		return nil
	}
	if l.file != nil {
		_ = l.file.Close()
	}
	f, err := os.OpenFile(FilePath(l.dir, t), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	l.file = f
	l.fileDay = day
	return nil
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := l.now()
	line := fmt.Sprintf("%s | %-5s | %s", t.Format(TimeFormat), level, fmt.Sprintf(format, args...))

	if err := l.rotate(t); err == nil {
		fmt.Fprintln(l.file, line)
	}

	// Debug stays file-only, matching the quieter console of the original.
	if level == LevelDebug {
		return
	}
	switch level {
	case LevelWarn:
		warnColor.Fprintln(l.console, line)
	case LevelError:
		errorColor.Fprintln(l.console, line)
	default:
		fmt.Fprintln(l.console, line)
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }

// Close releases the current log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
