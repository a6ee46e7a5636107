// Package logmonitor tails the client's daily log file and ships notable
// lines to the control server. It runs as an independent process so that a
// crashed client still gets its last lines reported.
package logmonitor

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leetpc/virtbot/internal/logging"
)

// CrashContextLines is how many preceding lines a crash report carries.
const CrashContextLines = 20

// Handler receives each appended line with its parsed form and the preceding
// context ring.
type Handler func(raw string, entry Entry, context []string)

// Monitor watches the logs directory, following the current day's file and
// rolling over at date change. fsnotify wakes it on writes; a one second
// ticker covers filesystems where watches are unreliable.
type Monitor struct {
	dir  string
	ring []string
	tail *Tailer
	now  func() time.Time
}

func New(logsDir string) *Monitor {
	return &Monitor{
		dir: logsDir,
		now: time.Now,
	}
}

// CurrentFile is the log file the monitor is (or will be) following.
func (m *Monitor) CurrentFile() string {
	return logging.FilePath(m.dir, m.now())
}

// Run blocks, delivering appended lines to fn until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context, fn Handler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(m.dir); err != nil {
		return err
	}

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	m.drain(fn)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				m.drain(fn)
			}
		case <-watcher.Errors:
			// Watch errors degrade to polling.
		case <-ticker.C:
			m.drain(fn)
		}
	}
}

func (m *Monitor) drain(fn Handler) {
	current := m.CurrentFile()
	if m.tail == nil || m.tail.Path() != current {
		m.tail = NewTailer(current)
	}

	lines, err := m.tail.ReadNew()
	if err != nil {
		return
	}
	for _, line := range lines {
		m.ring = append(m.ring, line)
		if len(m.ring) > CrashContextLines*2 {
			m.ring = m.ring[len(m.ring)-CrashContextLines:]
		}
		fn(line, ParseLine(line), m.contextLines())
	}
}

func (m *Monitor) contextLines() []string {
	if len(m.ring) <= CrashContextLines {
		return append([]string(nil), m.ring...)
	}
	return append([]string(nil), m.ring[len(m.ring)-CrashContextLines:]...)
}
