package logmonitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorDeliversAppendedLines(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)

	appendTo(t, m.CurrentFile(), "2026-08-25 13:45:07 | INFO  | already there\n")

	var mu sync.Mutex
	var got []Entry
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(ctx, func(raw string, entry Entry, contextLines []string) {
			mu.Lock()
			got = append(got, entry)
			if len(got) >= 2 {
				cancel()
			}
			mu.Unlock()
		})
	}()

	time.Sleep(200 * time.Millisecond)
	appendTo(t, m.CurrentFile(), "2026-08-25 13:45:08 | ERROR | launch failed\n")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not deliver lines in time")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, "already there", got[0].Message)
	assert.Equal(t, "ERROR", got[1].Level)
}

func TestMonitorContextRingCapped(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)

	var content string
	for i := 0; i < CrashContextLines*3; i++ {
		content += "2026-08-25 13:45:07 | INFO  | filler\n"
	}
	appendTo(t, m.CurrentFile(), content)

	var lastContext []string
	m.drain(func(raw string, entry Entry, contextLines []string) {
		lastContext = contextLines
	})

	assert.Len(t, lastContext, CrashContextLines)
}

func TestMonitorCurrentFileMatchesDate(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)
	m.now = func() time.Time { return time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC) }

	assert.Contains(t, m.CurrentFile(), "2026-08-25.log")

	// Day rollover moves the tail to the new file.
	m.now = func() time.Time { return time.Date(2026, 8, 26, 0, 0, 5, 0, time.UTC) }
	assert.Contains(t, m.CurrentFile(), "2026-08-26.log")
}

func TestMonitorRunFailsOnMissingDir(t *testing.T) {
	m := New("/nonexistent/virtbot/logs")
	err := m.Run(context.Background(), func(string, Entry, []string) {})
	require.Error(t, err)
}
