package logmonitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendTo(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestReadNewMissingFile(t *testing.T) {
	tail := NewTailer(filepath.Join(t.TempDir(), "absent.log"))
	lines, err := tail.ReadNew()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestReadNewIncremental(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2026-08-25.log")
	tail := NewTailer(path)

	appendTo(t, path, "first\nsecond\n")
	lines, err := tail.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, lines)

	// Nothing new.
	lines, err = tail.ReadNew()
	require.NoError(t, err)
	assert.Empty(t, lines)

	appendTo(t, path, "third\n")
	lines, err = tail.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, []string{"third"}, lines)
}

func TestReadNewPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2026-08-25.log")
	tail := NewTailer(path)

	appendTo(t, path, "complete\npart")
	lines, err := tail.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, []string{"complete"}, lines)

	appendTo(t, path, "ial\n")
	lines, err = tail.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, []string{"partial"}, lines)
}

func TestReadNewTruncationResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2026-08-25.log")
	tail := NewTailer(path)

	appendTo(t, path, "one\ntwo\nthree\n")
	_, err := tail.ReadNew()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("fresh\n"), 0o644))
	lines, err := tail.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, lines)
}

func TestReadNewSkipsCRLFAndBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2026-08-25.log")
	tail := NewTailer(path)

	appendTo(t, path, "windows line\r\n\r\nnext\n")
	lines, err := tail.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, []string{"windows line", "next"}, lines)
}
