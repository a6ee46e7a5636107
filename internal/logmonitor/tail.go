package logmonitor

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Tailer reads complete appended lines from a single file, remembering its
// offset between reads. Truncation resets the offset.
type Tailer struct {
	path   string
	offset int64
}

func NewTailer(path string) *Tailer {
	return &Tailer{path: path}
}

func (t *Tailer) Path() string {
	return t.path
}

// ReadNew returns the complete lines appended since the last call. A missing
// file yields no lines and no error; a trailing partial line stays in the
// file until its newline arrives.
func (t *Tailer) ReadNew() ([]string, error) {
	f, err := os.Open(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < t.offset {
		t.offset = 0
	}
	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return nil, err
	}

	var lines []string
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			t.offset += int64(len(line))
			if trimmed := strings.TrimRight(line, "\r\n"); trimmed != "" {
				lines = append(lines, trimmed)
			}
			continue
		}
		if err == io.EOF {
			// Partial line: leave the offset before it.
			return lines, nil
		}
		return lines, err
	}
}
