package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const lockStaleAfter = 30 * time.Minute

// SupervisorLock guards against two `virtbot start` supervisors running over
// the same app directory.
type SupervisorLock struct {
	lockPath string
}

func lockPath(dataDir string) string {
	return filepath.Join(dataDir, "virtbot.lock")
}

// AcquireSupervisorLock takes the exclusive supervisor lock, cleaning up
// stale locks left by dead or ancient processes. Uses O_EXCL for atomicity.
func AcquireSupervisorLock(dataDir string) (*SupervisorLock, error) {
	path := lockPath(dataDir)

	if data, err := os.ReadFile(path); err == nil {
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) >= 2 {
			pid, pidErr := strconv.Atoi(lines[0])
			ts, tsErr := strconv.ParseInt(lines[1], 10, 64)
			if pidErr == nil && tsErr == nil {
				age := time.Since(time.Unix(ts, 0))
				if isProcessAlive(pid) && age < lockStaleAfter {
					return nil, fmt.Errorf("another virtbot supervisor is already running (pid %d)", pid)
				}
			}
		}
		_ = os.Remove(path) // stale lock
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another virtbot supervisor is already running")
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	_, _ = fmt.Fprintf(file, "%d\n%d\n", os.Getpid(), time.Now().Unix())
	_ = file.Close()

	return &SupervisorLock{lockPath: path}, nil
}

// SupervisorRunning reports whether a live supervisor holds the lock.
func SupervisorRunning(dataDir string) bool {
	data, err := os.ReadFile(lockPath(dataDir))
	if err != nil {
		return false
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 2 {
		return false
	}
	pid, pidErr := strconv.Atoi(lines[0])
	ts, tsErr := strconv.ParseInt(lines[1], 10, 64)
	if pidErr != nil || tsErr != nil {
		return false
	}
	return isProcessAlive(pid) && time.Since(time.Unix(ts, 0)) < lockStaleAfter
}

// Release removes the lock file.
func (l *SupervisorLock) Release() {
	if l == nil {
		return
	}
	_ = os.Remove(l.lockPath)
}
