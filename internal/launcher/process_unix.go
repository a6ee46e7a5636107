//go:build !windows
// +build !windows

package launcher

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// IsProcessRunning checks for a process by name via pgrep. Windows-style
// image names lose their .exe suffix before matching.
func IsProcessRunning(name string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pgrep", "-x", trimExe(name))
	return cmd.Run() == nil
}

func terminateProcess(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "pkill", "-x", trimExe(name)).Run()
}

func killProcess(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return exec.CommandContext(ctx, "pkill", "-9", "-x", trimExe(name)).Run()
}

func isProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

func trimExe(name string) string {
	return strings.TrimSuffix(strings.TrimSuffix(name, ".exe"), ".EXE")
}
