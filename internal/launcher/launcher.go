// Package launcher drives the external game stack: the RageMP updater and
// launcher executables, and the processes they spawn.
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/leetpc/virtbot/internal/config"
)

// Logger is the subset of the logging API the launcher needs.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// GameProcesses is everything `virtbot stop` tears down, launchers and
// helpers included.
var GameProcesses = []string{
	"GTA5.exe",
	"PlayGTAV.exe",
	"ragemp_v.exe",
	"ragemp.exe",
	"rage_bootstrapper_launcher.exe",
	"EpicGamesLauncher.exe",
	"EpicWebHelper.exe",
	"RockstarErrorHandler.exe",
	"Rockstar-Launcher-Bootstrapper.exe",
	"RockstarService.exe",
	"Launcher.exe",
	"SocialClubHelper.exe",
}

const gtaProcess = "GTA5.exe"

// Poll and settle timings, injectable for tests.
var (
	waitPollInterval = 1 * time.Second
	detachPause      = 1 * time.Second
	launchSettle     = 2 * time.Second
	gameStartTimeout = 60 * time.Second
)

// Run starts an executable. With wait set it blocks until the process exits
// (or ctx is done) and reports a non-zero exit as an error; otherwise it
// detaches after a short settle pause. cwd defaults to the executable's
// directory — the RageMP updater refuses to run from anywhere else.
func Run(ctx context.Context, exePath, cwd string, wait bool) error {
	if _, err := os.Stat(exePath); err != nil {
		return fmt.Errorf("file not found: %s", exePath)
	}
	if cwd == "" {
		cwd = filepath.Dir(exePath)
	}

	cmd := exec.CommandContext(ctx, exePath)
	cmd.Dir = cwd

	if wait {
		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("timeout waiting for %s: %w", filepath.Base(exePath), ctx.Err())
			}
			return fmt.Errorf("run %s: %w", filepath.Base(exePath), err)
		}
		return nil
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", filepath.Base(exePath), err)
	}
	// Detach: the game outlives us.
	_ = cmd.Process.Release()
	time.Sleep(detachPause)
	return nil
}

// WaitForProcess polls until a process with the given image name appears, up
// to the timeout. Returns false when it never shows up.
func WaitForProcess(ctx context.Context, name string, timeout time.Duration, log Logger) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for waited := 0; time.Now().Before(deadline); waited++ {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
		if processRunning(name) {
			return true
		}
		if log != nil && waited > 0 && waited%10 == 0 {
			log.Infof("   Still waiting... (%ds)", waited)
		}
	}
	return false
}

// LaunchGame runs the full start sequence: RageMP updater (waits, bounded),
// RageMP launcher (fire and forget), then waits for the game process.
func LaunchGame(ctx context.Context, paths config.GamePaths, log Logger) error {
	log.Infof("Launching game stack")

	updaterCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	err := Run(updaterCtx, paths.RageMPUpdater, paths.RageMPDir, true)
	cancel()
	if err != nil {
		log.Warnf("RageMP updater failed, trying to launch anyway: %v", err)
	} else {
		log.Infof("RageMP update completed")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(launchSettle):
	}

	if err := Run(ctx, paths.RageMPLauncher, paths.RageMPDir, false); err != nil {
		return fmt.Errorf("start RageMP: %w", err)
	}

	log.Infof("Waiting for %s to start...", gtaProcess)
	if !WaitForProcess(ctx, gtaProcess, gameStartTimeout, log) {
		log.Warnf("%s did not start within %s", gtaProcess, gameStartTimeout)
		return nil
	}
	log.Infof("GTA V is running")
	return nil
}

// IsGameRunning reports whether the main game process is up.
func IsGameRunning() bool {
	return processRunning(gtaProcess)
}

// IsRageMPRunning reports whether either known RageMP client image is up.
func IsRageMPRunning() bool {
	return processRunning("ragemp_v.exe") || processRunning("ragemp.exe")
}
