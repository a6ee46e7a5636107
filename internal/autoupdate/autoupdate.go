// Package autoupdate replaces the running virtbot binary with a newer build
// downloaded from the control server, and handles git-based updates for
// development checkouts.
package autoupdate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Source identifies the build to install.
type Source struct {
	Version  string
	AssetURL string
	SHA256   string
}

// PerformUpdate downloads, verifies and installs the given build over the
// current executable. On Windows the new binary is staged beside the
// executable and swapped in on the next run; on Unix the replacement is an
// atomic rename.
func PerformUpdate(ctx context.Context, src Source) error {
	if src.AssetURL == "" {
		return errors.New("no download URL provided")
	}

	exe, err := currentExecutable()
	if err != nil {
		return err
	}
	if isPMManaged(exe) {
		return errors.New("managed by package manager")
	}

	tmpDir, err := os.MkdirTemp("", "virtbot-update-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	newBinary := filepath.Join(tmpDir, filepath.Base(exe))
	if err := downloadFile(ctx, src.AssetURL, newBinary); err != nil {
		return fmt.Errorf("download asset: %w", err)
	}

	if src.SHA256 != "" {
		if err := verifySHA256(newBinary, src.SHA256); err != nil {
			return fmt.Errorf("checksum verification failed: %w", err)
		}
	}

	if err := os.Chmod(newBinary, 0o755); err != nil {
		return err
	}

	if runtime.GOOS == "windows" {
		return stageSwapAt(exe, newBinary, src.Version)
	}

	dir := filepath.Dir(exe)
	if !dirWritable(dir) {
		return fmt.Errorf("installation path requires elevated permissions: %s", dir)
	}

	tmpTarget := filepath.Join(dir, ".virtbot-tmp")
	if err := copyFile(newBinary, tmpTarget); err != nil {
		return err
	}
	if err := os.Chmod(tmpTarget, 0o755); err != nil {
		return err
	}
	if err := os.Rename(tmpTarget, exe); err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	return nil
}

// stageSwapAt writes the staged binary and marker next to exe. Windows cannot
// replace a running executable, so the swap happens on the next run.
func stageSwapAt(exe, newBinary, version string) error {
	dir := filepath.Dir(exe)
	staged := exe + ".new"
	if err := copyFile(newBinary, staged); err != nil {
		return fmt.Errorf("stage new binary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".virtbot-update"), []byte(version), 0o644); err != nil {
		return fmt.Errorf("write update marker: %w", err)
	}
	return nil
}

// FinalizeStagedSwap applies a previously staged update, if one exists. Safe
// to call on every startup.
func FinalizeStagedSwap() error {
	exe, err := currentExecutable()
	if err != nil {
		return err
	}
	return finalizeSwapAt(exe)
}

func finalizeSwapAt(exe string) error {
	staged := exe + ".new"
	if _, err := os.Stat(staged); err != nil {
		return nil
	}

	old := exe + ".old"
	_ = os.Remove(old)
	if err := os.Rename(exe, old); err != nil {
		return err
	}
	if err := os.Rename(staged, exe); err != nil {
		// Roll the previous binary back into place.
		_ = os.Rename(old, exe)
		return err
	}
	_ = os.Remove(filepath.Join(filepath.Dir(exe), ".virtbot-update"))
	_ = os.Remove(old)
	return nil
}

// Restart launches a fresh copy of the current executable with the same
// arguments and working directory. The caller is expected to exit afterward.
func Restart(appDir string) error {
	exe, err := currentExecutable()
	if err != nil {
		return err
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Dir = appDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("relaunch: %w", err)
	}
	return nil
}

// --- helpers ---

func downloadFile(ctx context.Context, url, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return err
	}
	return out.Sync()
}

func verifySHA256(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(sum, strings.TrimSpace(expected)) {
		return fmt.Errorf("sha256 mismatch: got %s, want %s", sum, expected)
	}
	return nil
}

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}

func dirWritable(dir string) bool {
	test := filepath.Join(dir, ".virtbot-write-test")
	if err := os.WriteFile(test, []byte("x"), 0o644); err != nil {
		return false
	}
	_ = os.Remove(test)
	return true
}

func isPMManaged(binPath string) bool {
	p := strings.ToLower(binPath)
	return strings.Contains(p, "/opt/homebrew/") ||
		strings.Contains(p, "/usr/local/cellar/") ||
		strings.Contains(p, `\scoop\apps\`) ||
		strings.Contains(p, "windowsapps")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
