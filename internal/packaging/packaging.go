// Package packaging produces the distributable client binary under dist/.
// A build runs the configured pre-build command (if any), stages the binary
// as dist/VirtBot[.exe], and writes a checksum file plus a small manifest so
// the control server can serve the artifact for client updates.
package packaging

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// ArtifactBase is the artifact name without extension.
const ArtifactBase = "VirtBot"

// Options configures a build.
type Options struct {
	// AppDir is the working directory for the pre-build command.
	AppDir string
	// DistDir is where the artifact lands.
	DistDir string
	// Command is an optional shell command run before staging, e.g. a
	// `go build` invocation from config.json. Empty means skip.
	Command string
	// SourceBinary is the binary to stage. Empty means the running
	// executable.
	SourceBinary string

	Version string
	Commit  string
}

// Manifest describes a built artifact. It sits next to the artifact as
// manifest.json.
type Manifest struct {
	Version string    `json:"version"`
	Commit  string    `json:"commit,omitempty"`
	OS      string    `json:"os"`
	Arch    string    `json:"arch"`
	Asset   string    `json:"asset"`
	SHA256  string    `json:"sha256"`
	BuiltAt time.Time `json:"built_at"`
}

// ArtifactName is the platform artifact file name.
func ArtifactName() string {
	if runtime.GOOS == "windows" {
		return ArtifactBase + ".exe"
	}
	return ArtifactBase
}

// Build runs the build and returns the staged artifact path.
func Build(ctx context.Context, opts Options) (string, error) {
	if opts.Command != "" {
		if err := runShell(ctx, opts.AppDir, opts.Command); err != nil {
			return "", fmt.Errorf("build command failed: %w", err)
		}
	}

	source := opts.SourceBinary
	if source == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to locate executable: %w", err)
		}
		source = exe
	}

	if err := os.MkdirAll(opts.DistDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create dist directory: %w", err)
	}

	artifact := filepath.Join(opts.DistDir, ArtifactName())
	if err := copyFile(source, artifact); err != nil {
		return "", fmt.Errorf("failed to stage artifact: %w", err)
	}

	sum, err := fileSHA256(artifact)
	if err != nil {
		return "", fmt.Errorf("failed to checksum artifact: %w", err)
	}

	checksums := fmt.Sprintf("%s  %s\n", sum, ArtifactName())
	if err := os.WriteFile(filepath.Join(opts.DistDir, "checksums.txt"), []byte(checksums), 0o644); err != nil {
		return "", fmt.Errorf("failed to write checksums: %w", err)
	}

	manifest := Manifest{
		Version: opts.Version,
		Commit:  opts.Commit,
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Asset:   ArtifactName(),
		SHA256:  sum,
		BuiltAt: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(opts.DistDir, "manifest.json"), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return artifact, nil
}

// Verify checks that the artifact exists and matches its recorded checksum.
// It returns the artifact path so callers can report it.
func Verify(distDir string) (string, error) {
	artifact := filepath.Join(distDir, ArtifactName())
	info, err := os.Stat(artifact)
	if err != nil {
		return "", fmt.Errorf("artifact %s missing: %w", ArtifactName(), err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("artifact %s is empty", ArtifactName())
	}

	data, err := os.ReadFile(filepath.Join(distDir, "manifest.json"))
	if err != nil {
		// No manifest means an externally produced dist. Presence is
		// enough.
		return artifact, nil
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("invalid manifest: %w", err)
	}
	if manifest.SHA256 != "" {
		sum, err := fileSHA256(artifact)
		if err != nil {
			return "", err
		}
		if sum != manifest.SHA256 {
			return "", fmt.Errorf("artifact checksum mismatch: built %s, manifest %s", sum, manifest.SHA256)
		}
	}
	return artifact, nil
}

func runShell(ctx context.Context, dir, command string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
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
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
